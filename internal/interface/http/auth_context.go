package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/outfit-advisor/internal/domain/auth"
)

const authIdentityKey = "auth_identity"

func setIdentity(c *gin.Context, identity auth.Identity) {
	c.Set(authIdentityKey, identity)
}

func getIdentity(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(authIdentityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
