package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/outfit-advisor/internal/domain/auth"
)

// authMiddleware admits requests with a valid bearer token. Every rejection
// carries the same generic message.
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, errUnauthorized(nil))
			return
		}
		identity, err := svc.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil || !identity.Authorized || identity.UserID == "" {
			abortWithError(c, errUnauthorized(err))
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}
