package auth

import "time"

// Config drives token verification.
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Identity is the pass/fail result consumed by the rest of the service.
type Identity struct {
	Authorized bool
	UserID     string
}

// Claims are extracted from the JWT token.
type Claims struct {
	UserID    string
	TokenType string
	ExpiresAt time.Time
}
