package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests without a trusted client address.
const UnknownClient = "unknown"

var platformHeaders = map[string]string{
	"cloudflare": "CF-Connecting-IP",
	"vercel":     "X-Vercel-Forwarded-For",
	"fly":        "Fly-Client-IP",
	"netlify":    "X-Nf-Client-Connection-Ip",
	"akamai":     "True-Client-IP",
}

// IdentityConfig decides which forwarded headers may be believed.
type IdentityConfig struct {
	// Platform names the deployment platform whose edge sets a trusted client header.
	Platform string
	// TrustedHeader is only honored when it is the header Platform is known to set.
	TrustedHeader string
	// TrustForwardedFor opts into the generic X-Forwarded-For / X-Real-IP headers.
	TrustForwardedFor bool
}

// PlatformHeader reports the trusted header for the configured platform, if any.
func (c IdentityConfig) PlatformHeader() string {
	header, ok := platformHeaders[strings.ToLower(strings.TrimSpace(c.Platform))]
	if !ok {
		return ""
	}
	if c.TrustedHeader != "" && !strings.EqualFold(c.TrustedHeader, header) {
		return ""
	}
	return header
}

// ClientIP derives the client address used as part of the limiter key.
func ClientIP(headers http.Header, cfg IdentityConfig) string {
	if header := cfg.PlatformHeader(); header != "" {
		if ip := firstValidIP(headers.Get(header)); ip != "" {
			return ip
		}
	}
	if cfg.TrustForwardedFor {
		if ip := firstValidIP(headers.Get("X-Forwarded-For")); ip != "" {
			return ip
		}
		if ip := firstValidIP(headers.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	return UnknownClient
}

func firstValidIP(value string) string {
	if value == "" {
		return ""
	}
	first, _, _ := strings.Cut(value, ",")
	ip := net.ParseIP(strings.TrimSpace(first))
	if ip == nil {
		return ""
	}
	return ip.String()
}
