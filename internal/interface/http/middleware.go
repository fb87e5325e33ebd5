package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/outfit-advisor/internal/domain/ratelimit"
	"github.com/yanqian/outfit-advisor/internal/infra/config"
	"github.com/yanqian/outfit-advisor/pkg/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxRequestIDLen = 64
)

// requestIDMiddleware keeps a well-formed upstream X-Request-ID or mints a UUID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = http.StatusText(httpErr.Status)
		}

		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "request_id", c.GetString(requestIDKey), "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		} else {
			logger.Warn("request failed", "request_id", c.GetString(requestIDKey), "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		}

		body := gin.H{
			"error": message,
			"code":  httpErr.Code,
		}
		if len(httpErr.Details) > 0 {
			body["details"] = httpErr.Details
		}
		c.JSON(httpErr.Status, body)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), latency)
		logger.Info("http request", "request_id", c.GetString(requestIDKey), "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}

// bodyLimitMiddleware caps request bodies; reads past the limit fail with *http.MaxBytesError.
func bodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, codePayloadTooLarge,
				"request body exceeds "+strconv.FormatInt(maxBytes, 10)+" bytes", nil))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// rateLimitMiddleware must run after authMiddleware so the subject is known.
func rateLimitMiddleware(limiter *ratelimit.Limiter, cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if limiter == nil || !cfg.Enabled || cfg.MaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	identity := ratelimit.IdentityConfig{
		Platform:          cfg.Platform,
		TrustedHeader:     cfg.TrustedHeader,
		TrustForwardedFor: cfg.TrustForwardedFor,
	}
	window := cfg.Window()
	return func(c *gin.Context) {
		subject := ""
		if id, ok := getIdentity(c); ok {
			subject = id.UserID
		}
		ip := ratelimit.ClientIP(c.Request.Header, identity)
		key := ratelimit.Identifier(subject, ip)

		result := limiter.Check(c.Request.Context(), key, window, cfg.MaxRequests)
		writeRateLimitHeaders(c.Writer.Header(), result)
		if result.Allowed {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(result.RetryAfterSeconds))
		logger.Warn("rate limit exceeded", "subject", subject, "ip", ip, "path", c.Request.URL.Path)
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, codeRateLimited, "too many requests", nil))
	}
}

func writeRateLimitHeaders(h http.Header, r ratelimit.Result) {
	limit := strconv.Itoa(r.Limit)
	remaining := strconv.Itoa(r.Remaining)
	reset := strconv.Itoa(r.ResetAfterSeconds)
	h.Set("RateLimit-Limit", limit)
	h.Set("RateLimit-Remaining", remaining)
	h.Set("RateLimit-Reset", reset)
	h.Set("X-RateLimit-Limit", limit)
	h.Set("X-RateLimit-Remaining", remaining)
	h.Set("X-RateLimit-Reset", reset)
	h.Set("X-RateLimit-Reset-At", strconv.FormatInt(r.ResetAtEpoch, 10))
}
