package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/yanqian/outfit-advisor/pkg/metrics"
)

// Counter is the state of a fixed window after an increment.
type Counter struct {
	Count int64
	// TTL is the time left until the window resets.
	TTL time.Duration
}

// Store increments a windowed counter. The first increment of a window must
// set its expiry in the same atomic step.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (Counter, error)
}

// Result is a single limiter decision.
type Result struct {
	Allowed           bool  `json:"allowed"`
	Remaining         int   `json:"remaining"`
	Limit             int   `json:"limit"`
	ResetAfterSeconds int   `json:"resetAfterSeconds"`
	ResetAtEpoch      int64 `json:"resetAtEpoch"`
	RetryAfterSeconds int   `json:"retryAfterSeconds,omitempty"`
}

// Limiter applies fixed-window limits on top of a Store.
type Limiter struct {
	store    Store
	fallback Store
	prefix   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewLimiter builds a limiter. fallback serves checks when store fails and may be nil.
func NewLimiter(store, fallback Store, prefix string, logger *slog.Logger) *Limiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Limiter{
		store:    store,
		fallback: fallback,
		prefix:   prefix,
		logger:   logger.With("component", "ratelimit.limiter"),
		now:      time.Now,
	}
}

// Check counts one request for identifier and reports whether it fits in the window.
func (l *Limiter) Check(ctx context.Context, identifier string, window time.Duration, limit int) Result {
	if limit < 1 {
		limit = 1
	}
	if window < time.Second {
		window = time.Second
	}
	key := l.prefix + ":" + identifier

	counter, err := l.store.Increment(ctx, key, window)
	if err != nil {
		l.logger.Warn("rate limit store failed, using in-memory fallback", "key", key, "error", err)
		metrics.RateLimitStoreFallbacks.Inc()
		if l.fallback == nil {
			return l.allowOnError(window, limit)
		}
		counter, err = l.fallback.Increment(ctx, key, window)
		if err != nil {
			l.logger.Error("rate limit fallback store failed", "key", key, "error", err)
			return l.allowOnError(window, limit)
		}
	}

	ttl := counter.TTL
	if ttl <= 0 || ttl > window {
		ttl = window
	}
	resetAfter := int(math.Ceil(ttl.Seconds()))
	res := Result{
		Allowed:           counter.Count <= int64(limit),
		Remaining:         int(max(0, int64(limit)-counter.Count)),
		Limit:             limit,
		ResetAfterSeconds: resetAfter,
		ResetAtEpoch:      l.now().Add(ttl).Add(time.Second - 1).Unix(),
	}
	if !res.Allowed {
		res.RetryAfterSeconds = max(resetAfter, 1)
	}
	metrics.RecordRateLimit(l.prefix, res.Allowed)
	return res
}

func (l *Limiter) allowOnError(window time.Duration, limit int) Result {
	resetAfter := int(math.Ceil(window.Seconds()))
	return Result{
		Allowed:           true,
		Remaining:         limit - 1,
		Limit:             limit,
		ResetAfterSeconds: resetAfter,
		ResetAtEpoch:      l.now().Add(window).Unix(),
	}
}

// Identifier builds the limiter key for a subject and an optional client IP.
func Identifier(subject, ip string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "anonymous"
	}
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == UnknownClient {
		return subject
	}
	return subject + ":" + ip
}
