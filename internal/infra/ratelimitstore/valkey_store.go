package ratelimitstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/outfit-advisor/internal/domain/ratelimit"
)

// incrementLua counts the request and sets the window expiry in one atomic
// step. A key left without expiry is repaired so it cannot block forever.
const incrementLua = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`

var incrementScript = valkey.NewLuaScript(incrementLua)

// ValkeyStore shares fixed-window counters across instances.
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

// Increment implements ratelimit.Store.
func (s *ValkeyStore) Increment(ctx context.Context, key string, size time.Duration) (ratelimit.Counter, error) {
	windowMs := size.Milliseconds()
	if windowMs < 1 {
		windowMs = 1
	}
	values, err := incrementScript.Exec(ctx, s.client, []string{key}, []string{strconv.FormatInt(windowMs, 10)}).AsIntSlice()
	if err != nil {
		return ratelimit.Counter{}, err
	}
	if len(values) != 2 {
		return ratelimit.Counter{}, fmt.Errorf("unexpected rate limit script reply of %d values", len(values))
	}
	return ratelimit.Counter{
		Count: values[0],
		TTL:   time.Duration(values[1]) * time.Millisecond,
	}, nil
}

var _ ratelimit.Store = (*ValkeyStore)(nil)
