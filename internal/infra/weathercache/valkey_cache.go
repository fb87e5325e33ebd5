package weathercache

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

// ValkeyCache shares snapshots across instances; Valkey expires keys itself.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements weather.Cache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (weather.Snapshot, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return weather.Snapshot{}, false, nil
		}
		return weather.Snapshot{}, false, err
	}
	var snap weather.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return weather.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Set implements weather.Cache.
func (c *ValkeyCache) Set(ctx context.Context, key string, snap weather.Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":snapshot:" + key
}

var _ weather.Cache = (*ValkeyCache)(nil)
