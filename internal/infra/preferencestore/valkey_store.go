package preferencestore

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/outfit-advisor/internal/domain/preference"
)

// ValkeyStore keeps each user's window as a capped list, newest at the head.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "prefs"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Append implements preference.Store.
func (s *ValkeyStore) Append(ctx context.Context, userID string, events []preference.Event, window int) error {
	if len(events) == 0 {
		return nil
	}
	payloads := make([]string, 0, len(events))
	for _, ev := range events {
		raw, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		payloads = append(payloads, string(raw))
	}
	key := s.eventsKey(userID)
	cmds := valkey.Commands{s.client.B().Lpush().Key(key).Element(payloads...).Build()}
	if window > 0 {
		cmds = append(cmds, s.client.B().Ltrim().Key(key).Start(0).Stop(int64(window-1)).Build())
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Recent implements preference.Store.
func (s *ValkeyStore) Recent(ctx context.Context, userID string, limit int) ([]preference.Event, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.client.Do(ctx, s.client.B().Lrange().Key(s.eventsKey(userID)).Start(0).Stop(stop).Build()).AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	events := make([]preference.Event, 0, len(raw))
	for _, item := range raw {
		var ev preference.Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *ValkeyStore) eventsKey(userID string) string {
	return s.prefix + ":events:" + userID
}

var _ preference.Store = (*ValkeyStore)(nil)
