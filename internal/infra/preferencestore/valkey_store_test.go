package preferencestore

import (
	"context"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/yanqian/outfit-advisor/internal/domain/preference"
)

func encode(t *testing.T, ev preference.Event) string {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return string(raw)
}

func TestValkeyStoreAppendPushesAndTrimsInOneRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	ctx := context.Background()
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	events := []preference.Event{
		{Tag: "denim", Signal: preference.SignalLike, At: at},
		{Tag: "neon", Signal: preference.SignalDislike, At: at},
	}

	client.EXPECT().
		DoMulti(ctx,
			mock.Match("LPUSH", "prefs:events:u1", encode(t, events[0]), encode(t, events[1])),
			mock.Match("LTRIM", "prefs:events:u1", "0", "49")).
		Return([]valkey.ValkeyResult{
			mock.Result(mock.ValkeyInt64(2)),
			mock.Result(mock.ValkeyString("OK")),
		})

	require.NoError(t, NewValkeyStore(client, "").Append(ctx, "u1", events, 50))
}

func TestValkeyStoreAppendWithoutWindowSkipsTrim(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	ctx := context.Background()
	ev := preference.Event{Tag: "linen", Signal: preference.SignalLike}

	client.EXPECT().
		DoMulti(ctx, mock.Match("LPUSH", "p:events:u2", encode(t, ev))).
		Return([]valkey.ValkeyResult{mock.Result(mock.ValkeyInt64(1))})

	store := NewValkeyStore(client, "p")
	require.NoError(t, store.Append(ctx, "u2", []preference.Event{ev}, 0))
	require.NoError(t, store.Append(ctx, "u2", nil, 10))
}

func TestValkeyStoreAppendSurfacesTrimFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	ctx := context.Background()

	client.EXPECT().
		DoMulti(ctx, gomock.Any(), gomock.Any()).
		Return([]valkey.ValkeyResult{
			mock.Result(mock.ValkeyInt64(1)),
			mock.Result(mock.ValkeyError("ERR wrong kind")),
		})

	err := NewValkeyStore(client, "").Append(ctx, "u3", []preference.Event{{Tag: "a", Signal: preference.SignalLike}}, 5)
	require.Error(t, err)
}

func TestValkeyStoreRecentReadsNewestFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	ctx := context.Background()
	newest := preference.Event{Tag: "wool", Signal: preference.SignalLike}
	older := preference.Event{Tag: "neon", Signal: preference.SignalDislike}

	client.EXPECT().
		Do(ctx, mock.Match("LRANGE", "prefs:events:u1", "0", "1")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyString(encode(t, newest)),
			mock.ValkeyString(encode(t, older)),
		)))
	client.EXPECT().
		Do(ctx, mock.Match("LRANGE", "prefs:events:u2", "0", "-1")).
		Return(mock.Result(mock.ValkeyArray()))

	store := NewValkeyStore(client, "")

	events, err := store.Recent(ctx, "u1", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"wool", "neon"}, tags(events))

	empty, err := store.Recent(ctx, "u2", 0)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestValkeyStoreRecentRejectsCorruptEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	ctx := context.Background()

	client.EXPECT().
		Do(ctx, gomock.Any()).
		Return(mock.Result(mock.ValkeyArray(mock.ValkeyString("{not json"))))

	_, err := NewValkeyStore(client, "").Recent(ctx, "u1", 5)
	require.Error(t, err)
}
