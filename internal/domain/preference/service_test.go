package preference

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

func TestPreferencesFromRecentWindow(t *testing.T) {
	store := &sliceStore{}
	svc := newTestService(Config{WindowSize: 5}, store)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "u1", RecordRequest{Events: []Event{
		{Tag: "Neon", Signal: SignalDislike},
		{Tag: "linen", Signal: SignalLike},
	}}))
	require.NoError(t, svc.Record(ctx, "u1", RecordRequest{Events: []Event{
		{Tag: "minimal", Signal: SignalLike},
		{Tag: "minimal", Signal: SignalLike},
		{Tag: "sport", Signal: SignalDislike},
		{Tag: "linen", Signal: SignalDislike},
	}}))

	prefs, err := svc.Preferences(ctx, "u1")
	require.NoError(t, err)
	// window of 5 drops the oldest "neon" dislike; linen nets to zero
	require.Equal(t, []string{"minimal"}, prefs.PreferredTags)
	require.Equal(t, []string{"sport"}, prefs.BlacklistTags)
}

func TestPreferencesCapsTagLists(t *testing.T) {
	store := &sliceStore{}
	svc := newTestService(Config{WindowSize: 10, MaxTags: 2}, store)
	events := []Event{
		{Tag: "a", Signal: SignalLike}, {Tag: "b", Signal: SignalLike}, {Tag: "c", Signal: SignalLike},
	}
	require.NoError(t, svc.Record(context.Background(), "u1", RecordRequest{Events: events}))

	prefs, err := svc.Preferences(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, prefs.PreferredTags)
	require.Empty(t, prefs.BlacklistTags)
}

func TestPreferencesUnknownUserIsEmpty(t *testing.T) {
	svc := newTestService(Config{}, &sliceStore{})

	prefs, err := svc.Preferences(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, prefs.PreferredTags)
	require.NotNil(t, prefs.BlacklistTags)
}

func TestRecordValidation(t *testing.T) {
	svc := newTestService(Config{}, &sliceStore{})

	err := svc.Record(context.Background(), "u1", RecordRequest{Events: []Event{{Tag: " ", Signal: SignalLike}}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	err = svc.Record(context.Background(), "u1", RecordRequest{Events: []Event{{Tag: "x", Signal: "meh"}}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	err = svc.Record(context.Background(), "", RecordRequest{Events: []Event{{Tag: "x", Signal: SignalLike}}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestPreferencesStoreFailure(t *testing.T) {
	svc := newTestService(Config{}, &sliceStore{err: errors.New("valkey down")})

	_, err := svc.Preferences(context.Background(), "u1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func newTestService(cfg Config, store Store) *service {
	svc := NewService(cfg, store, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

// sliceStore keeps events newest first, like the real stores.
type sliceStore struct {
	events []Event
	err    error
}

func (s *sliceStore) Append(_ context.Context, _ string, events []Event, window int) error {
	if s.err != nil {
		return s.err
	}
	for _, ev := range events {
		s.events = append([]Event{ev}, s.events...)
	}
	if len(s.events) > window {
		s.events = s.events[:window]
	}
	return nil
}

func (s *sliceStore) Recent(_ context.Context, _ string, limit int) ([]Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.events) > limit {
		return s.events[:limit], nil
	}
	return s.events, nil
}
