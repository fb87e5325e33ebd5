package preference

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/yanqian/outfit-advisor/internal/domain/ranking"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

// Store keeps a bounded, newest-first list of events per user.
type Store interface {
	Append(ctx context.Context, userID string, events []Event, window int) error
	Recent(ctx context.Context, userID string, limit int) ([]Event, error)
}

// Service records feedback and derives preferences from the recent window only.
type Service interface {
	Record(ctx context.Context, userID string, req RecordRequest) error
	Preferences(ctx context.Context, userID string) (ranking.Preferences, error)
}

type service struct {
	cfg    Config
	store  Store
	logger *slog.Logger
	now    util.Clock
}

// NewService wires the preference window.
func NewService(cfg Config, store Store, logger *slog.Logger) Service {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 50
	}
	if cfg.MaxTags <= 0 || cfg.MaxTags > ranking.MaxPreferenceTags {
		cfg.MaxTags = ranking.MaxPreferenceTags
	}
	return &service{
		cfg:    cfg,
		store:  store,
		logger: logger.With("component", "preference.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Record(ctx context.Context, userID string, req RecordRequest) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.Wrap(apperrors.CodeUnauthorized, "user identity required", nil)
	}
	if len(req.Events) == 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "events cannot be empty", nil)
	}
	now := s.now()
	events := make([]Event, 0, len(req.Events))
	for _, ev := range req.Events {
		tag := strings.ToLower(strings.TrimSpace(ev.Tag))
		if tag == "" {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "event tag cannot be empty", nil)
		}
		if ev.Signal != SignalLike && ev.Signal != SignalDislike {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "event signal must be like or dislike", nil)
		}
		events = append(events, Event{Tag: tag, Signal: ev.Signal, At: now})
	}
	if err := s.store.Append(ctx, userID, events, s.cfg.WindowSize); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to record preference events", err)
	}
	s.logger.Info("preference events recorded", "user_id", userID, "count", len(events))
	return nil
}

type tagSignal struct {
	tag    string
	net    int
	newest int
}

func (s *service) Preferences(ctx context.Context, userID string) (ranking.Preferences, error) {
	prefs := ranking.Preferences{PreferredTags: []string{}, BlacklistTags: []string{}}
	if strings.TrimSpace(userID) == "" {
		return prefs, nil
	}
	events, err := s.store.Recent(ctx, userID, s.cfg.WindowSize)
	if err != nil {
		return prefs, apperrors.Wrap(apperrors.CodeInternal, "failed to load preference events", err)
	}

	byTag := make(map[string]*tagSignal)
	order := make([]*tagSignal, 0)
	for i, ev := range events {
		sig, ok := byTag[ev.Tag]
		if !ok {
			sig = &tagSignal{tag: ev.Tag, newest: i}
			byTag[ev.Tag] = sig
			order = append(order, sig)
		}
		switch ev.Signal {
		case SignalLike:
			sig.net++
		case SignalDislike:
			sig.net--
		}
	}
	// strongest signal first, then most recent
	sort.SliceStable(order, func(i, j int) bool {
		ai, aj := abs(order[i].net), abs(order[j].net)
		if ai != aj {
			return ai > aj
		}
		return order[i].newest < order[j].newest
	})
	for _, sig := range order {
		switch {
		case sig.net > 0 && len(prefs.PreferredTags) < s.cfg.MaxTags:
			prefs.PreferredTags = append(prefs.PreferredTags, sig.tag)
		case sig.net < 0 && len(prefs.BlacklistTags) < s.cfg.MaxTags:
			prefs.BlacklistTags = append(prefs.BlacklistTags, sig.tag)
		}
	}
	return prefs, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
