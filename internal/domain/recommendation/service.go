package recommendation

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/preference"
	"github.com/yanqian/outfit-advisor/internal/domain/ranking"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/metrics"
)

// Service composes weather, wardrobe, scoring and ranking into request flows.
type Service interface {
	Daily(ctx context.Context, userID string, req DailyRequest) (DailyResponse, error)
	Rank(ctx context.Context, req RankRequest) ([]ranking.Result, error)
}

type service struct {
	cfg         Config
	weather     weather.Service
	items       outfit.ItemRepository
	preferences preference.Service
	logger      *slog.Logger
	timezone    *time.Location
	now         func() time.Time
}

// NewService wires the recommendation orchestrator.
func NewService(cfg Config, weatherSvc weather.Service, items outfit.ItemRepository, preferences preference.Service, logger *slog.Logger) Service {
	if cfg.DefaultOutfitCount <= 0 || cfg.DefaultOutfitCount > MaxOutfitCount {
		cfg.DefaultOutfitCount = DefaultOutfitCount
	}
	return &service{
		cfg:         cfg,
		weather:     weatherSvc,
		items:       items,
		preferences: preferences,
		logger:      logger.With("component", "recommendation.service"),
		timezone:    time.UTC,
		now:         time.Now,
	}
}

func (s *service) Daily(ctx context.Context, userID string, req DailyRequest) (DailyResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return DailyResponse{}, apperrors.Wrap(apperrors.CodeUnauthorized, "user identity required", nil)
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return DailyResponse{}, apperrors.Invalid("request validation failed",
			apperrors.FieldError{Field: "date", Reason: "must be formatted as YYYY-MM-DD"})
	}
	count := req.OutfitCount
	switch {
	case count == 0:
		count = s.cfg.DefaultOutfitCount
	case count < 0 || count > MaxOutfitCount:
		return DailyResponse{}, apperrors.Invalid("request validation failed",
			apperrors.FieldError{Field: "outfitCount", Reason: fmt.Sprintf("must be between 1 and %d", MaxOutfitCount)})
	}
	occasion := strings.ToLower(strings.TrimSpace(req.Occasion))

	var (
		location  weather.Location
		snapshot  weather.Snapshot
		wardrobe  []outfit.WardrobeItem
		userPrefs ranking.Preferences
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		location = s.resolveLocation(gctx, req.Location)
		snapshot = s.weather.Current(gctx, location.Coordinates)
		if snapshot.Location == "" {
			snapshot.Location = location.Name
		}
		return nil
	})
	g.Go(func() error {
		items, err := s.items.ListByUser(gctx, userID)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "failed to load wardrobe", err)
		}
		wardrobe = items
		return nil
	})
	g.Go(func() error {
		prefs, err := s.preferences.Preferences(gctx, userID)
		if err != nil {
			s.logger.Warn("preference window unavailable, ranking without it", "user_id", userID, "error", err)
		}
		userPrefs = prefs
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("daily recommendation failed", "user_id", userID, "error", err)
		return DailyResponse{}, err
	}

	generated := outfit.Generate(wardrobe, outfit.GenerateOptions{
		Count:         count,
		NeedOuterwear: snapshot.Temperature < ColdThreshold,
		Seed:          dailySeed(userID, date),
	})
	metrics.OutfitsGenerated.Observe(float64(len(generated.Combinations)))

	scoreCtx := outfit.ScoreContext{
		Occasion:       occasion,
		Weather:        &snapshot,
		PreferenceTags: userPrefs.PreferredTags,
	}
	byID := make(map[string]RecommendedOutfit, len(generated.Combinations))
	rankables := make([]ranking.Outfit, 0, len(generated.Combinations))
	for _, combo := range generated.Combinations {
		breakdown := outfit.ScoreBreakdownFor(combo, scoreCtx)
		tags := combo.Tags()
		if len(tags) > ranking.MaxTagsPerOutfit {
			tags = tags[:ranking.MaxTagsPerOutfit]
		}
		byID[combo.ID] = RecommendedOutfit{
			ID:        combo.ID,
			Items:     itemsOf(combo),
			Tags:      tags,
			Score:     breakdown.Total,
			Breakdown: breakdown,
		}
		rankables = append(rankables, ranking.Outfit{
			ID:    combo.ID,
			Score: float64(breakdown.Total) / 100,
			Tags:  tags,
		})
	}

	ranked := ranking.Rank(rankables, &userPrefs)
	outfits := make([]RecommendedOutfit, 0, len(ranked))
	for _, res := range ranked {
		rec := byID[res.ID]
		rec.FinalScore = res.FinalScore
		rec.Adjustments = res.Adjustments
		rec.Reasons = res.Reasons
		outfits = append(outfits, rec)
	}

	missing := generated.MissingRoles
	if missing == nil {
		missing = []outfit.Category{}
	}
	s.logger.Info("daily recommendation built",
		"user_id", userID,
		"date", date,
		"location", location.Name,
		"weather_source", snapshot.Source,
		"outfits", len(outfits),
		"attempts", generated.Attempts,
		"missing_roles", len(missing),
	)
	return DailyResponse{
		Date:               date,
		Location:           location,
		Occasion:           occasion,
		Weather:            snapshot,
		Outfits:            outfits,
		MissingRoles:       missing,
		SuggestedPurchases: suggestPurchases(missing, occasion, req.BodyType, snapshot),
	}, nil
}

func (s *service) Rank(_ context.Context, req RankRequest) ([]ranking.Result, error) {
	if details := validateRank(req); len(details) > 0 {
		return nil, apperrors.Invalid("request validation failed", details...)
	}
	return ranking.Rank(req.Outfits, req.UserPrefs), nil
}

func validateRank(req RankRequest) []apperrors.FieldError {
	var details []apperrors.FieldError
	switch {
	case len(req.Outfits) == 0:
		details = append(details, apperrors.FieldError{Field: "outfits", Reason: "at least one outfit is required"})
	case len(req.Outfits) > ranking.MaxOutfits:
		details = append(details, apperrors.FieldError{Field: "outfits", Reason: fmt.Sprintf("at most %d outfits are allowed", ranking.MaxOutfits)})
	}
	for i, o := range req.Outfits {
		if strings.TrimSpace(o.ID) == "" {
			details = append(details, apperrors.FieldError{Field: fmt.Sprintf("outfits[%d].id", i), Reason: "is required"})
		}
		if o.Score < 0 || o.Score > 1 || o.Score != o.Score {
			details = append(details, apperrors.FieldError{Field: fmt.Sprintf("outfits[%d].score", i), Reason: "must be between 0 and 1"})
		}
		if len(o.Tags) > ranking.MaxTagsPerOutfit {
			details = append(details, apperrors.FieldError{Field: fmt.Sprintf("outfits[%d].tags", i), Reason: fmt.Sprintf("at most %d tags are allowed", ranking.MaxTagsPerOutfit)})
		}
	}
	if req.UserPrefs != nil {
		if len(req.UserPrefs.PreferredTags) > ranking.MaxPreferenceTags {
			details = append(details, apperrors.FieldError{Field: "userPrefs.preferredTags", Reason: fmt.Sprintf("at most %d tags are allowed", ranking.MaxPreferenceTags)})
		}
		if len(req.UserPrefs.BlacklistTags) > ranking.MaxPreferenceTags {
			details = append(details, apperrors.FieldError{Field: "userPrefs.blacklistTags", Reason: fmt.Sprintf("at most %d tags are allowed", ranking.MaxPreferenceTags)})
		}
	}
	return details
}

func (s *service) resolveDate(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return s.now().In(s.timezone).Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

func (s *service) resolveLocation(ctx context.Context, in LocationInput) weather.Location {
	if point, ok := in.Coordinates(); ok {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = s.weather.ReverseGeocode(ctx, point)
		}
		return weather.Location{Name: name, Coordinates: point}
	}
	return s.weather.Geocode(ctx, in.Name)
}

// dailySeed keeps a user's suggestions for a date stable across refreshes.
func dailySeed(userID, date string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(date))
	return h.Sum64()
}

func itemsOf(c outfit.Combination) OutfitItems {
	return OutfitItems{
		Top:       c.Top,
		Bottom:    c.Bottom,
		Shoes:     c.Shoes,
		Outerwear: c.Outerwear,
		Accessory: c.Accessory,
	}
}

func suggestPurchases(missing []outfit.Category, occasion, bodyType string, snap weather.Snapshot) []SuggestedPurchase {
	suggestions := make([]SuggestedPurchase, 0, len(missing))
	season := outfit.SeasonBand(snap.Temperature)
	for _, role := range missing {
		reason := fmt.Sprintf("no %s in wardrobe", role)
		if role == outfit.CategoryOuterwear {
			reason = fmt.Sprintf("%.1f°C calls for outerwear and none is available", snap.Temperature)
		}
		parts := make([]string, 0, 5)
		if occasion != "" {
			parts = append(parts, occasion)
		}
		parts = append(parts, season, string(role))
		if bt := strings.ToLower(strings.TrimSpace(bodyType)); bt != "" {
			parts = append(parts, "for", bt, "body type")
		}
		suggestions = append(suggestions, SuggestedPurchase{
			Role:   role,
			Reason: reason,
			Query:  strings.Join(parts, " "),
		})
	}
	return suggestions
}
