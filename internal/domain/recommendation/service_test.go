package recommendation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/preference"
	"github.com/yanqian/outfit-advisor/internal/domain/ranking"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

func TestDailyColdWeatherRequestsOuterwear(t *testing.T) {
	lat, lon := 37.57, 126.98
	weatherSvc := &stubWeather{snap: weather.Snapshot{Temperature: 8, Humidity: 50, Condition: weather.ConditionClouds, Source: weather.SourceUpstream}, reverse: "Seoul"}
	svc := newTestService(weatherSvc, &stubItems{items: casualWardrobe()}, &stubPreferences{prefs: ranking.Preferences{PreferredTags: []string{"casual"}, BlacklistTags: []string{}}})

	res, err := svc.Daily(context.Background(), "user-1", DailyRequest{
		Date:        "2026-10-19",
		Location:    LocationInput{Latitude: &lat, Longitude: &lon},
		Occasion:    "Casual",
		BodyType:    "Athletic",
		OutfitCount: 3,
	})

	require.NoError(t, err)
	require.Equal(t, "2026-10-19", res.Date)
	require.Equal(t, "Seoul", res.Location.Name)
	require.Equal(t, "Seoul", res.Weather.Location)
	require.Equal(t, "casual", res.Occasion)
	require.Equal(t, []outfit.Category{outfit.CategoryOuterwear}, res.MissingRoles)
	require.Len(t, res.SuggestedPurchases, 1)
	require.Equal(t, outfit.CategoryOuterwear, res.SuggestedPurchases[0].Role)
	require.Equal(t, "casual winter outerwear for athletic body type", res.SuggestedPurchases[0].Query)

	require.Len(t, res.Outfits, 3)
	for i, o := range res.Outfits {
		require.NotNil(t, o.Items.Top)
		require.NotNil(t, o.Items.Bottom)
		require.Equal(t, o.Breakdown.Total, o.Score)
		require.Equal(t, []string{"casual"}, o.Reasons.PreferredMatched)
		require.Empty(t, o.Reasons.BlacklistMatched)
		require.InDelta(t, min(1, float64(o.Score)/100+0.1), o.FinalScore, 1e-9)
		if i > 0 {
			require.GreaterOrEqual(t, res.Outfits[i-1].FinalScore, o.FinalScore)
		}
	}
}

func TestDailyIsStableForUserAndDate(t *testing.T) {
	svc := newTestService(&stubWeather{snap: weather.Snapshot{Temperature: 20}}, &stubItems{items: casualWardrobe()}, &stubPreferences{})
	req := DailyRequest{Date: "2026-10-19", Location: LocationInput{Name: "Busan"}}

	first, err := svc.Daily(context.Background(), "user-1", req)
	require.NoError(t, err)
	second, err := svc.Daily(context.Background(), "user-1", req)
	require.NoError(t, err)

	require.Equal(t, ids(first.Outfits), ids(second.Outfits))
	require.Empty(t, first.MissingRoles)
	require.NotNil(t, first.MissingRoles)
	require.NotNil(t, first.SuggestedPurchases)
}

func TestDailyResolvesLocationByName(t *testing.T) {
	weatherSvc := &stubWeather{geocoded: weather.Location{Name: "Busan", Coordinates: weather.Coordinates{Latitude: 35.18, Longitude: 129.08}}}
	svc := newTestService(weatherSvc, &stubItems{items: casualWardrobe()}, &stubPreferences{})

	res, err := svc.Daily(context.Background(), "user-1", DailyRequest{Location: LocationInput{Name: "busan"}})

	require.NoError(t, err)
	require.Equal(t, "busan", weatherSvc.geocodeQuery)
	require.Equal(t, weather.Coordinates{Latitude: 35.18, Longitude: 129.08}, weatherSvc.currentAt)
	require.Equal(t, "Busan", res.Location.Name)
	require.Equal(t, "2026-10-19", res.Date)
}

func TestDailyEmptyWardrobeSuggestsCoreRoles(t *testing.T) {
	svc := newTestService(&stubWeather{snap: weather.Snapshot{Temperature: 25}}, &stubItems{}, &stubPreferences{})

	res, err := svc.Daily(context.Background(), "user-1", DailyRequest{Occasion: "formal"})

	require.NoError(t, err)
	require.Empty(t, res.Outfits)
	require.NotNil(t, res.Outfits)
	require.Equal(t, []outfit.Category{outfit.CategoryTop, outfit.CategoryBottom, outfit.CategoryShoes}, res.MissingRoles)
	require.Len(t, res.SuggestedPurchases, 3)
	require.Equal(t, "formal summer top", res.SuggestedPurchases[0].Query)
	require.Equal(t, "no top in wardrobe", res.SuggestedPurchases[0].Reason)
}

func TestDailyWardrobeFailureIsInternal(t *testing.T) {
	svc := newTestService(&stubWeather{}, &stubItems{err: errors.New("db down")}, &stubPreferences{})

	_, err := svc.Daily(context.Background(), "user-1", DailyRequest{})

	require.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestDailyPreferenceFailureDegrades(t *testing.T) {
	svc := newTestService(&stubWeather{snap: weather.Snapshot{Temperature: 20}}, &stubItems{items: casualWardrobe()}, &stubPreferences{err: errors.New("valkey down")})

	res, err := svc.Daily(context.Background(), "user-1", DailyRequest{})

	require.NoError(t, err)
	require.NotEmpty(t, res.Outfits)
	for _, o := range res.Outfits {
		require.Empty(t, o.Reasons.PreferredMatched)
		require.Zero(t, o.Breakdown.PreferenceBonus)
	}
}

func TestDailyRejectsInvalidInput(t *testing.T) {
	svc := newTestService(&stubWeather{}, &stubItems{}, &stubPreferences{})

	_, err := svc.Daily(context.Background(), "user-1", DailyRequest{Date: "19/10/2026"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Equal(t, "date", apperrors.DetailsOf(err)[0].Field)

	_, err = svc.Daily(context.Background(), "user-1", DailyRequest{OutfitCount: 11})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Equal(t, "outfitCount", apperrors.DetailsOf(err)[0].Field)

	_, err = svc.Daily(context.Background(), " ", DailyRequest{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestRankDelegatesToRanker(t *testing.T) {
	svc := newTestService(&stubWeather{}, &stubItems{}, &stubPreferences{})

	results, err := svc.Rank(context.Background(), RankRequest{
		Outfits: []ranking.Outfit{
			{ID: "a", Score: 0.5, Tags: []string{"casual"}},
			{ID: "b", Score: 0.55, Tags: []string{"formal"}},
		},
		UserPrefs: &ranking.Preferences{PreferredTags: []string{"casual"}},
	})

	require.NoError(t, err)
	require.Equal(t, "a", results[0].ID)
	require.InDelta(t, 0.6, results[0].FinalScore, 1e-9)
}

func TestRankRejectsOutOfBoundsInput(t *testing.T) {
	svc := newTestService(&stubWeather{}, &stubItems{}, &stubPreferences{})

	_, err := svc.Rank(context.Background(), RankRequest{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	tooManyTags := make([]string, ranking.MaxTagsPerOutfit+1)
	for i := range tooManyTags {
		tooManyTags[i] = "t"
	}
	_, err = svc.Rank(context.Background(), RankRequest{Outfits: []ranking.Outfit{
		{ID: "a", Score: 1.5},
		{ID: "", Score: 0.2, Tags: tooManyTags},
	}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	fields := make([]string, 0)
	for _, d := range apperrors.DetailsOf(err) {
		fields = append(fields, d.Field)
	}
	require.Equal(t, []string{"outfits[0].score", "outfits[1].id", "outfits[1].tags"}, fields)
}

func TestDailySeedDependsOnUserAndDate(t *testing.T) {
	require.Equal(t, dailySeed("u", "2026-10-19"), dailySeed("u", "2026-10-19"))
	require.NotEqual(t, dailySeed("u", "2026-10-19"), dailySeed("u", "2026-10-20"))
	require.NotEqual(t, dailySeed("u", "2026-10-19"), dailySeed("v", "2026-10-19"))
}

func TestLocationInputAcceptsString(t *testing.T) {
	var req DailyRequest
	require.NoError(t, req.Location.UnmarshalJSON([]byte(`"Seoul"`)))
	require.Equal(t, "Seoul", req.Location.Name)

	require.NoError(t, req.Location.UnmarshalJSON([]byte(`{"latitude":1.5,"longitude":2.5}`)))
	point, ok := req.Location.Coordinates()
	require.True(t, ok)
	require.Equal(t, weather.Coordinates{Latitude: 1.5, Longitude: 2.5}, point)
	require.Empty(t, req.Location.Name)
}

func newTestService(w weather.Service, items outfit.ItemRepository, prefs preference.Service) *service {
	svc := NewService(Config{}, w, items, prefs, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return svc
}

func casualWardrobe() []outfit.WardrobeItem {
	return []outfit.WardrobeItem{
		{ID: "t1", Category: outfit.CategoryTop, Colors: []string{"white"}, Style: "casual", Season: "all"},
		{ID: "t2", Category: outfit.CategoryTop, Colors: []string{"navy"}, Style: "casual", Season: "autumn"},
		{ID: "b1", Category: outfit.CategoryBottom, Colors: []string{"blue"}, Style: "casual", Season: "all"},
		{ID: "b2", Category: outfit.CategoryBottom, Colors: []string{"black"}, Style: "casual", Season: "winter"},
		{ID: "s1", Category: outfit.CategoryShoes, Colors: []string{"white"}, Style: "casual", Season: "all"},
	}
}

func ids(outfits []RecommendedOutfit) []string {
	out := make([]string, 0, len(outfits))
	for _, o := range outfits {
		out = append(out, o.ID)
	}
	return out
}

type stubWeather struct {
	snap         weather.Snapshot
	geocoded     weather.Location
	reverse      string
	geocodeQuery string
	currentAt    weather.Coordinates
}

func (s *stubWeather) Current(_ context.Context, point weather.Coordinates) weather.Snapshot {
	s.currentAt = point
	return s.snap
}

func (s *stubWeather) Geocode(_ context.Context, name string) weather.Location {
	s.geocodeQuery = name
	return s.geocoded
}

func (s *stubWeather) ReverseGeocode(context.Context, weather.Coordinates) string {
	return s.reverse
}

type stubItems struct {
	items []outfit.WardrobeItem
	err   error
}

func (s *stubItems) ListByUser(context.Context, string) ([]outfit.WardrobeItem, error) {
	return s.items, s.err
}

type stubPreferences struct {
	prefs ranking.Preferences
	err   error
}

func (s *stubPreferences) Record(context.Context, string, preference.RecordRequest) error {
	return nil
}

func (s *stubPreferences) Preferences(context.Context, string) (ranking.Preferences, error) {
	if s.err != nil {
		return ranking.Preferences{PreferredTags: []string{}, BlacklistTags: []string{}}, s.err
	}
	return s.prefs, nil
}
