package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/yanqian/outfit-advisor/pkg/metrics"
)

// Service resolves weather and places without ever failing outward.
type Service interface {
	Current(ctx context.Context, point Coordinates) Snapshot
	Geocode(ctx context.Context, name string) Location
	ReverseGeocode(ctx context.Context, point Coordinates) string
}

// Provider is the upstream weather/geocoding API.
type Provider interface {
	CurrentWeather(ctx context.Context, point Coordinates) (Observation, error)
	Geocode(ctx context.Context, name string) (Location, error)
	ReverseGeocode(ctx context.Context, point Coordinates) (Location, error)
}

// Cache stores snapshots by rounded coordinate key; Get evicts expired entries.
type Cache interface {
	Get(ctx context.Context, key string) (Snapshot, bool, error)
	Set(ctx context.Context, key string, snapshot Snapshot, ttl time.Duration) error
}

// ErrPlaceNotFound is returned by a Provider when geocoding matches nothing.
var ErrPlaceNotFound = errors.New("weather: no matching place")

var errNoProvider = errors.New("weather provider not configured")

type service struct {
	cfg      Config
	provider Provider
	cache    Cache
	breaker  *gobreaker.CircuitBreaker[any]
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewService wires the weather resilience layer.
func NewService(cfg Config, provider Provider, cache Cache, logger *slog.Logger) Service {
	cfg = withDefaults(cfg)
	logger = logger.With("component", "weather.service")
	settings := gobreaker.Settings{
		Name:        "weather-upstream",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("weather circuit breaker state changed", "from", from.String(), "to", to.String())
			metrics.SetCircuitBreakerState(name, int(to))
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations and empty lookups say nothing about upstream health
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrPlaceNotFound)
		},
	}
	return &service{
		cfg:      cfg,
		provider: provider,
		cache:    cache,
		breaker:  gobreaker.NewCircuitBreaker[any](settings),
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 4 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	if strings.TrimSpace(cfg.DefaultLocation.Name) == "" {
		cfg.DefaultLocation = Location{Name: "Seoul", Country: "KR", Coordinates: Coordinates{Latitude: 37.5665, Longitude: 126.9780}}
	}
	return cfg
}

func (s *service) upstreamEnabled() bool {
	return s.provider != nil && strings.TrimSpace(s.cfg.APIKey) != ""
}

func (s *service) Current(ctx context.Context, point Coordinates) Snapshot {
	key := point.CacheKey()
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("weather cache read failed", "key", key, "error", err)
		} else if ok {
			metrics.RecordWeatherLookup("cache")
			return cached
		}
	}

	if !s.upstreamEnabled() {
		s.logger.Debug("weather upstream disabled, using default snapshot")
		metrics.RecordWeatherLookup(SourceDefault)
		return DefaultSnapshot()
	}

	obs, err := withRetry(ctx, s, "current_weather", func(callCtx context.Context) (Observation, error) {
		return s.provider.CurrentWeather(callCtx, point)
	})
	if err != nil {
		s.logger.Warn("weather upstream failed, using default snapshot", "key", key, "error", err)
		metrics.RecordWeatherLookup(SourceDefault)
		return DefaultSnapshot()
	}

	snapshot := s.toSnapshot(obs)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, snapshot, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("weather cache write failed", "key", key, "error", err)
		}
	}
	metrics.RecordWeatherLookup(SourceUpstream)
	return snapshot
}

func (s *service) Geocode(ctx context.Context, name string) Location {
	if place, ok := lookupPlace(name); ok {
		metrics.RecordGeocode("forward", "local")
		return place
	}
	if strings.TrimSpace(name) != "" && s.upstreamEnabled() {
		loc, err := withRetry(ctx, s, "geocode", func(callCtx context.Context) (Location, error) {
			return s.provider.Geocode(callCtx, name)
		})
		if err == nil && loc.Coordinates.Valid() {
			metrics.RecordGeocode("forward", "upstream")
			return loc
		}
		s.logger.Warn("geocoding failed, using default location", "query", name, "error", err)
	}
	metrics.RecordGeocode("forward", "default")
	return s.cfg.DefaultLocation
}

func (s *service) ReverseGeocode(ctx context.Context, point Coordinates) string {
	if place, ok := nearestPlace(point); ok {
		metrics.RecordGeocode("reverse", "local")
		return place.Name
	}
	if point.Valid() && s.upstreamEnabled() {
		loc, err := withRetry(ctx, s, "reverse_geocode", func(callCtx context.Context) (Location, error) {
			return s.provider.ReverseGeocode(callCtx, point)
		})
		if err == nil && strings.TrimSpace(loc.Name) != "" {
			metrics.RecordGeocode("reverse", "upstream")
			return loc.Name
		}
		s.logger.Warn("reverse geocoding failed, using default location", "key", point.CacheKey(), "error", err)
	}
	metrics.RecordGeocode("reverse", "default")
	return s.cfg.DefaultLocation.Name
}

func (s *service) toSnapshot(obs Observation) Snapshot {
	fetched := obs.ObservedAt
	if fetched.IsZero() {
		fetched = s.now()
	}
	condition := obs.Condition
	if condition == "" {
		condition = ConditionUnknown
	}
	return Snapshot{
		Temperature: obs.Temperature,
		FeelsLike:   ApparentTemperature(obs.Temperature, obs.Humidity, obs.WindSpeed),
		Humidity:    obs.Humidity,
		Condition:   condition,
		WindSpeed:   obs.WindSpeed,
		Location:    obs.LocationName,
		Source:      SourceUpstream,
		FetchedAt:   fetched.UTC(),
	}
}

// withRetry runs fn through the circuit breaker up to MaxAttempts times with
// doubling backoff, all within the configured timeout budget.
func withRetry[T any](ctx context.Context, s *service, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.provider == nil {
		return zero, errNoProvider
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := s.cfg.BaseBackoff * time.Duration(1<<(attempt-2))
			if err := s.sleep(callCtx, delay); err != nil {
				return zero, fmt.Errorf("%s: %w (last error: %v)", op, err, lastErr)
			}
		}
		out, err := s.breaker.Execute(func() (any, error) {
			value, err := fn(callCtx)
			return value, err
		})
		if err == nil {
			value, ok := out.(T)
			if !ok {
				return zero, fmt.Errorf("%s: unexpected result type %T", op, out)
			}
			return value, nil
		}
		lastErr = err
		if errors.Is(err, ErrPlaceNotFound) ||
			errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
		s.logger.Debug("weather upstream attempt failed", "op", op, "attempt", attempt, "error", err)
	}
	return zero, fmt.Errorf("%s: %d attempts failed: %w", op, s.cfg.MaxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
