package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/outfit-advisor/internal/domain/auth"
	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/preference"
	"github.com/yanqian/outfit-advisor/internal/domain/ratelimit"
	"github.com/yanqian/outfit-advisor/internal/domain/recommendation"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/internal/infra/config"
	"github.com/yanqian/outfit-advisor/internal/infra/preferencestore"
	"github.com/yanqian/outfit-advisor/internal/infra/ratelimitstore"
	"github.com/yanqian/outfit-advisor/internal/infra/wardroberepo"
	"github.com/yanqian/outfit-advisor/internal/infra/weather/openweather"
	"github.com/yanqian/outfit-advisor/internal/infra/weathercache"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	loc := cfg.Weather.DefaultLocation
	return weather.Config{
		APIKey:          cfg.Weather.APIKey,
		CacheTTL:        cfg.Weather.CacheTTL,
		Timeout:         cfg.Weather.Timeout,
		MaxAttempts:     cfg.Weather.MaxAttempts,
		BaseBackoff:     cfg.Weather.BaseBackoff,
		BreakerFailures: cfg.Weather.BreakerFailures,
		BreakerCooldown: cfg.Weather.BreakerCooldown,
		DefaultLocation: weather.Location{
			Name:        loc.Name,
			Country:     loc.Country,
			Coordinates: weather.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude},
		},
	}
}

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.GeoBaseURL)
}

func providePreferenceConfig(cfg *config.Config) preference.Config {
	return preference.Config{WindowSize: cfg.Recommendation.PreferenceWindow}
}

func provideRecommendationConfig(cfg *config.Config) recommendation.Config {
	return recommendation.Config{DefaultOutfitCount: cfg.Recommendation.DefaultOutfitCount}
}

// provideValkeyClient returns nil when Valkey is disabled or unreachable; every
// consumer then falls back to its in-memory store.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.Valkey.Enabled {
		logger.Info("valkey disabled, using in-memory stores")
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}

func provideWeatherCache(client valkey.Client) weather.Cache {
	if client == nil {
		return weathercache.NewMemoryCache()
	}
	return weathercache.NewValkeyCache(client, "weather")
}

func providePreferenceStore(client valkey.Client) preference.Store {
	if client == nil {
		return preferencestore.NewMemoryStore()
	}
	return preferencestore.NewValkeyStore(client, "prefs")
}

// provideRateLimiter keeps an in-memory store as the per-call fallback for the shared one.
func provideRateLimiter(cfg *config.Config, client valkey.Client, logger *slog.Logger) *ratelimit.Limiter {
	memory := ratelimitstore.NewMemoryStore()
	if client == nil {
		logger.Warn("rate limiting with process-local counters; limits are per instance")
		return ratelimit.NewLimiter(memory, nil, cfg.HTTP.RateLimit.Prefix, logger)
	}
	return ratelimit.NewLimiter(ratelimitstore.NewValkeyStore(client), memory, cfg.HTTP.RateLimit.Prefix, logger)
}

func provideItemRepository(cfg *config.Config, logger *slog.Logger) (outfit.ItemRepository, func()) {
	fallback := wardroberepo.NewMemoryRepository()
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory wardrobe repository")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory wardrobe repository", "error", err)
		return fallback, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory wardrobe repository", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory wardrobe repository", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("postgres wardrobe repository enabled")
	return wardroberepo.NewPostgresRepository(pool, logger), pool.Close
}
