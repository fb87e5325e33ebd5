package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Auth           AuthConfig           `yaml:"auth"`
	Weather        WeatherConfig        `yaml:"weather"`
	Valkey         ValkeyConfig         `yaml:"valkey"`
	Postgres       PostgresConfig       `yaml:"postgres"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	MaxBodyBytes   int64           `yaml:"maxBodyBytes"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled       bool   `yaml:"enabled"`
	WindowSeconds int    `yaml:"windowSeconds"`
	MaxRequests   int    `yaml:"maxRequests"`
	Prefix        string `yaml:"prefix"`
	// Platform names the edge (cloudflare, vercel, fly, netlify, akamai) whose client header is trusted.
	Platform          string `yaml:"platform"`
	TrustedHeader     string `yaml:"trustedHeader"`
	TrustForwardedFor bool   `yaml:"trustForwardedFor"`
}

// Window returns the configured window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// AuthConfig contains bearer token verification settings.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// WeatherConfig controls the upstream weather provider and its resilience knobs.
type WeatherConfig struct {
	APIKey          string         `yaml:"apiKey"`
	BaseURL         string         `yaml:"baseUrl"`
	GeoBaseURL      string         `yaml:"geoBaseUrl"`
	CacheTTL        time.Duration  `yaml:"cacheTtl"`
	Timeout         time.Duration  `yaml:"timeout"`
	MaxAttempts     int            `yaml:"maxAttempts"`
	BaseBackoff     time.Duration  `yaml:"baseBackoff"`
	BreakerFailures uint32         `yaml:"breakerFailures"`
	BreakerCooldown time.Duration  `yaml:"breakerCooldown"`
	DefaultLocation LocationConfig `yaml:"defaultLocation"`
}

// LocationConfig is the place used when geocoding yields nothing.
type LocationConfig struct {
	Name      string  `yaml:"name"`
	Country   string  `yaml:"country"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// ValkeyConfig contains connection information for the shared counter and cache store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// RecommendationConfig tunes the daily flow.
type RecommendationConfig struct {
	DefaultOutfitCount int `yaml:"defaultOutfitCount"`
	PreferenceWindow   int `yaml:"preferenceWindow"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_MAX_BODY_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.HTTP.MaxBodyBytes = parsed
		}
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.WindowSeconds = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_MAX_REQUESTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.MaxRequests = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_PLATFORM"); v != "" {
		cfg.HTTP.RateLimit.Platform = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_TRUSTED_HEADER"); v != "" {
		cfg.HTTP.RateLimit.TrustedHeader = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_TRUST_FORWARDED_FOR"); v != "" {
		cfg.HTTP.RateLimit.TrustForwardedFor = parseBool(v)
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_JWT_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_GEO_BASE_URL"); v != "" {
		cfg.Weather.GeoBaseURL = v
	}
	if v := os.Getenv("WEATHER_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.CacheTTL = parsed
		}
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("RECOMMENDATION_DEFAULT_OUTFIT_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommendation.DefaultOutfitCount = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			MaxBodyBytes: 64 << 10,
			RateLimit: RateLimitConfig{
				Enabled:       true,
				WindowSeconds: 60,
				MaxRequests:   30,
				Prefix:        "ratelimit",
			},
		},
		Auth: AuthConfig{
			TokenTTL: time.Hour,
		},
		Weather: WeatherConfig{
			BaseURL:         "https://api.openweathermap.org/data/2.5",
			GeoBaseURL:      "https://api.openweathermap.org/geo/1.0",
			CacheTTL:        30 * time.Minute,
			Timeout:         4 * time.Second,
			MaxAttempts:     3,
			BaseBackoff:     200 * time.Millisecond,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
			DefaultLocation: LocationConfig{
				Name:      "Seoul",
				Country:   "KR",
				Latitude:  37.5665,
				Longitude: 126.978,
			},
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Recommendation: RecommendationConfig{
			DefaultOutfitCount: 3,
			PreferenceWindow:   50,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("http.maxBodyBytes must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.WindowSeconds <= 0 {
			return errors.New("http.rateLimit.windowSeconds must be positive")
		}
		if c.HTTP.RateLimit.MaxRequests <= 0 {
			return errors.New("http.rateLimit.maxRequests must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Weather.CacheTTL < 0 {
		return errors.New("weather.cacheTtl cannot be negative")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if c.Weather.MaxAttempts <= 0 {
		return errors.New("weather.maxAttempts must be positive")
	}
	if c.Weather.APIKey != "" && (c.Weather.BaseURL == "" || c.Weather.GeoBaseURL == "") {
		return errors.New("weather.baseUrl and weather.geoBaseUrl are required when weather.apiKey is set")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Recommendation.DefaultOutfitCount < 1 || c.Recommendation.DefaultOutfitCount > 10 {
		return errors.New("recommendation.defaultOutfitCount must be between 1 and 10")
	}
	if c.Recommendation.PreferenceWindow <= 0 {
		return errors.New("recommendation.preferenceWindow must be positive")
	}
	return nil
}
