package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

const (
	defaultBaseURL    = "https://api.openweathermap.org/data/2.5"
	defaultGeoBaseURL = "https://api.openweathermap.org/geo/1.0"
)

// ErrNoMatch is returned when geocoding finds no place.
var ErrNoMatch = fmt.Errorf("openweather: %w", weather.ErrPlaceNotFound)

// Client talks to the OpenWeather current weather and geocoding APIs.
type Client struct {
	apiKey     string
	baseURL    string
	geoBaseURL string
	httpClient *http.Client
}

// NewClient builds an API client. Per-call deadlines come from the caller's context.
func NewClient(apiKey, baseURL, geoBaseURL string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    trimBase(baseURL, defaultBaseURL),
		geoBaseURL: trimBase(geoBaseURL, defaultGeoBaseURL),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func trimBase(raw, fallback string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		base = fallback
	}
	return strings.TrimRight(base, "/")
}

// CurrentWeather implements weather.Provider.
func (c *Client) CurrentWeather(ctx context.Context, point weather.Coordinates) (weather.Observation, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(point.Latitude))
	query.Set("lon", formatCoord(point.Longitude))
	query.Set("units", "metric")

	var raw currentResponse
	if err := c.get(ctx, c.baseURL+"/weather", query, &raw); err != nil {
		return weather.Observation{}, err
	}
	obs := weather.Observation{
		Temperature:  raw.Main.Temp,
		Humidity:     raw.Main.Humidity,
		WindSpeed:    raw.Wind.Speed,
		Condition:    weather.ConditionUnknown,
		LocationName: raw.Name,
	}
	if len(raw.Weather) > 0 {
		obs.Condition = normalizeCondition(raw.Weather[0].Main)
	}
	if raw.Dt > 0 {
		obs.ObservedAt = time.Unix(raw.Dt, 0).UTC()
	}
	return obs, nil
}

// Geocode implements weather.Provider.
func (c *Client) Geocode(ctx context.Context, name string) (weather.Location, error) {
	query := url.Values{}
	query.Set("q", name)
	query.Set("limit", "1")
	return c.firstPlace(ctx, c.geoBaseURL+"/direct", query)
}

// ReverseGeocode implements weather.Provider.
func (c *Client) ReverseGeocode(ctx context.Context, point weather.Coordinates) (weather.Location, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(point.Latitude))
	query.Set("lon", formatCoord(point.Longitude))
	query.Set("limit", "1")
	return c.firstPlace(ctx, c.geoBaseURL+"/reverse", query)
}

func (c *Client) firstPlace(ctx context.Context, endpoint string, query url.Values) (weather.Location, error) {
	var places []place
	if err := c.get(ctx, endpoint, query, &places); err != nil {
		return weather.Location{}, err
	}
	if len(places) == 0 || strings.TrimSpace(places[0].Name) == "" {
		return weather.Location{}, ErrNoMatch
	}
	p := places[0]
	return weather.Location{
		Name:        p.Name,
		Country:     p.Country,
		Coordinates: weather.Coordinates{Latitude: p.Lat, Longitude: p.Lon},
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	query.Set("appid", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, appid included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("weather request failed: %s %s: %w", urlErr.Op, endpoint, urlErr.Err)
		}
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read weather response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

type currentResponse struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
}

type place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func normalizeCondition(raw string) weather.Condition {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clear":
		return weather.ConditionClear
	case "clouds":
		return weather.ConditionClouds
	case "rain":
		return weather.ConditionRain
	case "drizzle":
		return weather.ConditionDrizzle
	case "thunderstorm":
		return weather.ConditionThunderstorm
	case "snow":
		return weather.ConditionSnow
	case "mist", "fog", "haze", "smoke", "dust", "sand", "ash":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

var _ weather.Provider = (*Client)(nil)
