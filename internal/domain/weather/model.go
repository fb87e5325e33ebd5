package weather

import (
	"fmt"
	"math"
	"time"
)

// Condition is the normalized sky condition.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionClouds       Condition = "clouds"
	ConditionRain         Condition = "rain"
	ConditionDrizzle      Condition = "drizzle"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionSnow         Condition = "snow"
	ConditionMist         Condition = "mist"
	ConditionUnknown      Condition = "unknown"
)

// Snapshot sources.
const (
	SourceUpstream = "upstream"
	SourceDefault  = "default"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies on the globe.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// CacheKey rounds to two decimals (roughly 1 km) so nearby requests share an entry.
func (c Coordinates) CacheKey() string {
	return fmt.Sprintf("%.2f:%.2f", round2(c.Latitude), round2(c.Longitude))
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // avoid "-0.00"
	}
	return r
}

// Location is a named place.
type Location struct {
	Name        string      `json:"name"`
	Country     string      `json:"country,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// Snapshot is the current weather at a point. A request always carries one.
type Snapshot struct {
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	Humidity    int       `json:"humidity"`
	Condition   Condition `json:"condition"`
	WindSpeed   float64   `json:"windSpeed"`
	Location    string    `json:"location,omitempty"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetchedAt,omitzero"`
}

// Observation is what an upstream provider reports before local derivation.
type Observation struct {
	Temperature  float64
	Humidity     int
	WindSpeed    float64
	Condition    Condition
	LocationName string
	ObservedAt   time.Time
}

// Default conditions used whenever upstream data is unavailable.
const (
	DefaultTemperature = 25.0
	DefaultHumidity    = 60
	DefaultWindSpeed   = 0.0
)

// DefaultSnapshot is the documented fallback: 25°C, 60% humidity, clear, calm.
// It is identical on every call and has no FetchedAt since nothing was fetched.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Temperature: DefaultTemperature,
		FeelsLike:   ApparentTemperature(DefaultTemperature, DefaultHumidity, DefaultWindSpeed),
		Humidity:    DefaultHumidity,
		Condition:   ConditionClear,
		WindSpeed:   DefaultWindSpeed,
		Source:      SourceDefault,
	}
}

// Config wires runtime knobs for the weather service.
type Config struct {
	APIKey          string
	CacheTTL        time.Duration
	Timeout         time.Duration
	MaxAttempts     int
	BaseBackoff     time.Duration
	DefaultLocation Location
	// BreakerFailures opens the upstream circuit after this many consecutive failures.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}
