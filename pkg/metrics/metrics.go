package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outfit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfit_rate_limit_decisions_total",
			Help: "Rate limiter decisions by scope and outcome",
		},
		[]string{"scope", "outcome"}, // outcome: allowed, rejected
	)

	RateLimitStoreFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outfit_rate_limit_store_fallbacks_total",
			Help: "Checks served by the in-memory store after the shared store failed",
		},
	)

	WeatherLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfit_weather_lookups_total",
			Help: "Weather lookups by result source",
		},
		[]string{"source"}, // cache, upstream, default
	)

	GeocodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfit_geocode_lookups_total",
			Help: "Geocoding lookups by direction and result source",
		},
		[]string{"direction", "source"}, // forward|reverse, local|upstream|default
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outfit_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	OutfitsGenerated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outfit_generated_combinations",
			Help:    "Number of distinct combinations generated per daily recommendation",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)
)

// RecordHTTPRequest observes a finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordRateLimit counts a limiter decision.
func RecordRateLimit(scope string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "rejected"
	}
	RateLimitDecisions.WithLabelValues(scope, outcome).Inc()
}

// RecordWeatherLookup counts where a snapshot came from.
func RecordWeatherLookup(source string) {
	WeatherLookups.WithLabelValues(source).Inc()
}

// RecordGeocode counts where a geocoding answer came from.
func RecordGeocode(direction, source string) {
	GeocodeLookups.WithLabelValues(direction, source).Inc()
}

// SetCircuitBreakerState mirrors gobreaker state values into the gauge.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
