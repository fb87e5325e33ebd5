package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yanqian/outfit-advisor/internal/domain/preference"
	"github.com/yanqian/outfit-advisor/internal/domain/recommendation"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	recommendationSvc recommendation.Service
	preferenceSvc     preference.Service
	weatherSvc        weather.Service
	logger            *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(recommendationSvc recommendation.Service, preferenceSvc preference.Service, weatherSvc weather.Service, logger *slog.Logger) *Handler {
	return &Handler{
		recommendationSvc: recommendationSvc,
		preferenceSvc:     preferenceSvc,
		weatherSvc:        weatherSvc,
		logger:            logger.With("component", "http.handler"),
	}
}

// RankOutfits re-ranks caller supplied outfits against optional preferences.
func (h *Handler) RankOutfits(c *gin.Context) {
	var req recommendation.RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	results, err := h.recommendationSvc.Rank(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, results)
}

// DailyRecommendation builds the caller's outfits for a date and place.
func (h *Handler) DailyRecommendation(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		abortWithError(c, errUnauthorized(nil))
		return
	}
	var req recommendation.DailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	resp, err := h.recommendationSvc.Daily(c.Request.Context(), identity.UserID, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RecordPreferences appends like/dislike feedback to the caller's window.
func (h *Handler) RecordPreferences(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		abortWithError(c, errUnauthorized(nil))
		return
	}
	var req preference.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, bindError(err))
		return
	}

	if err := h.preferenceSvc.Record(c.Request.Context(), identity.UserID, req); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": len(req.Events)})
}

type weatherQuery struct {
	Lat *float64 `form:"lat" json:"lat" binding:"required,latitude"`
	Lon *float64 `form:"lon" json:"lon" binding:"required,longitude"`
}

// CurrentWeather reports the resilient snapshot and place name for a point.
func (h *Handler) CurrentWeather(c *gin.Context) {
	var q weatherQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			abortWithError(c, bindError(err))
			return
		}
		abortWithError(c, fromDomainError(apperrors.Invalid("request validation failed",
			apperrors.FieldError{Field: "lat,lon", Reason: "must be decimal degrees"})))
		return
	}
	point := weather.Coordinates{Latitude: *q.Lat, Longitude: *q.Lon}
	ctx := c.Request.Context()

	snapshot := h.weatherSvc.Current(ctx, point)
	name := h.weatherSvc.ReverseGeocode(ctx, point)
	if snapshot.Location == "" {
		snapshot.Location = name
	}

	c.JSON(http.StatusOK, gin.H{
		"location": weather.Location{Name: name, Coordinates: point},
		"weather":  snapshot,
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
