package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/outfit-advisor/internal/domain/auth"
	"github.com/yanqian/outfit-advisor/internal/domain/ratelimit"
	"github.com/yanqian/outfit-advisor/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, limiter *ratelimit.Limiter) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	useJSONFieldNames()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(
		bodyLimitMiddleware(cfg.HTTP.MaxBodyBytes),
		authMiddleware(authSvc),
	)
	{
		api.GET("/weather", handler.CurrentWeather)
		api.POST("/preferences/events", handler.RecordPreferences)
	}

	limited := api.Group("")
	limited.Use(rateLimitMiddleware(limiter, cfg.HTTP.RateLimit, handler.logger))
	{
		limited.POST("/outfits/rank", handler.RankOutfits)
		limited.POST("/recommendations/daily", handler.DailyRecommendation)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
