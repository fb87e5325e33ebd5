//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/outfit-advisor/internal/bootstrap"
	"github.com/yanqian/outfit-advisor/internal/domain/auth"
	"github.com/yanqian/outfit-advisor/internal/domain/preference"
	"github.com/yanqian/outfit-advisor/internal/domain/recommendation"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/internal/infra/config"
	"github.com/yanqian/outfit-advisor/internal/infra/weather/openweather"
	httpiface "github.com/yanqian/outfit-advisor/internal/interface/http"
	"github.com/yanqian/outfit-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideWeatherConfig,
		providePreferenceConfig,
		provideRecommendationConfig,
		provideWeatherClient,
		provideValkeyClient,
		provideWeatherCache,
		providePreferenceStore,
		provideRateLimiter,
		provideItemRepository,
		auth.NewService,
		weather.NewService,
		preference.NewService,
		recommendation.NewService,
		wire.Bind(new(weather.Provider), new(*openweather.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
