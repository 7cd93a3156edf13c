package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/channelpulse/backend-go/internal/api"
	"github.com/channelpulse/backend-go/internal/cache"
	"github.com/channelpulse/backend-go/internal/config"
	"github.com/channelpulse/backend-go/internal/repository"
	"github.com/channelpulse/backend-go/internal/service"
	"github.com/channelpulse/backend-go/internal/storage"
	"github.com/channelpulse/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.UseJSON()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.NewMinioClient(ctx, cfg.Storage)
	cancel()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to object storage")
	}

	analysisCache, err := cache.NewAnalysisCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("analysis cache unavailable, continuing without caching")
		analysisCache = cache.NewNoopAnalysisCache()
	}

	dashboards := repository.NewDashboardRepository(store)
	markets := repository.NewMarketRepository(store)

	router := api.NewRouter(&api.Services{
		Upload:    service.NewUploadService(dashboards, markets, analysisCache),
		Analytics: service.NewAnalyticsService(dashboards, analysisCache, cfg.Analytics),
		Market:    service.NewMarketService(markets),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
