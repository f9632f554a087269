package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitebot/backend/config"
	httpDelivery "github.com/bitebot/backend/internal/delivery/http"
	"github.com/bitebot/backend/internal/domain"
	"github.com/bitebot/backend/internal/infrastructure/cache"
	"github.com/bitebot/backend/internal/infrastructure/logging"
	"github.com/bitebot/backend/internal/infrastructure/usda"
	"github.com/bitebot/backend/internal/scoring"
	"github.com/bitebot/backend/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

type closableCache interface {
	domain.CacheRepository
	io.Closer
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting BiteBot backend",
		slog.String("version", "1.0.0"),
		slog.String("environment", cfg.Server.Environment),
		slog.String("port", cfg.Server.Port),
		slog.String("cache", cfg.Cache.Type))

	engine, err := scoring.NewEngine(cfg.Scoring)
	if err != nil {
		return fmt.Errorf("scoring policy: %w", err)
	}

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	// Food lookup needs a USDA key; meal scoring works without one
	var foods usecase.FoodLookup
	if cfg.USDA.APIKey != "" {
		usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL,
			usda.WithLogger(logger),
			usda.WithRequestsPerHour(cfg.RateLimit.USDA))
		if cfg.Server.Environment == "development" {
			usdaClient.SetDebug(true)
		}
		foods = usecase.NewFoodService(store, usdaClient, usecase.FoodServiceConfig{
			CacheTTL:      cfg.Cache.TTL,
			MinConfidence: cfg.Matching.MinConfidence,
		}, logger)
		logger.Info("USDA food lookup enabled",
			slog.String("base_url", cfg.USDA.BaseURL),
			slog.Float64("min_confidence", cfg.Matching.MinConfidence))
	} else {
		logger.Warn("USDA API key not configured, food scoring disabled")
	}

	scoringService := usecase.NewScoringService(engine, foods, logger)
	metrics := httpDelivery.NewMetrics()
	handler := httpDelivery.NewHandler(scoringService, metrics, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger, metrics)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (closableCache, error) {
	if cfg.Type == "redis" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return cache.NewRedisCache(connectCtx, cfg.RedisURL)
	}
	return cache.NewMemoryCache(), nil
}
