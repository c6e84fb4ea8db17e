package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"parking-status-backend/config"
	"parking-status-backend/internal/api"
	"parking-status-backend/internal/collector"
	"parking-status-backend/internal/db"
	"parking-status-backend/internal/nominatim"
	"parking-status-backend/internal/pwrapi"
	"parking-status-backend/internal/service"
	"parking-status-backend/internal/store"
	"parking-status-backend/internal/telemetry"
)

func initLogger(debug bool) *zap.Logger {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return logger
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger := initLogger(cfg.Server.Debug)
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath))

	// Telemetry database.
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	telemetryStore := telemetry.NewGormStore(gormDB)
	telemetrySvc := telemetry.NewService(telemetryStore)

	// Historical occupancy repository, loaded from its snapshot file.
	repo := store.OpenParkingDataRepository(cfg.Stats.DataFile, logger)
	logger.Info("occupancy repository loaded",
		zap.String("path", cfg.Stats.DataFile),
		zap.Int("facilities", repo.Len()))

	fetcher := pwrapi.NewClient(&cfg.Upstream, logger)
	geocoder := nominatim.NewClient(&cfg.Nominatim, logger)
	parkingSvc := service.NewParkingService(fetcher, geocoder, repo, cfg.Stats.BucketMinutes, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background occupancy collection.
	coll := collector.New(&cfg.Collector, fetcher, repo, cfg.Stats.BucketMinutes, logger)
	go coll.Run(ctx)

	handler := api.NewHandler(parkingSvc, telemetrySvc, logger)
	router := api.NewRouter(&cfg.Server, handler, telemetryStore, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown signal received, stopping services")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("HTTP server shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
