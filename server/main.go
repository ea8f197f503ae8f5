package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/multiscale/internal/config"
	"github.com/phambaophuc/multiscale/internal/http/handlers"
	"github.com/phambaophuc/multiscale/internal/http/routes"
	"github.com/phambaophuc/multiscale/internal/services/processor"
	"github.com/phambaophuc/multiscale/internal/services/storage"
	"github.com/phambaophuc/multiscale/internal/services/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	duplicates, err := processor.ParseDuplicatePolicy(cfg.Pipeline.DuplicatePolicy)
	if err != nil {
		logger.Fatal("Invalid duplicate policy", zap.Error(err))
	}

	// Initialize services
	storageService, err := storage.NewStorageService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}
	defer storageService.Close()

	var telemetryHealth handlers.HealthChecker
	sinks := telemetry.NewMultiSink(logger, telemetry.NewLogSink(logger.Named("usage")))
	if cfg.RabbitMQ.URL != "" {
		amqpSink, err := telemetry.NewAMQPSink(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			// Continue without the broker, usage events are only logged locally
			logger.Warn("Failed to initialize telemetry publisher", zap.Error(err))
		} else {
			defer amqpSink.Close()
			telemetryHealth = amqpSink
			sinks = telemetry.NewMultiSink(logger, telemetry.NewLogSink(logger.Named("usage")), amqpSink)
		}
	}

	meterProvider, err := telemetry.InstallMeterProvider()
	if err != nil {
		logger.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer meterProvider.Shutdown(context.Background())

	metrics, err := processor.NewMetrics(meterProvider.Meter(telemetry.MeterName))
	if err != nil {
		logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	opts := processor.Options{
		Workers:    cfg.Pipeline.Workers,
		Duplicates: duplicates,
		Sink:       sinks,
		Metrics:    metrics,
		Logger:     logger,
	}
	if cache := storageService.Cache(); cache != nil {
		opts.Cache = cache
	}

	rasterizer := processor.NewRasterizer(processor.RasterizerOptions{
		MaxFileSize:     cfg.Storage.MaxFileSize,
		MaxSourcePixels: cfg.Pipeline.MaxSourcePixels,
		Timeout:         cfg.Pipeline.ImageTimeout,
		Compression:     cfg.Pipeline.PNGCompression,
	})
	packager := processor.NewPackager(rasterizer, opts)

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(packager, storageService, telemetryHealth, logger, cfg)

	router := routes.NewRouter(imageHandler, logger, true)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
