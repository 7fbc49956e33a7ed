package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"daily_report_app_go/config"
	"daily_report_app_go/db"
	"daily_report_app_go/handlers"
	"daily_report_app_go/logging"
	"daily_report_app_go/models"
	"daily_report_app_go/services"
	"daily_report_app_go/services/jobs"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, flush, err := logging.Install(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer flush()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := services.SeedManagerFromEnv(db.DB); err != nil {
		logger.Error("Failed to seed manager", zap.Error(err))
	}

	e := handlers.NewServer(cfg)

	// Start background cleanup jobs (runs every hour)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go jobs.RunSessionCleanup(ctx, db.DB, jobs.CleanupInterval)

	go func() {
		logger.Info("API server starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("API server stopped")
}
