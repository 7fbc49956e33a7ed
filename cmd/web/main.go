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
	"daily_report_app_go/logging"
	"daily_report_app_go/services/i18n"
	"daily_report_app_go/web/handlers"
)

func main() {
	cfg := config.Load()

	logger, flush, err := logging.Install(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer flush()

	if err := i18n.Load(); err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}

	e := handlers.NewServer(handlers.NewApp(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Web server starting",
			zap.String("port", cfg.WebPort),
			zap.String("api_url", cfg.APIURL),
			zap.String("environment", cfg.Environment))
		if err := e.Start(":" + cfg.WebPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start web server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Web server stopped")
}
