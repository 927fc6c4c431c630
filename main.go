package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/metacheck/analyzer"
	"github.com/seo-optimizer/metacheck/config"
	"github.com/seo-optimizer/metacheck/logging"
	"github.com/seo-optimizer/metacheck/middleware"
	"github.com/seo-optimizer/metacheck/stats"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.Mode)

	monthly, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		slog.Error("failed to initialise statistics storage", "error", err)
		os.Exit(1)
	}
	statistics := logging.NewStatistics(filepath.Join(cfg.DataDir, "statistics.json"))

	fetcher := analyzer.NewFetcher(
		analyzer.WithTimeout(cfg.Fetch.Timeout),
		analyzer.WithRelay(cfg.Fetch.RelayURL),
	)

	srv := &server{
		analyzer:    analyzer.New(analyzer.WithFetcher(fetcher), analyzer.WithStats(monthly)),
		statistics:  statistics,
		monthly:     monthly,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		devMode:     cfg.DevMode,
	}

	stop := make(chan struct{})
	go srv.rateLimiter.RunEviction(5*time.Minute, stop)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.routes(),
	}

	go func() {
		slog.Info("server starting", "addr", "http://localhost:"+cfg.Server.Port, "mode", cfg.Server.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	close(stop)

	if err := statistics.Save(); err != nil {
		slog.Error("failed to save statistics", "error", err)
	}
	if err := monthly.Shutdown(); err != nil {
		slog.Error("failed to shutdown statistics storage", "error", err)
	}
	slog.Info("server stopped")
}
