package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/facility-dashboard/internal/adapter/http"
	"github.com/couchcryptid/facility-dashboard/internal/app"
	"github.com/couchcryptid/facility-dashboard/internal/config"
	"github.com/couchcryptid/facility-dashboard/internal/dashboard"
	"github.com/couchcryptid/facility-dashboard/internal/domain"
	"github.com/couchcryptid/facility-dashboard/internal/observability"
	"github.com/couchcryptid/facility-dashboard/internal/view"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, closeLoader, err := app.OpenLoader(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to open warehouse", "driver", cfg.WarehouseDriver, "error", err)
		os.Exit(1)
	}
	defer closeLoader()

	opts := dashboard.Options{
		Driver:       cfg.WarehouseDriver,
		QueryTimeout: cfg.QueryTimeout,
		Map: view.MapOptions{
			Center: domain.Coordinate{Lat: cfg.MapCenterLat, Lon: cfg.MapCenterLon},
			Zoom:   cfg.MapZoom,
		},
		CenterPlace: cfg.MapCenterPlace,
		Geocoder:    app.Geocoder(cfg, logger, metrics),
	}
	publisher := app.Publisher(cfg, logger)
	if publisher != nil {
		opts.Publisher = publisher
	}

	svc := dashboard.New(loader, opts, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	// Start HTTP server.
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "driver", cfg.WarehouseDriver, "query", loader.Query())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm-up pass so readiness reflects the warehouse before the first visitor.
	go func() {
		if _, err := svc.Render(ctx, dashboard.FilterInput{}); err != nil {
			logger.Warn("warm-up render failed", "error", err, "kind", domain.ErrorKind(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
