// Package app assembles the rounds service: configuration, database,
// observability, modules, and HTTP servers.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/discbaboons/rounds-service/app/modules/round"
	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	"github.com/discbaboons/rounds-service/app/modules/sidebet"
	"github.com/discbaboons/rounds-service/config"
	"github.com/discbaboons/rounds-service/internal/middleware"
	"github.com/discbaboons/rounds-service/internal/observability/attr"
	settlementmetrics "github.com/discbaboons/rounds-service/internal/observability/metrics/settlement"
)

// App is the assembled rounds service.
type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	db            *bun.DB
	httpServer    *http.Server
	metricsServer *http.Server

	Round   *round.Module
	SideBet *sidebet.Module
}

// New builds the service from configuration.
func New(cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.Observability.LogLevel)

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := settlementmetrics.NewPrometheus(registry)
	tracer := otel.Tracer("rounds-service")

	// The side-bet module authorizes against round membership, and the
	// round leaderboard folds in side-bet standings.
	roundRepo := rounddb.NewRepository(db)
	sideBetModule := sidebet.NewModule(db, roundRepo, logger, metrics, tracer)
	roundModule := round.NewModule(db, sideBetModule.Service, logger, metrics, tracer)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.RateLimit(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst))

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Route("/api", func(r chi.Router) {
		r.Use(middleware.Identity)
		roundModule.Mount(r, logger)
		sideBetModule.Mount(r, logger)
	})

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		metricsServer: &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Round:   roundModule,
		SideBet: sideBetModule,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("HTTP server listening", attr.String("address", a.cfg.HTTP.Address))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		a.logger.Info("Metrics server listening", attr.String("address", a.cfg.Observability.MetricsAddress))
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.shutdown()
		return err
	}

	a.logger.Info("Shutdown requested")
	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", attr.Error(err))
	}
	if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Metrics server shutdown failed", attr.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("Database close failed", attr.Error(err))
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
