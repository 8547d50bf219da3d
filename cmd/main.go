package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"

	"github.com/nvoss/propsight/internal/adapters/http/api"
	"github.com/nvoss/propsight/internal/adapters/providers"
	app "github.com/nvoss/propsight/internal/app"
	"github.com/nvoss/propsight/internal/config"
	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the service exposes its own
	// registry on /healthz.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Fixture providers share one cache TTL from configuration.
	static := providers.NewStatic(
		providers.WithCacheTTL(time.Duration(cfg.ProviderCacheTTLSec) * time.Second),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithStatsProvider(static),
		app.WithLineSource(static),
		app.WithMatchSource(static),
		app.WithRosterSource(static),
		app.WithStatTypes(statTypes(cfg.StatTypes)),
		app.WithRefreshInterval(time.Duration(cfg.RefreshIntervalSec)*time.Second),
		app.WithHistoryRetention(time.Duration(cfg.HistoryRetentionHours)*time.Hour),
		app.WithHistoryMaxEntries(cfg.HistoryMaxEntries),
		app.WithBaselines(statBaselines(cfg.Baselines), cfg.DefaultBaseline),
		app.WithClampBounds(cfg.FormClampMin, cfg.FormClampMax),
		app.WithSampleThresholds(cfg.FormSampleMin, cfg.TeamSampleMin),
		app.WithMovementThresholds(cfg.MovementAbsThreshold, cfg.MovementRelThreshold),
		app.WithOpportunityThresholds(statBaselines(cfg.OpportunityThresholds), cfg.OpportunityDefaultThreshold),
		app.WithConfidenceFloor(cfg.ConfidenceFloor),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)

	// The dashboard is served from a different origin in development.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           corsHandler.Handler(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// statTypes converts configured stat names into typed stats.
func statTypes(names []string) []model.StatType {
	out := make([]model.StatType, 0, len(names))
	for _, name := range names {
		out = append(out, model.ParseStatType(name))
	}
	return out
}

// statBaselines converts a configured stat->value map into a typed one.
func statBaselines(in map[string]float64) map[model.StatType]float64 {
	out := make(map[model.StatType]float64, len(in))
	for name, v := range in {
		out[model.ParseStatType(name)] = v
	}
	return out
}
