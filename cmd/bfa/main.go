package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/config"
	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/handler"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/cache"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/memory"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/resilience"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/sqlite"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/supabase"
	"github.com/boddenberg/smb-dashboard-bfa/internal/port"
	"github.com/boddenberg/smb-dashboard-bfa/internal/reporting"
	"github.com/boddenberg/smb-dashboard-bfa/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_backend", cfg.DataBackend),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("report_months", cfg.ReportMonths),
		zap.Bool("legacy_month_keys", cfg.LegacyMonthKeys),
	)
	if cfg.JWTSecret == config.DevJWTSecret {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}

	// Money renders as JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true

	// --- Tracing ---
	endpoint := ""
	if cfg.OTelEnabled {
		endpoint = cfg.OTLPEndpoint
	}
	shutdown, err := observability.InitTracer(endpoint, "smb-dashboard-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	snapshots := cache.New[*domain.RecordSnapshot](cfg.CacheTTL)
	defer snapshots.Close()

	// --- Record store ---
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}
	defer closeStore()

	// --- Engine ---
	opts := []reporting.Option{
		reporting.WithSkipRecorder(metrics),
		reporting.WithWindow(cfg.ReportMonths),
	}
	if cfg.LegacyMonthKeys {
		opts = append(opts, reporting.WithMonthNameKeys())
	}
	engine := reporting.New(logger.Named("reporting"), opts...)

	// --- Services ---
	dashSvc := service.NewDashboardService(store, engine, snapshots, metrics, logger, time.Now, cfg.DataBackend)
	recordSvc := service.NewRecordService(store, snapshots, metrics, logger, cfg.DataBackend)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Dashboard:     dashSvc,
		Records:       recordSvc,
		Store:         store,
		StoreName:     cfg.DataBackend,
		JWTSecret:     []byte(cfg.JWTSecret),
		ActivityLimit: cfg.ActivityLimit,
		Metrics:       metrics,
		Logger:        logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// openStore builds the record store selected by DATA_BACKEND.
func openStore(cfg *config.Config, logger *zap.Logger) (port.RecordStore, func(), error) {
	noop := func() {}

	switch cfg.DataBackend {
	case config.BackendSQLite:
		logger.Info("using SQLite as data backend", zap.String("path", cfg.SQLitePath))
		s, err := sqlite.Open(cfg.SQLitePath, logger.Named("sqlite"))
		if err != nil {
			return nil, noop, err
		}
		return s, func() { s.Close() }, nil

	case config.BackendMemory:
		logger.Warn("using in-memory data backend, records are lost on restart")
		return memory.NewStore(), noop, nil

	default:
		logger.Info("using Supabase as data backend", zap.String("supabase_url", cfg.SupabaseURL))
		resilienceCfg := resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxConcurrency: cfg.MaxConcurrency,
		}
		client := supabase.NewClient(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.SupabaseURL,
			cfg.SupabaseAnon,
			cfg.SupabaseKey,
			resilience.NewCircuitBreaker("supabase"),
			resilienceCfg,
			resilience.NewBulkhead(cfg.MaxConcurrency),
			logger.Named("supabase"),
		)
		return client, noop, nil
	}
}
