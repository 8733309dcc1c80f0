package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/smb-dashboard-bfa/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps groups everything the router wires into its handlers.
type Deps struct {
	Dashboard     *service.DashboardService
	Records       *service.RecordService
	Store         Pinger
	StoreName     string
	JWTSecret     []byte
	ActivityLimit int
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(d.Logger, d.Metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.Store, d.StoreName, d.Logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Get("/metrics/reporting", reportingMetricsHandler(d.Metrics, d.StoreName))

		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(d.JWTSecret, d.Logger))

			// Dashboard (derived views, recomputed per request)
			r.Get("/dashboard", dashboardHandler(d.Dashboard, d.ActivityLimit, d.Logger))
			r.Get("/dashboard/series", seriesHandler(d.Dashboard, d.Logger))
			r.Get("/dashboard/summary", summaryHandler(d.Dashboard, d.Logger))
			r.Get("/dashboard/activity", activityHandler(d.Dashboard, d.ActivityLimit, d.Logger))

			// Raw records
			r.Get("/invoices", listInvoicesHandler(d.Records, d.Logger))
			r.Post("/invoices", createInvoiceHandler(d.Records, d.Logger))
			r.Get("/expenses", listExpensesHandler(d.Records, d.Logger))
			r.Post("/expenses", createExpenseHandler(d.Records, d.Logger))
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(store Pinger, storeName string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bfa-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			start := time.Now()
			err := store.Ping(ctx)
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				logger.Warn("health check: store unreachable", zap.String("store", storeName), zap.Error(err))
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: storeName, Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func reportingMetricsHandler(metrics *observability.Metrics, storeName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetReportingSnapshot(storeName))
	}
}
