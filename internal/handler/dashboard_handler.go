package handler

import (
	"net/http"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Dashboard
// GET /v1/dashboard?period=&limit=
// GET /v1/dashboard/series?period=
// GET /v1/dashboard/summary?period=
// GET /v1/dashboard/activity?limit=
// ============================================================

func dashboardHandler(svc *service.DashboardService, defaultLimit int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard")
		defer span.End()

		ownerID := OwnerIDFromContext(ctx)
		period := domain.ParsePeriod(r.URL.Query().Get("period"))
		limit := parseLimit(r, defaultLimit)
		span.SetAttributes(
			attribute.String("owner.id", ownerID),
			attribute.String("report.period", string(period)),
		)

		report, err := svc.GetDashboard(ctx, ownerID, period, limit)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func seriesHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/series")
		defer span.End()

		period := domain.ParsePeriod(r.URL.Query().Get("period"))
		series, err := svc.GetSeries(ctx, OwnerIDFromContext(ctx), period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, series)
	}
}

func summaryHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/summary")
		defer span.End()

		period := domain.ParsePeriod(r.URL.Query().Get("period"))
		summary, err := svc.GetSummary(ctx, OwnerIDFromContext(ctx), period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func activityHandler(svc *service.DashboardService, defaultLimit int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/activity")
		defer span.End()

		items, err := svc.GetActivity(ctx, OwnerIDFromContext(ctx), parseLimit(r, defaultLimit))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}
