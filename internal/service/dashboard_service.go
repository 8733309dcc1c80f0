// Package service provides the business logic layer (use cases).
// DashboardService feeds the reporting engine from a record source;
// RecordService validates and persists new records.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/smb-dashboard-bfa/internal/port"
	"github.com/boddenberg/smb-dashboard-bfa/internal/reporting"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/dashboard")

// snapshotKey is the cache key of an owner's raw records.
func snapshotKey(ownerID string) string {
	return fmt.Sprintf("%s:%s", observability.CacheRecords, ownerID)
}

// DashboardService loads an owner's invoices and expenses and runs the
// reporting engine over them. Only raw snapshots are cached; every derived
// view is recomputed per call.
type DashboardService struct {
	source    port.RecordSource
	engine    *reporting.Engine
	cache     port.Cache[*domain.RecordSnapshot]
	metrics   *observability.Metrics
	logger    *zap.Logger
	clock     func() time.Time
	storeName string
}

// NewDashboardService creates the dashboard service with all dependencies
// injected. A nil clock means time.Now.
func NewDashboardService(
	source port.RecordSource,
	engine *reporting.Engine,
	cache port.Cache[*domain.RecordSnapshot],
	metrics *observability.Metrics,
	logger *zap.Logger,
	clock func() time.Time,
	storeName string,
) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{
		source:    source,
		engine:    engine,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		clock:     clock,
		storeName: storeName,
	}
}

// GetDashboard returns the full report: filtered series, summary over that
// series, and the recent activity feed.
func (s *DashboardService) GetDashboard(ctx context.Context, ownerID string, period domain.Period, limit int) (*domain.DashboardReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "DashboardService.GetDashboard")
	defer span.End()
	span.SetAttributes(
		attribute.String("owner.id", ownerID),
		attribute.String("report.period", string(period)),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("dashboard", time.Since(start))
	}()

	snap, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := s.engine.BuildReport(s.clock().UTC(), period, snap.Invoices, snap.Expenses, limit)
	s.metrics.IncrReport(string(report.Period))
	span.SetAttributes(attribute.Int("report.skipped", report.SkippedRecords))

	if report.SkippedRecords > 0 {
		s.logger.Info("dashboard built with skipped records",
			zap.String("owner_id", ownerID),
			zap.Int("skipped", report.SkippedRecords),
		)
	}
	return report, nil
}

// GetSeries returns the monthly buckets of the requested period.
func (s *DashboardService) GetSeries(ctx context.Context, ownerID string, period domain.Period) ([]domain.MonthlyBucket, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.GetSeries")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	snap, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.series(snap, period), nil
}

// GetSummary returns the summary cards of the requested period. Totals are
// taken over the same buckets GetSeries returns.
func (s *DashboardService) GetSummary(ctx context.Context, ownerID string, period domain.Period) (*domain.FinancialSummary, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.GetSummary")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	snap, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	summary := reporting.Summarize(s.series(snap, period), snap.Invoices)
	return &summary, nil
}

// GetActivity returns the merged recent-activity feed.
func (s *DashboardService) GetActivity(ctx context.Context, ownerID string, limit int) ([]domain.ActivityItem, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.GetActivity")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	snap, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.engine.MergeActivity(snap.Invoices, snap.Expenses, limit), nil
}

func (s *DashboardService) series(snap *domain.RecordSnapshot, period domain.Period) []domain.MonthlyBucket {
	buckets := s.engine.BuildMonthlyBuckets(s.clock().UTC(), s.engine.Window(), snap.Invoices, snap.Expenses)
	return reporting.FilterPeriod(buckets, period)
}

// loadSnapshot returns the owner's records, fetching invoices and expenses
// concurrently on a cache miss. A snapshot fetched while a write invalidated
// the owner is returned but not cached.
func (s *DashboardService) loadSnapshot(ctx context.Context, ownerID string) (*domain.RecordSnapshot, error) {
	key := snapshotKey(ownerID)
	gen := s.cache.Generation(key)
	if snap, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit(observability.CacheRecords)
		return snap, nil
	}
	s.metrics.IncrCacheMiss(observability.CacheRecords)

	var (
		invoices []domain.Invoice
		expenses []domain.Expense
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		inv, err := s.source.ListInvoices(gCtx, ownerID)
		if err != nil {
			s.logger.Error("failed to fetch invoices",
				zap.String("owner_id", ownerID),
				zap.Error(err),
			)
			s.metrics.IncrStoreError(s.storeName)
			return fmt.Errorf("invoices fetch: %w", err)
		}
		invoices = inv
		return nil
	})

	g.Go(func() error {
		exp, err := s.source.ListExpenses(gCtx, ownerID)
		if err != nil {
			s.logger.Error("failed to fetch expenses",
				zap.String("owner_id", ownerID),
				zap.Error(err),
			)
			s.metrics.IncrStoreError(s.storeName)
			return fmt.Errorf("expenses fetch: %w", err)
		}
		expenses = exp
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &domain.RecordSnapshot{Invoices: invoices, Expenses: expenses}
	s.cache.SetIfGeneration(key, snap, gen)
	return snap, nil
}
