package reporting

import (
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
)

// BuildReport computes every dashboard view for one record snapshot. The
// summary is taken over the filtered series so the cards match the chart;
// the outstanding balance always covers the whole invoice set.
func (e *Engine) BuildReport(now time.Time, period domain.Period, invoices []domain.Invoice, expenses []domain.Expense, limit int) *domain.DashboardReport {
	period = domain.ParsePeriod(string(period))

	buckets, skipped := e.bucketize(now, e.window, invoices, expenses)
	series := FilterPeriod(buckets, period)

	return &domain.DashboardReport{
		Period:         period,
		GeneratedAt:    now,
		Series:         series,
		Summary:        Summarize(series, invoices),
		RecentActivity: e.MergeActivity(invoices, expenses, limit),
		SkippedRecords: skipped,
	}
}
