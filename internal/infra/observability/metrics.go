package observability

import (
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// CacheRecords labels the raw record snapshot cache.
const CacheRecords = "records"

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	storeErrors      *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	skippedRecords   *prometheus.CounterVec
	reportsGenerated *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_store_errors_total",
				Help: "Total errors returned by record stores.",
			},
			[]string{"store"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		skippedRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_skipped_records_total",
				Help: "Records left out of the monthly rollup because of an invalid date.",
			},
			[]string{"kind"},
		),
		reportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_reports_generated_total",
				Help: "Total dashboard reports computed, by period.",
			},
			[]string{"period"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the record store error counter.
func (m *Metrics) IncrStoreError(store string) {
	m.storeErrors.WithLabelValues(store).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordSkipped counts a record dropped from the monthly rollup.
// Satisfies reporting.SkipRecorder.
func (m *Metrics) RecordSkipped(kind string) {
	m.skippedRecords.WithLabelValues(kind).Inc()
}

// IncrReport counts a computed dashboard report.
func (m *Metrics) IncrReport(period string) {
	m.reportsGenerated.WithLabelValues(period).Inc()
}

// GetReportingSnapshot returns a snapshot of reporting metrics suitable for
// the GET /v1/metrics/reporting endpoint.
func (m *Metrics) GetReportingSnapshot(store string) *domain.ReportingMetrics {
	// Prometheus counters expose cumulative values.
	reports := float64(0)
	for _, p := range []domain.Period{domain.Period30Days, domain.Period3Months, domain.Period6Months, domain.Period12Months} {
		reports += getCounterValue(m.reportsGenerated, string(p))
	}
	hits := getCounterValue(m.cacheHits, CacheRecords)
	misses := getCounterValue(m.cacheMisses, CacheRecords)

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.ReportingMetrics{
		ReportsGenerated: int64(reports),
		SkippedInvoices:  int64(getCounterValue(m.skippedRecords, string(domain.ActivityInvoice))),
		SkippedExpenses:  int64(getCounterValue(m.skippedRecords, string(domain.ActivityExpense))),
		StoreErrors:      int64(getCounterValue(m.storeErrors, store)),
		CacheHitRate:     hitRate,
		Period:           "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
