// Package reporting turns raw invoice and expense records into the views the
// dashboard renders: a trailing monthly revenue/expense/profit series, the
// summary totals and the recent activity feed.
//
// The engine never performs I/O and never reads the wall clock; the reference
// time is always passed in. An Engine holds only immutable options, so one
// value can serve concurrent requests.
package reporting

import (
	"go.uber.org/zap"
)

const (
	// DefaultWindow is the number of monthly buckets built for a report.
	DefaultWindow = 12

	// DefaultActivityLimit is the length of the recent activity feed.
	DefaultActivityLimit = 5
)

// SkipRecorder is notified whenever a record is left out of the monthly
// rollup because its date could not be parsed.
type SkipRecorder interface {
	RecordSkipped(kind string)
}

// Engine computes dashboard views from record snapshots.
type Engine struct {
	logger        *zap.Logger
	skips         SkipRecorder
	window        int
	monthNameKeys bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSkipRecorder registers a hook counting skipped records.
func WithSkipRecorder(r SkipRecorder) Option {
	return func(e *Engine) {
		e.skips = r
	}
}

// WithWindow sets how many monthly buckets BuildReport builds.
// Values below 1 keep DefaultWindow.
func WithWindow(months int) Option {
	return func(e *Engine) {
		if months > 0 {
			e.window = months
		}
	}
}

// WithMonthNameKeys matches records to buckets by month name only, ignoring
// the year. Records twelve or more months apart then land in the same
// bucket. Only meant for parity with dashboards built on the old behaviour.
func WithMonthNameKeys() Option {
	return func(e *Engine) {
		e.monthNameKeys = true
	}
}

// New creates an Engine. A nil logger disables logging.
func New(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger: logger,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Window returns the number of monthly buckets used by BuildReport.
func (e *Engine) Window() int {
	return e.window
}

func (e *Engine) skip(kind, id, rawDate string) {
	e.logger.Warn("reporting: record skipped, invalid date",
		zap.String("kind", kind),
		zap.String("id", id),
		zap.String("date", rawDate),
	)
	if e.skips != nil {
		e.skips.RecordSkipped(kind)
	}
}
