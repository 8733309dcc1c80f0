package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Reporting periods
// ============================================================

// Period identifies the trailing window requested by the dashboard.
type Period string

const (
	Period30Days   Period = "30days"
	Period3Months  Period = "3months"
	Period6Months  Period = "6months"
	Period12Months Period = "12months"
)

// DefaultPeriod is used for empty or unknown period identifiers.
const DefaultPeriod = Period6Months

// ParsePeriod maps a caller supplied identifier to a known Period.
// Unknown identifiers fall back to DefaultPeriod.
func ParsePeriod(s string) Period {
	switch p := Period(s); p {
	case Period30Days, Period3Months, Period6Months, Period12Months:
		return p
	}
	return DefaultPeriod
}

// Buckets returns how many trailing monthly buckets the period covers.
// 30days maps to the most recent month only.
func (p Period) Buckets() int {
	switch p {
	case Period30Days:
		return 1
	case Period3Months:
		return 3
	case Period12Months:
		return 12
	default:
		return 6
	}
}

// ============================================================
// Derived views
// ============================================================

// MonthlyBucket holds the rollup of one calendar month.
type MonthlyBucket struct {
	Month    string          `json:"month"` // Jan, Feb, ...
	Key      string          `json:"key"`   // YYYY-MM
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// FinancialSummary holds the scalar totals shown on the summary cards.
type FinancialSummary struct {
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	OutstandingInvoices decimal.Decimal `json:"outstandingInvoices"`
}

// ActivityKind tells which record type an activity item came from.
type ActivityKind string

const (
	ActivityInvoice ActivityKind = "invoice"
	ActivityExpense ActivityKind = "expense"
)

// Tone is the presentation category of an activity item.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// ActivityItem is one row of the recent activity feed.
// Expenses carry a negative amount.
type ActivityItem struct {
	ID     string          `json:"id"`
	Kind   ActivityKind    `json:"kind"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Status string          `json:"status"`
	Tone   Tone            `json:"tone"`
}

// DashboardReport bundles every view the dashboard renders.
type DashboardReport struct {
	Period         Period           `json:"period"`
	GeneratedAt    time.Time        `json:"generatedAt"`
	Series         []MonthlyBucket  `json:"series"`
	Summary        FinancialSummary `json:"summary"`
	RecentActivity []ActivityItem   `json:"recentActivity"`
	SkippedRecords int              `json:"skippedRecords"`
}
