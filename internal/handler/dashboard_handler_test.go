package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/memory"
)

func seededStore() *memory.Store {
	s := memory.NewStore()
	s.Seed("acme", domain.RecordSnapshot{
		Invoices: []domain.Invoice{
			{ID: "inv-1", Date: "2026-10-02", Amount: "$1,000.00", Status: "paid", Customer: "Initech"},
			{ID: "inv-2", Date: "2026-06-10", Amount: 500, Status: "paid", Customer: "Hooli"},
			{ID: "inv-3", Date: "2026-10-12", Amount: "300", Status: "overdue", Customer: "Globex"},
		},
		Expenses: []domain.Expense{
			{ID: "exp-1", Date: "2026-10-05", Amount: 200, Category: "Software", Description: "Design tools"},
		},
	})
	return s
}

func TestDashboard_Report(t *testing.T) {
	router := newTestRouter(t, seededStore())

	rec := do(t, router, http.MethodGet, "/v1/dashboard?period=3months&limit=2", token(t, "acme", time.Hour), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.DashboardReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Period != domain.Period3Months {
		t.Errorf("expected period 3months, got %s", report.Period)
	}
	if len(report.Series) != 3 {
		t.Errorf("expected 3 buckets, got %d", len(report.Series))
	}
	if got := report.Summary.TotalRevenue.String(); got != "1000" {
		t.Errorf("expected revenue 1000, got %s", got)
	}
	if got := report.Summary.NetProfit.String(); got != "800" {
		t.Errorf("expected net profit 800, got %s", got)
	}
	if got := report.Summary.OutstandingInvoices.String(); got != "300" {
		t.Errorf("expected outstanding 300, got %s", got)
	}
	if len(report.RecentActivity) != 2 {
		t.Fatalf("expected 2 activity items, got %d", len(report.RecentActivity))
	}
	if report.RecentActivity[0].ID != "inv-3" {
		t.Errorf("expected newest item inv-3 first, got %s", report.RecentActivity[0].ID)
	}
}

func TestDashboard_OwnerIsolation(t *testing.T) {
	router := newTestRouter(t, seededStore())

	rec := do(t, router, http.MethodGet, "/v1/dashboard", token(t, "globex", time.Hour), "")

	var report domain.DashboardReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if !report.Summary.TotalRevenue.IsZero() || len(report.RecentActivity) != 0 {
		t.Errorf("expected an empty dashboard for another owner, got %+v", report.Summary)
	}
	if report.Period != domain.DefaultPeriod || len(report.Series) != 6 {
		t.Errorf("expected default 6-month series, got %s with %d buckets", report.Period, len(report.Series))
	}
}

func TestDashboard_SeriesAndSummary(t *testing.T) {
	router := newTestRouter(t, seededStore())
	bearer := token(t, "acme", time.Hour)

	rec := do(t, router, http.MethodGet, "/v1/dashboard/series?period=12months", bearer, "")
	var series []domain.MonthlyBucket
	if err := json.NewDecoder(rec.Body).Decode(&series); err != nil {
		t.Fatal(err)
	}
	if len(series) != 12 {
		t.Errorf("expected 12 buckets, got %d", len(series))
	}
	if series[11].Month != "Oct" || series[11].Key != "2026-10" {
		t.Errorf("expected current month last, got %+v", series[11])
	}

	rec = do(t, router, http.MethodGet, "/v1/dashboard/summary?period=unknown", bearer, "")
	var summary domain.FinancialSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if got := summary.TotalRevenue.String(); got != "1500" {
		t.Errorf("expected 6-month revenue 1500, got %s", got)
	}
}

func TestDashboard_ActivityLimitClamped(t *testing.T) {
	router := newTestRouter(t, seededStore())
	bearer := token(t, "acme", time.Hour)

	rec := do(t, router, http.MethodGet, "/v1/dashboard/activity?limit=500", bearer, "")
	var items []domain.ActivityItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Errorf("expected all 4 records, got %d", len(items))
	}

	rec = do(t, router, http.MethodGet, "/v1/dashboard/activity?limit=0", bearer, "")
	items = nil
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Errorf("expected limit clamped to 1, got %d", len(items))
	}

	for _, it := range items {
		if it.Kind == domain.ActivityExpense && !it.Amount.IsNegative() {
			t.Errorf("expected negative expense amount, got %s", it.Amount)
		}
	}
}

type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) ListInvoices(context.Context, string) ([]domain.Invoice, error) {
	return nil, f.err
}

func TestDashboard_StoreErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"external", &domain.ErrExternalService{Service: "supabase/invoices", Err: errors.New("502 from upstream")}, http.StatusBadGateway},
		{"circuit open", &domain.ErrCircuitOpen{Service: "supabase/invoices"}, http.StatusServiceUnavailable},
		{"timeout", &domain.ErrTimeout{Operation: "supabase/invoices"}, http.StatusGatewayTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, failingStore{Store: memory.NewStore(), err: tc.err})

			rec := do(t, router, http.MethodGet, "/v1/dashboard", token(t, "acme", time.Hour), "")
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
