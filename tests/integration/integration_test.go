package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/handler"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/cache"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/resilience"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/sqlite"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/supabase"
	"github.com/boddenberg/smb-dashboard-bfa/internal/port"
	"github.com/boddenberg/smb-dashboard-bfa/internal/reporting"
	"github.com/boddenberg/smb-dashboard-bfa/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	secret = []byte("integration-secret")
	now    = time.Date(2026, time.October, 18, 8, 30, 0, 0, time.UTC)
)

func buildRouter(t *testing.T, store port.RecordStore, storeName string) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	snapshots := cache.New[*domain.RecordSnapshot](5 * time.Minute)
	t.Cleanup(snapshots.Close)

	engine := reporting.New(logger, reporting.WithSkipRecorder(metrics))
	return handler.NewRouter(handler.Deps{
		Dashboard: service.NewDashboardService(store, engine, snapshots, metrics, logger, func() time.Time { return now }, storeName),
		Records:   service.NewRecordService(store, snapshots, metrics, logger, storeName),
		Store:     store,
		StoreName: storeName,
		JWTSecret: secret,
		Metrics:   metrics,
		Logger:    logger,
	})
}

func bearer(t *testing.T, owner string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   owner,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + signed
}

func call(router http.Handler, method, target, auth, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// fakePostgREST is a tiny in-memory stand-in for the Supabase REST API.
type fakePostgREST struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		owner := strings.TrimPrefix(r.URL.Query().Get("owner_id"), "eq.")
		rows := []map[string]any{}
		for _, row := range f.tables[table] {
			if owner == "" || row["owner_id"] == owner {
				rows = append(rows, row)
			}
		}
		json.NewEncoder(w).Encode(rows)
	case http.MethodPost:
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, existing := range f.tables[table] {
			if existing["id"] == row["id"] && existing["owner_id"] == row["owner_id"] {
				http.Error(w, `{"code":"23505"}`, http.StatusConflict)
				return
			}
		}
		f.tables[table] = append(f.tables[table], row)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]map[string]any{row})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// TestIntegration_SupabaseFlow runs the dashboard against a mock PostgREST backend.
func TestIntegration_SupabaseFlow(t *testing.T) {
	backend := &fakePostgREST{tables: map[string][]map[string]any{
		"invoices": {
			{"id": "inv-1", "owner_id": "acme", "date": "2026-10-01", "amount": "$2,500.00", "status": "paid", "customer": "Initech"},
			{"id": "inv-2", "owner_id": "acme", "date": "2026-08-14", "amount": 1200, "status": "paid", "customer": "Hooli"},
			{"id": "inv-3", "owner_id": "acme", "date": "2026-10-09", "amount": 640, "status": "unpaid", "customer": "Globex"},
			{"id": "inv-9", "owner_id": "other", "date": "2026-10-09", "amount": 9999, "status": "paid", "customer": "Not ours"},
		},
		"expenses": {
			{"id": "exp-1", "owner_id": "acme", "date": "2026-10-03", "amount": 300, "category": "Rent"},
		},
	}}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	client := supabase.NewClient(&http.Client{Timeout: 5 * time.Second}, srv.URL, "anon", "service",
		resilience.NewCircuitBreaker("integration"), cfg, resilience.NewBulkhead(cfg.MaxConcurrency), zap.NewNop())

	router := buildRouter(t, client, "supabase")
	auth := bearer(t, "acme")

	rec := call(router, http.MethodGet, "/v1/dashboard?period=3months", auth, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var report domain.DashboardReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got := report.Summary.TotalRevenue.String(); got != "3700" {
		t.Errorf("expected revenue 3700, got %s", got)
	}
	if got := report.Summary.NetProfit.String(); got != "3400" {
		t.Errorf("expected net profit 3400, got %s", got)
	}
	if got := report.Summary.OutstandingInvoices.String(); got != "640" {
		t.Errorf("expected outstanding 640, got %s", got)
	}

	// A new expense must show up in the next report.
	rec = call(router, http.MethodPost, "/v1/expenses", auth, `{"date":"2026-10-11","amount":"$100","category":"Travel"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	rec = call(router, http.MethodGet, "/v1/dashboard/summary?period=3months", auth, "")
	var summary domain.FinancialSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if got := summary.TotalExpenses.String(); got != "400" {
		t.Errorf("expected expenses 400 after create, got %s", got)
	}

	rec = call(router, http.MethodGet, "/v1/dashboard/activity?limit=1", auth, "")
	var items []domain.ActivityItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Kind != domain.ActivityExpense || items[0].Amount.String() != "-100" {
		t.Errorf("expected the new expense first, got %+v", items)
	}
}

// TestIntegration_SupabaseDown checks the error mapping when the backend fails.
func TestIntegration_SupabaseDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := resilience.Config{MaxRetries: 0, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	client := supabase.NewClient(&http.Client{Timeout: 5 * time.Second}, srv.URL, "anon", "service",
		resilience.NewCircuitBreaker("integration-down"), cfg, nil, zap.NewNop())

	router := buildRouter(t, client, "supabase")

	rec := call(router, http.MethodGet, "/v1/dashboard", bearer(t, "acme"), "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}

// TestIntegration_SQLiteFlow writes records through the API and reads the report back.
func TestIntegration_SQLiteFlow(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "dashboard.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	router := buildRouter(t, store, "sqlite")
	auth := bearer(t, "acme")

	posts := []struct{ path, body string }{
		{"/v1/invoices", `{"id":"inv-1","date":"2026-09-20","amount":"$1,500.00","status":"Paid","customer":"Initech"}`},
		{"/v1/invoices", `{"id":"inv-2","date":"2026-10-02","amount":800,"status":"pending","customer":"Hooli"}`},
		{"/v1/expenses", `{"id":"exp-1","date":"2026-09-25","amount":"250.75","category":"Supplies"}`},
	}
	for _, p := range posts {
		if rec := call(router, http.MethodPost, p.path, auth, p.body); rec.Code != http.StatusCreated {
			t.Fatalf("POST %s: expected 201, got %d. Body: %s", p.path, rec.Code, rec.Body.String())
		}
	}

	rec := call(router, http.MethodGet, "/v1/dashboard?period=3months", auth, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var report domain.DashboardReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if got := report.Series[1].Profit.String(); got != "1249.25" {
		t.Errorf("expected September profit 1249.25, got %s", got)
	}
	if got := report.Summary.OutstandingInvoices.String(); got != "800" {
		t.Errorf("expected outstanding 800, got %s", got)
	}
	if len(report.RecentActivity) != 3 {
		t.Errorf("expected 3 activity items, got %d", len(report.RecentActivity))
	}
}
