package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/memory"
)

func TestCreateInvoice_ThenDashboardReflectsIt(t *testing.T) {
	router := newTestRouter(t, seededStore())
	bearer := token(t, "acme", time.Hour)

	// Warm the snapshot cache first so the write has something to invalidate.
	do(t, router, http.MethodGet, "/v1/dashboard/summary?period=30days", bearer, "")

	rec := do(t, router, http.MethodPost, "/v1/invoices", bearer,
		`{"date":"2026-10-15","amount":1234.5,"status":"paid","customer":"Umbrella"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Invoice
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Error("expected a generated invoice id")
	}

	rec = do(t, router, http.MethodGet, "/v1/dashboard/summary?period=30days", bearer, "")
	var summary domain.FinancialSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if got := summary.TotalRevenue.String(); got != "2234.5" {
		t.Errorf("expected revenue 2234.5 after create, got %s", got)
	}

	rec = do(t, router, http.MethodGet, "/v1/invoices", bearer, "")
	var list domain.ListResponse[domain.Invoice]
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 4 {
		t.Errorf("expected 4 invoices, got %d", list.Total)
	}
}

func TestCreateInvoice_BadRequests(t *testing.T) {
	router := newTestRouter(t, memory.NewStore())
	bearer := token(t, "acme", time.Hour)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"date":`, http.StatusBadRequest},
		{"bad date", `{"date":"31/31/2026","amount":10,"status":"paid","customer":"A"}`, http.StatusBadRequest},
		{"bad status", `{"date":"2026-10-01","amount":10,"status":"void","customer":"A"}`, http.StatusBadRequest},
		{"bad amount", `{"date":"2026-10-01","amount":"tbd","status":"paid","customer":"A"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/v1/invoices", bearer, tc.body)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateExpense_DuplicateID(t *testing.T) {
	router := newTestRouter(t, memory.NewStore())
	bearer := token(t, "acme", time.Hour)
	body := `{"id":"exp-7","date":"2026-10-01","amount":"$45.00","category":"Travel"}`

	if rec := do(t, router, http.MethodPost, "/v1/expenses", bearer, body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/v1/expenses", bearer, body); rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}

	rec := do(t, router, http.MethodGet, "/v1/expenses", bearer, "")
	var list domain.ListResponse[domain.Expense]
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || list.Data[0].Amount != "$45.00" {
		t.Errorf("unexpected expenses %+v", list)
	}
}
