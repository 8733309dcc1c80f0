package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// ============================================================
// Invoices & expenses
// GET/POST /v1/invoices
// GET/POST /v1/expenses
// ============================================================

func listInvoicesHandler(svc *service.RecordService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/invoices")
		defer span.End()

		invoices, err := svc.ListInvoices(ctx, OwnerIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.ListResponse[domain.Invoice]{Data: invoices, Total: len(invoices)})
	}
}

func createInvoiceHandler(svc *service.RecordService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/invoices")
		defer span.End()

		var req domain.CreateInvoiceRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		inv, err := svc.CreateInvoice(ctx, OwnerIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, inv)
	}
}

func listExpensesHandler(svc *service.RecordService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/expenses")
		defer span.End()

		expenses, err := svc.ListExpenses(ctx, OwnerIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.ListResponse[domain.Expense]{Data: expenses, Total: len(expenses)})
	}
}

func createExpenseHandler(svc *service.RecordService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/expenses")
		defer span.End()

		var req domain.CreateExpenseRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		exp, err := svc.CreateExpense(ctx, OwnerIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, exp)
	}
}

// decodeBody reads a size-limited JSON body. Numbers stay json.Number so
// amounts reach the store exactly as sent.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(dst)
}
