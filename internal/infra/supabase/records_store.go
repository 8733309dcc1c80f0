package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Invoices (implements port.RecordStore)
// ============================================================

// supabaseInvoice maps the invoices table columns.
type supabaseInvoice struct {
	ID       string               `json:"id"`
	OwnerID  string               `json:"owner_id"`
	Date     string               `json:"date"`
	DueDate  string               `json:"due_date,omitempty"`
	Amount   json.RawMessage      `json:"amount"`
	Status   string               `json:"status"`
	Customer string               `json:"customer"`
	Email    string               `json:"email,omitempty"`
	Items    []domain.InvoiceItem `json:"items,omitempty"`
	Notes    string               `json:"notes,omitempty"`
}

func (r supabaseInvoice) toDomain() domain.Invoice {
	return domain.Invoice{
		ID:       r.ID,
		OwnerID:  r.OwnerID,
		Date:     r.Date,
		DueDate:  r.DueDate,
		Amount:   decodeAmount(r.Amount),
		Status:   domain.InvoiceStatus(r.Status),
		Customer: r.Customer,
		Email:    r.Email,
		Items:    r.Items,
		Notes:    r.Notes,
	}
}

// ListInvoices fetches the owner's invoices.
func (c *Client) ListInvoices(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListInvoices")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	var invoices []domain.Invoice
	err := resilience.Call(ctx, c.cb, c.cfg, "supabase/invoices", func() error {
		body, err := c.doGet(ctx, ownerFilter("invoices", ownerID))
		if err != nil {
			return err
		}

		invoices = []domain.Invoice{}
		if len(body) == 0 {
			return nil
		}

		var rows []supabaseInvoice
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode invoices: %w", err)
		}
		for _, r := range rows {
			invoices = append(invoices, r.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("invoices.count", len(invoices)))
	return invoices, nil
}

// CreateInvoice inserts a row into the invoices table.
func (c *Client) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateInvoice")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", inv.OwnerID))

	amount, err := json.Marshal(inv.Amount)
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	row := supabaseInvoice{
		ID:       inv.ID,
		OwnerID:  inv.OwnerID,
		Date:     inv.Date,
		DueDate:  inv.DueDate,
		Amount:   amount,
		Status:   string(inv.Status),
		Customer: inv.Customer,
		Email:    inv.Email,
		Items:    inv.Items,
		Notes:    inv.Notes,
	}

	var created *domain.Invoice
	err = resilience.Call(ctx, c.cb, c.cfg, "supabase/invoices", func() error {
		body, err := c.doPost(ctx, "invoices", row)
		if err != nil {
			return asDuplicate(err, inv.ID)
		}

		var rows []supabaseInvoice
		if len(body) > 0 {
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode created invoice: %w", err)
			}
		}
		if len(rows) == 0 {
			cp := *inv
			created = &cp
			return nil
		}
		out := rows[0].toDomain()
		created = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ============================================================
// Expenses
// ============================================================

// supabaseExpense maps the expenses table columns.
type supabaseExpense struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Date        string          `json:"date"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
}

func (r supabaseExpense) toDomain() domain.Expense {
	return domain.Expense{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Date:        r.Date,
		Amount:      decodeAmount(r.Amount),
		Category:    r.Category,
		Description: r.Description,
	}
}

// ListExpenses fetches the owner's expenses.
func (c *Client) ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListExpenses")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	var expenses []domain.Expense
	err := resilience.Call(ctx, c.cb, c.cfg, "supabase/expenses", func() error {
		body, err := c.doGet(ctx, ownerFilter("expenses", ownerID))
		if err != nil {
			return err
		}

		expenses = []domain.Expense{}
		if len(body) == 0 {
			return nil
		}

		var rows []supabaseExpense
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode expenses: %w", err)
		}
		for _, r := range rows {
			expenses = append(expenses, r.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("expenses.count", len(expenses)))
	return expenses, nil
}

// CreateExpense inserts a row into the expenses table.
func (c *Client) CreateExpense(ctx context.Context, exp *domain.Expense) (*domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateExpense")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", exp.OwnerID))

	amount, err := json.Marshal(exp.Amount)
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	row := supabaseExpense{
		ID:          exp.ID,
		OwnerID:     exp.OwnerID,
		Date:        exp.Date,
		Amount:      amount,
		Category:    exp.Category,
		Description: exp.Description,
	}

	var created *domain.Expense
	err = resilience.Call(ctx, c.cb, c.cfg, "supabase/expenses", func() error {
		body, err := c.doPost(ctx, "expenses", row)
		if err != nil {
			return asDuplicate(err, exp.ID)
		}

		var rows []supabaseExpense
		if len(body) > 0 {
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode created expense: %w", err)
			}
		}
		if len(rows) == 0 {
			cp := *exp
			created = &cp
			return nil
		}
		out := rows[0].toDomain()
		created = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Ping issues a minimal query to verify connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Supabase.Ping")
	defer span.End()

	_, err := c.doGet(ctx, "invoices?select=id&limit=1")
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return nil
}
