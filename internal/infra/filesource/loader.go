// Package filesource reads record exports from disk. The export is a JSON
// document of the form {"invoices": [...], "expenses": [...]}.
package filesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
)

// Decode parses an export. Numeric amounts are kept as json.Number.
func Decode(r io.Reader) (*domain.RecordSnapshot, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var snap domain.RecordSnapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, &domain.ErrValidation{Field: "export", Message: fmt.Sprintf("invalid record export: %v", err)}
	}
	if snap.Invoices == nil {
		snap.Invoices = []domain.Invoice{}
	}
	if snap.Expenses == nil {
		snap.Expenses = []domain.Expense{}
	}
	return &snap, nil
}

// Load reads the export at path.
func Load(path string) (*domain.RecordSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record export: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Source serves a single export as a read-only record source. Every owner
// sees the same records.
type Source struct {
	snap *domain.RecordSnapshot
}

// NewSource wraps an already decoded export.
func NewSource(snap *domain.RecordSnapshot) *Source {
	return &Source{snap: snap}
}

// ListInvoices returns a copy of the exported invoices.
func (s *Source) ListInvoices(ctx context.Context, _ string) ([]domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Invoice{}, s.snap.Invoices...), nil
}

// ListExpenses returns a copy of the exported expenses.
func (s *Source) ListExpenses(ctx context.Context, _ string) ([]domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Expense{}, s.snap.Expenses...), nil
}
