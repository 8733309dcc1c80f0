// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the concrete record stores.
package port

import (
	"context"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
)

// InvoiceSource retrieves the invoices of one owner.
type InvoiceSource interface {
	ListInvoices(ctx context.Context, ownerID string) ([]domain.Invoice, error)
}

// ExpenseSource retrieves the expenses of one owner.
type ExpenseSource interface {
	ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error)
}

// RecordSource is everything the reporting engine needs to read.
type RecordSource interface {
	InvoiceSource
	ExpenseSource
}

// RecordStore is a RecordSource that also persists new records.
// Implemented by the Supabase, SQLite and in-memory adapters.
type RecordStore interface {
	RecordSource
	CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	CreateExpense(ctx context.Context, exp *domain.Expense) (*domain.Expense, error)
	Ping(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)

	// Generation and SetIfGeneration let a fill that raced a Delete skip
	// storing stale data.
	Generation(key string) uint64
	SetIfGeneration(key string, value T, gen uint64) bool
}
