// Package memory provides an in-process record store for local development
// and tests. Records live only as long as the process.
package memory

import (
	"context"
	"sync"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
)

type ownerRecords struct {
	invoices []domain.Invoice
	expenses []domain.Expense
	ids      map[string]struct{}
}

// Store keeps invoices and expenses per owner.
type Store struct {
	mu     sync.RWMutex
	owners map[string]*ownerRecords
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{owners: make(map[string]*ownerRecords)}
}

// Seed replaces the records of ownerID with a copy of snap.
func (s *Store) Seed(ownerID string, snap domain.RecordSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := &ownerRecords{ids: make(map[string]struct{})}
	for _, inv := range snap.Invoices {
		inv.OwnerID = ownerID
		recs.invoices = append(recs.invoices, inv)
		recs.ids["invoice:"+inv.ID] = struct{}{}
	}
	for _, exp := range snap.Expenses {
		exp.OwnerID = ownerID
		recs.expenses = append(recs.expenses, exp)
		recs.ids["expense:"+exp.ID] = struct{}{}
	}
	s.owners[ownerID] = recs
}

// ListInvoices returns a copy of the owner's invoices in insertion order.
func (s *Store) ListInvoices(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.owners[ownerID]
	if !ok {
		return []domain.Invoice{}, nil
	}
	return append([]domain.Invoice(nil), recs.invoices...), nil
}

// ListExpenses returns a copy of the owner's expenses in insertion order.
func (s *Store) ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.owners[ownerID]
	if !ok {
		return []domain.Expense{}, nil
	}
	return append([]domain.Expense(nil), recs.expenses...), nil
}

// CreateInvoice stores inv. IDs are unique per owner and record type.
func (s *Store) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.ownerLocked(inv.OwnerID)
	key := "invoice:" + inv.ID
	if _, dup := recs.ids[key]; dup {
		return nil, &domain.ErrDuplicate{Key: inv.ID}
	}
	recs.ids[key] = struct{}{}
	recs.invoices = append(recs.invoices, *inv)

	created := *inv
	return &created, nil
}

// CreateExpense stores exp. IDs are unique per owner and record type.
func (s *Store) CreateExpense(ctx context.Context, exp *domain.Expense) (*domain.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.ownerLocked(exp.OwnerID)
	key := "expense:" + exp.ID
	if _, dup := recs.ids[key]; dup {
		return nil, &domain.ErrDuplicate{Key: exp.ID}
	}
	recs.ids[key] = struct{}{}
	recs.expenses = append(recs.expenses, *exp)

	created := *exp
	return &created, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) ownerLocked(ownerID string) *ownerRecords {
	recs, ok := s.owners[ownerID]
	if !ok {
		recs = &ownerRecords{ids: make(map[string]struct{})}
		s.owners[ownerID] = recs
	}
	return recs
}
