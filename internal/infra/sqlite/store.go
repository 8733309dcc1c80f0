// Package sqlite implements the record store on an embedded SQLite database
// (pure-Go driver, schema managed by golang-migrate).
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var tracer = otel.Tracer("sqlite")

// Store persists invoices and expenses in SQLite. Amounts are stored as the
// JSON encoding of the value the client sent so numbers and currency strings
// round-trip unchanged.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates the database directory if needed, applies migrations and
// returns a ready store.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite store ready", zap.String("path", dbPath))
	return &Store{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListInvoices returns the owner's invoices in insertion order.
func (s *Store) ListInvoices(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "SQLite.ListInvoices")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, date, due_date, amount, status, customer, email, items, notes
		FROM invoices WHERE owner_id = ? ORDER BY seq`, ownerID)
	if err != nil {
		return nil, storeError(fmt.Errorf("query invoices: %w", err))
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		var (
			inv          domain.Invoice
			amount, item string
			status       string
		)
		if err := rows.Scan(&inv.ID, &inv.OwnerID, &inv.Date, &inv.DueDate, &amount,
			&status, &inv.Customer, &inv.Email, &item, &inv.Notes); err != nil {
			return nil, storeError(fmt.Errorf("scan invoice: %w", err))
		}
		inv.Status = domain.InvoiceStatus(status)
		if inv.Amount, err = decodeAmount(amount); err != nil {
			return nil, storeError(fmt.Errorf("decode invoice %s amount: %w", inv.ID, err))
		}
		if item != "" && item != "[]" {
			if err := json.Unmarshal([]byte(item), &inv.Items); err != nil {
				return nil, storeError(fmt.Errorf("decode invoice %s items: %w", inv.ID, err))
			}
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return invoices, nil
}

// ListExpenses returns the owner's expenses in insertion order.
func (s *Store) ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "SQLite.ListExpenses")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, date, amount, category, description
		FROM expenses WHERE owner_id = ? ORDER BY seq`, ownerID)
	if err != nil {
		return nil, storeError(fmt.Errorf("query expenses: %w", err))
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var (
			exp    domain.Expense
			amount string
		)
		if err := rows.Scan(&exp.ID, &exp.OwnerID, &exp.Date, &amount, &exp.Category, &exp.Description); err != nil {
			return nil, storeError(fmt.Errorf("scan expense: %w", err))
		}
		if exp.Amount, err = decodeAmount(amount); err != nil {
			return nil, storeError(fmt.Errorf("decode expense %s amount: %w", exp.ID, err))
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return expenses, nil
}

// CreateInvoice inserts inv and returns it as stored.
func (s *Store) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "SQLite.CreateInvoice")
	defer span.End()

	amount, err := json.Marshal(inv.Amount)
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}
	items := []byte("[]")
	if len(inv.Items) > 0 {
		if items, err = json.Marshal(inv.Items); err != nil {
			return nil, fmt.Errorf("encode items: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, owner_id, date, due_date, amount, status, customer, email, items, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OwnerID, inv.Date, inv.DueDate, string(amount), string(inv.Status),
		inv.Customer, inv.Email, string(items), inv.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ErrDuplicate{Key: inv.ID}
		}
		return nil, storeError(fmt.Errorf("insert invoice: %w", err))
	}

	s.logger.Debug("sqlite: invoice saved", zap.String("id", inv.ID), zap.String("owner", inv.OwnerID))
	created := *inv
	return &created, nil
}

// CreateExpense inserts exp and returns it as stored.
func (s *Store) CreateExpense(ctx context.Context, exp *domain.Expense) (*domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "SQLite.CreateExpense")
	defer span.End()

	amount, err := json.Marshal(exp.Amount)
	if err != nil {
		return nil, fmt.Errorf("encode amount: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, owner_id, date, amount, category, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.OwnerID, exp.Date, string(amount), exp.Category, exp.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &domain.ErrDuplicate{Key: exp.ID}
		}
		return nil, storeError(fmt.Errorf("insert expense: %w", err))
	}

	s.logger.Debug("sqlite: expense saved", zap.String("id", exp.ID), zap.String("owner", exp.OwnerID))
	created := *exp
	return &created, nil
}

// decodeAmount reverses the JSON encoding applied on insert. Numbers come
// back as json.Number so no precision is lost before normalization.
// storeError marks a database failure as an unavailable record store.
func storeError(err error) error {
	return &domain.ErrExternalService{Service: "sqlite", Err: err}
}

func decodeAmount(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
