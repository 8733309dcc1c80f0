package service

import (
	"context"
	"strings"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/smb-dashboard-bfa/internal/port"
	"github.com/boddenberg/smb-dashboard-bfa/internal/reporting"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var recordsTracer = otel.Tracer("service/records")

// RecordService lists and creates invoices and expenses. Every successful
// write drops the owner's cached snapshot.
type RecordService struct {
	store     port.RecordStore
	cache     port.Cache[*domain.RecordSnapshot]
	validate  *validator.Validate
	metrics   *observability.Metrics
	logger    *zap.Logger
	storeName string
}

// NewRecordService creates a new record service.
func NewRecordService(store port.RecordStore, cache port.Cache[*domain.RecordSnapshot], metrics *observability.Metrics, logger *zap.Logger, storeName string) *RecordService {
	return &RecordService{
		store:     store,
		cache:     cache,
		validate:  newValidator(),
		metrics:   metrics,
		logger:    logger,
		storeName: storeName,
	}
}

func (s *RecordService) ListInvoices(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	ctx, span := recordsTracer.Start(ctx, "RecordService.ListInvoices")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	invoices, err := s.store.ListInvoices(ctx, ownerID)
	if err != nil {
		s.metrics.IncrStoreError(s.storeName)
		return nil, err
	}
	return invoices, nil
}

func (s *RecordService) ListExpenses(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	ctx, span := recordsTracer.Start(ctx, "RecordService.ListExpenses")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	expenses, err := s.store.ListExpenses(ctx, ownerID)
	if err != nil {
		s.metrics.IncrStoreError(s.storeName)
		return nil, err
	}
	return expenses, nil
}

// CreateInvoice validates req and stores a new invoice for ownerID.
// The status is normalized before validation so "Paid " is accepted.
func (s *RecordService) CreateInvoice(ctx context.Context, ownerID string, req *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	ctx, span := recordsTracer.Start(ctx, "RecordService.CreateInvoice")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	req.Status = req.Status.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	amount := reporting.ParseAmount(req.Amount)
	if !amount.OK {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be a number or currency string"}
	}
	if amount.Value.IsNegative() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "invoices are recorded as non-negative amounts"}
	}

	inv := &domain.Invoice{
		ID:       recordID(req.ID),
		OwnerID:  ownerID,
		Date:     req.Date,
		DueDate:  req.DueDate,
		Amount:   req.Amount,
		Status:   req.Status,
		Customer: strings.TrimSpace(req.Customer),
		Email:    req.Email,
		Items:    req.Items,
		Notes:    req.Notes,
	}

	created, err := s.store.CreateInvoice(ctx, inv)
	if err != nil {
		s.logger.Error("failed to create invoice",
			zap.String("owner_id", ownerID),
			zap.String("invoice_id", inv.ID),
			zap.Error(err),
		)
		s.metrics.IncrStoreError(s.storeName)
		return nil, err
	}

	s.cache.Delete(snapshotKey(ownerID))
	s.logger.Info("invoice created",
		zap.String("owner_id", ownerID),
		zap.String("invoice_id", created.ID),
		zap.String("status", string(created.Status)),
	)
	return created, nil
}

// CreateExpense validates req and stores a new expense for ownerID.
func (s *RecordService) CreateExpense(ctx context.Context, ownerID string, req *domain.CreateExpenseRequest) (*domain.Expense, error) {
	ctx, span := recordsTracer.Start(ctx, "RecordService.CreateExpense")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	amount := reporting.ParseAmount(req.Amount)
	if !amount.OK {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be a number or currency string"}
	}
	if amount.Value.IsNegative() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "expenses are recorded as positive amounts"}
	}

	exp := &domain.Expense{
		ID:          recordID(req.ID),
		OwnerID:     ownerID,
		Date:        req.Date,
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
	}

	created, err := s.store.CreateExpense(ctx, exp)
	if err != nil {
		s.logger.Error("failed to create expense",
			zap.String("owner_id", ownerID),
			zap.String("expense_id", exp.ID),
			zap.Error(err),
		)
		s.metrics.IncrStoreError(s.storeName)
		return nil, err
	}

	s.cache.Delete(snapshotKey(ownerID))
	s.logger.Info("expense created",
		zap.String("owner_id", ownerID),
		zap.String("expense_id", created.ID),
	)
	return created, nil
}

func recordID(requested string) string {
	if id := strings.TrimSpace(requested); id != "" {
		return id
	}
	return uuid.NewString()
}
