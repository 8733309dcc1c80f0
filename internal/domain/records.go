// Package domain defines the business entities of the dashboard BFA.
// Raw records (invoices, expenses) are owned by the persistence layer;
// the derived views in report.go are recomputed on every request.
package domain

import "strings"

// ============================================================
// Invoices
// ============================================================

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusDraft   InvoiceStatus = "draft"
)

// Normalize lowercases and trims the status so "Paid " matches "paid".
func (s InvoiceStatus) Normalize() InvoiceStatus {
	return InvoiceStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// IsPaid reports whether the invoice counts towards revenue.
func (s InvoiceStatus) IsPaid() bool {
	return s.Normalize() == InvoiceStatusPaid
}

// IsOutstanding reports whether the invoice counts towards the outstanding balance.
func (s InvoiceStatus) IsOutstanding() bool {
	switch s.Normalize() {
	case InvoiceStatusPending, InvoiceStatusUnpaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice is a customer invoice as stored by the persistence layer.
// Amount is kept as supplied (number or currency string) and is only
// interpreted by the reporting engine.
type Invoice struct {
	ID       string        `json:"id"`
	OwnerID  string        `json:"ownerId,omitempty"`
	Date     string        `json:"date"`
	DueDate  string        `json:"dueDate,omitempty"`
	Amount   any           `json:"amount"`
	Status   InvoiceStatus `json:"status"`
	Customer string        `json:"customer"`
	Email    string        `json:"email,omitempty"`
	Items    []InvoiceItem `json:"items,omitempty"`
	Notes    string        `json:"notes,omitempty"`
}

// InvoiceItem is a single invoice line.
type InvoiceItem struct {
	Description string  `json:"description" validate:"required,max=200"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// ============================================================
// Expenses
// ============================================================

// Expense is a business expense. Amount is a positive magnitude.
type Expense struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId,omitempty"`
	Date        string `json:"date"`
	Amount      any    `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// RecordSnapshot is the full record set of one owner at a point in time.
type RecordSnapshot struct {
	Invoices []Invoice `json:"invoices"`
	Expenses []Expense `json:"expenses"`
}

// ============================================================
// Create requests
// ============================================================

// CreateInvoiceRequest is the payload of POST /v1/invoices.
type CreateInvoiceRequest struct {
	ID       string        `json:"id,omitempty" validate:"omitempty,max=64"`
	Date     string        `json:"date" validate:"required,calendardate"`
	DueDate  string        `json:"dueDate,omitempty" validate:"omitempty,calendardate"`
	Amount   any           `json:"amount" validate:"required"`
	Status   InvoiceStatus `json:"status" validate:"required,oneof=paid pending unpaid overdue draft"`
	Customer string        `json:"customer" validate:"required,max=200"`
	Email    string        `json:"email,omitempty" validate:"omitempty,email"`
	Items    []InvoiceItem `json:"items,omitempty" validate:"dive"`
	Notes    string        `json:"notes,omitempty" validate:"max=2000"`
}

// CreateExpenseRequest is the payload of POST /v1/expenses.
type CreateExpenseRequest struct {
	ID          string `json:"id,omitempty" validate:"omitempty,max=64"`
	Date        string `json:"date" validate:"required,calendardate"`
	Amount      any    `json:"amount" validate:"required"`
	Category    string `json:"category" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}
