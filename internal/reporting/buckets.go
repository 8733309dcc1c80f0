package reporting

import (
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	monthKeyLayout   = "2006-01"
	monthLabelLayout = "Jan"
)

// BuildMonthlyBuckets returns one bucket per calendar month of the trailing
// window ending at the month of now, oldest first. Paid invoices add to
// revenue and profit; expenses add their magnitude to expenses and subtract
// it from profit. Records with unparseable dates are logged and skipped.
// months < 1 builds DefaultWindow buckets.
func (e *Engine) BuildMonthlyBuckets(now time.Time, months int, invoices []domain.Invoice, expenses []domain.Expense) []domain.MonthlyBucket {
	buckets, _ := e.bucketize(now, months, invoices, expenses)
	return buckets
}

// bucketize is BuildMonthlyBuckets plus the number of skipped records.
func (e *Engine) bucketize(now time.Time, months int, invoices []domain.Invoice, expenses []domain.Expense) ([]domain.MonthlyBucket, int) {
	if months < 1 {
		months = DefaultWindow
	}

	buckets := make([]domain.MonthlyBucket, months)
	index := make(map[string]int, months)

	first := time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
	for i := range buckets {
		m := first.AddDate(0, i, 0)
		buckets[i] = domain.MonthlyBucket{
			Month:    m.Format(monthLabelLayout),
			Key:      m.Format(monthKeyLayout),
			Revenue:  decimal.Zero,
			Expenses: decimal.Zero,
			Profit:   decimal.Zero,
		}
		// first match wins when labels repeat in month-name mode
		k := e.bucketKey(m)
		if _, exists := index[k]; !exists {
			index[k] = i
		}
	}

	skipped := 0

	for _, inv := range invoices {
		if !inv.Status.IsPaid() {
			continue
		}
		at, ok := ParseDate(inv.Date)
		if !ok {
			e.skip(string(domain.ActivityInvoice), inv.ID, inv.Date)
			skipped++
			continue
		}
		i, inWindow := index[e.bucketKey(at)]
		if !inWindow {
			continue
		}
		amount := NormalizeAmount(inv.Amount)
		buckets[i].Revenue = buckets[i].Revenue.Add(amount)
		buckets[i].Profit = buckets[i].Profit.Add(amount)
	}

	for _, exp := range expenses {
		at, ok := ParseDate(exp.Date)
		if !ok {
			e.skip(string(domain.ActivityExpense), exp.ID, exp.Date)
			skipped++
			continue
		}
		i, inWindow := index[e.bucketKey(at)]
		if !inWindow {
			continue
		}
		amount := NormalizeAmount(exp.Amount).Abs()
		buckets[i].Expenses = buckets[i].Expenses.Add(amount)
		buckets[i].Profit = buckets[i].Profit.Sub(amount)
	}

	return buckets, skipped
}

func (e *Engine) bucketKey(t time.Time) string {
	if e.monthNameKeys {
		return t.Format(monthLabelLayout)
	}
	return t.Format(monthKeyLayout)
}
