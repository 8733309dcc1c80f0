package reporting

import (
	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"

	"github.com/shopspring/decimal"
)

// Summarize totals the buckets it is given and adds the outstanding balance
// of the invoice set. The caller decides whether buckets is the full window
// or a filtered period. Outstanding balance does not depend on dates.
func Summarize(buckets []domain.MonthlyBucket, invoices []domain.Invoice) domain.FinancialSummary {
	revenue := decimal.Zero
	expenses := decimal.Zero
	for _, b := range buckets {
		revenue = revenue.Add(b.Revenue)
		expenses = expenses.Add(b.Expenses)
	}

	outstanding := decimal.Zero
	for _, inv := range invoices {
		if inv.Status.IsOutstanding() {
			outstanding = outstanding.Add(NormalizeAmount(inv.Amount))
		}
	}

	return domain.FinancialSummary{
		TotalRevenue:        revenue,
		TotalExpenses:       expenses,
		NetProfit:           revenue.Sub(expenses),
		OutstandingInvoices: outstanding,
	}
}
