package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
)

const expenseStatus = "expense"

type datedActivity struct {
	item  domain.ActivityItem
	at    time.Time
	valid bool
}

// MergeActivity combines invoices and expenses into one feed, newest first,
// truncated to limit items (DefaultActivityLimit when limit <= 0).
//
// Records with unparseable dates sort after every dated record. The sort is
// stable: on equal dates invoices precede expenses and each keeps its input
// order.
func (e *Engine) MergeActivity(invoices []domain.Invoice, expenses []domain.Expense, limit int) []domain.ActivityItem {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	all := make([]datedActivity, 0, len(invoices)+len(expenses))
	for _, inv := range invoices {
		at, ok := ParseDate(inv.Date)
		status := inv.Status.Normalize()
		all = append(all, datedActivity{
			item: domain.ActivityItem{
				ID:     inv.ID,
				Kind:   domain.ActivityInvoice,
				Title:  inv.Customer,
				Amount: NormalizeAmount(inv.Amount),
				Date:   inv.Date,
				Status: string(status),
				Tone:   invoiceTone(status),
			},
			at:    at,
			valid: ok,
		})
	}
	for _, exp := range expenses {
		at, ok := ParseDate(exp.Date)
		all = append(all, datedActivity{
			item: domain.ActivityItem{
				ID:     exp.ID,
				Kind:   domain.ActivityExpense,
				Title:  expenseTitle(exp),
				Amount: NormalizeAmount(exp.Amount).Abs().Neg(),
				Date:   exp.Date,
				Status: expenseStatus,
				Tone:   domain.ToneDanger,
			},
			at:    at,
			valid: ok,
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.valid != b.valid {
			return a.valid
		}
		if !a.valid {
			return false
		}
		return a.at.After(b.at)
	})

	if len(all) > limit {
		all = all[:limit]
	}

	feed := make([]domain.ActivityItem, len(all))
	for i, a := range all {
		feed[i] = a.item
	}
	return feed
}

func invoiceTone(status domain.InvoiceStatus) domain.Tone {
	switch status {
	case domain.InvoiceStatusPaid:
		return domain.ToneSuccess
	case domain.InvoiceStatusPending, domain.InvoiceStatusUnpaid:
		return domain.ToneWarning
	case domain.InvoiceStatusOverdue:
		return domain.ToneDanger
	default:
		return domain.ToneNeutral
	}
}

func expenseTitle(exp domain.Expense) string {
	if d := strings.TrimSpace(exp.Description); d != "" {
		return d
	}
	return exp.Category
}
