package reporting_test

import (
	"testing"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/reporting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	rec := &countingRecorder{}
	e := reporting.New(nil, reporting.WithSkipRecorder(rec))

	invoices := []domain.Invoice{
		{ID: "now", Date: "2026-10-01", Amount: 100, Status: domain.InvoiceStatusPaid},
		{ID: "spring", Date: "2026-05-01", Amount: 1000, Status: domain.InvoiceStatusPaid},
		{ID: "due", Date: "2026-02-01", Amount: 250, Status: domain.InvoiceStatusOverdue},
		{ID: "broken", Date: "n/a", Amount: 5, Status: domain.InvoiceStatusPaid},
	}
	expenses := []domain.Expense{
		{ID: "rent", Date: "2026-10-02", Amount: 30, Category: "rent"},
	}

	report := e.BuildReport(refNow, domain.Period3Months, invoices, expenses, 2)

	assert.Equal(t, domain.Period3Months, report.Period)
	assert.Equal(t, refNow, report.GeneratedAt)
	require.Len(t, report.Series, 3)
	assertDecimal(t, "100", report.Summary.TotalRevenue, "May is outside the 3 month period")
	assertDecimal(t, "30", report.Summary.TotalExpenses)
	assertDecimal(t, "70", report.Summary.NetProfit)
	assertDecimal(t, "250", report.Summary.OutstandingInvoices)
	assert.Equal(t, []string{"rent", "now"}, ids(report.RecentActivity))
	assert.Equal(t, 1, report.SkippedRecords)

	halfYear := e.BuildReport(refNow, "bogus", invoices, expenses, 0)
	assert.Equal(t, domain.Period6Months, halfYear.Period)
	assert.Len(t, halfYear.Series, 6)
	assertDecimal(t, "1100", halfYear.Summary.TotalRevenue)
}

func TestBuildReport_CustomWindow(t *testing.T) {
	e := reporting.New(nil, reporting.WithWindow(3))
	assert.Equal(t, 3, e.Window())

	report := e.BuildReport(refNow, domain.Period12Months, nil, nil, 5)
	assert.Len(t, report.Series, 3)
	assert.Empty(t, report.RecentActivity)
}
