package domain

import (
	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	"github.com/shopspring/decimal"
)

// Summarize computes the aggregate view of a result set. The cost sum is
// exact decimal arithmetic; only the final rounded value leaves as float.
func Summarize(records []billingdomain.BillingRecord) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	accounts := make(map[string]struct{})
	invoices := make(map[string]struct{})
	dates := make(map[string]struct{})
	products := make(map[string]struct{})
	total := decimal.Zero

	for _, r := range records {
		accounts[r.PayerAccountID] = struct{}{}
		invoices[r.InvoiceID] = struct{}{}
		dates[r.BillPeriodStartDate] = struct{}{}
		products[r.ProductCode] = struct{}{}
		total = total.Add(r.CostBeforeTax)
	}

	cost, _ := total.Round(2).Float64()
	return Summary{
		UniqueAccounts: len(accounts),
		UniqueInvoices: len(invoices),
		UniqueDates:    len(dates),
		UniqueProducts: len(products),
		TotalCost:      cost,
	}
}
