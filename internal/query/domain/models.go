// Package domain defines the query patterns served over ingested billing
// records.
package domain

import (
	"context"
	"errors"
	"fmt"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
)

const (
	QueryTypeAccount = "account"
	QueryTypeDate    = "date"
	QueryTypeInvoice = "invoice"
)

// Request is the transport-independent query shape. AccountID may hold
// several comma-separated ids; the engine fans out one lookup per id.
type Request struct {
	QueryType string
	AccountID string
	InvoiceID string
	Date      string
	Product   string
}

// Summary aggregates a result set: distinct counts plus the exact decimal
// cost sum rounded to two places.
type Summary struct {
	UniqueAccounts int     `json:"unique_accounts"`
	UniqueInvoices int     `json:"unique_invoices"`
	UniqueDates    int     `json:"unique_dates"`
	UniqueProducts int     `json:"unique_products"`
	TotalCost      float64 `json:"total_cost"`
}

var (
	ErrMissingAccountID = errors.New("missing_account_id")
	ErrMissingDate      = errors.New("missing_date")
	ErrMissingInvoiceID = errors.New("missing_invoice_id")
	ErrInvalidQueryType = errors.New("invalid_query_type")
)

// UnknownQueryTypeError names the rejected value and the valid set.
func UnknownQueryTypeError(queryType string) error {
	return fmt.Errorf("%w: %q (valid: %s, %s, %s)",
		ErrInvalidQueryType, queryType, QueryTypeAccount, QueryTypeDate, QueryTypeInvoice)
}

type Service interface {
	Run(ctx context.Context, req Request) ([]billingdomain.BillingRecord, error)
	// InvoiceIDs returns the sorted distinct invoice ids for one account.
	InvoiceIDs(ctx context.Context, accountID string) ([]string, error)
}
