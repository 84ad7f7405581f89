// Package export shapes query results for callers: a JSON envelope with
// an aggregate summary, or a CSV download with deterministic columns.
package export

import (
	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	querydomain "github.com/costvista/billquest/internal/query/domain"
	"github.com/shopspring/decimal"
)

func init() {
	// Money fields render as plain JSON numbers, matching the stored
	// exact-decimal values.
	decimal.MarshalJSONWithoutQuotes = true
}

// Envelope is the JSON response body for billing queries.
type Envelope struct {
	Items   []billingdomain.BillingRecord `json:"items"`
	Count   int                           `json:"count"`
	Summary querydomain.Summary           `json:"summary"`
}

// NewEnvelope wraps a result set with its count and summary.
func NewEnvelope(records []billingdomain.BillingRecord) Envelope {
	if records == nil {
		records = []billingdomain.BillingRecord{}
	}
	return Envelope{
		Items:   records,
		Count:   len(records),
		Summary: querydomain.Summarize(records),
	}
}
