// Package domain defines the ingestion contract for uploaded billing files.
package domain

import (
	"context"
	"errors"
	"fmt"
)

const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Result reports one ingestion run over a single source file.
type Result struct {
	Status    string `json:"status"`
	Processed int    `json:"processed"`
	Errors    int    `json:"errors"`
	Total     int    `json:"total"`
}

// RequiredColumns must all be present in the header row before any row is
// processed; a missing one rejects the whole file.
var RequiredColumns = []string{
	"payer_account_id",
	"invoice_id",
	"product_code",
	"bill_period_start_date",
}

// NumericColumns are coerced to exact decimals; unparseable values become
// zero. The `%` in the last name is stored as the word "percent".
var NumericColumns = []string{
	"cost_before_tax",
	"credits_before_discount",
	"credits_after_discount",
	"sp_discount",
	"ubd_discount",
	"prc_discount",
	"rvd_discount",
	"edp_discount",
	"edp_discount_%",
}

var (
	ErrFileNotFound      = errors.New("file_not_found")
	ErrUnsupportedFormat = errors.New("unsupported_file_format")
	ErrMissingColumn     = errors.New("missing_required_column")
	ErrStoreUnavailable  = errors.New("store_unavailable")
)

// MissingColumnError names the absent header column.
func MissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

// Service ingests one uploaded file identified by (bucket, key).
type Service interface {
	ProcessFile(ctx context.Context, bucket, key string) (*Result, error)
}
