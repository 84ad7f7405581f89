package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not_found")
)

// Repository is the keyed-store access layer for billing records.
type Repository interface {
	// BatchUpsert writes records in one logical batch; an existing record
	// with the same composite key is overwritten (last write wins).
	BatchUpsert(ctx context.Context, db *gorm.DB, records []BillingRecord) error

	FindByAccount(ctx context.Context, db *gorm.DB, accountID string) ([]BillingRecord, error)
	FindByInvoice(ctx context.Context, db *gorm.DB, invoiceID string) ([]BillingRecord, error)
	FindByDate(ctx context.Context, db *gorm.DB, date, productCode string) ([]BillingRecord, error)
	DistinctInvoiceIDs(ctx context.Context, db *gorm.DB, accountID string) ([]string, error)
}
