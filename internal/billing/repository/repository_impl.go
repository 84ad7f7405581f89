package repository

import (
	"context"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) BatchUpsert(ctx context.Context, db *gorm.DB, records []billingdomain.BillingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payer_account_id"}, {Name: "invoice_product"}},
		UpdateAll: true,
	}).Create(&records).Error
}

func (r *repo) FindByAccount(ctx context.Context, db *gorm.DB, accountID string) ([]billingdomain.BillingRecord, error) {
	var records []billingdomain.BillingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM billing_records WHERE payer_account_id = ?`,
		accountID,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindByInvoice(ctx context.Context, db *gorm.DB, invoiceID string) ([]billingdomain.BillingRecord, error) {
	var records []billingdomain.BillingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM billing_records WHERE invoice_id = ? ORDER BY product_code ASC`,
		invoiceID,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindByDate(ctx context.Context, db *gorm.DB, date, productCode string) ([]billingdomain.BillingRecord, error) {
	var records []billingdomain.BillingRecord
	query := `SELECT * FROM billing_records WHERE bill_period_start_date = ?`
	args := []any{date}
	if productCode != "" {
		query += ` AND product_code = ?`
		args = append(args, productCode)
	}
	query += ` ORDER BY product_code ASC`
	err := db.WithContext(ctx).Raw(query, args...).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) DistinctInvoiceIDs(ctx context.Context, db *gorm.DB, accountID string) ([]string, error) {
	var rows []struct {
		InvoiceID      string
		InvoiceProduct string
	}
	err := db.WithContext(ctx).Raw(
		`SELECT invoice_id, invoice_product FROM billing_records WHERE payer_account_id = ?`,
		accountID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id := row.InvoiceID
		if id == "" {
			// Older records carry the invoice id only inside the composite key.
			id = billingdomain.InvoiceFromKey(row.InvoiceProduct)
		}
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
