// Package domain contains the persistence model for ingested billing rows.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// KeySeparator joins invoice id and product code into the record sort key.
const KeySeparator = "#"

// BillingRecord is one normalized spreadsheet row. The pair
// (payer_account_id, invoice_id#product_code) is the uniqueness boundary;
// a later ingestion of the same pair overwrites the earlier record.
type BillingRecord struct {
	PayerAccountID      string `gorm:"column:payer_account_id;primaryKey" json:"payer_account_id"`
	InvoiceProduct      string `gorm:"column:invoice_product;primaryKey" json:"invoice_id#product_code"`
	InvoiceID           string `gorm:"column:invoice_id;index:idx_billing_records_invoice,priority:1" json:"invoice_id"`
	ProductCode         string `gorm:"column:product_code;index:idx_billing_records_invoice,priority:2;index:idx_billing_records_date,priority:2" json:"product_code"`
	BillPeriodStartDate string `gorm:"column:bill_period_start_date;index:idx_billing_records_date,priority:1" json:"bill_period_start_date"`

	CostBeforeTax         decimal.Decimal `gorm:"column:cost_before_tax;type:numeric" json:"cost_before_tax"`
	CreditsBeforeDiscount decimal.Decimal `gorm:"column:credits_before_discount;type:numeric" json:"credits_before_discount"`
	CreditsAfterDiscount  decimal.Decimal `gorm:"column:credits_after_discount;type:numeric" json:"credits_after_discount"`
	SPDiscount            decimal.Decimal `gorm:"column:sp_discount;type:numeric" json:"sp_discount"`
	UBDDiscount           decimal.Decimal `gorm:"column:ubd_discount;type:numeric" json:"ubd_discount"`
	PRCDiscount           decimal.Decimal `gorm:"column:prc_discount;type:numeric" json:"prc_discount"`
	RVDDiscount           decimal.Decimal `gorm:"column:rvd_discount;type:numeric" json:"rvd_discount"`
	EDPDiscount           decimal.Decimal `gorm:"column:edp_discount;type:numeric" json:"edp_discount"`
	EDPDiscountPercent    decimal.Decimal `gorm:"column:edp_discount_percent;type:numeric" json:"edp_discount_percent"`

	UploadTimestamp string `gorm:"column:upload_timestamp" json:"upload_timestamp"`
}

// TableName sets the database table name.
func (BillingRecord) TableName() string { return "billing_records" }

// CompositeKey builds the sort key from invoice id and product code.
func CompositeKey(invoiceID, productCode string) string {
	return invoiceID + KeySeparator + productCode
}

// InvoiceFromKey recovers the invoice id segment of a composite key.
func InvoiceFromKey(key string) string {
	if idx := strings.Index(key, KeySeparator); idx >= 0 {
		return key[:idx]
	}
	return key
}

// Fields renders the record as column name to value, decimals in plain
// (non-exponential) notation. Column names match the stored attribute names.
func (r BillingRecord) Fields() map[string]string {
	return map[string]string{
		"payer_account_id":        r.PayerAccountID,
		"invoice_id#product_code": r.InvoiceProduct,
		"invoice_id":              r.InvoiceID,
		"product_code":            r.ProductCode,
		"bill_period_start_date":  r.BillPeriodStartDate,
		"cost_before_tax":         r.CostBeforeTax.String(),
		"credits_before_discount": r.CreditsBeforeDiscount.String(),
		"credits_after_discount":  r.CreditsAfterDiscount.String(),
		"sp_discount":             r.SPDiscount.String(),
		"ubd_discount":            r.UBDDiscount.String(),
		"prc_discount":            r.PRCDiscount.String(),
		"rvd_discount":            r.RVDDiscount.String(),
		"edp_discount":            r.EDPDiscount.String(),
		"edp_discount_percent":    r.EDPDiscountPercent.String(),
		"upload_timestamp":        r.UploadTimestamp,
	}
}
