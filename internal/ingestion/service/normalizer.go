package service

import (
	"fmt"
	"strings"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	ingestiondomain "github.com/costvista/billquest/internal/ingestion/domain"
	"github.com/shopspring/decimal"
)

// RowResult is the typed outcome of normalizing one raw row: either a
// record, or a rejection reason. Warnings never reject the row.
type RowResult struct {
	Record   *billingdomain.BillingRecord
	Reject   string
	Warnings []string
}

// NormalizeRow turns one raw spreadsheet row into a canonical billing
// record. Rows missing any required key field are rejected; numeric
// fields that cannot be represented as a finite decimal become zero.
func NormalizeRow(row map[string]string, uploadTimestamp string) RowResult {
	payerAccountID := strings.TrimSpace(row["payer_account_id"])
	invoiceID := strings.TrimSpace(row["invoice_id"])
	productCode := strings.TrimSpace(row["product_code"])
	billPeriodStartDate := strings.TrimSpace(row["bill_period_start_date"])
	if payerAccountID == "" || invoiceID == "" || productCode == "" || billPeriodStartDate == "" {
		return RowResult{Reject: "missing required key fields"}
	}

	record := &billingdomain.BillingRecord{
		PayerAccountID:      payerAccountID,
		InvoiceProduct:      billingdomain.CompositeKey(invoiceID, productCode),
		InvoiceID:           invoiceID,
		ProductCode:         productCode,
		BillPeriodStartDate: billPeriodStartDate,
		UploadTimestamp:     uploadTimestamp,
	}

	var warnings []string
	for _, column := range ingestiondomain.NumericColumns {
		value, warn := parseDecimal(row[column])
		if warn != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", sanitizeFieldName(column), warn))
		}
		assignNumeric(record, sanitizeFieldName(column), value)
	}

	return RowResult{Record: record, Warnings: warnings}
}

// sanitizeFieldName rewrites a literal % in a column name to the word
// percent so stored attribute names carry no punctuation.
func sanitizeFieldName(name string) string {
	return strings.ReplaceAll(name, "%", "percent")
}

func parseDecimal(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ""
	}
	switch strings.ToLower(raw) {
	case "nan", "inf", "+inf", "-inf", "infinity", "+infinity", "-infinity":
		return decimal.Zero, "non-finite value replaced with 0"
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("unconvertible value %q replaced with 0", raw)
	}
	return value, ""
}

func assignNumeric(record *billingdomain.BillingRecord, field string, value decimal.Decimal) {
	switch field {
	case "cost_before_tax":
		record.CostBeforeTax = value
	case "credits_before_discount":
		record.CreditsBeforeDiscount = value
	case "credits_after_discount":
		record.CreditsAfterDiscount = value
	case "sp_discount":
		record.SPDiscount = value
	case "ubd_discount":
		record.UBDDiscount = value
	case "prc_discount":
		record.PRCDiscount = value
	case "rvd_discount":
		record.RVDDiscount = value
	case "edp_discount":
		record.EDPDiscount = value
	case "edp_discount_percent":
		record.EDPDiscountPercent = value
	}
}
