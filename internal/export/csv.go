package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
)

// priorityColumns lead the CSV header; any remaining columns follow in
// lexical order.
var priorityColumns = []string{
	"payer_account_id",
	"invoice_id",
	"product_code",
	"bill_period_start_date",
	"cost_before_tax",
}

// RecordRows renders records as column-name to value maps for WriteCSV.
func RecordRows(records []billingdomain.BillingRecord) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Fields())
	}
	return rows
}

// WriteCSV renders rows with the priority column ordering. The column
// set is the union of keys across all rows; zero rows yield an empty body.
func WriteCSV(rows []map[string]string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	columns := orderedColumns(rows)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return "", err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Filename derives a descriptive download name from the result set.
func Filename(records []billingdomain.BillingRecord) string {
	accounts := distinct(records, func(r billingdomain.BillingRecord) string { return r.PayerAccountID })
	if len(accounts) == 0 {
		return "billing_data.csv"
	}
	if len(accounts) > 1 {
		return "billing_data_multiple_accounts.csv"
	}

	account := accounts[0]
	dates := distinct(records, func(r billingdomain.BillingRecord) string { return r.BillPeriodStartDate })
	if len(dates) == 1 {
		return fmt.Sprintf("billing_data_%s_%s.csv", account, dates[0])
	}
	invoices := distinct(records, func(r billingdomain.BillingRecord) string { return r.InvoiceID })
	if len(invoices) == 1 {
		return fmt.Sprintf("billing_data_%s_%s.csv", account, invoices[0])
	}
	return fmt.Sprintf("billing_data_%s.csv", account)
}

func orderedColumns(rows []map[string]string) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row {
			seen[col] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for _, col := range priorityColumns {
		if _, ok := seen[col]; ok {
			columns = append(columns, col)
			delete(seen, col)
		}
	}

	rest := make([]string, 0, len(seen))
	for col := range seen {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func distinct(records []billingdomain.BillingRecord, key func(billingdomain.BillingRecord) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 1)
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
