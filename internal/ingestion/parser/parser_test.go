package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSVStripsBOM(t *testing.T) {
	data := []byte("\ufeffpayer_account_id,invoice_id\n111,INV-1\n")

	table, err := ParseCSV(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"payer_account_id", "invoice_id"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "111", table.Rows[0]["payer_account_id"])
}

func TestParseCSVPadsShortRows(t *testing.T) {
	data := []byte("a,b,c\n1,2\n")

	table, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2", table.Rows[0]["b"])
	assert.Equal(t, "", table.Rows[0]["c"])
}

func TestParseCSVEmptyInput(t *testing.T) {
	table, err := ParseCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestParseDispatchesOnExtension(t *testing.T) {
	csvData := []byte("a,b\n1,2\n")

	table, err := Parse("uploads/report.csv", csvData)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	table, err = Parse("uploads/report.txt", csvData)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
}

func TestParseExcelFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"payer_account_id", "invoice_id", "cost_before_tax"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"111", "INV-1", "100.50"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Parse("uploads/report.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.True(t, table.HasColumn("payer_account_id"))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "INV-1", table.Rows[0]["invoice_id"])
	assert.Equal(t, "100.50", table.Rows[0]["cost_before_tax"])
}

func TestHasColumn(t *testing.T) {
	table := &Table{Headers: []string{"a", "b"}}
	assert.True(t, table.HasColumn("a"))
	assert.False(t, table.HasColumn("c"))
}
