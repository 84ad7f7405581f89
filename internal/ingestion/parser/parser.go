// Package parser reads uploaded spreadsheets into header + row maps,
// independent of whether the source was comma-delimited text or xlsx.
package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a parsed spreadsheet: the header row plus each data row as a
// column-name to raw-value mapping.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// HasColumn reports whether the header row contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Parse picks the format from the file extension: .xlsx/.xlsm are opened
// as workbooks, everything else is treated as comma-delimited text.
func Parse(key string, data []byte) (*Table, error) {
	switch strings.ToLower(path.Ext(key)) {
	case ".xlsx", ".xlsm":
		return ParseExcel(data)
	default:
		return ParseCSV(data)
	}
}

// ParseCSV reads comma-delimited text with a header row. A UTF-8 BOM on
// the first header cell is stripped.
func ParseCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	headers := cleanHeaders(header)

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, zipRow(headers, record))
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// ParseExcel reads the first sheet of an xlsx workbook.
func ParseExcel(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return &Table{}, nil
	}

	headers := cleanHeaders(cells[0])
	rows := make([]map[string]string, 0, len(cells)-1)
	for _, record := range cells[1:] {
		rows = append(rows, zipRow(headers, record))
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

func cleanHeaders(header []string) []string {
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return headers
}

func zipRow(headers, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}
