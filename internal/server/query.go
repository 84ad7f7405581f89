package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/costvista/billquest/internal/export"
	querydomain "github.com/costvista/billquest/internal/query/domain"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// QueryBilling serves the billing query surface: queryType selects the
// access path, format selects JSON envelope or CSV download.
func (s *Server) QueryBilling(c *gin.Context) {
	var query struct {
		QueryType           string `form:"queryType"`
		Format              string `form:"format"`
		AccountID           string `form:"accountId"`
		InvoiceID           string `form:"invoiceId"`
		BillPeriodStartDate string `form:"billPeriodStartDate"`
		Date                string `form:"date"`
		Product             string `form:"product"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// billPeriodStartDate and date are the same parameter under the two
	// historical names.
	date := strings.TrimSpace(query.Date)
	if date == "" {
		date = strings.TrimSpace(query.BillPeriodStartDate)
	}

	records, err := s.querySvc.Run(c.Request.Context(), querydomain.Request{
		QueryType: strings.TrimSpace(query.QueryType),
		AccountID: strings.TrimSpace(query.AccountID),
		InvoiceID: strings.TrimSpace(query.InvoiceID),
		Date:      date,
		Product:   strings.TrimSpace(query.Product),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = formatJSON
	}
	switch format {
	case formatJSON:
		c.JSON(http.StatusOK, export.NewEnvelope(records))
	case formatCSV:
		body, err := export.WriteCSV(export.RecordRows(records))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename=`+export.Filename(records))
		c.Data(http.StatusOK, "text/csv", []byte(body))
	default:
		AbortWithError(c, ErrInvalidRequest)
	}
}

// ListInvoiceIDs returns the sorted distinct invoice ids for one account.
func (s *Server) ListInvoiceIDs(c *gin.Context) {
	accountID := strings.TrimSpace(c.Query("accountId"))
	ids, err := s.querySvc.InvoiceIDs(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_id":  accountID,
		"invoice_ids": ids,
		"count":       len(ids),
	})
}
