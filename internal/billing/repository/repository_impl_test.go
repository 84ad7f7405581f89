package repository

import (
	"context"
	"testing"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billingdomain.BillingRecord{}))
	return db
}

func TestBatchUpsertOverwritesByCompositeKey(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	ctx := context.Background()

	first := []billingdomain.BillingRecord{{
		PayerAccountID:      "111",
		InvoiceProduct:      "INV-1#AmazonEC2",
		InvoiceID:           "INV-1",
		ProductCode:         "AmazonEC2",
		BillPeriodStartDate: "2024-01-01",
		CostBeforeTax:       decimal.RequireFromString("1.00"),
	}}
	require.NoError(t, repo.BatchUpsert(ctx, db, first))

	second := first
	second[0].CostBeforeTax = decimal.RequireFromString("9.99")
	require.NoError(t, repo.BatchUpsert(ctx, db, second))

	records, err := repo.FindByAccount(ctx, db, "111")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "9.99", records[0].CostBeforeTax.String())
}

func TestBatchUpsertEmptySlice(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, Provide().BatchUpsert(context.Background(), db, nil))
}

func TestFindByDateWithProduct(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	ctx := context.Background()

	records := []billingdomain.BillingRecord{
		{PayerAccountID: "111", InvoiceProduct: "INV-1#AmazonEC2", InvoiceID: "INV-1", ProductCode: "AmazonEC2", BillPeriodStartDate: "2024-01-01"},
		{PayerAccountID: "111", InvoiceProduct: "INV-1#AmazonS3", InvoiceID: "INV-1", ProductCode: "AmazonS3", BillPeriodStartDate: "2024-01-01"},
		{PayerAccountID: "222", InvoiceProduct: "INV-2#AmazonEC2", InvoiceID: "INV-2", ProductCode: "AmazonEC2", BillPeriodStartDate: "2024-02-01"},
	}
	require.NoError(t, repo.BatchUpsert(ctx, db, records))

	found, err := repo.FindByDate(ctx, db, "2024-01-01", "AmazonS3")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "INV-1#AmazonS3", found[0].InvoiceProduct)

	found, err = repo.FindByDate(ctx, db, "2024-01-01", "")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestDistinctInvoiceIDsFallsBackToCompositeKey(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	ctx := context.Background()

	records := []billingdomain.BillingRecord{
		{PayerAccountID: "111", InvoiceProduct: "INV-1#AmazonEC2", InvoiceID: "INV-1", ProductCode: "AmazonEC2", BillPeriodStartDate: "2024-01-01"},
		{PayerAccountID: "111", InvoiceProduct: "INV-1#AmazonS3", InvoiceID: "INV-1", ProductCode: "AmazonS3", BillPeriodStartDate: "2024-01-01"},
		// Legacy row: invoice id lives only inside the composite key.
		{PayerAccountID: "111", InvoiceProduct: "INV-9#AmazonRDS", ProductCode: "AmazonRDS", BillPeriodStartDate: "2024-02-01"},
	}
	require.NoError(t, repo.BatchUpsert(ctx, db, records))

	ids, err := repo.DistinctInvoiceIDs(ctx, db, "111")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"INV-1", "INV-9"}, ids)
}
