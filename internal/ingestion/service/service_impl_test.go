package service

import (
	"context"
	"errors"
	"testing"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	billingrepository "github.com/costvista/billquest/internal/billing/repository"
	"github.com/costvista/billquest/internal/blob"
	ingestiondomain "github.com/costvista/billquest/internal/ingestion/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupIngestion(t *testing.T) (ingestiondomain.Service, *blob.MemoryStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billingdomain.BillingRecord{}))

	store := blob.NewMemoryStore()
	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Blob: store,
		Repo: billingrepository.Provide(),
	})
	return svc, store, db
}

const billingCSV = "payer_account_id,invoice_id,product_code,bill_period_start_date,cost_before_tax\n" +
	"111,INV-1,AmazonEC2,2024-01-01,100.50\n" +
	"111,INV-1,AmazonS3,2024-01-01,50.25\n" +
	"222,INV-2,AmazonEC2,2024-01-01,10.00\n"

func TestProcessFileRoundTrip(t *testing.T) {
	svc, store, db := setupIngestion(t)
	store.Put("uploads", "billing.csv", []byte(billingCSV))

	result, err := svc.ProcessFile(context.Background(), "uploads", "billing.csv")
	require.NoError(t, err)
	assert.Equal(t, ingestiondomain.StatusProcessed, result.Status)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, 3, result.Total)

	var count int64
	require.NoError(t, db.Model(&billingdomain.BillingRecord{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	var record billingdomain.BillingRecord
	require.NoError(t, db.Where("payer_account_id = ? AND invoice_product = ?", "111", "INV-1#AmazonEC2").First(&record).Error)
	assert.Equal(t, "100.5", record.CostBeforeTax.String())
	assert.NotEmpty(t, record.UploadTimestamp)
}

func TestProcessFileMarksAndSkipsReruns(t *testing.T) {
	svc, store, _ := setupIngestion(t)
	store.Put("uploads", "billing.csv", []byte(billingCSV))

	first, err := svc.ProcessFile(context.Background(), "uploads", "billing.csv")
	require.NoError(t, err)
	assert.Equal(t, ingestiondomain.StatusProcessed, first.Status)

	meta, err := store.Metadata(context.Background(), "uploads", "billing.csv")
	require.NoError(t, err)
	assert.Equal(t, "true", meta[blob.MetaProcessed])

	second, err := svc.ProcessFile(context.Background(), "uploads", "billing.csv")
	require.NoError(t, err)
	assert.Equal(t, ingestiondomain.StatusSkipped, second.Status)
	assert.Zero(t, second.Processed)
}

func TestProcessFileLastRowWinsOnKeyCollision(t *testing.T) {
	svc, store, db := setupIngestion(t)
	data := "payer_account_id,invoice_id,product_code,bill_period_start_date,cost_before_tax\n" +
		"111,INV-1,AmazonEC2,2024-01-01,1.00\n" +
		"111,INV-1,AmazonEC2,2024-01-01,2.00\n"
	store.Put("uploads", "dup.csv", []byte(data))

	result, err := svc.ProcessFile(context.Background(), "uploads", "dup.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	var record billingdomain.BillingRecord
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, "2", record.CostBeforeTax.String())
}

func TestProcessFileCountsRejectedRows(t *testing.T) {
	svc, store, _ := setupIngestion(t)
	data := "payer_account_id,invoice_id,product_code,bill_period_start_date,cost_before_tax\n" +
		"111,INV-1,AmazonEC2,2024-01-01,1.00\n" +
		",INV-1,AmazonS3,2024-01-01,2.00\n"
	store.Put("uploads", "partial.csv", []byte(data))

	result, err := svc.ProcessFile(context.Background(), "uploads", "partial.csv")
	require.NoError(t, err)
	assert.Equal(t, ingestiondomain.StatusProcessed, result.Status)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 2, result.Total)
}

func TestProcessFileRejectsMissingColumn(t *testing.T) {
	svc, store, _ := setupIngestion(t)
	data := "payer_account_id,invoice_id,product_code\n111,INV-1,AmazonEC2\n"
	store.Put("uploads", "nocol.csv", []byte(data))

	result, err := svc.ProcessFile(context.Background(), "uploads", "nocol.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingestiondomain.ErrMissingColumn))
	assert.Contains(t, err.Error(), "bill_period_start_date")
	assert.Equal(t, ingestiondomain.StatusFailed, result.Status)
}

func TestProcessFileMissingObject(t *testing.T) {
	svc, _, _ := setupIngestion(t)

	result, err := svc.ProcessFile(context.Background(), "uploads", "absent.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingestiondomain.ErrFileNotFound))
	assert.Equal(t, ingestiondomain.StatusFailed, result.Status)
}

func TestProcessFileRerunOverwritesByKey(t *testing.T) {
	svc, store, db := setupIngestion(t)
	store.Put("uploads", "v1.csv", []byte(
		"payer_account_id,invoice_id,product_code,bill_period_start_date,cost_before_tax\n"+
			"111,INV-1,AmazonEC2,2024-01-01,1.00\n"))
	store.Put("uploads", "v2.csv", []byte(
		"payer_account_id,invoice_id,product_code,bill_period_start_date,cost_before_tax\n"+
			"111,INV-1,AmazonEC2,2024-01-01,9.99\n"))

	_, err := svc.ProcessFile(context.Background(), "uploads", "v1.csv")
	require.NoError(t, err)
	_, err = svc.ProcessFile(context.Background(), "uploads", "v2.csv")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&billingdomain.BillingRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var record billingdomain.BillingRecord
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, "9.99", record.CostBeforeTax.String())
}
