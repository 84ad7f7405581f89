package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	billingdomain "github.com/costvista/billquest/internal/billing/domain"
	"github.com/costvista/billquest/internal/blob"
	ingestiondomain "github.com/costvista/billquest/internal/ingestion/domain"
	"github.com/costvista/billquest/internal/ingestion/parser"
	"github.com/costvista/billquest/internal/observability/metrics"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Blob    blob.Store
	Repo    billingdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	blob    blob.Store
	repo    billingdomain.Repository
	metrics *metrics.Metrics
}

func New(p Params) ingestiondomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("ingestion.service"),
		blob:    p.Blob,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// ProcessFile runs one ingestion over the file at (bucket, key). Reruns
// over an already-marked file are a no-op; reruns over a half-written
// file converge because records overwrite by composite key.
func (s *Service) ProcessFile(ctx context.Context, bucket, key string) (*ingestiondomain.Result, error) {
	runID := uuid.NewString()
	log := s.log.With(
		zap.String("run_id", runID),
		zap.String("bucket", bucket),
		zap.String("key", key),
	)

	processed, err := s.checkIfProcessed(ctx, bucket, key)
	if err != nil {
		return s.fail(log, err)
	}
	if processed {
		log.Info("file already processed, skipping")
		s.countFile(ingestiondomain.StatusSkipped)
		return &ingestiondomain.Result{Status: ingestiondomain.StatusSkipped}, nil
	}

	data, err := s.blob.Fetch(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return s.fail(log, ingestiondomain.ErrFileNotFound)
		}
		return s.fail(log, fmt.Errorf("%w: %v", ingestiondomain.ErrStoreUnavailable, err))
	}

	table, err := parser.Parse(key, data)
	if err != nil {
		return s.fail(log, fmt.Errorf("%w: %v", ingestiondomain.ErrUnsupportedFormat, err))
	}

	for _, column := range ingestiondomain.RequiredColumns {
		if !table.HasColumn(column) {
			return s.fail(log, ingestiondomain.MissingColumnError(column))
		}
	}

	// All rows from one run share the same upload timestamp.
	uploadTimestamp := time.Now().UTC().Format(time.RFC3339)

	type recordKey struct{ account, invoiceProduct string }
	order := make([]recordKey, 0, len(table.Rows))
	unique := make(map[recordKey]billingdomain.BillingRecord, len(table.Rows))
	errorCount := 0

	for i, row := range table.Rows {
		result := NormalizeRow(row, uploadTimestamp)
		if result.Record == nil {
			log.Warn("row rejected",
				zap.Int("row", i+2),
				zap.String("reason", result.Reject),
			)
			errorCount++
			continue
		}
		for _, warn := range result.Warnings {
			log.Warn("row field coerced", zap.Int("row", i+2), zap.String("warning", warn))
		}
		k := recordKey{result.Record.PayerAccountID, result.Record.InvoiceProduct}
		if _, seen := unique[k]; !seen {
			order = append(order, k)
		}
		// Last row in file order wins on key collision.
		unique[k] = *result.Record
	}

	records := make([]billingdomain.BillingRecord, 0, len(unique))
	for _, k := range order {
		records = append(records, unique[k])
	}

	if err := s.repo.BatchUpsert(ctx, s.db, records); err != nil {
		return s.fail(log, fmt.Errorf("%w: %v", ingestiondomain.ErrStoreUnavailable, err))
	}

	// A failure here is logged, not fatal: re-ingesting the unmarked file
	// rewrites identical records.
	if err := s.markAsProcessed(ctx, bucket, key); err != nil {
		log.Error("mark file as processed", zap.Error(err))
	}

	result := &ingestiondomain.Result{
		Status:    ingestiondomain.StatusProcessed,
		Processed: len(records),
		Errors:    errorCount,
		Total:     len(records) + errorCount,
	}
	log.Info("file ingested",
		zap.Int("processed", result.Processed),
		zap.Int("errors", result.Errors),
	)
	s.countFile(ingestiondomain.StatusProcessed)
	s.countRows(result)
	return result, nil
}

func (s *Service) checkIfProcessed(ctx context.Context, bucket, key string) (bool, error) {
	meta, err := s.blob.Metadata(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return false, ingestiondomain.ErrFileNotFound
		}
		return false, fmt.Errorf("%w: %v", ingestiondomain.ErrStoreUnavailable, err)
	}
	return meta[blob.MetaProcessed] == "true", nil
}

func (s *Service) markAsProcessed(ctx context.Context, bucket, key string) error {
	return s.blob.SetMetadata(ctx, bucket, key, map[string]string{blob.MetaProcessed: "true"})
}

func (s *Service) fail(log *zap.Logger, err error) (*ingestiondomain.Result, error) {
	log.Error("file ingestion failed", zap.Error(err))
	s.countFile(ingestiondomain.StatusFailed)
	return &ingestiondomain.Result{Status: ingestiondomain.StatusFailed}, err
}

func (s *Service) countFile(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.FilesTotal.WithLabelValues(status).Inc()
}

func (s *Service) countRows(result *ingestiondomain.Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.RowsTotal.WithLabelValues("processed").Add(float64(result.Processed))
	s.metrics.RowsTotal.WithLabelValues("rejected").Add(float64(result.Errors))
}
