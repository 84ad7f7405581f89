// Package listener subscribes to object-created events on the upload
// buckets and feeds each arriving file through the matching ingestion
// pipeline. Duplicate deliveries are safe: the engine skips files already
// marked processed and rewrites are convergent.
package listener

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/costvista/billquest/internal/config"
	ingestiondomain "github.com/costvista/billquest/internal/ingestion/domain"
	useraccessdomain "github.com/costvista/billquest/internal/useraccess/domain"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

var objectCreatedEvents = []string{"s3:ObjectCreated:*"}

// Worker consumes bucket notifications until stopped.
type Worker struct {
	cfg    config.Config
	log    *zap.Logger
	client *minio.Client

	ingestionSvc  ingestiondomain.Service
	userAccessSvc useraccessdomain.Service

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(
	cfg config.Config,
	log *zap.Logger,
	client *minio.Client,
	ingestionSvc ingestiondomain.Service,
	userAccessSvc useraccessdomain.Service,
) *Worker {
	return &Worker{
		cfg:           cfg,
		log:           log.Named("listener"),
		client:        client,
		ingestionSvc:  ingestionSvc,
		userAccessSvc: userAccessSvc,
	}
}

// Start launches one listening goroutine per configured bucket.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(2)
	go w.listen(ctx, w.cfg.Blob.BillingBucket, w.handleBillingObject)
	go w.listen(ctx, w.cfg.Blob.UserAccessBucket, w.handleUserAccessObject)
}

// Stop cancels the listeners and waits for in-flight files to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Worker) listen(ctx context.Context, bucket string, handle func(ctx context.Context, bucket, key string)) {
	defer w.wg.Done()
	log := w.log.With(zap.String("bucket", bucket))

	for {
		ch := w.client.ListenBucketNotification(ctx, bucket, "", "", objectCreatedEvents)
		log.Info("listening for bucket notifications")

		for info := range ch {
			if info.Err != nil {
				log.Warn("notification stream error", zap.Error(info.Err))
				continue
			}
			for _, event := range info.Records {
				key := decodeKey(event.S3.Object.Key)
				handle(ctx, bucket, key)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
			// Stream closed underneath us; resubscribe.
		}
	}
}

func (w *Worker) handleBillingObject(ctx context.Context, bucket, key string) {
	result, err := w.ingestionSvc.ProcessFile(ctx, bucket, key)
	if err != nil {
		// Retry policy belongs to the delivery side; the file stays
		// unmarked and a re-notification reprocesses it safely.
		w.log.Error("billing file ingestion failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	w.log.Info("billing file handled",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.String("status", result.Status),
	)
}

func (w *Worker) handleUserAccessObject(ctx context.Context, bucket, key string) {
	result, err := w.userAccessSvc.ProcessFile(ctx, bucket, key)
	if err != nil {
		w.log.Error("user access file ingestion failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	w.log.Info("user access file handled",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
	)
}

// decodeKey undoes the URL encoding bucket notifications apply to keys.
func decodeKey(key string) string {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
