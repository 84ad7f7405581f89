package blob

import (
	"context"
	"io"
	"strings"

	"github.com/costvista/billquest/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store against any S3-compatible endpoint.
type MinioStore struct {
	client *minio.Client
}

// NewMinioClient connects to the configured object-store endpoint.
func NewMinioClient(cfg config.Config) (*minio.Client, error) {
	return minio.New(cfg.Blob.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Blob.AccessKeyID, cfg.Blob.SecretAccessKey, ""),
		Secure: cfg.Blob.UseSSL,
	})
}

func NewMinioStore(client *minio.Client) *MinioStore {
	return &MinioStore{client: client}
}

func (s *MinioStore) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return data, nil
}

func (s *MinioStore) Metadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}

	// StatObject reports user metadata with canonicalized header keys;
	// callers expect the lowercase names they stored.
	metadata := make(map[string]string, len(info.UserMetadata))
	for k, v := range info.UserMetadata {
		metadata[strings.ToLower(k)] = v
	}
	return metadata, nil
}

func (s *MinioStore) SetMetadata(ctx context.Context, bucket, key string, metadata map[string]string) error {
	// S3 object metadata is immutable; the only way to replace it is a
	// same-key server-side copy, same as the REPLACE metadata directive.
	src := minio.CopySrcOptions{Bucket: bucket, Object: key}
	dst := minio.CopyDestOptions{
		Bucket:          bucket,
		Object:          key,
		UserMetadata:    metadata,
		ReplaceMetadata: true,
	}
	_, err := s.client.CopyObject(ctx, dst, src)
	return mapMinioErr(err)
}

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return ErrNotFound
	}
	return err
}
