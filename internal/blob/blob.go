// Package blob abstracts the object store holding uploaded spreadsheets.
//
// Besides raw bytes, every object carries user metadata; the ingestion
// engine keeps its processed-marker there so "file was handled" survives
// independently of the record store.
package blob

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("object_not_found")
)

// MetaProcessed marks a source file as already ingested.
const MetaProcessed = "processed"

// Store is a minimal object-store contract: fetch by identity plus
// metadata get/set keyed to the same identity.
type Store interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
	Metadata(ctx context.Context, bucket, key string) (map[string]string, error)
	SetMetadata(ctx context.Context, bucket, key string, metadata map[string]string) error
}
