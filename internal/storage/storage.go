package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when the requested key does not exist.
// Callers treat it as "start from an empty document".
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage captures the minimal S3-compatible operations the document
// repositories need. Documents are whole JSON blobs; there is no partial
// update.
type ObjectStorage interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}
