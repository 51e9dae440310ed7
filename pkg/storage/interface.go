package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored binary object.
type UploadResult struct {
	Key string `json:"key" bson:"key"`
	URL string `json:"url" bson:"url"`
}

// ObjectStore is the interface handlers depend on, so tests can substitute
// an in-memory implementation.
type ObjectStore interface {
	Upload(ctx context.Context, folder string, body io.Reader, size int64, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}
