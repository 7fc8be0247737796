package storage

import (
	"context"
	"io"
)

// Storage is an object store addressed by key.
type Storage interface {
	Upload(ctx context.Context, key string, data io.ReadSeeker, contentType string) error
	// List returns every key starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
