// Package blob stores binary objects, like photos of reports.
package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the object does not exist.
var ErrNotFound = errors.New("object is not found")

type Store interface {
	// Put writes an object. An existing object at the key is overwritten.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Get opens an object. Caller should close it.
	//
	// Returns ErrNotFound when no object is at the key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Removing missing objects is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns an URL to download the object, expiring after ttl.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
