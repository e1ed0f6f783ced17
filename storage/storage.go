// Package storage holds the object-store collaborators for user file
// content. Backends implement Store; Chain composes them into an explicit,
// ordered failover list that logs every transition instead of swapping
// silently.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound reports a key that no configured backend holds.
var ErrNotFound = errors.New("storage: object not found")

// Store is the contract every backend satisfies. Content is addressed by an
// opaque key owned by the caller; backends never invent keys.
type Store interface {
	// Name identifies the backend in logs and file metadata.
	Name() string
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// PresignURL returns a time-limited direct URL, or an error when the
	// backend cannot presign (the local store cannot).
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
