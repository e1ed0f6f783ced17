package storage

import (
	"context"
	"io"
	"time"
)

// Logger matches the interface the authfile core uses, so the chain can
// borrow the service logger without importing the root package.
type Logger interface {
	Warn(format string, args ...any)
	Info(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Info(string, ...any) {}

// Chain tries each configured backend in order and logs every failover, so
// degraded writes are visible to operators instead of silent. Reads probe
// every backend because an object may have landed on a fallback while the
// primary was down.
type Chain struct {
	stores []Store
	logger Logger
}

// NewChain builds a failover chain. The first store is the primary.
func NewChain(stores ...Store) *Chain {
	return &Chain{
		stores: stores,
		logger: nopLogger{},
	}
}

// WithLogger overrides the logger used for failover events.
func (c *Chain) WithLogger(logger Logger) *Chain {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *Chain) Name() string { return "chain" }

// Upload writes to the first backend that accepts the object and reports
// which one did through UploadTo, so file metadata records the real home.
func (c *Chain) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := c.UploadTo(ctx, key, body, size, contentType)
	return err
}

// UploadTo is Upload plus the name of the backend that took the write.
func (c *Chain) UploadTo(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	var lastErr error
	for i, s := range c.stores {
		if i > 0 {
			// Re-reading the body is only possible when it is seekable; the
			// HTTP layer hands us buffered uploads, so rewind when we can.
			if seeker, ok := body.(io.Seeker); ok {
				if _, err := seeker.Seek(0, io.SeekStart); err != nil {
					return "", err
				}
			} else {
				return "", lastErr
			}
		}

		if err := s.Upload(ctx, key, body, size, contentType); err != nil {
			c.logger.Warn("storage upload failed on %s, trying next backend: %v", s.Name(), err)
			lastErr = err
			continue
		}

		if i > 0 {
			c.logger.Info("storage upload for %s landed on fallback backend %s", key, s.Name())
		}
		return s.Name(), nil
	}
	return "", lastErr
}

func (c *Chain) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	var lastErr error
	for _, s := range c.stores {
		rc, err := s.Download(ctx, key)
		if err != nil {
			lastErr = err
			continue
		}
		return rc, nil
	}
	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return nil, lastErr
}

// Delete removes the key from every backend; a missing key on one backend is
// not an error because the object only ever lived on one of them.
func (c *Chain) Delete(ctx context.Context, key string) error {
	var lastErr error
	for _, s := range c.stores {
		if err := s.Delete(ctx, key); err != nil {
			c.logger.Warn("storage delete failed on %s: %v", s.Name(), err)
			lastErr = err
		}
	}
	return lastErr
}

// PresignURL asks the first backend able to presign.
func (c *Chain) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	var lastErr error
	for _, s := range c.stores {
		url, err := s.PresignURL(ctx, key, expiry)
		if err != nil {
			lastErr = err
			continue
		}
		return url, nil
	}
	return "", lastErr
}

var _ Store = (*Chain)(nil)
