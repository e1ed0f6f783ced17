package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStore keeps objects on the local filesystem under a root directory.
// It cannot presign URLs; callers fall through to streaming download.
type LocalStore struct {
	root string
}

func NewLocal(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (l *LocalStore) Name() string { return "local" }

func (l *LocalStore) path(key string) string {
	// Keys are server-generated; Clean guards against traversal anyway.
	return filepath.Join(l.root, filepath.Clean("/"+key))
}

func (l *LocalStore) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	dest := l.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (l *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(l.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (l *LocalStore) PresignURL(context.Context, string, time.Duration) (string, error) {
	return "", errors.New("storage: local backend cannot presign URLs")
}

var _ Store = (*LocalStore)(nil)
