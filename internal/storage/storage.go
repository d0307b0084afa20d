package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var ErrInvalidPath = errors.New("storage: invalid object path")

// Store keeps uploaded objects grouped by bucket.
type Store interface {
	Put(ctx context.Context, bucket, objectPath string, r io.Reader) (int64, error)
	Open(ctx context.Context, bucket, objectPath string) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, objectPath string) error
	Exists(ctx context.Context, bucket, objectPath string) (bool, error)
}

type FSStore struct {
	fs afero.Fs
}

func NewFSStore(fs afero.Fs) *FSStore {
	return &FSStore{fs: fs}
}

// NewOSStore stores objects below root on the local disk.
func NewOSStore(root string) (*FSStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return NewFSStore(afero.NewBasePathFs(osFs, root)), nil
}

// NewMemStore is an in-memory store for tests and local runs.
func NewMemStore() *FSStore {
	return NewFSStore(afero.NewMemMapFs())
}

func (s *FSStore) Put(ctx context.Context, bucket, objectPath string, r io.Reader) (int64, error) {
	full, err := objectKey(bucket, objectPath)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("create object dir: %w", err)
	}

	f, err := s.fs.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create object: %w", err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		_ = s.fs.Remove(full)
		return 0, fmt.Errorf("write object: %w", copyErr)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close object: %w", closeErr)
	}
	return n, nil
}

func (s *FSStore) Open(_ context.Context, bucket, objectPath string) (io.ReadCloser, error) {
	full, err := objectKey(bucket, objectPath)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(full)
}

// Delete is a no-op for missing objects.
func (s *FSStore) Delete(_ context.Context, bucket, objectPath string) error {
	full, err := objectKey(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *FSStore) Exists(_ context.Context, bucket, objectPath string) (bool, error) {
	full, err := objectKey(bucket, objectPath)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, full)
}

// objectKey joins bucket and path and refuses anything that escapes the bucket.
func objectKey(bucket, objectPath string) (string, error) {
	if bucket == "" || objectPath == "" || strings.Contains(bucket, "/") {
		return "", ErrInvalidPath
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", ErrInvalidPath
	}
	return path.Join("/", bucket, clean), nil
}
