// Package modelstore fetches serialized model artifacts from local disk
// or Azure blob storage.
package modelstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore fetches a named artifact as raw bytes.
type BlobStore interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// LocalStore reads artifacts from a directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return data, nil
}
