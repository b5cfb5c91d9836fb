package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs as files under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed and returns a store over it.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(ctx context.Context, key string, data []byte) error {
	// keys are server-generated, but never follow a path out of the dir
	path := filepath.Join(s.dir, filepath.Base(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}
