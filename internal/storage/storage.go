// Package storage persists normalized avatar images behind a small blob
// store interface with local-disk and S3 drivers.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// Store saves and loads blobs by key.
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}
