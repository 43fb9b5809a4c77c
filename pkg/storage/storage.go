package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/noah-isme/program-workboard-api/pkg/config"
)

// Driver identifies an export storage backend.
type Driver string

const (
	// DriverFilesystem keeps exports under a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 keeps exports in an S3-compatible bucket.
	DriverS3 Driver = "s3"
)

// ErrObjectNotFound reports an export that was never written or already swept.
var ErrObjectNotFound = errors.New("export object not found")

// Storage persists rendered export files.
type Storage interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
	CleanupOlderThan(ctx context.Context, ttl time.Duration) ([]string, error)
}

// Open selects a Storage implementation from the exports configuration.
func Open(ctx context.Context, cfg config.ExportsConfig) (Storage, error) {
	switch Driver(cfg.StorageDriver) {
	case "", DriverFilesystem:
		return NewLocalStorage(cfg.StorageDir)
	case DriverS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Prefix:    cfg.S3Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown export storage driver %s", cfg.StorageDriver)
	}
}
