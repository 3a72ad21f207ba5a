package blob

import (
	"context"
	"fmt"

	"recipecards/internal/infra/blob/fs"
	"recipecards/internal/infra/blob/memory"
	"recipecards/internal/infra/blob/s3"
)

// NewFilesystem constructs a filesystem-backed blob.Store rooted at the provided path.
// Returns blob.Store to encourage call sites to depend on the interface instead of
// concrete implementations.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}

// NewMemory constructs an in-memory blob.Store.
func NewMemory() Store {
	return memory.New()
}

// OpenS3 constructs an S3-backed blob.Store from process environment.
func OpenS3(ctx context.Context) (Store, error) {
	return s3.OpenFromEnv(ctx)
}

// Open constructs the blob.Store for the given driver. root is the directory
// root for DriverFilesystem and ignored otherwise; S3 connection details come
// from process environment (documented in the s3 package).
func Open(ctx context.Context, driver Driver, root string) (Store, error) {
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(root)
	case DriverS3:
		return OpenS3(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
