package core

import (
	"context"
	"fmt"
	"os"

	"recipecards/internal/blob"
	"recipecards/internal/infra/persistence/postgres"
	"recipecards/internal/infra/persistence/sqlite"
	"recipecards/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory     StorageDriver = "memory"     // in-memory only (tests / ephemeral)
	StorageFilesystem StorageDriver = "filesystem" // local JSON blobs (default)
	StorageS3         StorageDriver = "s3"         // S3 / MinIO compatible
	StorageSQLite     StorageDriver = "sqlite"     // embedded sqlite file
	StoragePostgres   StorageDriver = "postgres"   // PostgreSQL server
)

// OpenBackend selects a persistence backend using environment variables.
// Defaults to filesystem when unset.
//
//	RECIPECARDS_STORAGE_DRIVER: memory|filesystem|s3|sqlite|postgres (default filesystem)
//	RECIPECARDS_FS_ROOT: blob directory when driver=filesystem (default ./recipedata)
//	RECIPECARDS_SQLITE_PATH: path to sqlite file (default recipecards.db)
//	RECIPECARDS_POSTGRES_DSN: postgres DSN when driver=postgres
//	(S3 variables documented in the s3 blob package)
func OpenBackend(ctx context.Context) (domain.Backend, error) {
	driver := os.Getenv("RECIPECARDS_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageFilesystem)
	}
	switch StorageDriver(driver) {
	case StorageMemory, StorageFilesystem, StorageS3:
		store, err := blob.Open(ctx, blobDriver(StorageDriver(driver)), os.Getenv("RECIPECARDS_FS_ROOT"))
		if err != nil {
			return nil, err
		}
		return NewBlobBackend(store), nil
	case StorageSQLite:
		return sqlite.New(os.Getenv("RECIPECARDS_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.New(os.Getenv("RECIPECARDS_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// blobDriver maps the blob-backed storage drivers onto their blob.Driver.
func blobDriver(d StorageDriver) blob.Driver {
	switch d {
	case StorageMemory:
		return blob.DriverMemory
	case StorageS3:
		return blob.DriverS3
	default:
		return blob.DriverFilesystem
	}
}
