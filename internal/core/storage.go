package core

import (
	"context"
	"fmt"

	"subprofile/internal/blob"
	"subprofile/internal/infra/persistence/blobstate"
	"subprofile/internal/infra/persistence/memory"
	"subprofile/internal/infra/persistence/postgres"
	"subprofile/internal/infra/persistence/sqlite"
	"subprofile/pkg/domain"
)

// StorageDriver identifies a concrete record store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageBlob     StorageDriver = "blob"     // JSON object in a blob store
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageOptions selects and parameterises the record store.
type StorageOptions struct {
	Driver      StorageDriver
	Key         string
	SQLitePath  string
	PostgresDSN string
	Blob        blob.Config
}

// OpenRecordStore returns the backend named by opts.Driver (blob when
// empty). Stores holding external resources also implement io.Closer.
func OpenRecordStore(ctx context.Context, opts StorageOptions) (domain.RecordStore, error) {
	key := opts.Key
	if key == "" {
		key = domain.DefaultStorageKey
	}
	driver := opts.Driver
	if driver == "" {
		driver = StorageBlob
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageBlob:
		blobs, err := blob.Open(ctx, opts.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return orNil(blobstate.NewStore(blobs, key))
	case StorageSQLite:
		return orNil(sqlite.NewStore(opts.SQLitePath, key))
	case StoragePostgres:
		return orNil(postgres.NewStore(ctx, opts.PostgresDSN, key))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// orNil keeps a failed constructor from yielding a non-nil interface that
// wraps a nil pointer.
func orNil[S domain.RecordStore](store S, err error) (domain.RecordStore, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}
