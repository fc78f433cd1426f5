package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"subprofile/internal/infra/persistence/state/statetest"
	"subprofile/pkg/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "records.db"), domain.DefaultStorageKey)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordStoreContract(t *testing.T) {
	statetest.RunRecordStoreContract(t,
		func(t *testing.T) domain.RecordStore { return newTestStore(t) },
		func(t *testing.T, store domain.RecordStore, raw []byte) {
			s := store.(*Store)
			if _, err := s.DB().Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, domain.DefaultStorageKey, raw); err != nil {
				t.Fatalf("seed: %v", err)
			}
		},
	)
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	store, err := NewStore(path, "formData")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	rec := domain.Subproject{SubprojectName: "Solar Dryer", ProjectCost: "75,000.00"}
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	reloaded, err := NewStore(path, "formData")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	defer func() { _ = reloaded.Close() }()
	recs, err := reloaded.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 1 || recs[0] != rec {
		t.Fatalf("unexpected records %#v", recs)
	}
	if reloaded.Path() != path {
		t.Fatalf("path %q", reloaded.Path())
	}
}

func TestKeysAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	a, err := NewStore(path, "a")
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = a.Close() }()
	b, err := NewStore(path, "b")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer func() { _ = b.Close() }()
	if err := a.Append(context.Background(), domain.Subproject{SubprojectName: "only a"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	recs, _ := b.Load(context.Background())
	if len(recs) != 0 {
		t.Fatalf("key b should be empty, got %#v", recs)
	}
}

func TestNewStoreRequiresKey(t *testing.T) {
	if _, err := NewStore(filepath.Join(t.TempDir(), "x.db"), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
