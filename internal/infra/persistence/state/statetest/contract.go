// Package statetest holds the shared behaviour suite for record store backends.
package statetest

import (
	"context"
	"testing"

	"subprofile/pkg/domain"
)

// RunRecordStoreContract exercises the behaviour every domain.RecordStore
// backend must share. newStore must return an empty store; seed writes a raw
// value under the store's key.
func RunRecordStoreContract(t *testing.T, newStore func(t *testing.T) domain.RecordStore, seed func(t *testing.T, store domain.RecordStore, raw []byte)) {
	t.Helper()
	ctx := context.Background()
	first := domain.Subproject{
		SubprojectName: "Rice Mill", Description: "Cooperative mill", Region: "Region III",
		Province: "Nueva Ecija", Municipality: "Cabanatuan", ProjectCost: "1,234.56",
		SubprojectType: string(domain.TypeProcessingFacility),
	}
	second := first
	second.SubprojectName = "Farm Road"
	second.ProjectCost = "500"

	t.Run("empty", func(t *testing.T) {
		store := newStore(t)
		recs, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if recs == nil || len(recs) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", recs)
		}
	})

	t.Run("append preserves order", func(t *testing.T) {
		store := newStore(t)
		for _, rec := range []domain.Subproject{first, second} {
			if err := store.Append(ctx, rec); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		recs, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(recs) != 2 || recs[0] != first || recs[1] != second {
			t.Fatalf("unexpected records %#v", recs)
		}
	})

	t.Run("replace all", func(t *testing.T) {
		store := newStore(t)
		if err := store.Append(ctx, first); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := store.ReplaceAll(ctx, []domain.Subproject{second}); err != nil {
			t.Fatalf("replace: %v", err)
		}
		recs, _ := store.Load(ctx)
		if len(recs) != 1 || recs[0] != second {
			t.Fatalf("unexpected records %#v", recs)
		}
		if err := store.ReplaceAll(ctx, nil); err != nil {
			t.Fatalf("replace empty: %v", err)
		}
		recs, _ = store.Load(ctx)
		if len(recs) != 0 {
			t.Fatalf("expected empty list, got %#v", recs)
		}
	})

	t.Run("malformed value", func(t *testing.T) {
		store := newStore(t)
		seed(t, store, []byte(`{"not":"a list"}`))
		recs, err := store.Load(ctx)
		if err != nil || len(recs) != 0 {
			t.Fatalf("expected empty list for malformed value, got %#v %v", recs, err)
		}
		if err := store.Append(ctx, first); err != nil {
			t.Fatalf("append after malformed: %v", err)
		}
		recs, _ = store.Load(ctx)
		if len(recs) != 1 || recs[0] != first {
			t.Fatalf("append should start a fresh list, got %#v", recs)
		}
	})

	t.Run("list with odd element", func(t *testing.T) {
		store := newStore(t)
		seed(t, store, []byte(`[{"subprojectName":"Footbridge","projectCost":750}]`))
		if err := store.Append(ctx, first); err != nil {
			t.Fatalf("append: %v", err)
		}
		recs, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		kept := domain.Subproject{SubprojectName: "Footbridge", ProjectCost: "750"}
		if len(recs) != 2 || recs[0] != kept || recs[1] != first {
			t.Fatalf("existing record lost, got %#v", recs)
		}
	})
}
