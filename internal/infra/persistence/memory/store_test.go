package memory

import (
	"context"
	"testing"

	"subprofile/internal/infra/persistence/state/statetest"
	"subprofile/pkg/domain"
)

func TestRecordStoreContract(t *testing.T) {
	statetest.RunRecordStoreContract(t,
		func(*testing.T) domain.RecordStore { return NewStore() },
		func(_ *testing.T, store domain.RecordStore, raw []byte) { store.(*Store).Seed(raw) },
	)
}

func TestRawAndCounters(t *testing.T) {
	s := NewStore()
	if _, found := s.Raw(); found {
		t.Fatalf("new store should be empty")
	}
	if err := s.Append(context.Background(), domain.Subproject{SubprojectName: "A"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	raw, found := s.Raw()
	if !found || string(raw) != `[{"subprojectName":"A","description":"","region":"","province":"","municipality":"","projectCost":"","subprojectType":""}]` {
		t.Fatalf("unexpected raw %s", raw)
	}
	if s.Reads() != 1 || s.Writes() != 1 {
		t.Fatalf("reads=%d writes=%d", s.Reads(), s.Writes())
	}
}
