// Package memory provides a process-local record store used by tests and by
// the memory storage driver.
package memory

import (
	"context"
	"sync"

	"subprofile/internal/infra/persistence/state"
)

// Store keeps the serialized record list in memory.
type Store struct {
	*state.Records
	bucket *bucket
}

// NewStore returns an empty store.
func NewStore() *Store {
	b := &bucket{}
	return &Store{Records: state.NewRecords(b), bucket: b}
}

// Seed overwrites the raw stored value, bypassing encoding.
func (s *Store) Seed(raw []byte) {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()
	s.bucket.payload = append([]byte(nil), raw...)
	s.bucket.found = true
}

// Raw returns a copy of the stored value and whether one exists.
func (s *Store) Raw() ([]byte, bool) {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()
	return append([]byte(nil), s.bucket.payload...), s.bucket.found
}

// Reads and Writes count backend accesses.
func (s *Store) Reads() int {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()
	return s.bucket.reads
}

func (s *Store) Writes() int {
	s.bucket.mu.Lock()
	defer s.bucket.mu.Unlock()
	return s.bucket.writes
}

type bucket struct {
	mu      sync.Mutex
	payload []byte
	found   bool
	reads   int
	writes  int
}

func (b *bucket) Read(_ context.Context) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads++
	return append([]byte(nil), b.payload...), b.found, nil
}

func (b *bucket) Write(_ context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	b.payload = append([]byte(nil), payload...)
	b.found = true
	return nil
}
