// Package state implements domain.RecordStore on top of any backend able to
// read and write one raw value per storage key.
package state

import (
	"context"
	"fmt"
	"sync"

	"subprofile/pkg/domain"
)

// Bucket holds the raw serialized value for a single storage key.
type Bucket interface {
	// Read returns the stored bytes. found is false when nothing has been
	// written under the key yet.
	Read(ctx context.Context) (payload []byte, found bool, err error)
	// Write replaces the stored bytes.
	Write(ctx context.Context, payload []byte) error
}

// Records is the shared read-modify-write implementation used by every
// backend. Calls are serialised within the process.
type Records struct {
	mu     sync.Mutex
	bucket Bucket
}

var _ domain.RecordStore = (*Records)(nil)

// NewRecords wraps bucket.
func NewRecords(bucket Bucket) *Records {
	return &Records{bucket: bucket}
}

// Load returns the stored list; absent or malformed values yield an empty list.
func (r *Records) Load(ctx context.Context) ([]domain.Subproject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Append adds rec to the end of the stored list.
func (r *Records) Append(ctx context.Context, rec domain.Subproject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs, err := r.load(ctx)
	if err != nil {
		return err
	}
	return r.write(ctx, append(recs, rec))
}

// ReplaceAll overwrites the stored list.
func (r *Records) ReplaceAll(ctx context.Context, recs []domain.Subproject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, recs)
}

func (r *Records) load(ctx context.Context) ([]domain.Subproject, error) {
	payload, found, err := r.bucket.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if !found {
		return []domain.Subproject{}, nil
	}
	return domain.DecodeRecords(payload), nil
}

func (r *Records) write(ctx context.Context, recs []domain.Subproject) error {
	payload, err := domain.EncodeRecords(recs)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := r.bucket.Write(ctx, payload); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}
