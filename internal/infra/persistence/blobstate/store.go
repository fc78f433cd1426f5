// Package blobstate stores the record list as a single JSON object in a
// blob store (filesystem, S3 or memory).
package blobstate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"subprofile/internal/blob"
	"subprofile/internal/infra/persistence/state"
)

const contentType = "application/json"

// Store persists records under one blob key.
type Store struct {
	*state.Records
	blobs blob.Store
	key   string
}

// NewStore stores records under key in blobs. key must be non-empty.
func NewStore(blobs blob.Store, key string) (*Store, error) {
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if key == "" {
		return nil, fmt.Errorf("storage key required")
	}
	b := &bucket{blobs: blobs, key: key}
	return &Store{Records: state.NewRecords(b), blobs: blobs, key: key}, nil
}

// Key returns the blob key records are stored under.
func (s *Store) Key() string { return s.key }

type bucket struct {
	blobs blob.Store
	key   string
}

func (b *bucket) Read(ctx context.Context) ([]byte, bool, error) {
	_, rc, err := b.blobs.Get(ctx, b.key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Write replaces the object in place; a failed Put leaves the previous list.
func (b *bucket) Write(ctx context.Context, payload []byte) error {
	_, err := b.blobs.Put(ctx, b.key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"kind": "subproject-records"},
		Overwrite:   true,
	})
	return err
}
