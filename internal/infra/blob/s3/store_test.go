package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"subprofile/internal/blob/core"
)

func TestMockStoreLifecycle(t *testing.T) {
	s := NewMockForTests()
	ctx := context.Background()
	if s.Driver() != core.DriverS3 {
		t.Fatalf("driver = %s", s.Driver())
	}
	payload := []byte(`[{"projectCost":"500"}]`)
	info, err := s.Put(ctx, "state/formData", bytes.NewReader(payload), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "state/formData" || info.ContentType != "application/json" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "state/formData", bytes.NewReader(payload), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	_, rc, err := s.Get(ctx, "state/formData")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q", got)
	}
	if _, err := s.Put(ctx, "other", bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
		t.Fatalf("put other: %v", err)
	}
	list, err := s.List(ctx, "state/")
	if err != nil || len(list) != 1 || list[0].Key != "state/formData" {
		t.Fatalf("list: %+v %v", list, err)
	}
	if ok, err := s.Delete(ctx, "state/formData"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := s.Delete(ctx, "state/formData"); err != nil || ok {
		t.Fatalf("second delete: %v %v", ok, err)
	}
	if _, _, err := s.Get(ctx, "state/formData"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Head(ctx, "state/formData"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestNewWithStaticCredentials(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket:          "records",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		PathStyle:       true,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.bucket != "records" {
		t.Fatalf("bucket = %s", s.bucket)
	}
}

func TestDecodeSingleChunk(t *testing.T) {
	body, ok := decodeSingleChunk([]byte("5;chunk-signature=abc\r\nhello\r\n0\r\n\r\n"))
	if !ok || string(body) != "hello" {
		t.Fatalf("decode = %q %v", body, ok)
	}
	if _, ok := decodeSingleChunk([]byte("plain body")); ok {
		t.Fatalf("plain body must not decode")
	}
	if _, ok := decodeSingleChunk([]byte("zz\r\nhello\r\n0")); ok {
		t.Fatalf("bad size must not decode")
	}
}
