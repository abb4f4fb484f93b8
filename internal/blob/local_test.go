package blob

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLocalStore_PutGetDelete(t *testing.T) {
	s := NewLocalStore()
	ctx := context.Background()

	payload := []byte("image bytes")
	n, err := s.PutObject(ctx, "meals/abc/image", payload, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("expected %d bytes written, got %d", len(payload), n)
	}

	data, contentType, err := s.GetObjectWithType(ctx, "meals/abc/image")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("expected the stored bytes back")
	}
	if contentType != "image/jpeg" {
		t.Errorf("expected content type image/jpeg, got %q", contentType)
	}

	if err := s.DeleteObject(ctx, "meals/abc/image"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetObject(ctx, "meals/abc/image"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound after delete, got %v", err)
	}
}

func TestLocalStore_GetMissing(t *testing.T) {
	s := NewLocalStore()

	if _, err := s.GetObject(context.Background(), "nope"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStore_CopiesOnWrite(t *testing.T) {
	s := NewLocalStore()
	ctx := context.Background()

	payload := []byte("original")
	s.PutObject(ctx, "key", payload, "text/plain")
	payload[0] = 'X'

	data, err := s.GetObject(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("expected stored copy unaffected by caller mutation, got %q", data)
	}
}

func TestLocalStore_PresignUnsupported(t *testing.T) {
	s := NewLocalStore()

	if _, err := s.PresignGet(context.Background(), "key", 900); !errors.Is(err, ErrPresignUnsupported) {
		t.Errorf("expected ErrPresignUnsupported, got %v", err)
	}
}
