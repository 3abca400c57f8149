package localfs

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "doc-1_a.txt", bytes.NewBufferString("hello")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r, err := s.Open(ctx, "doc-1_a.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	raw, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(raw) != "hello" {
		t.Fatalf("expected hello, got %q", raw)
	}

	if err := s.Delete(ctx, "doc-1_a.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Open(ctx, "doc-1_a.txt"); err == nil {
		t.Fatalf("expected open to fail after delete")
	}
	// Deleting again is not an error.
	if err := s.Delete(ctx, "doc-1_a.txt"); err != nil {
		t.Fatalf("repeated Delete() error = %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Save(context.Background(), "../escape.txt", bytes.NewBufferString("x")); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
	if _, err := s.Open(context.Background(), ""); err == nil {
		t.Fatalf("expected empty key to be rejected")
	}
}
