package tree

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	m := NewModel(NewLeaf("yes"), classFeature, "yes")

	if _, err := s.Load(ctx, "m"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load() on empty store error = %v, want ErrModelNotFound", err)
	}
	if err := s.Save(ctx, "m", m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, "m")
	if err != nil || got != m {
		t.Errorf("Load() = %v, %v, want the saved model", got, err)
	}
	if err := s.Delete(ctx, "m"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Load(ctx, "m"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load() after Delete() error = %v, want ErrModelNotFound", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	if err := s.Save(ctx, "m", NewModel(NewLeaf("yes"), classFeature, "yes")); err != context.Canceled {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
	if _, err := s.Load(ctx, "m"); err != context.Canceled {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
