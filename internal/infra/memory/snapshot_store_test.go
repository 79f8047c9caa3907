package memory

import (
	"context"
	"errors"
	"testing"

	"ethmumbai-maxi/internal/domain"
)

func TestSnapshotStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	if _, err := store.Get(ctx, "maxi:c1:screen"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "maxi:c1:screen", "quiz"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := store.Get(ctx, "maxi:c1:screen")
	if err != nil || v != "quiz" {
		t.Fatalf("expected quiz, got %q (%v)", v, err)
	}

	_ = store.Delete(ctx, "maxi:c1:screen", "maxi:c1:stats")
	if _, err := store.Get(ctx, "maxi:c1:screen"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected key removed, got %v", err)
	}
}
