package memo

import (
	"context"
	"errors"
	"testing"
)

func TestErrorStoreSurfacesConstructionError(t *testing.T) {
	boom := errors.New("boom")
	store := &errorStore{driver: DriverDynamo, err: boom}
	ctx := context.Background()

	if store.Driver() != DriverDynamo {
		t.Fatalf("unexpected driver %q", store.Driver())
	}
	if _, _, err := store.Get(ctx, "s", "k"); !errors.Is(err, boom) {
		t.Fatalf("expected boom from get, got %v", err)
	}
	if err := store.Set(ctx, "s", "k", nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom from set, got %v", err)
	}
	if err := store.Delete(ctx, "s", "k"); !errors.Is(err, boom) {
		t.Fatalf("expected boom from delete, got %v", err)
	}
	if err := store.Purge(ctx, "s"); !errors.Is(err, boom) {
		t.Fatalf("expected boom from purge, got %v", err)
	}
	if err := store.Flush(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom from flush, got %v", err)
	}
}
