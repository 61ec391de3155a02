package memo

import (
	"context"
	"testing"
)

func TestNullStoreDiscardsEverything(t *testing.T) {
	store := newNullStore()
	ctx := context.Background()

	if store.Driver() != DriverNull {
		t.Fatalf("unexpected driver %q", store.Driver())
	}
	if err := store.Set(ctx, "s", "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok, err := store.Get(ctx, "s", "k"); err != nil || ok {
		t.Fatalf("null store must always miss: ok=%v err=%v", ok, err)
	}
	if err := store.Delete(ctx, "s", "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Purge(ctx, "s"); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
}
