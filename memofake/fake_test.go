package memofake

import (
	"context"
	"testing"

	"github.com/goforj/memo"
)

func TestFakeCountsOperations(t *testing.T) {
	fake := New()
	ctx := context.Background()

	if err := fake.Set(ctx, "s", "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, _, err := fake.Get(ctx, "s", "k"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if _, _, err := fake.Get(ctx, "s", "k"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if err := fake.Delete(ctx, "s", "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := fake.Purge(ctx, "s"); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if err := fake.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	fake.AssertCalled(t, OpSet, "s", "k", 1)
	fake.AssertCalled(t, OpGet, "s", "k", 2)
	fake.AssertCalled(t, OpDelete, "s", "k", 1)
	fake.AssertTotal(t, OpPurge, 1)
	fake.AssertTotal(t, OpFlush, 1)
	fake.AssertNotCalled(t, OpGet, "s", "other")

	fake.Reset()
	fake.AssertTotal(t, OpGet, 0)
}

func TestFakeBehavesLikeAStore(t *testing.T) {
	fake := New()
	ctx := context.Background()

	if err := fake.Set(ctx, "s", "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	body, ok, err := fake.Get(ctx, "s", "k")
	if err != nil || !ok || string(body) != "v" {
		t.Fatalf("unexpected get: ok=%v err=%v body=%q", ok, err, body)
	}
	if fake.Driver() != memo.DriverMemory {
		t.Fatalf("unexpected driver %q", fake.Driver())
	}
}

func TestFakeScopedView(t *testing.T) {
	fake := New()
	ctx := context.Background()

	sc := fake.Scoped("session-1")
	if err := sc.SetString(ctx, "k", "v"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, ok, err := sc.GetString(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("unexpected get: ok=%v err=%v got=%q", ok, err, got)
	}

	fake.AssertCalled(t, OpSet, "session-1", "k", 1)
	fake.AssertCalled(t, OpGet, "session-1", "k", 1)
}

func TestFakeResetKeepsEntries(t *testing.T) {
	fake := New()
	ctx := context.Background()

	if err := fake.Set(ctx, "s", "k", []byte("v")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	fake.Reset()
	if _, ok, _ := fake.Get(ctx, "s", "k"); !ok {
		t.Fatalf("reset must keep stored entries")
	}
	fake.AssertCalled(t, OpGet, "s", "k", 1)
}
