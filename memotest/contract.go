package memotest

import (
	"context"
	"strings"
	"testing"

	"github.com/goforj/memo"
)

// Options configures shared store contract checks.
type Options struct {
	// CaseName namespaces scopes so parallel runs against a shared
	// backend do not collide. Defaults to t.Name().
	CaseName string
	// NullSemantics enables relaxed expectations for the null store.
	NullSemantics bool
	// SkipCloneCheck disables the "get returns a detached value"
	// assertion.
	SkipCloneCheck bool
	// SkipFlush disables the flush assertion for shared backends where
	// it would disturb other tenants.
	SkipFlush bool
}

// RunStoreContract runs a backend-agnostic store contract suite: set/get
// round-trips, value detachment, scope isolation, idempotent deletes,
// scope purge and flush.
func RunStoreContract(t *testing.T, store memo.Store, opts Options) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}
	ctx := context.Background()
	scopeA := sanitize(caseName) + "-a"
	scopeB := sanitize(caseName) + "-b"

	// Set/Get round-trip.
	if err := store.Set(ctx, scopeA, "alpha", []byte("value")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	body, ok, err := store.Get(ctx, scopeA, "alpha")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if opts.NullSemantics {
		if ok {
			t.Fatalf("expected miss for null semantics")
		}
	} else {
		if !ok || string(body) != "value" {
			t.Fatalf("unexpected get result: ok=%v body=%q", ok, string(body))
		}
		if !opts.SkipCloneCheck {
			body[0] = 'X'
			body2, ok2, err2 := store.Get(ctx, scopeA, "alpha")
			if err2 != nil || !ok2 || string(body2) != "value" {
				t.Fatalf("expected stored value detached, got ok=%v body=%q err=%v", ok2, string(body2), err2)
			}
		}
	}

	// Overwrite.
	if err := store.Set(ctx, scopeA, "alpha", []byte("fresh")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	if body, ok, err := store.Get(ctx, scopeA, "alpha"); err != nil {
		t.Fatalf("get after overwrite failed: %v", err)
	} else if !opts.NullSemantics && (!ok || string(body) != "fresh") {
		t.Fatalf("expected overwritten value, got ok=%v body=%q", ok, string(body))
	}

	// Scope isolation: same key, different scope.
	if _, ok, err := store.Get(ctx, scopeB, "alpha"); err != nil {
		t.Fatalf("cross-scope get failed: %v", err)
	} else if ok {
		t.Fatalf("expected scope %q not to see scope %q entries", scopeB, scopeA)
	}

	// Delete, and delete of an absent key.
	if err := store.Delete(ctx, scopeA, "alpha"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, err := store.Get(ctx, scopeA, "alpha"); err != nil || ok {
		t.Fatalf("expected deleted key to be missing: ok=%v err=%v", ok, err)
	}
	if err := store.Delete(ctx, scopeA, "never-set"); err != nil {
		t.Fatalf("delete of absent key should be a no-op, got %v", err)
	}

	// Purge drops one scope and leaves the other alone.
	if err := store.Set(ctx, scopeA, "k1", []byte("1")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, scopeA, "k2", []byte("2")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, scopeB, "k1", []byte("3")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Purge(ctx, scopeA); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if _, ok, err := store.Get(ctx, scopeA, "k1"); err != nil || ok {
		t.Fatalf("expected purge to drop %s/k1: ok=%v err=%v", scopeA, ok, err)
	}
	if _, ok, err := store.Get(ctx, scopeA, "k2"); err != nil || ok {
		t.Fatalf("expected purge to drop %s/k2: ok=%v err=%v", scopeA, ok, err)
	}
	if body, ok, err := store.Get(ctx, scopeB, "k1"); err != nil {
		t.Fatalf("get after purge failed: %v", err)
	} else if !opts.NullSemantics && (!ok || string(body) != "3") {
		t.Fatalf("expected sibling scope to survive purge, got ok=%v body=%q", ok, string(body))
	}

	if !opts.SkipFlush {
		if err := store.Flush(ctx); err != nil {
			t.Fatalf("flush failed: %v", err)
		}
		if _, ok, err := store.Get(ctx, scopeB, "k1"); err != nil || ok {
			t.Fatalf("expected flush to drop %s/k1: ok=%v err=%v", scopeB, ok, err)
		}
	}
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
}
