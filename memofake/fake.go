// Package memofake provides a deterministic in-memory Store plus
// assertion helpers, so code built on memo stores can be tested without
// external services.
package memofake

import (
	"context"
	"sync"
	"testing"

	"github.com/goforj/memo"
)

// Op identifies a store operation for assertions.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpPurge  Op = "purge"
	OpFlush  Op = "flush"
)

// Fake is an op-counting Store backed by the memory driver.
type Fake struct {
	inner  memo.Store
	mu     sync.Mutex
	counts map[Op]map[string]int
}

var _ memo.Store = (*Fake)(nil)

// New creates a Fake backed by an in-memory store.
func New() *Fake {
	return &Fake{
		inner:  memo.NewMemoryStore(context.Background()),
		counts: make(map[Op]map[string]int),
	}
}

// Scoped returns a scope-pinned view of the fake for injecting into code
// under test.
func (f *Fake) Scoped(scope string) *memo.Scoped {
	return memo.NewScoped(f, scope)
}

// Reset clears recorded counts. Stored entries survive.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[Op]map[string]int)
}

// Count returns calls for op on (scope, key).
func (f *Fake) Count(op Op, scope, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op][scope+"\x1f"+key]
}

// Total returns the total call count for op across all keys.
func (f *Fake) Total(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.counts[op] {
		total += n
	}
	return total
}

// AssertCalled verifies (scope, key) was touched by op the expected
// number of times.
func (f *Fake) AssertCalled(t *testing.T, op Op, scope, key string, times int) {
	t.Helper()
	if got := f.Count(op, scope, key); got != times {
		t.Fatalf("expected %s %s/%s called %d times, got %d", op, scope, key, times, got)
	}
}

// AssertNotCalled ensures (scope, key) was never touched by op.
func (f *Fake) AssertNotCalled(t *testing.T, op Op, scope, key string) {
	t.Helper()
	if got := f.Count(op, scope, key); got != 0 {
		t.Fatalf("expected %s %s/%s not called, got %d", op, scope, key, got)
	}
}

// AssertTotal ensures the total call count for an op matches times.
func (f *Fake) AssertTotal(t *testing.T, op Op, times int) {
	t.Helper()
	if got := f.Total(op); got != times {
		t.Fatalf("expected %s total=%d, got %d", op, times, got)
	}
}

func (f *Fake) record(op Op, scope, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byKey, ok := f.counts[op]
	if !ok {
		byKey = make(map[string]int)
		f.counts[op] = byKey
	}
	byKey[scope+"\x1f"+key]++
}

// Driver implements memo.Store.
func (f *Fake) Driver() memo.Driver { return f.inner.Driver() }

// Get implements memo.Store.
func (f *Fake) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	f.record(OpGet, scope, key)
	return f.inner.Get(ctx, scope, key)
}

// Set implements memo.Store.
func (f *Fake) Set(ctx context.Context, scope, key string, value []byte) error {
	f.record(OpSet, scope, key)
	return f.inner.Set(ctx, scope, key, value)
}

// Delete implements memo.Store.
func (f *Fake) Delete(ctx context.Context, scope, key string) error {
	f.record(OpDelete, scope, key)
	return f.inner.Delete(ctx, scope, key)
}

// Purge implements memo.Store.
func (f *Fake) Purge(ctx context.Context, scope string) error {
	f.record(OpPurge, scope, "")
	return f.inner.Purge(ctx, scope)
}

// Flush implements memo.Store.
func (f *Fake) Flush(ctx context.Context) error {
	f.record(OpFlush, "", "")
	return f.inner.Flush(ctx)
}
