package memo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// Scoped is a view of a Store pinned to one scope. It mirrors the
// in-process cache contract in byte form: presence-based gets, idempotent
// deletes, remember (compute on miss) and replace (unconditional
// overwrite) helpers, plus Purge to drop the whole scope.
type Scoped struct {
	store    Store
	scope    string
	observer StoreObserver
}

// NewScoped pins store to an explicit scope. The caller owns the scope's
// lifecycle and is expected to Purge it when done.
func NewScoped(store Store, scope string) *Scoped {
	return &Scoped{store: store, scope: scope}
}

// Bind allocates a fresh scope for owner and registers a cleanup that
// purges it from store after owner is garbage collected, extending the
// in-process instance-lifetime contract to an external backend. The purge
// is best effort and runs on the collector's schedule; callers that need
// deterministic disposal use NewScoped and call Purge themselves.
//
// Example: externally cached state reclaimed with its owner
//
//	type Session struct{ id string }
//
//	sess := &Session{id: "42"}
//	sc := memo.Bind(sess, store)
//	_ = sc.Set(ctx, "profile", payload)
//	// when sess becomes unreachable, the scope is purged from store
func Bind[O any](owner *O, store Store) *Scoped {
	if owner == nil {
		panic("memo: nil owner")
	}
	scope := nextScope()
	runtime.AddCleanup(owner, func(sc string) {
		_ = store.Purge(context.Background(), sc)
	}, scope)
	return NewScoped(store, scope)
}

var (
	scopeToken   string
	scopeCounter atomic.Uint64
)

func init() {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		panic("memo: crypto/rand unavailable: " + err.Error())
	}
	scopeToken = hex.EncodeToString(raw)
}

// nextScope returns a process-unique scope identifier. The random token
// keeps restarted processes from colliding on shared backends.
func nextScope() string {
	return fmt.Sprintf("%s-%d", scopeToken, scopeCounter.Add(1))
}

// WithObserver attaches an observer to receive operation events.
func (s *Scoped) WithObserver(o StoreObserver) *Scoped {
	s.observer = o
	return s
}

// Store returns the underlying store implementation.
func (s *Scoped) Store() Store { return s.store }

// Scope returns the scope identifier this view is pinned to.
func (s *Scoped) Scope() string { return s.scope }

// Driver reports the underlying store driver.
func (s *Scoped) Driver() Driver { return s.store.Driver() }

// Get returns raw bytes for key when present.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	body, ok, err := s.store.Get(ctx, s.scope, key)
	s.observe(ctx, "get", key, ok, err, start)
	return body, ok, err
}

// GetString returns a UTF-8 string value for key when present.
func (s *Scoped) GetString(ctx context.Context, key string) (string, bool, error) {
	body, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(body), true, nil
}

// Set writes raw bytes under key, overwriting any previous entry.
func (s *Scoped) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.store.Set(ctx, s.scope, key, value)
	s.observe(ctx, "set", key, false, err, start)
	return err
}

// SetString writes a string value under key.
func (s *Scoped) SetString(ctx context.Context, key, value string) error {
	return s.Set(ctx, key, []byte(value))
}

// Delete removes key. Absent keys are a silent no-op.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.store.Delete(ctx, s.scope, key)
	s.observe(ctx, "delete", key, err == nil, err, start)
	return err
}

// Purge drops every entry in this scope.
func (s *Scoped) Purge(ctx context.Context) error {
	start := time.Now()
	err := s.store.Purge(ctx, s.scope)
	s.observe(ctx, "purge", "", err == nil, err, start)
	return err
}

// RememberBytes returns the value for key, or computes, stores and
// returns it when missing. Errors from fn propagate unmodified and store
// nothing.
func (s *Scoped) RememberBytes(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	start := time.Now()
	body, ok, err := s.Get(ctx, key)
	if err != nil {
		s.observe(ctx, "remember", key, false, err, start)
		return nil, err
	}
	if ok {
		s.observe(ctx, "remember", key, true, nil, start)
		return body, nil
	}
	body, err = fn(ctx)
	if err != nil {
		s.observe(ctx, "remember", key, false, err, start)
		return nil, err
	}
	if err := s.Set(ctx, key, body); err != nil {
		s.observe(ctx, "remember", key, false, err, start)
		return nil, err
	}
	s.observe(ctx, "remember", key, false, nil, start)
	return body, nil
}

// ReplaceBytes computes a fresh value, unconditionally overwrites the
// entry for key with it and returns it.
func (s *Scoped) ReplaceBytes(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	start := time.Now()
	body, err := fn(ctx)
	if err != nil {
		s.observe(ctx, "replace", key, false, err, start)
		return nil, err
	}
	if err := s.Set(ctx, key, body); err != nil {
		s.observe(ctx, "replace", key, false, err, start)
		return nil, err
	}
	s.observe(ctx, "replace", key, false, nil, start)
	return body, nil
}

// GetJSON decodes a JSON value into T when key exists.
func GetJSON[T any](ctx context.Context, s *Scoped, key string) (T, bool, error) {
	var zero T
	body, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return zero, ok, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, false, err
	}
	return out, true, nil
}

// SetJSON encodes value as JSON and writes it under key.
func SetJSON[T any](ctx context.Context, s *Scoped, key string, value T) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, body)
}

// Remember is the typed remember helper using JSON encoding.
func Remember[T any](ctx context.Context, s *Scoped, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	out, ok, err := GetJSON[T](ctx, s, key)
	if err != nil {
		return zero, err
	}
	if ok {
		return out, nil
	}
	value, err := fn(ctx)
	if err != nil {
		return zero, err
	}
	if err := SetJSON(ctx, s, key, value); err != nil {
		return zero, err
	}
	return value, nil
}

// Replace is the typed replace helper using JSON encoding: it always
// calls fn and overwrites key with the fresh result.
func Replace[T any](ctx context.Context, s *Scoped, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := fn(ctx)
	if err != nil {
		return zero, err
	}
	if err := SetJSON(ctx, s, key, value); err != nil {
		return zero, err
	}
	return value, nil
}

func (s *Scoped) observe(ctx context.Context, op, key string, hit bool, err error, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.OnStoreOp(ctx, op, s.scope, key, hit, err, time.Since(start), s.Driver())
}
