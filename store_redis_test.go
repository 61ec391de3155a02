package memo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// stubRedisClient is an in-memory RedisClient used for unit tests.
type stubRedisClient struct {
	store map[string]string

	getErr  error
	setErr  error
	delErr  error
	scanErr error
}

func newStubRedisClient() *stubRedisClient {
	return &stubRedisClient{store: make(map[string]string)}
}

func (c *stubRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if c.getErr != nil {
		cmd.SetErr(c.getErr)
		return cmd
	}
	if val, ok := c.store[key]; ok {
		cmd.SetVal(val)
		return cmd
	}
	cmd.SetErr(redis.Nil)
	return cmd
}

func (c *stubRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if c.setErr != nil {
		cmd.SetErr(c.setErr)
		return cmd
	}
	bytes, _ := value.([]byte)
	c.store[key] = string(bytes)
	cmd.SetVal("OK")
	return cmd
}

func (c *stubRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if c.delErr != nil {
		cmd.SetErr(c.delErr)
		return cmd
	}
	var removed int64
	for _, key := range keys {
		if _, ok := c.store[key]; ok {
			delete(c.store, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func (c *stubRedisClient) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	cmd := redis.NewScanCmd(ctx, nil)
	if c.scanErr != nil {
		cmd.SetErr(c.scanErr)
		return cmd
	}
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for key := range c.store {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	cmd.SetVal(keys, 0)
	return cmd
}

func TestRedisStoreNilClientErrors(t *testing.T) {
	store := newRedisStore(nil, "")
	ctx := context.Background()
	if _, _, err := store.Get(ctx, "s", "k"); err == nil {
		t.Fatalf("expected get error when redis client is nil")
	}
	if err := store.Set(ctx, "s", "k", []byte("v")); err == nil {
		t.Fatalf("expected set error when redis client is nil")
	}
	if err := store.Delete(ctx, "s", "k"); err == nil {
		t.Fatalf("expected delete error when redis client is nil")
	}
	if err := store.Purge(ctx, "s"); err == nil {
		t.Fatalf("expected purge error when redis client is nil")
	}
	if err := store.Flush(ctx); err == nil {
		t.Fatalf("expected flush error when redis client is nil")
	}
}

func TestRedisStoreOperationsWithStubClient(t *testing.T) {
	ctx := context.Background()
	client := newStubRedisClient()
	store := newRedisStore(client, "pfx")

	if err := store.Set(ctx, "owner-1", "alpha", []byte("one")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	body, ok, err := store.Get(ctx, "owner-1", "alpha")
	if err != nil || !ok || string(body) != "one" {
		t.Fatalf("unexpected get result: ok=%v err=%v body=%s", ok, err, string(body))
	}
	if _, ok := client.store["pfx:owner-1:alpha"]; !ok {
		t.Fatalf("expected prefixed scope key, got %v", client.store)
	}

	if err := store.Delete(ctx, "owner-1", "alpha"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "owner-1", "alpha"); ok {
		t.Fatalf("expected deleted key to be missing")
	}
}

func TestRedisStorePurgeIsScopeLocal(t *testing.T) {
	ctx := context.Background()
	client := newStubRedisClient()
	store := newRedisStore(client, "pfx")

	if err := store.Set(ctx, "owner-1", "a", []byte("1")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "owner-1", "b", []byte("2")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "owner-2", "a", []byte("3")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := store.Purge(ctx, "owner-1"); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "owner-1", "a"); ok {
		t.Fatalf("expected owner-1/a purged")
	}
	if body, ok, _ := store.Get(ctx, "owner-2", "a"); !ok || string(body) != "3" {
		t.Fatalf("expected owner-2 untouched, got ok=%v body=%q", ok, body)
	}

	if err := store.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if len(client.store) != 0 {
		t.Fatalf("expected flush to empty the store, got %v", client.store)
	}
}

func TestRedisStoreGetMissing(t *testing.T) {
	store := newRedisStore(newStubRedisClient(), "pfx")
	_, ok, err := store.Get(context.Background(), "s", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for missing key")
	}
}

func TestRedisStoreErrorPropagation(t *testing.T) {
	ctx := context.Background()

	client := newStubRedisClient()
	client.getErr = errors.New("get")
	store := newRedisStore(client, "pfx")
	if _, _, err := store.Get(ctx, "s", "k"); err == nil {
		t.Fatalf("expected get error")
	}

	client = newStubRedisClient()
	client.setErr = errors.New("set")
	store = newRedisStore(client, "pfx")
	if err := store.Set(ctx, "s", "k", []byte("v")); err == nil {
		t.Fatalf("expected set error")
	}

	client = newStubRedisClient()
	client.scanErr = errors.New("scan")
	store = newRedisStore(client, "pfx")
	if err := store.Purge(ctx, "s"); err == nil {
		t.Fatalf("expected purge scan error")
	}

	client = newStubRedisClient()
	client.delErr = errors.New("del")
	client.store["pfx:s:a"] = "1"
	store = newRedisStore(client, "pfx")
	if err := store.Flush(ctx); err == nil {
		t.Fatalf("expected flush delete error")
	}
}
