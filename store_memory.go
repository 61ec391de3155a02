package memo

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore keeps entries in-process. Entries never expire (lifetime is
// explicit delete/purge); the sweep interval only drives go-cache's
// janitor, which is idle when nothing carries a TTL.
type memoryStore struct {
	cache *gocache.Cache
}

// scopeSep joins scope and key into go-cache's flat keyspace. U+001F is
// not printable, so user keys cannot collide across scopes.
const scopeSep = "\x1f"

func newMemoryStore(cleanupInterval time.Duration) Store {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultMemoryCleanupInterval
	}
	return &memoryStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (s *memoryStore) Driver() Driver {
	return DriverMemory
}

func (s *memoryStore) Get(_ context.Context, scope, key string) ([]byte, bool, error) {
	item, ok := s.cache.Get(flatKey(scope, key))
	if !ok {
		return nil, false, nil
	}
	body, ok := item.([]byte)
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(body), true, nil
}

func (s *memoryStore) Set(_ context.Context, scope, key string, value []byte) error {
	s.cache.Set(flatKey(scope, key), cloneBytes(value), gocache.NoExpiration)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, scope, key string) error {
	s.cache.Delete(flatKey(scope, key))
	return nil
}

func (s *memoryStore) Purge(_ context.Context, scope string) error {
	prefix := flatKey(scope, "")
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
	return nil
}

func (s *memoryStore) Flush(_ context.Context) error {
	s.cache.Flush()
	return nil
}

func flatKey(scope, key string) string {
	return scope + scopeSep + key
}
