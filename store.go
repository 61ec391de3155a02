package memo

import "context"

// Store is a byte-valued backing cache addressed by (scope, key). A scope
// plays the role an instance plays in the in-process registry: an
// isolated keyspace that can be dropped as a unit. Entries have no TTL;
// they live until deleted, purged with their scope, or flushed.
type Store interface {
	Driver() Driver

	// Get returns the value for (scope, key) when present.
	Get(ctx context.Context, scope, key string) ([]byte, bool, error)

	// Set writes value under (scope, key), overwriting any previous entry.
	Set(ctx context.Context, scope, key string, value []byte) error

	// Delete removes (scope, key). Absent keys are a silent no-op.
	Delete(ctx context.Context, scope, key string) error

	// Purge removes every entry in scope.
	Purge(ctx context.Context, scope string) error

	// Flush removes every entry this store can see (all scopes under its
	// prefix).
	Flush(ctx context.Context) error
}

func cloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	clone := make([]byte, len(value))
	copy(clone, value)
	return clone
}
