package memo

import (
	"os"
	"path/filepath"
	"time"
)

const (
	defaultStorePrefix           = "memo"
	defaultMemoryCleanupInterval = 10 * time.Minute
	defaultDynamoTable           = "memo_entries"
	defaultSQLTable              = "memo_entries"
)

func defaultFileDir() string {
	return filepath.Join(os.TempDir(), "memo-file")
}

// StoreConfig controls how a Store is constructed.
type StoreConfig struct {
	Driver Driver

	// Prefix namespaces keys on shared backends (redis, dynamo, nats, sql).
	Prefix string

	// MemoryCleanupInterval controls the memory driver's sweep goroutine.
	// Entries themselves never expire; the sweep only matters when the
	// shaping layer rejects writes and leaves tombstones behind.
	MemoryCleanupInterval time.Duration

	// RedisClient is required when DriverRedis is used.
	RedisClient RedisClient

	// NATSKeyValue is required when DriverNATS is used.
	NATSKeyValue NATSKeyValue

	// DynamoClient is used when DriverDynamo is set; when nil a client is
	// built from DynamoRegion/DynamoEndpoint.
	DynamoClient   DynamoAPI
	DynamoTable    string
	DynamoRegion   string
	DynamoEndpoint string

	// SQLDriverName/SQLDSN select the database/sql backend ("sqlite",
	// "pgx" or "mysql") when DriverSQL is used.
	SQLDriverName string
	SQLDSN        string
	SQLTable      string

	// FileDir controls where the file driver stores entries.
	FileDir string

	// Compression and MaxValueBytes shape values before they reach the
	// backend; EncryptionKey (16, 24 or 32 bytes) seals them with AES-GCM.
	Compression   CompressionCodec
	MaxValueBytes int
	EncryptionKey []byte
}

func (c StoreConfig) withDefaults() StoreConfig {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.Prefix == "" {
		c.Prefix = defaultStorePrefix
	}
	if c.MemoryCleanupInterval <= 0 {
		c.MemoryCleanupInterval = defaultMemoryCleanupInterval
	}
	if c.DynamoTable == "" {
		c.DynamoTable = defaultDynamoTable
	}
	if c.SQLTable == "" {
		c.SQLTable = defaultSQLTable
	}
	if c.FileDir == "" {
		c.FileDir = defaultFileDir()
	}
	return c
}
