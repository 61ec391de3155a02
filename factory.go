package memo

import "context"

// NewStore returns a concrete store for the requested driver. Caller is
// responsible for providing any driver-specific dependencies. Drivers
// that can fail to initialize (dynamodb, sql) degrade to a store that
// preserves the driver identity and surfaces the construction error on
// every call.
//
// Example: select driver explicitly
//
//	ctx := context.Background()
//	store := memo.NewStore(ctx, memo.StoreConfig{Driver: memo.DriverMemory})
//	fmt.Println(store.Driver()) // memory
func NewStore(ctx context.Context, cfg StoreConfig) Store {
	cfg = cfg.withDefaults()

	var store Store
	switch cfg.Driver {
	case DriverNull:
		store = newNullStore()
	case DriverRedis:
		store = newRedisStore(cfg.RedisClient, cfg.Prefix)
	case DriverNATS:
		store = newNATSStore(cfg.NATSKeyValue, cfg.Prefix)
	case DriverDynamo:
		s, err := newDynamoStore(ctx, cfg)
		if err != nil {
			return &errorStore{driver: DriverDynamo, err: err}
		}
		store = s
	case DriverSQL:
		s, err := newSQLStore(cfg)
		if err != nil {
			return &errorStore{driver: DriverSQL, err: err}
		}
		store = s
	case DriverFile:
		store = newFileStore(cfg.FileDir)
	default:
		store = newMemoryStore(cfg.MemoryCleanupInterval)
	}

	// Compression runs outermost so values are compressed before they
	// are sealed; ciphertext does not compress.
	if len(cfg.EncryptionKey) > 0 {
		s, err := newEncryptingStore(store, cfg.EncryptionKey)
		if err != nil {
			return &errorStore{driver: cfg.Driver, err: err}
		}
		store = s
	}
	return newShapingStore(store, cfg.Compression, cfg.MaxValueBytes)
}

// NewStoreWith builds a store from a driver and functional options.
// Required dependencies (e.g. a redis client) are provided via options.
//
// Example: redis store (options)
//
//	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
//	store := memo.NewStoreWith(ctx, memo.DriverRedis,
//		memo.WithRedisClient(client),
//		memo.WithPrefix("app"),
//	)
//	fmt.Println(store.Driver()) // redis
func NewStoreWith(ctx context.Context, driver Driver, opts ...StoreOption) Store {
	cfg := StoreConfig{Driver: driver}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return NewStore(ctx, cfg)
}

// NewMemoryStore is a convenience for an in-process store.
func NewMemoryStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverMemory, opts...)
}

// NewNullStore is a convenience for a store that discards everything.
func NewNullStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverNull, opts...)
}

// NewRedisStore is a convenience for a redis-backed store. The client is
// required.
func NewRedisStore(ctx context.Context, client RedisClient, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverRedis, append([]StoreOption{WithRedisClient(client)}, opts...)...)
}

// NewNATSStore is a convenience for a JetStream key-value backed store.
// The bucket is required.
func NewNATSStore(ctx context.Context, kv NATSKeyValue, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverNATS, append([]StoreOption{WithNATSKeyValue(kv)}, opts...)...)
}

// NewDynamoStore is a convenience for a DynamoDB-backed store. With no
// client option a client is built from region/endpoint options.
func NewDynamoStore(ctx context.Context, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverDynamo, opts...)
}

// NewSQLiteStore is a convenience for an embedded sqlite-backed store.
func NewSQLiteStore(ctx context.Context, dsn string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverSQL, append([]StoreOption{WithSQL("sqlite", dsn)}, opts...)...)
}

// NewPostgresStore is a convenience for a postgres-backed store via pgx.
func NewPostgresStore(ctx context.Context, dsn string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverSQL, append([]StoreOption{WithSQL("pgx", dsn)}, opts...)...)
}

// NewMySQLStore is a convenience for a mysql-backed store.
func NewMySQLStore(ctx context.Context, dsn string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverSQL, append([]StoreOption{WithSQL("mysql", dsn)}, opts...)...)
}

// NewFileStore is a convenience for a filesystem-backed store.
func NewFileStore(ctx context.Context, dir string, opts ...StoreOption) Store {
	return NewStoreWith(ctx, DriverFile, append([]StoreOption{WithFileDir(dir)}, opts...)...)
}
