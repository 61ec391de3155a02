package memo

// Driver identifies a store backend.
type Driver string

const (
	DriverNull   Driver = "null"
	DriverMemory Driver = "memory"
	DriverFile   Driver = "file"
	DriverRedis  Driver = "redis"
	DriverDynamo Driver = "dynamodb"
	DriverNATS   Driver = "nats"
	DriverSQL    Driver = "sql"
)
