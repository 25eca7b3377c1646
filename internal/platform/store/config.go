package store

import "time"

// Config holds one block per backend
type Config struct {
	PG PGConfig
}

// PGConfig configures the postgres pool and its tracing
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32

	// LogSQL traces every statement; SlowQueryMs marks slow ones, negative never marks
	LogSQL      bool
	SlowQueryMs int

	// zero picks 20 attempts and 3s per ping
	ConnectRetries int
	PingTimeout    time.Duration
}
