package sqlstore

import (
	"time"
)

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds SQL connection settings. It satisfies the configuration
// contract of the persistence client.
type Config struct {
	Driver      string
	DSN         string
	Debug       bool
	PingTimeout time.Duration
}

// DefaultConfig returns a file-backed SQLite configuration
func DefaultConfig() Config {
	return Config{
		Driver:      DriverSQLite,
		DSN:         "file:clickgame.db?cache=shared&_busy_timeout=5000",
		PingTimeout: 5 * time.Second,
	}
}

func (c Config) GetDebug() bool {
	return c.Debug
}

func (c Config) GetDriver() string {
	return c.Driver
}

func (c Config) GetServer() string {
	return c.DSN
}

func (c Config) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c Config) GetOtelIdentifier() string {
	return "clickgame"
}
