package config

import (
	"fmt"
	"strings"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DatabaseConfig selects the SQL driver and its data source.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// LoadDatabaseConfig reads DATABASE_DRIVER (postgres or sqlite3, default
// sqlite3). PostgreSQL settings come from LoadPostgresConfig; SQLite uses
// SQLITE_PATH (default vegana.db, ":memory:" for a throwaway database).
func LoadDatabaseConfig(getenv func(string) string) (*DatabaseConfig, error) {
	driver := strings.ToLower(getenv("DATABASE_DRIVER"))
	switch driver {
	case "", DriverSQLite, "sqlite":
		path := getenv("SQLITE_PATH")
		if path == "" {
			path = "vegana.db"
		}
		return &DatabaseConfig{Driver: DriverSQLite, DSN: SQLiteDSN(path)}, nil
	case DriverPostgres:
		pg, err := LoadPostgresConfig(getenv)
		if err != nil {
			return nil, err
		}
		return &DatabaseConfig{Driver: DriverPostgres, DSN: pg.ConnectionString()}, nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}
}

// SQLiteDSN builds a go-sqlite3 data source with foreign keys enabled.
// ":memory:" becomes a shared-cache in-memory database.
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?mode=memory&cache=shared&_foreign_keys=on"
	}
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// InMemory reports whether the DSN points at an in-memory SQLite database.
func (c *DatabaseConfig) InMemory() bool {
	return c.Driver == DriverSQLite && (strings.Contains(c.DSN, "mode=memory") || strings.Contains(c.DSN, ":memory:"))
}
