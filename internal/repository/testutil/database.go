package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vegana/shop/internal/config"
	"github.com/vegana/shop/internal/database"
)

// TestDatabase represents an isolated test database
type TestDatabase struct {
	DB         *sqlx.DB
	SchemaName string
	masterDB   *sqlx.DB
}

// SetupTestDatabase returns a migrated database owned by t. It is an
// in-memory SQLite database unless TEST_DATABASE_DRIVER=postgres, in which case
// a throwaway schema is created on the POSTGRES_* server.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	var td *TestDatabase
	if strings.EqualFold(os.Getenv("TEST_DATABASE_DRIVER"), config.DriverPostgres) {
		td = setupPostgres(t)
	} else {
		td = setupSQLite(t)
	}
	t.Cleanup(func() { td.Teardown(t) })

	// Run migrations in the test database
	if err := database.Migrate(context.Background(), td.DB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return td
}

// SetupSeededDatabase is SetupTestDatabase plus the demo catalog and account.
func SetupSeededDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	td := SetupTestDatabase(t)
	if err := database.Seed(context.Background(), td.DB); err != nil {
		t.Fatalf("Failed to seed database: %v", err)
	}
	return td
}

func setupSQLite(t *testing.T) *TestDatabase {
	t.Helper()
	name := fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), rand.Intn(10000))
	db, err := database.Open(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on",
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite database: %v", err)
	}
	return &TestDatabase{DB: db, SchemaName: name}
}

func setupPostgres(t *testing.T) *TestDatabase {
	t.Helper()

	// Load Postgres configuration from environment
	connConfig, err := config.LoadPostgresConfig(func(key string) string {
		switch key {
		case "POSTGRES_USER":
			return getEnvOrDefault("POSTGRES_USER", "postgres")
		case "POSTGRES_PASSWORD":
			return getEnvOrDefault("POSTGRES_PASSWORD", "postgres")
		case "POSTGRES_DB":
			return getEnvOrDefault("POSTGRES_DB", "postgres")
		case "POSTGRES_HOSTNAME":
			return getEnvOrDefault("POSTGRES_HOSTNAME", "localhost")
		default:
			return os.Getenv(key)
		}
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	masterDB, err := database.Open(&config.DatabaseConfig{Driver: config.DriverPostgres, DSN: connConfig.ConnectionString()})
	if err != nil {
		t.Fatalf("Failed to connect to master database: %v", err)
	}

	// Generate unique schema name for this test
	schemaName := fmt.Sprintf("test_schema_%d_%d", time.Now().UnixNano(), rand.Intn(10000))
	if _, err := masterDB.Exec(fmt.Sprintf("CREATE SCHEMA %s", schemaName)); err != nil {
		masterDB.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Connect to the same database but set search_path to the test schema
	testDB, err := database.Open(&config.DatabaseConfig{
		Driver: config.DriverPostgres,
		DSN:    fmt.Sprintf("%s search_path=%s", connConfig.ConnectionString(), schemaName),
	})
	if err != nil {
		masterDB.Exec(fmt.Sprintf("DROP SCHEMA %s CASCADE", schemaName))
		masterDB.Close()
		t.Fatalf("Failed to connect to test schema: %v", err)
	}

	return &TestDatabase{DB: testDB, SchemaName: schemaName, masterDB: masterDB}
}

// Teardown cleans up the test database
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	if td.DB != nil {
		td.DB.Close()
	}

	if td.masterDB != nil {
		// Drop the test schema
		_, err := td.masterDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", td.SchemaName))
		if err != nil {
			t.Logf("Warning: Failed to drop test schema %s: %v", td.SchemaName, err)
		}
		td.masterDB.Close()
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
