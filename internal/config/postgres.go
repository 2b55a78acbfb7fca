package config

import (
	"fmt"
	"strings"

	"github.com/mstoykov/envconfig"
)

// PostgresConfig holds the storefront's PostgreSQL connection settings.
type PostgresConfig struct {
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	Host     string `envconfig:"POSTGRES_HOSTNAME" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// LoadPostgresConfig reads POSTGRES_* variables. Empty values count as unset.
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	lookup := func(key string) (string, bool) {
		v := getenv(key)
		return v, v != ""
	}
	cfg := &PostgresConfig{}
	if err := envconfig.Process("", cfg, lookup); err != nil {
		return nil, fmt.Errorf("failed to read postgres configuration: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("POSTGRES_PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	mode := strings.ToLower(cfg.SSLMode)
	for _, m := range sslModes {
		if mode == m {
			cfg.SSLMode = mode
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unsupported POSTGRES_SSLMODE %q", cfg.SSLMode)
}

// ConnectionString returns a lib/pq keyword/value connection string.
func (c *PostgresConfig) ConnectionString() string {
	pairs := [][2]string{
		{"host", c.Host},
		{"port", fmt.Sprint(c.Port)},
		{"user", c.User},
		{"password", c.Password},
		{"dbname", c.Database},
		{"sslmode", c.SSLMode},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p[0] + "=" + quoteValue(p[1])
	}
	return strings.Join(parts, " ")
}

// quoteValue wraps values holding spaces or quotes the way libpq expects.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}
