package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func lookup(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoadServerConfig(t *testing.T) {
	cfg, err := LoadServerConfig(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	cfg, err = LoadServerConfig(env(map[string]string{"PORT": "9000", "SHUTDOWN_TIMEOUT": "5s"}))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	_, err = LoadServerConfig(env(map[string]string{"SHUTDOWN_TIMEOUT": "soon"}))
	assert.Error(t, err)
}

func TestLoadPostgresConfig(t *testing.T) {
	full := map[string]string{
		"POSTGRES_USER":     "shop",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "vegana",
		"POSTGRES_HOSTNAME": "db",
	}
	cfg, err := LoadPostgresConfig(env(full))
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "host=db port=5432 user=shop password=secret dbname=vegana sslmode=disable", cfg.ConnectionString())

	for key := range full {
		t.Run("missing "+key, func(t *testing.T) {
			vars := map[string]string{}
			for k, v := range full {
				if k != key {
					vars[k] = v
				}
			}
			_, err := LoadPostgresConfig(env(vars))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadPostgresConfig_PortAndSSLMode(t *testing.T) {
	with := func(extra map[string]string) map[string]string {
		vars := map[string]string{
			"POSTGRES_USER":     "shop",
			"POSTGRES_PASSWORD": "it's a secret",
			"POSTGRES_DB":       "vegana",
			"POSTGRES_HOSTNAME": "db",
		}
		for k, v := range extra {
			vars[k] = v
		}
		return vars
	}

	cfg, err := LoadPostgresConfig(env(with(map[string]string{"POSTGRES_PORT": "6543", "POSTGRES_SSLMODE": "Require"})))
	require.NoError(t, err)
	assert.Equal(t, `host=db port=6543 user=shop password='it\'s a secret' dbname=vegana sslmode=require`, cfg.ConnectionString())

	tests := map[string]map[string]string{
		"port not a number": {"POSTGRES_PORT": "pg"},
		"port out of range": {"POSTGRES_PORT": "70000"},
		"unknown ssl mode":  {"POSTGRES_SSLMODE": "sometimes"},
	}
	for name, extra := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPostgresConfig(env(with(extra)))
			assert.Error(t, err)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	tests := []struct {
		name       string
		vars       map[string]string
		wantDriver string
		wantDSN    string
		inMemory   bool
		wantErr    bool
	}{
		{
			name:       "defaults to sqlite file",
			wantDriver: DriverSQLite,
			wantDSN:    "file:vegana.db?_foreign_keys=on&_busy_timeout=5000",
		},
		{
			name:       "sqlite in memory",
			vars:       map[string]string{"DATABASE_DRIVER": "sqlite", "SQLITE_PATH": ":memory:"},
			wantDriver: DriverSQLite,
			wantDSN:    "file::memory:?mode=memory&cache=shared&_foreign_keys=on",
			inMemory:   true,
		},
		{
			name: "postgres",
			vars: map[string]string{
				"DATABASE_DRIVER":   "POSTGRES",
				"POSTGRES_USER":     "u",
				"POSTGRES_PASSWORD": "p",
				"POSTGRES_DB":       "d",
				"POSTGRES_HOSTNAME": "h",
			},
			wantDriver: DriverPostgres,
			wantDSN:    "host=h port=5432 user=u password=p dbname=d sslmode=disable",
		},
		{
			name:    "postgres without settings",
			vars:    map[string]string{"DATABASE_DRIVER": "postgres"},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			vars:    map[string]string{"DATABASE_DRIVER": "mysql"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadDatabaseConfig(env(tt.vars))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, cfg.Driver)
			assert.Equal(t, tt.wantDSN, cfg.DSN)
			assert.Equal(t, tt.inMemory, cfg.InMemory())
		})
	}
}

func TestLoadE2EConfig_Defaults(t *testing.T) {
	cfg, err := LoadE2EConfig(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "chromium", cfg.Browser)
	assert.Equal(t, "screenshots", cfg.ScreenshotDir)
	assert.Equal(t, 10*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Second, cfg.SettleDelay)
	assert.Equal(t, 3, cfg.StaleRetries)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, "123123", cfg.Password)
	assert.Equal(t, "1", cfg.ProductID)
}

func TestLoadE2EConfig_Overrides(t *testing.T) {
	cfg, err := LoadE2EConfig(lookup(map[string]string{
		"E2E_BASE_URL":      "https://shop.example.com/",
		"E2E_HEADLESS":      "false",
		"E2E_BROWSER":       "firefox",
		"E2E_WAIT_TIMEOUT":  "15s",
		"E2E_STALE_RETRIES": "5",
		"E2E_PRODUCT_ID":    "42",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	assert.False(t, cfg.Headless)
	assert.Equal(t, "firefox", cfg.Browser)
	assert.Equal(t, 15*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 5, cfg.StaleRetries)
	assert.Equal(t, "42", cfg.ProductID)
}

func TestLoadE2EConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad duration":     {"E2E_WAIT_TIMEOUT": "ten seconds"},
		"not a url":        {"E2E_BASE_URL": "localhost:8080"},
		"zero retries":     {"E2E_STALE_RETRIES": "0"},
		"poll over wait":   {"E2E_WAIT_TIMEOUT": "1s", "E2E_POLL_INTERVAL": "2s"},
		"negative settle":  {"E2E_SETTLE_DELAY": "-1s"},
		"bad bool":         {"E2E_HEADLESS": "maybe"},
		"bad retry number": {"E2E_STALE_RETRIES": "three"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadE2EConfig(lookup(vars))
			assert.Error(t, err)
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	cfg := LoadLogConfig(env(nil))
	assert.Equal(t, LogConfig{Level: "info", Format: "text"}, cfg)

	log, err := LogConfig{Level: "debug", Format: "json"}.Logger()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, err = LogConfig{Level: "loud", Format: "text"}.Logger()
	assert.Error(t, err)
	_, err = LogConfig{Level: "info", Format: "xml"}.Logger()
	assert.Error(t, err)
}
