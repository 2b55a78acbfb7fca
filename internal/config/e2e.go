package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mstoykov/envconfig"
)

// E2EConfig drives the browser scenarios. Every field can be set through the
// environment; command line flags override it.
type E2EConfig struct {
	BaseURL       string        `envconfig:"E2E_BASE_URL" default:"http://localhost:8080"`
	Headless      bool          `envconfig:"E2E_HEADLESS" default:"true"`
	Browser       string        `envconfig:"E2E_BROWSER" default:"chromium"`
	SlowMo        time.Duration `envconfig:"E2E_SLOW_MO" default:"0s"`
	ScreenshotDir string        `envconfig:"E2E_SCREENSHOT_DIR" default:"screenshots"`
	WaitTimeout   time.Duration `envconfig:"E2E_WAIT_TIMEOUT" default:"10s"`
	PollInterval  time.Duration `envconfig:"E2E_POLL_INTERVAL" default:"100ms"`
	ActionTimeout time.Duration `envconfig:"E2E_ACTION_TIMEOUT" default:"5s"`
	SettleDelay   time.Duration `envconfig:"E2E_SETTLE_DELAY" default:"1s"`
	StaleRetries  int           `envconfig:"E2E_STALE_RETRIES" default:"3"`
	Username      string        `envconfig:"E2E_USERNAME" default:"admin"`
	Password      string        `envconfig:"E2E_PASSWORD" default:"123123"`
	ProductID     string        `envconfig:"E2E_PRODUCT_ID" default:"1"`
}

// LoadE2EConfig reads E2E_* variables through lookup (os.LookupEnv when nil).
func LoadE2EConfig(lookup func(string) (string, bool)) (*E2EConfig, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := &E2EConfig{}
	if err := envconfig.Process("", cfg, lookup); err != nil {
		return nil, fmt.Errorf("failed to read e2e configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the bounds the waits rely on.
func (c *E2EConfig) Validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	switch {
	case !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://"):
		return fmt.Errorf("E2E_BASE_URL must be an http(s) URL, got %q", c.BaseURL)
	case c.WaitTimeout <= 0:
		return fmt.Errorf("E2E_WAIT_TIMEOUT must be positive")
	case c.PollInterval <= 0 || c.PollInterval > c.WaitTimeout:
		return fmt.Errorf("E2E_POLL_INTERVAL must be positive and below E2E_WAIT_TIMEOUT")
	case c.StaleRetries < 1:
		return fmt.Errorf("E2E_STALE_RETRIES must be at least 1")
	case c.SettleDelay < 0:
		return fmt.Errorf("E2E_SETTLE_DELAY must not be negative")
	case c.Username == "":
		return fmt.Errorf("E2E_USERNAME is required")
	}
	return nil
}
