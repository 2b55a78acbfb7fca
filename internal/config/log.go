package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// LoadLogConfig reads LOG_LEVEL (default info) and LOG_FORMAT (text or json).
func LoadLogConfig(getenv func(string) string) LogConfig {
	cfg := LogConfig{Level: getenv("LOG_LEVEL"), Format: strings.ToLower(getenv("LOG_FORMAT"))}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	return cfg
}

// Logger builds a logrus logger writing to stderr.
func (c LogConfig) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	switch c.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q, expected text or json", c.Format)
	}
	return log, nil
}
