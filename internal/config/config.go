// Package config loads client configuration from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Variant names for the backend request/envelope scheme.
const (
	VariantAction = "action" // POST {action,...}, X-Telegram-User-Id header
	VariantQuery  = "query"  // GET ?actions=<name>&user_id=<id>, bearer token
)

// Config is the complete client configuration.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BackendConfig describes the single HTTP endpoint the adapter talks to.
type BackendConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Variant  string        `yaml:"variant"`
	Timeout  time.Duration `yaml:"timeout"`
	// Token seeds the access-token store on first run. Never hardcoded;
	// comes from file or TELESTORE_TOKEN.
	Token string `yaml:"token"`
}

// TelegramConfig holds host-integration settings.
type TelegramConfig struct {
	// BotToken is required to verify WebApp initData signatures.
	BotToken string `yaml:"bot_token"`
	// InitData is the raw WebApp init payload handed over by the host.
	InitData string `yaml:"-"`
	// DevUserID substitutes the identity when running outside the host.
	DevUserID int64 `yaml:"dev_user_id"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML file when path is non-empty, applies environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Backend.Endpoint = fallback(os.Getenv("TELESTORE_ENDPOINT"), cfg.Backend.Endpoint)
	cfg.Backend.Variant = fallback(os.Getenv("TELESTORE_VARIANT"), cfg.Backend.Variant)
	cfg.Backend.Token = fallback(os.Getenv("TELESTORE_TOKEN"), cfg.Backend.Token)
	cfg.Telegram.BotToken = fallback(os.Getenv("TELEGRAM_BOT_TOKEN"), cfg.Telegram.BotToken)
	cfg.Telegram.InitData = fallback(os.Getenv("TELEGRAM_INIT_DATA"), cfg.Telegram.InitData)
	cfg.Logging.Level = fallback(os.Getenv("TELESTORE_LOG_LEVEL"), cfg.Logging.Level)

	if v := os.Getenv("TELESTORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TELESTORE_TIMEOUT: %w", err)
		}
		cfg.Backend.Timeout = d
	}
	if v := os.Getenv("TELESTORE_DEV_USER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELESTORE_DEV_USER_ID: %w", err)
		}
		cfg.Telegram.DevUserID = id
	}

	applyDefaults(cfg)

	if cfg.Backend.Endpoint == "" {
		return nil, errors.New("backend endpoint is required (backend.endpoint or TELESTORE_ENDPOINT)")
	}
	if cfg.Backend.Variant != VariantAction && cfg.Backend.Variant != VariantQuery {
		return nil, fmt.Errorf("unknown backend variant %q", cfg.Backend.Variant)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.Variant == "" {
		cfg.Backend.Variant = VariantAction
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 10 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
