package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL           string `mapstructure:"API_BASE_URL"`
	Env                  string `mapstructure:"ENV"`
	LogLevel             string `mapstructure:"LOG_LEVEL"`
	HTTPTimeoutSeconds   int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	StateDir             string `mapstructure:"STATE_DIR"`
	LogoutOnUnauthorized bool   `mapstructure:"LOGOUT_ON_UNAUTHORIZED"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api/v1")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	v.SetDefault("LOGOUT_ON_UNAUTHORIZED", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("API_BASE_URL")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("HTTP_TIMEOUT_SECONDS")
	v.BindEnv("STATE_DIR")
	v.BindEnv("LOGOUT_ON_UNAUTHORIZED")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, err
		}
		cfg.StateDir = dir
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// defaultStateDir resolves the per-user directory that holds the stored
// session (token and user record).
func defaultStateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "careline"), nil
}
