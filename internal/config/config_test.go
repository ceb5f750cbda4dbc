package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("API_BASE_URL")
	os.Setenv("STATE_DIR", t.TempDir())
	defer os.Unsetenv("STATE_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("expected default base URL, got %s", cfg.APIBaseURL)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env 'development', got %s", cfg.Env)
	}
	if cfg.HTTPTimeoutSeconds != 15 {
		t.Errorf("expected default timeout 15, got %d", cfg.HTTPTimeoutSeconds)
	}
	if cfg.LogoutOnUnauthorized {
		t.Error("expected LOGOUT_ON_UNAUTHORIZED to default to false")
	}
}

func TestLoad_TrimsTrailingSlash(t *testing.T) {
	os.Setenv("API_BASE_URL", "https://hms.example.com/api/v1/")
	os.Setenv("STATE_DIR", t.TempDir())
	defer os.Unsetenv("API_BASE_URL")
	defer os.Unsetenv("STATE_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "https://hms.example.com/api/v1" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
}

func TestConfig_HTTPTimeout(t *testing.T) {
	c := &Config{HTTPTimeoutSeconds: 30}
	if c.HTTPTimeout() != 30*time.Second {
		t.Errorf("expected 30s, got %v", c.HTTPTimeout())
	}

	c.HTTPTimeoutSeconds = 0
	if c.HTTPTimeout() != 15*time.Second {
		t.Errorf("expected fallback 15s, got %v", c.HTTPTimeout())
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}
	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
