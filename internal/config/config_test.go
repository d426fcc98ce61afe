package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_BACKEND_URL", "http://backend.local/api")
	t.Setenv("APP_SESSION_SECRET", strings.Repeat("s", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %s", cfg.ListenAddr)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Errorf("Backend.Timeout = %s", cfg.Backend.Timeout)
	}
	if cfg.Watch.Every != time.Minute {
		t.Errorf("Watch.Every = %s", cfg.Watch.Every)
	}
	if !cfg.MetricsEnabled {
		t.Error("metrics should default on")
	}
}

func TestLoadRequiredFields(t *testing.T) {
	t.Setenv("APP_BACKEND_URL", "")
	t.Setenv("APP_SESSION_SECRET", strings.Repeat("s", 32))
	if _, err := Load(); err == nil {
		t.Error("expected an error without APP_BACKEND_URL")
	}

	t.Setenv("APP_BACKEND_URL", "http://backend.local")
	t.Setenv("APP_SESSION_SECRET", "short")
	if _, err := Load(); err == nil {
		t.Error("expected an error for a short session secret")
	}
}

func TestLoadUserID(t *testing.T) {
	setRequired(t)

	t.Setenv("APP_USER_ID", "42")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UserID != 42 {
		t.Errorf("UserID = %d", cfg.UserID)
	}

	t.Setenv("APP_USER_ID", "-3")
	if _, err := Load(); err == nil {
		t.Error("expected an error for a negative user id")
	}
}

func TestLoadTrimsBackendURL(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_BACKEND_URL", "http://backend.local/api/")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.BaseURL != "http://backend.local/api" {
		t.Errorf("BaseURL = %s", cfg.Backend.BaseURL)
	}
}
