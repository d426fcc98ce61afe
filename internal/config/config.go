package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration of the gateway, sourced from
// APP_-prefixed environment variables with optional .env support.
type Config struct {
	ListenAddr  string
	Environment string

	Backend struct {
		BaseURL string
		Timeout time.Duration
	}

	Session struct {
		Secret string
		// File is the persisted device-session path consulted when no
		// static user id is configured.
		File string
	}

	// UserID pins the engine to one signed-in user, the navigation-params
	// analog. Zero means "read the session file".
	UserID int64

	LoginURL string

	Watch struct {
		Every time.Duration
	}

	MetricsEnabled bool
	CookieSecure   bool
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", ":8080")
	cfg.Environment = getenvDefault("APP_ENV", "development")
	cfg.Backend.BaseURL = strings.TrimRight(os.Getenv("APP_BACKEND_URL"), "/")
	cfg.Backend.Timeout = getenvDuration("APP_BACKEND_TIMEOUT", 15*time.Second)
	cfg.Session.Secret = os.Getenv("APP_SESSION_SECRET")
	cfg.Session.File = getenvDefault("APP_SESSION_FILE", "session.json")
	cfg.LoginURL = getenvDefault("APP_LOGIN_URL", "/login")
	cfg.Watch.Every = getenvDuration("APP_WATCH_EVERY", time.Minute)
	cfg.MetricsEnabled = getenvBool("APP_METRICS_ENABLED", true)
	cfg.CookieSecure = getenvBool("APP_COOKIE_SECURE", false)

	if raw := os.Getenv("APP_USER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("APP_USER_ID must be a positive integer (got %q)", raw)
		}
		cfg.UserID = id
	}

	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("APP_BACKEND_URL is required")
	}
	if cfg.Session.Secret == "" {
		return nil, errors.New("APP_SESSION_SECRET is required")
	}
	if len(cfg.Session.Secret) < 32 {
		return nil, fmt.Errorf("APP_SESSION_SECRET must be at least 32 characters long (got %d)", len(cfg.Session.Secret))
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
