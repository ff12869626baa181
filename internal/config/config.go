package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	APIURL      string
	HTTPTimeout time.Duration

	LogLevel string
	Env      string

	SessionBackend string
	SessionFile    string
	SessionPrefix  string
	RedisURL       string

	// MetricsFile, when set, receives the API call metrics in Prometheus
	// text format when the command finishes.
	MetricsFile string
}

// LoadConfig reads an optional .env file from the working directory and then
// the process environment. Values already set in the environment win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	timeout, err := time.ParseDuration(GetEnv("PGDESK_HTTP_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("parse PGDESK_HTTP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		APIURL:         strings.TrimRight(GetEnv("PGDESK_API_URL", "http://localhost:8081"), "/"),
		HTTPTimeout:    timeout,
		Env:            GetEnv("ENV", "development"),
		LogLevel:       GetEnv("LOG_LEVEL", "warn"),
		SessionBackend: GetEnv("PGDESK_SESSION_BACKEND", SessionBackendFile),
		SessionFile:    GetEnv("PGDESK_SESSION_FILE", ""),
		SessionPrefix:  GetEnv("PGDESK_SESSION_PREFIX", "pgdesk:"),
		RedisURL:       GetEnv("REDIS_URL", "redis://localhost:6379"),
		MetricsFile:    GetEnv("PGDESK_METRICS_FILE", ""),
	}

	switch cfg.SessionBackend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendMemory:
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}

	if cfg.SessionBackend == SessionBackendFile && cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "pgdesk", "session.json")
	}

	return cfg, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
