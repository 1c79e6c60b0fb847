package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUnlockCode is the manager-section code the original sheet shipped with.
const DefaultUnlockCode = "0712"

type Config struct {
	Addr           string
	Environment    string
	DataPath       string
	FrontendDir    string
	ReportDir      string
	UnlockCode     string
	UnlockSecret   string
	UnlockTTL      time.Duration
	MaxBodyBytes   int64
	WatchEnabled   bool
	WatchDebounce  time.Duration
	MetricsEnabled bool
	LogLevel       string
	LogFormat      string
}

func Load() Config {
	return Config{
		Addr:           getEnv("APP_ADDR", "127.0.0.1:8080"),
		Environment:    getEnv("APP_ENV", "development"),
		DataPath:       getEnv("DATA_PATH", "data/qbhouse.db"),
		FrontendDir:    getEnv("FRONTEND_DIR", "frontend/dist"),
		ReportDir:      getEnv("REPORT_DIR", "storage/reports"),
		UnlockCode:     getEnv("UNLOCK_CODE", DefaultUnlockCode),
		UnlockSecret:   getEnv("UNLOCK_SECRET", ""),
		UnlockTTL:      getEnvDuration("UNLOCK_TTL", 8*time.Hour),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		WatchEnabled:   getEnvBool("WATCH_ENABLED", true),
		WatchDebounce:  getEnvDuration("WATCH_DEBOUNCE", 250*time.Millisecond),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return fmt.Errorf("DATA_PATH is required")
	}
	if strings.TrimSpace(c.UnlockCode) == "" {
		return fmt.Errorf("UNLOCK_CODE must not be empty")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.UnlockSecret) == "" {
			return fmt.Errorf("UNLOCK_SECRET must be set in production")
		}
		if c.UnlockCode == DefaultUnlockCode {
			return fmt.Errorf("UNLOCK_CODE must be changed from the default in production")
		}
	}
	if c.UnlockTTL <= 0 {
		return fmt.Errorf("UNLOCK_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.WatchEnabled && c.WatchDebounce < 0 {
		return fmt.Errorf("WATCH_DEBOUNCE must not be negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}
