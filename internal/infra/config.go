package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	JWTSecret     string
	StageSecret   string
	StagesPath    string
	StoragePath   string
	GeoIPDBPath   string
	DefaultLocale string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	WorkerSlots      int
	JobPollInterval  time.Duration
	JobLease         time.Duration
	StageTimeout     time.Duration
	StageMaxAttempts int
	StageBackoffBase time.Duration
	StageBackoffMax  time.Duration
	ApprovalTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StageSecret:   os.Getenv("STAGE_SHARED_SECRET"),
		StagesPath:    getEnv("STAGE_CONFIG_PATH", "config/stages.yaml"),
		StoragePath:   getEnv("STORAGE_PATH", "./storage"),
		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),

		WorkerSlots:      getEnvInt("WORKER_SLOTS", 4),
		JobPollInterval:  time.Second * time.Duration(getEnvInt("JOB_POLL_INTERVAL_SECONDS", 2)),
		JobLease:         time.Minute * time.Duration(getEnvInt("JOB_LEASE_MINUTES", 15)),
		StageTimeout:     time.Second * time.Duration(getEnvInt("STAGE_TIMEOUT_SECONDS", 120)),
		StageMaxAttempts: getEnvInt("STAGE_MAX_ATTEMPTS", 3),
		StageBackoffBase: time.Millisecond * time.Duration(getEnvInt("STAGE_BACKOFF_BASE_MS", 500)),
		StageBackoffMax:  time.Second * time.Duration(getEnvInt("STAGE_BACKOFF_MAX_SECONDS", 15)),
		ApprovalTimeout:  time.Minute * time.Duration(getEnvInt("APPROVAL_TIMEOUT_MINUTES", 0)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StageSecret == "" {
		return nil, fmt.Errorf("STAGE_SHARED_SECRET is required")
	}
	if cfg.WorkerSlots < 1 {
		cfg.WorkerSlots = 1
	}
	if cfg.StageMaxAttempts < 1 {
		cfg.StageMaxAttempts = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
