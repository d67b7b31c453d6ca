package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"nuclight.org/attendance/internal/poll"
	"nuclight.org/attendance/internal/schedule"
	"nuclight.org/attendance/internal/storage"
)

type Config struct {
	TelegramToken string
	SuperAdminID  int64

	StorageBackend string
	DataPath       string
	RedisURL       string

	Schedule      schedule.Weekly
	CheckInterval time.Duration
	Retention     poll.RetentionPolicy

	SentryDSN string
}

// LoadDotEnv reads .env into the environment if present. Variables already
// set are not overridden.
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

func Load() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	adminStr := os.Getenv("SUPER_ADMIN_ID")
	if adminStr == "" {
		return nil, fmt.Errorf("SUPER_ADMIN_ID is required")
	}
	superAdmin, err := strconv.ParseInt(adminStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("SUPER_ADMIN_ID must be a number: %w", err)
	}

	cfg := &Config{
		TelegramToken:  token,
		SuperAdminID:   superAdmin,
		StorageBackend: getenv("STORAGE_BACKEND", storage.BackendJSON),
		RedisURL:       os.Getenv("REDIS_URL"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
	}

	switch cfg.StorageBackend {
	case storage.BackendJSON:
		cfg.DataPath = getenv("DATA_PATH", "attendance_data.json")
	case storage.BackendSQLite:
		cfg.DataPath = getenv("DATA_PATH", "attendance.db")
	case storage.BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis storage backend")
		}
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be json, sqlite or redis, got %q", cfg.StorageBackend)
	}

	if cfg.Schedule, err = loadSchedule(); err != nil {
		return nil, err
	}

	if cfg.CheckInterval, err = time.ParseDuration(getenv("SCHEDULE_CHECK_INTERVAL", "30s")); err != nil {
		return nil, fmt.Errorf("SCHEDULE_CHECK_INTERVAL: %w", err)
	}
	if cfg.CheckInterval <= 0 || cfg.CheckInterval > time.Minute {
		return nil, fmt.Errorf("SCHEDULE_CHECK_INTERVAL must be between 0 and 1m, got %s", cfg.CheckInterval)
	}

	if cfg.Retention, err = poll.ParseRetentionPolicy(os.Getenv("VOTE_RETENTION")); err != nil {
		return nil, fmt.Errorf("VOTE_RETENTION: %w", err)
	}

	return cfg, nil
}

func loadSchedule() (schedule.Weekly, error) {
	var w schedule.Weekly
	var err error

	if w.Weekday, err = schedule.ParseWeekday(getenv("POLL_WEEKDAY", "monday")); err != nil {
		return w, fmt.Errorf("POLL_WEEKDAY: %w", err)
	}
	if w.Hour, err = getInt("POLL_HOUR", 19, 0, 23); err != nil {
		return w, err
	}
	if w.Minute, err = getInt("POLL_MINUTE", 0, 0, 59); err != nil {
		return w, err
	}
	if w.Location, err = time.LoadLocation(getenv("POLL_TIMEZONE", "Local")); err != nil {
		return w, fmt.Errorf("POLL_TIMEZONE: %w", err)
	}
	return w, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, lo, hi, n)
	}
	return n, nil
}
