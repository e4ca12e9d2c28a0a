package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const planDateLayout = "2006-01-02"

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken           string
	DatabaseURL             string
	AdminTelegramID         int64
	PlanStartDate           time.Time
	Location                *time.Location
	LogLevel                string
	Environment             string
	CronSpecDailyReading    string // Morning message with the day's reading
	CronSpecEveningReminder string // Nudge for readers who have not checked in
	ApplySchemaOnStart      bool
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return LoadFrom(os.Getenv)
}

// LoadFrom builds the configuration from an arbitrary variable lookup.
func LoadFrom(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	tz := getenv("TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	startStr := getenv("PLAN_START_DATE")
	if startStr == "" {
		startStr = "2025-03-13"
	}
	cfg.PlanStartDate, err = time.ParseInLocation(planDateLayout, startStr, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid PLAN_START_DATE (want YYYY-MM-DD): %w", err)
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecDailyReading = getenv("CRON_SPEC_DAILY_READING")
	if cfg.CronSpecDailyReading == "" {
		cfg.CronSpecDailyReading = "0 7 * * *" // 7:00 AM daily
	}

	cfg.CronSpecEveningReminder = getenv("CRON_SPEC_EVENING_REMINDER")
	if cfg.CronSpecEveningReminder == "" {
		cfg.CronSpecEveningReminder = "0 20 * * *" // 8:00 PM daily
	}

	cfg.ApplySchemaOnStart = true
	if v := getenv("APPLY_SCHEMA_ON_START"); v != "" {
		cfg.ApplySchemaOnStart, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid APPLY_SCHEMA_ON_START: %w", err)
		}
	}

	return cfg, nil
}
