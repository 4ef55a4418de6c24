package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Source selects the recipient source implementation.
type Source string

const (
	SourceSheets   Source = "sheets"
	SourcePostgres Source = "postgres"
)

// RunMode selects between a one-shot run and an embedded cron schedule.
type RunMode string

const (
	RunOnce RunMode = "once"
	RunCron RunMode = "cron"
)

// AppConfig holds all configuration for the application. It is built
// once at startup and passed down explicitly; no package reads the
// environment after Load returns.
type AppConfig struct {
	// Recipient source
	RecipientSource Source
	SheetID         string
	SheetRange      string
	SheetStatusCol  string
	ServiceAccount  []byte // decoded service account JSON
	DatabaseURL     string

	// WhatsApp Cloud API
	WabaToken         string
	WabaPhoneNumberID string
	WabaTemplateName  string
	WabaAPIBaseURL    string

	// Run behavior
	DryRun           bool
	RamadanStart     time.Time // countdown target, midnight of the ISO date
	CalendarTZOffset int       // hours east of UTC for calendar-day resolution
	SendMaxAttempts  int
	SendRetryBase    time.Duration
	ThrottleInterval time.Duration
	RunMode          RunMode
	CronSpecDaily    string

	// Phone normalization
	PhoneCountryCode  string
	PhoneTrunkPrefix  string
	PhoneMobileDigits string

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.RecipientSource = Source(strings.ToLower(getEnv("RECIPIENT_SOURCE", string(SourceSheets))))
	switch cfg.RecipientSource {
	case SourceSheets:
		cfg.SheetID = os.Getenv("GOOGLE_SHEET_ID")
		if cfg.SheetID == "" {
			return nil, fmt.Errorf("GOOGLE_SHEET_ID is not set")
		}
		saB64 := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON_BASE64")
		if saB64 == "" {
			return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON_BASE64 is not set")
		}
		cfg.ServiceAccount, err = base64.StdEncoding.DecodeString(saB64)
		if err != nil {
			return nil, fmt.Errorf("invalid GOOGLE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		cfg.SheetRange = getEnv("SHEET_RANGE", "Sheet1!A2:F")
		cfg.SheetStatusCol = getEnv("SHEET_STATUS_COLUMN", "G")
	case SourcePostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("unknown RECIPIENT_SOURCE: %q", cfg.RecipientSource)
	}

	cfg.DryRun, err = getBool("DRY_RUN", false)
	if err != nil {
		return nil, err
	}

	// The countdown target is required even in dry-run mode: a missing
	// target is a deployment mistake, never silently defaulted.
	startISO := os.Getenv("RAMADAN_START_ISO")
	if startISO == "" {
		return nil, fmt.Errorf("RAMADAN_START_ISO is not set")
	}
	cfg.RamadanStart, err = time.Parse("2006-01-02", startISO)
	if err != nil {
		return nil, fmt.Errorf("invalid RAMADAN_START_ISO (want YYYY-MM-DD): %w", err)
	}

	cfg.WabaToken = os.Getenv("WABA_TOKEN")
	cfg.WabaPhoneNumberID = os.Getenv("WABA_PHONE_NUMBER_ID")
	cfg.WabaTemplateName = os.Getenv("WABA_TEMPLATE_NAME")
	cfg.WabaAPIBaseURL = getEnv("WABA_API_BASE_URL", "https://graph.facebook.com/v19.0")
	if !cfg.DryRun {
		if cfg.WabaToken == "" {
			return nil, fmt.Errorf("WABA_TOKEN is required for live sends")
		}
		if cfg.WabaPhoneNumberID == "" {
			return nil, fmt.Errorf("WABA_PHONE_NUMBER_ID is required for live sends")
		}
		if cfg.WabaTemplateName == "" {
			return nil, fmt.Errorf("WABA_TEMPLATE_NAME is required for live sends")
		}
	}

	cfg.CalendarTZOffset, err = getInt("CALENDAR_TZ_OFFSET_HOURS", 3) // EAT
	if err != nil {
		return nil, err
	}
	cfg.SendMaxAttempts, err = getInt("SEND_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	if cfg.SendMaxAttempts < 1 {
		return nil, fmt.Errorf("SEND_MAX_ATTEMPTS must be >= 1")
	}
	retryBaseMS, err := getInt("SEND_RETRY_BASE_MS", 1000)
	if err != nil {
		return nil, err
	}
	cfg.SendRetryBase = time.Duration(retryBaseMS) * time.Millisecond
	throttleMS, err := getInt("THROTTLE_INTERVAL_MS", 1000)
	if err != nil {
		return nil, err
	}
	cfg.ThrottleInterval = time.Duration(throttleMS) * time.Millisecond

	cfg.RunMode = RunMode(strings.ToLower(getEnv("RUN_MODE", string(RunOnce))))
	if cfg.RunMode != RunOnce && cfg.RunMode != RunCron {
		return nil, fmt.Errorf("unknown RUN_MODE: %q", cfg.RunMode)
	}
	cfg.CronSpecDaily = getEnv("CRON_SPEC_DAILY", "0 9 * * *")

	cfg.PhoneCountryCode = getEnv("PHONE_COUNTRY_CODE", "254")
	cfg.PhoneTrunkPrefix = getEnv("PHONE_TRUNK_PREFIX", "0")
	cfg.PhoneMobileDigits = getEnv("PHONE_MOBILE_FIRST_DIGITS", "71")

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}
