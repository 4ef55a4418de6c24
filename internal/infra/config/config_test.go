package config

import (
	"encoding/base64"
	"testing"
	"time"
)

func setSheetsEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RECIPIENT_SOURCE", "sheets")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON_BASE64", base64.StdEncoding.EncodeToString([]byte(`{"client_email":"x"}`)))
	t.Setenv("RAMADAN_START_ISO", "2026-02-18")
	t.Setenv("WABA_TOKEN", "tok")
	t.Setenv("WABA_PHONE_NUMBER_ID", "12345")
	t.Setenv("WABA_TEMPLATE_NAME", "countdown")
}

func TestLoadDefaults(t *testing.T) {
	setSheetsEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SheetRange != "Sheet1!A2:F" || cfg.SheetStatusCol != "G" {
		t.Fatalf("sheet defaults = %q / %q", cfg.SheetRange, cfg.SheetStatusCol)
	}
	if cfg.SendMaxAttempts != 3 || cfg.SendRetryBase != time.Second || cfg.ThrottleInterval != time.Second {
		t.Fatalf("retry/throttle defaults = %d / %v / %v", cfg.SendMaxAttempts, cfg.SendRetryBase, cfg.ThrottleInterval)
	}
	if cfg.CalendarTZOffset != 3 {
		t.Fatalf("tz offset default = %d", cfg.CalendarTZOffset)
	}
	if cfg.RunMode != RunOnce || cfg.DryRun {
		t.Fatalf("run defaults = %q / %t", cfg.RunMode, cfg.DryRun)
	}
	if cfg.PhoneCountryCode != "254" || cfg.PhoneTrunkPrefix != "0" || cfg.PhoneMobileDigits != "71" {
		t.Fatalf("phone defaults = %q / %q / %q", cfg.PhoneCountryCode, cfg.PhoneTrunkPrefix, cfg.PhoneMobileDigits)
	}
	if !cfg.RamadanStart.Equal(time.Date(2026, time.February, 18, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("target = %v", cfg.RamadanStart)
	}
}

func TestLoadMissingTargetDateIsFatal(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("RAMADAN_START_ISO", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing RAMADAN_START_ISO")
	}
}

func TestLoadInvalidTargetDate(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("RAMADAN_START_ISO", "18/02/2026")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed RAMADAN_START_ISO")
	}
}

func TestLoadLiveSendRequiresTemplate(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("WABA_TEMPLATE_NAME", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing template in live mode")
	}
}

func TestLoadDryRunSkipsWabaValidation(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("DRY_RUN", "true")
	t.Setenv("WABA_TOKEN", "")
	t.Setenv("WABA_PHONE_NUMBER_ID", "")
	t.Setenv("WABA_TEMPLATE_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.DryRun {
		t.Fatal("DryRun not set")
	}
}

func TestLoadPostgresSource(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("RECIPIENT_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/reminders")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.RecipientSource != SourcePostgres || cfg.DatabaseURL == "" {
		t.Fatalf("source = %+v", cfg.RecipientSource)
	}
}

func TestLoadPostgresSourceRequiresURL(t *testing.T) {
	setSheetsEnv(t)
	t.Setenv("RECIPIENT_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}
