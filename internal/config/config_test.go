package config

import (
	"os"
	"testing"

	"github.com/jbehrens/sporthalle-sync/internal/scraper"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure ambient environment doesn't leak into the test. t.Setenv
	// registers the restore; Unsetenv makes the variable truly absent.
	for _, key := range []string{
		"CALENDAR_URL", "NEXTCLOUD_USERNAME", "NEXTCLOUD_PASSWORD",
		"CALENDAR_NAME", "SCHEDULE_URL", "SYNC_WORKERS",
		"SYNC_END_AFTER_BEGIN_HOURS", "SYNC_END_AFTER_DOORS_HOURS",
		"SYNC_FALLBACK_DOORS_HOUR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ScheduleURL != scraper.ScheduleURL {
		t.Errorf("ScheduleURL = %q, expected the venue default", cfg.ScheduleURL)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, expected %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.EndAfterBeginHours != DefaultEndAfterBeginHours {
		t.Errorf("EndAfterBeginHours = %d", cfg.EndAfterBeginHours)
	}
	if cfg.EndAfterDoorsHours != DefaultEndAfterDoorsHours {
		t.Errorf("EndAfterDoorsHours = %d", cfg.EndAfterDoorsHours)
	}
	if cfg.FallbackDoorsHour != DefaultFallbackDoorsHour {
		t.Errorf("FallbackDoorsHour = %d", cfg.FallbackDoorsHour)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCHEDULE_URL", "https://example.com/schedule.php")
	t.Setenv("SYNC_WORKERS", "4")
	t.Setenv("SYNC_END_AFTER_BEGIN_HOURS", "4")
	t.Setenv("SYNC_END_AFTER_DOORS_HOURS", "6")
	t.Setenv("SYNC_FALLBACK_DOORS_HOUR", "17")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ScheduleURL != "https://example.com/schedule.php" {
		t.Errorf("ScheduleURL = %q", cfg.ScheduleURL)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.EndAfterBeginHours != 4 || cfg.EndAfterDoorsHours != 6 {
		t.Errorf("offset hours = %d/%d, expected 4/6",
			cfg.EndAfterBeginHours, cfg.EndAfterDoorsHours)
	}
	if cfg.FallbackDoorsHour != 17 {
		t.Errorf("FallbackDoorsHour = %d", cfg.FallbackDoorsHour)
	}
}

func TestNormalizeRejectsNonsense(t *testing.T) {
	cfg := &Config{
		Workers:            -1,
		EndAfterBeginHours: 0,
		EndAfterDoorsHours: -3,
		FallbackDoorsHour:  25,
	}
	cfg.Normalize()

	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.EndAfterBeginHours != DefaultEndAfterBeginHours {
		t.Errorf("EndAfterBeginHours = %d", cfg.EndAfterBeginHours)
	}
	if cfg.EndAfterDoorsHours != DefaultEndAfterDoorsHours {
		t.Errorf("EndAfterDoorsHours = %d", cfg.EndAfterDoorsHours)
	}
	if cfg.FallbackDoorsHour != DefaultFallbackDoorsHour {
		t.Errorf("FallbackDoorsHour = %d", cfg.FallbackDoorsHour)
	}
}

func TestValidateRemote(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateRemote(); err == nil {
		t.Error("expected error for missing calendar settings")
	}

	cfg = &Config{
		CalendarURL: "https://cloud.example.com/remote.php/dav",
		Username:    "sync",
		Password:    "secret",
	}
	if err := cfg.ValidateRemote(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
