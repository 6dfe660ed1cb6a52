package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.TimerNotificationInterval != defaultNotificationInterval {
		t.Fatalf("TimerNotificationInterval = %d, want %d", s.TimerNotificationInterval, defaultNotificationInterval)
	}
	if s.WorkdayHours != defaultWorkdayHours {
		t.Fatalf("WorkdayHours = %d, want %d", s.WorkdayHours, defaultWorkdayHours)
	}
	if s.WorkdayStartTime != defaultWorkdayStart || s.WorkdayEndTime != defaultWorkdayEnd {
		t.Fatalf("workday window = %q..%q", s.WorkdayStartTime, s.WorkdayEndTime)
	}
}

func TestLoad_BrokenFileDegradesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s != Default() {
		t.Fatalf("broken file loaded as %+v, want defaults", s)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	saved := Settings{
		IssueQuery:                "  Queue: DEV  ",
		TimerNotificationInterval: 30,
		WorkdayHours:              6,
		WorkdayStartTime:          "10:00",
		WorkdayEndTime:            "18:30",
	}
	if err := Save(path, saved); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.IssueQuery != "Queue: DEV" {
		t.Fatalf("IssueQuery = %q, want trimmed", loaded.IssueQuery)
	}
	if loaded.TimerNotificationInterval != 30 || loaded.WorkdayHours != 6 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.WorkdayStartTime != "10:00" || loaded.WorkdayEndTime != "18:30" {
		t.Fatalf("workday window = %q..%q", loaded.WorkdayStartTime, loaded.WorkdayEndTime)
	}
}

func TestNormalize_ClampsValues(t *testing.T) {
	s := Normalize(Settings{
		TimerNotificationInterval: 0,
		WorkdayHours:              99,
		WorkdayStartTime:          "25:99",
		WorkdayEndTime:            "not a time",
	})
	if s.TimerNotificationInterval != 1 {
		t.Fatalf("TimerNotificationInterval = %d, want floor of 1", s.TimerNotificationInterval)
	}
	if s.WorkdayHours != maxWorkdayHours {
		t.Fatalf("WorkdayHours = %d, want ceiling %d", s.WorkdayHours, maxWorkdayHours)
	}
	if s.WorkdayStartTime != defaultWorkdayStart {
		t.Fatalf("WorkdayStartTime = %q, want %q", s.WorkdayStartTime, defaultWorkdayStart)
	}
	if s.WorkdayEndTime != defaultWorkdayEnd {
		t.Fatalf("WorkdayEndTime = %q, want %q", s.WorkdayEndTime, defaultWorkdayEnd)
	}
}

func TestNotificationInterval(t *testing.T) {
	s := Settings{TimerNotificationInterval: 15}
	if got := s.NotificationInterval(); got != 15*time.Minute {
		t.Fatalf("NotificationInterval = %v, want 15m", got)
	}
}

func TestWorkdayBounds(t *testing.T) {
	day := time.Date(2026, 8, 28, 13, 37, 42, 0, time.UTC)

	s := Settings{WorkdayStartTime: "10:00", WorkdayEndTime: "18:30"}
	start, end := s.WorkdayBounds(day)
	if want := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if want := time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}

	// Garbage clocks anchor on the defaults.
	s = Settings{WorkdayStartTime: "25:99", WorkdayEndTime: ""}
	start, end = s.WorkdayBounds(day)
	if start.Hour() != 9 || start.Minute() != 0 {
		t.Fatalf("fallback start = %v, want 09:00", start)
	}
	if end.Hour() != 17 || end.Minute() != 0 {
		t.Fatalf("fallback end = %v, want 17:00", end)
	}

	// An inverted window falls back to the default end.
	s = Settings{WorkdayStartTime: "12:00", WorkdayEndTime: "08:00"}
	start, end = s.WorkdayBounds(day)
	if !end.After(start) {
		t.Fatalf("window %v..%v is not ordered", start, end)
	}
	if end.Hour() != 17 {
		t.Fatalf("inverted end = %v, want default 17:00", end)
	}
}
