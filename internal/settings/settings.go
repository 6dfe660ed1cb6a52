// Package settings handles user settings persistence.
// Settings are stored in ~/.config/ytrack/settings.toml.
package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Settings holds user-tunable behavior for the app.
type Settings struct {
	// IssueQuery is the Tracker query language expression driving the
	// issue list. Empty means the built-in default filter.
	IssueQuery string `toml:"issue_query"`
	// TimerNotificationInterval is minutes between running-timer
	// reminders.
	TimerNotificationInterval uint64 `toml:"timer_notification_interval"`
	// WorkdayHours is how many hours one tracked "day" represents.
	WorkdayHours     uint64 `toml:"workday_hours"`
	WorkdayStartTime string `toml:"workday_start_time"`
	WorkdayEndTime   string `toml:"workday_end_time"`
}

const (
	defaultSettingsPath = "~/.config/ytrack/settings.toml"

	defaultNotificationInterval = 15
	defaultWorkdayHours         = 8
	defaultWorkdayStart         = "09:00"
	defaultWorkdayEnd           = "17:00"

	maxWorkdayHours = 24
)

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return defaultSettingsPath
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		TimerNotificationInterval: defaultNotificationInterval,
		WorkdayHours:              defaultWorkdayHours,
		WorkdayStartTime:          defaultWorkdayStart,
		WorkdayEndTime:            defaultWorkdayEnd,
	}
}

// Load reads settings from the given path, falling back to defaults if the
// file is missing or unreadable. Load never fails; a broken file degrades
// to defaults.
func Load(path string) (Settings, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	settings := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return settings, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &settings); err != nil {
		return Default(), nil // Graceful degradation
	}

	return Normalize(settings), nil
}

// Save writes settings to the given path, creating directories as needed.
func Save(path string, s Settings) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	bytes, err := toml.Marshal(Normalize(s))
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Normalize clamps out-of-range values back to sane defaults.
func Normalize(s Settings) Settings {
	if s.TimerNotificationInterval == 0 {
		s.TimerNotificationInterval = 1
	}
	if s.WorkdayHours == 0 {
		s.WorkdayHours = defaultWorkdayHours
	}
	if s.WorkdayHours > maxWorkdayHours {
		s.WorkdayHours = maxWorkdayHours
	}
	s.WorkdayStartTime = sanitizeClock(s.WorkdayStartTime, defaultWorkdayStart)
	s.WorkdayEndTime = sanitizeClock(s.WorkdayEndTime, defaultWorkdayEnd)
	s.IssueQuery = strings.TrimSpace(s.IssueQuery)
	return s
}

// NotificationInterval returns the reminder interval as a duration.
func (s Settings) NotificationInterval() time.Duration {
	return time.Duration(s.TimerNotificationInterval) * time.Minute
}

// WorkdayBounds anchors the configured workday window to the calendar day
// of the given moment, in its location. Unparseable clock values fall back
// to the defaults; an inverted window falls back to the default end.
func (s Settings) WorkdayBounds(day time.Time) (time.Time, time.Time) {
	start := clockOn(day, s.WorkdayStartTime, defaultWorkdayStart)
	end := clockOn(day, s.WorkdayEndTime, defaultWorkdayEnd)
	if !end.After(start) {
		end = clockOn(day, defaultWorkdayEnd, defaultWorkdayEnd)
	}
	return start, end
}

func clockOn(day time.Time, value, fallback string) time.Time {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		parsed, _ = time.Parse("15:04", fallback)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location())
}

// sanitizeClock keeps HH:MM values and replaces anything else with the
// fallback.
func sanitizeClock(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if _, err := time.Parse("15:04", trimmed); err != nil {
		return fallback
	}
	return trimmed
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSettingsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
