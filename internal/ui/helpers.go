package ui

import (
	"fmt"
	"strings"
)

// formatElapsed renders elapsed seconds as "2h 05m" or "7m".
func formatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// todayLine renders the logged-today total against the workday length.
func todayLine(loggedSeconds, workdayHours uint64) string {
	line := "today " + formatElapsed(int64(loggedSeconds))
	if workdayHours > 0 {
		line += fmt.Sprintf(" of %dh", workdayHours)
	}
	return line
}

func truncate(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	runes := []rune(trimmed)
	if limit <= 0 || len(runes) <= limit {
		return trimmed
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
