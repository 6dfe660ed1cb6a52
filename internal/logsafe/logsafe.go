// Package logsafe scrubs error details before they reach logs. Tracker
// errors can embed request URLs and response bodies, and those sometimes
// carry tokens or cookies.
package logsafe

import "strings"

const (
	categoryLimit = 64
	messageLimit  = 180
)

// sensitiveHints are lowercase substrings that mark a message as carrying
// credential material.
var sensitiveHints = []string{
	"token",
	"authorization",
	"bearer",
	"oauth",
	"client_secret",
	"password",
	"code=",
	"set-cookie",
}

// Redact collapses whitespace and truncates the message. When the message
// hints at credential material, everything after the leading category is
// replaced.
func Redact(value string) string {
	collapsed := CollapseWhitespace(value)

	category := "error"
	if head := strings.TrimSpace(strings.SplitN(collapsed, ":", 2)[0]); head != "" {
		category = head
	}

	lowered := strings.ToLower(collapsed)
	for _, hint := range sensitiveHints {
		if strings.Contains(lowered, hint) {
			return Truncate(category, categoryLimit) + ": <redacted-sensitive-details>"
		}
	}
	return Truncate(collapsed, messageLimit)
}

// CollapseWhitespace squeezes runs of whitespace into single spaces and
// trims the ends.
func CollapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// Truncate trims the value and caps it at limit runes, marking the cut with
// an ellipsis.
func Truncate(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	runes := []rune(trimmed)
	if len(runes) <= limit {
		return trimmed
	}
	if limit <= 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
