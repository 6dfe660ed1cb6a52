package tracker

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Duration handling for tracked time. The API both accepts and emits ISO
// 8601 duration strings where a "day" is a workday, so conversions to
// seconds need the configured workday length.

var durationTokenRE = regexp.MustCompile(`(\d+)\s*(w|d|h|m)`)

const workdaysPerWeek = 5

type durationParts struct {
	weeks   uint64
	days    uint64
	hours   uint64
	minutes uint64
}

func (p durationParts) zero() bool {
	return p.weeks == 0 && p.days == 0 && p.hours == 0 && p.minutes == 0
}

func scanDurationTokens(normalized string) durationParts {
	var parts durationParts
	for _, match := range durationTokenRE.FindAllStringSubmatch(normalized, -1) {
		value, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			continue
		}
		switch match[2] {
		case "w":
			parts.weeks += value
		case "d":
			parts.days += value
		case "h":
			parts.hours += value
		case "m":
			parts.minutes += value
		}
	}
	return parts
}

// ParseDurationInput converts free-form user input like "1h 30m" or "2d" to
// an ISO 8601 duration string. A bare integer is read as minutes and a bare
// decimal as hours. Inputs that resolve to zero are rejected.
func ParseDurationInput(input string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", newError(KindOther, "duration is empty")
	}

	parts := scanDurationTokens(normalized)
	if parts.zero() {
		if value, err := strconv.ParseUint(normalized, 10, 64); err == nil {
			parts.minutes = value
		} else if value, err := strconv.ParseFloat(normalized, 64); err == nil && value > 0 {
			whole := uint64(value)
			parts.hours = whole
			fractionalMinutes := uint64((value-float64(whole))*60 + 0.5)
			if fractionalMinutes > 0 {
				parts.minutes = fractionalMinutes
			}
		}
	}
	if parts.zero() {
		return "", newError(KindOther, fmt.Sprintf("duration %q resolves to zero", input))
	}
	return formatISO(parts), nil
}

func formatISO(parts durationParts) string {
	var b strings.Builder
	b.WriteString("P")
	if parts.weeks > 0 {
		fmt.Fprintf(&b, "%dW", parts.weeks)
	}
	if parts.days > 0 {
		fmt.Fprintf(&b, "%dD", parts.days)
	}
	if parts.hours > 0 || parts.minutes > 0 {
		b.WriteString("T")
		if parts.hours > 0 {
			fmt.Fprintf(&b, "%dH", parts.hours)
		}
		if parts.minutes > 0 {
			fmt.Fprintf(&b, "%dM", parts.minutes)
		}
	}
	iso := b.String()
	if iso == "P" {
		iso = "PT0M"
	}
	return iso
}

// ParseTrackerDuration converts a duration string as the API emits it
// (ISO 8601 or loose "1w 2d 3h" text) to seconds. Weeks are five workdays
// and days are workdayHours hours. Returns false when no time token is
// present.
func ParseTrackerDuration(input string, workdayHours uint64) (uint64, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return 0, false
	}
	parts := scanDurationTokens(normalized)
	if parts.zero() {
		return 0, false
	}
	secs := parts.weeks*workdaysPerWeek*workdayHours*3600 +
		parts.days*workdayHours*3600 +
		parts.hours*3600 +
		parts.minutes*60
	return secs, true
}

// ParseDurationValue resolves tracked seconds from the loose JSON shapes the
// spent fields take: a duration string, a raw number of seconds, a wrapper
// object, or an array of candidates.
func ParseDurationValue(raw json.RawMessage, workdayHours uint64) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, false
	}
	return parseDurationAny(value, workdayHours)
}

func parseDurationAny(value any, workdayHours uint64) (uint64, bool) {
	switch v := value.(type) {
	case string:
		return ParseTrackerDuration(v, workdayHours)
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, false
		}
		return uint64(v), true
	case map[string]any:
		for _, key := range []string{"duration", "value", "display", "text", "en", "ru"} {
			if nested, ok := v[key]; ok {
				if secs, ok := parseDurationAny(nested, workdayHours); ok {
					return secs, true
				}
			}
		}
		return 0, false
	case []any:
		for _, nested := range v {
			if secs, ok := parseDurationAny(nested, workdayHours); ok {
				return secs, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// ISOFromSeconds renders elapsed seconds as an ISO 8601 duration, rounding
// up to a whole minute with a one minute floor so short timer runs still
// produce a loggable span.
func ISOFromSeconds(seconds uint64) string {
	minutes := (seconds + 59) / 60
	if minutes == 0 {
		minutes = 1
	}
	return formatISO(durationParts{
		hours:   minutes / 60,
		minutes: minutes % 60,
	})
}
