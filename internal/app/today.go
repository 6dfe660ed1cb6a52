package app

import (
	"context"
	"strings"
	"time"

	"github.com/sovego/ytrack/internal/settings"
	"github.com/sovego/ytrack/internal/tracker"
)

// trackerTimeLayouts covers the timestamp shapes worklog entries carry:
// RFC 3339 and the variant without a colon in the zone offset.
var trackerTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999-0700",
}

// TodayLogged sums the seconds of work already logged inside today's
// workday window, restricted to the given issue keys when any are supplied.
// The search is scoped to the current user when the profile is reachable.
func TodayLogged(ctx context.Context, client *tracker.Client, userSettings settings.Settings, issueKeys []string) (uint64, error) {
	return todayLogged(ctx, client, userSettings, issueKeys, time.Now().Local())
}

func todayLogged(ctx context.Context, client *tracker.Client, userSettings settings.Settings, issueKeys []string, now time.Time) (uint64, error) {
	createdBy := ""
	if me, err := client.Myself(ctx); err == nil {
		createdBy = me.Login
	}

	start, end := userSettings.WorkdayBounds(now)
	entries, err := client.WorklogsByParams(ctx, createdBy,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return 0, err
	}

	keys := make(map[string]struct{}, len(issueKeys))
	for _, key := range issueKeys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys[trimmed] = struct{}{}
		}
	}

	dayKey := now.Format("2006-01-02")
	var total uint64
	for _, entry := range entries {
		if len(keys) > 0 {
			if entry.Issue == nil {
				continue
			}
			if _, ok := keys[entry.Issue.StableKey()]; !ok {
				continue
			}
		}
		stamp := entry.Start
		if stamp == "" {
			stamp = entry.CreatedAt
		}
		if !onDay(stamp, dayKey) {
			continue
		}
		if seconds, ok := tracker.ParseTrackerDuration(entry.Duration, userSettings.WorkdayHours); ok {
			total += seconds
		}
	}
	return total, nil
}

func onDay(stamp, dayKey string) bool {
	trimmed := strings.TrimSpace(stamp)
	for _, layout := range trackerTimeLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Local().Format("2006-01-02") == dayKey
		}
	}
	return false
}
