package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sovego/ytrack/internal/issuecache"
	"github.com/sovego/ytrack/internal/logsafe"
	"github.com/sovego/ytrack/internal/settings"
	"github.com/sovego/ytrack/internal/tracker"
)

const maxBackoff = 30 * time.Minute

// StartPoller launches a background goroutine that refreshes the issue
// cache at a fixed cadence, backing off exponentially while the API is
// failing. It returns immediately.
func StartPoller(ctx context.Context, cache *issuecache.Store, client *tracker.Client, userSettings settings.Settings, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, cache, client, userSettings, logger)

			wait := calculateBackoff(cache.Snapshot().ConsecutiveFailures, interval)
			timer.Reset(wait)
		}
	}()
}

// calculateBackoff doubles the refresh interval per consecutive failure,
// capped at maxBackoff.
func calculateBackoff(failures int, baseInterval time.Duration) time.Duration {
	wait := baseInterval
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, cache *issuecache.Store, client *tracker.Client, userSettings settings.Settings, logger *zap.Logger) {
	params := searchParams(userSettings.IssueQuery)

	var issues []tracker.Issue
	totalCount := int64(-1)
	opts := tracker.ScrollOptions{
		PerScroll: scrollPageSize,
		TTLMillis: scrollTTLMillis,
	}
	for {
		page, err := client.SearchIssuesScroll(ctx, params, opts)
		if err != nil {
			cache.Update(nil, 0, err)
			logger.Warn("issue refresh failed",
				zap.String("details", logsafe.Redact(err.Error())))
			return
		}
		issues = append(issues, page.Items...)
		if page.TotalCount >= 0 {
			totalCount = page.TotalCount
		}
		if !page.HasMore() || len(page.Items) == 0 {
			// Contexts expire server-side anyway, so a failed clear is
			// only worth a debug note.
			if err := client.ClearScrollContext(ctx, page.ScrollID); err != nil {
				logger.Debug("scroll clear failed",
					zap.String("details", logsafe.Redact(err.Error())))
			}
			break
		}
		opts.ScrollID = page.ScrollID
	}

	cache.Update(issues, totalCount, nil)
	logger.Debug("issue cache refreshed", zap.Int("issues", len(issues)))
}
