package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sovego/ytrack/internal/issuecache"
	"github.com/sovego/ytrack/internal/session"
	"github.com/sovego/ytrack/internal/settings"
	"github.com/sovego/ytrack/internal/timer"
	"github.com/sovego/ytrack/internal/tracker"
	"github.com/sovego/ytrack/internal/ui"
)

// Options configure the application.
type Options struct {
	SettingsPath string // empty uses default ~/.config/ytrack/settings.toml
	SessionPath  string // empty uses default ~/.config/ytrack/session.json
	RefreshEvery time.Duration
	Logger       *zap.Logger
}

const (
	defaultRefreshInterval = 5 * time.Minute
	scrollPageSize         = 100
	scrollTTLMillis        = 60000
)

// Run boots the TUI until the context is cancelled. It fails fast when no
// session is stored; the auth bootstrap flow writes one.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	userSettings, _ := settings.Load(opts.SettingsPath)

	sessions, err := session.NewStore(opts.SessionPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	token, err := sessions.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if token == nil {
		return fmt.Errorf("no session found; run with -auth-code to sign in")
	}

	cfg := tracker.NewConfig(token.Token, token.OrgTypeValue()).
		WithOrgID(token.OrgID)
	client, err := tracker.New(cfg)
	if err != nil {
		return fmt.Errorf("init tracker client: %w", err)
	}

	cache := issuecache.New()
	workTimer := timer.New()

	interval := opts.RefreshEvery
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	// Start background refresh
	StartPoller(ctx, cache, client, userSettings, interval, logger)

	// Do initial refresh to populate the cache before the UI starts
	refresh(ctx, cache, client, userSettings, logger)

	uiOpts := ui.Options{
		Context:     ctx,
		Cache:       cache,
		Timer:       workTimer,
		Settings:    userSettings,
		RefreshTick: interval,
		LogWork: func(ctx context.Context, issueKey string, elapsedSeconds int64, comment string) error {
			return LogElapsed(ctx, client, issueKey, elapsedSeconds, comment)
		},
		TodayLogged: func(ctx context.Context) (uint64, error) {
			return TodayLogged(ctx, client, userSettings, cachedIssueKeys(cache))
		},
	}
	return ui.Run(uiOpts)
}

// searchParams builds the issue search from the configured query, falling
// back to the default "my open issues" filter.
func searchParams(query string) tracker.SearchParams {
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		return tracker.SearchParams{Query: trimmed}
	}
	return tracker.SearchParams{Filter: map[string]any{
		"assignee":   "me()",
		"resolution": "empty()",
	}}
}

// cachedIssueKeys collects the keys of the currently cached issues so the
// logged-today total covers exactly what is on screen.
func cachedIssueKeys(cache *issuecache.Store) []string {
	snap := cache.Snapshot()
	keys := make([]string, 0, len(snap.Issues))
	for _, issue := range snap.Issues {
		keys = append(keys, issue.Key)
	}
	return keys
}

// LogElapsed records elapsed timer seconds as a worklog entry, rounding up
// to a whole minute.
func LogElapsed(ctx context.Context, client *tracker.Client, issueKey string, elapsedSeconds int64, comment string) error {
	if strings.TrimSpace(issueKey) == "" {
		return fmt.Errorf("issue key is empty")
	}
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	duration := tracker.ISOFromSeconds(uint64(elapsedSeconds))
	start := time.Now().UTC().Format(time.RFC3339)
	return client.LogWork(ctx, issueKey, start, duration, comment)
}
