// Package ui renders the issue list and timer controls in the terminal.
package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sovego/ytrack/internal/issuecache"
	"github.com/sovego/ytrack/internal/settings"
	"github.com/sovego/ytrack/internal/timer"
)

// LogWorkFunc submits elapsed timer seconds as a worklog entry.
type LogWorkFunc func(ctx context.Context, issueKey string, elapsedSeconds int64, comment string) error

// TodayLoggedFunc reports how many seconds of work are already logged
// today for the issues on screen.
type TodayLoggedFunc func(ctx context.Context) (uint64, error)

// Options configure the UI runtime.
type Options struct {
	Context     context.Context
	Cache       *issuecache.Store
	Timer       *timer.Timer
	Settings    settings.Settings
	RefreshTick time.Duration
	LogWork     LogWorkFunc
	TodayLogged TodayLoggedFunc
}

const uiTickInterval = time.Second

// Run blocks until ctx is cancelled or the user quits.
func Run(opts Options) error {
	if opts.Cache == nil {
		return fmt.Errorf("ui requires an issue cache")
	}
	if opts.Timer == nil {
		return fmt.Errorf("ui requires a timer")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	program := tea.NewProgram(newModel(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := program.Run()
	if err == tea.ErrProgramKilled && opts.Context.Err() != nil {
		// Context cancellation is a normal shutdown.
		return nil
	}
	return err
}
