// Package timer tracks a single running work timer for the session.
//
// At most one issue is timed at a time. Starting a timer while another is
// running abandons the old run without logging it; the caller decides what
// to do with the elapsed time returned by Stop.
package timer

import (
	"sync"
	"time"
)

// State is a snapshot of the timer. Elapsed is recomputed at snapshot time,
// so two snapshots of a running timer disagree only in Elapsed.
type State struct {
	Active       bool
	IssueKey     string
	IssueSummary string
	// StartTime is the unix second the current run began.
	StartTime int64
	// Elapsed is whole seconds since StartTime, zero when idle.
	Elapsed int64
}

// Timer is a mutex-guarded start/stop state machine. The zero value is an
// idle timer ready for use.
type Timer struct {
	mu             sync.Mutex
	active         bool
	issueKey       string
	issueSummary   string
	startTime      time.Time
	lastNotifiedAt time.Time
	now            func() time.Time
}

// New returns an idle timer.
func New() *Timer {
	return &Timer{now: time.Now}
}

func (t *Timer) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

// Start begins timing an issue. A timer already running on another issue is
// replaced and its elapsed time discarded; restarting the same issue resets
// the baseline.
func (t *Timer) Start(issueKey, issueSummary string) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	t.active = true
	t.issueKey = issueKey
	t.issueSummary = issueSummary
	t.startTime = now
	t.lastNotifiedAt = now
	return t.snapshotLocked(now)
}

// Stop halts the timer and returns the elapsed seconds with the issue key
// that was being timed. Stopping an idle timer is a no-op returning zero
// and an empty key.
func (t *Timer) Stop() (int64, string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return 0, ""
	}
	elapsed := int64(t.clock().Sub(t.startTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	key := t.issueKey
	t.active = false
	t.issueKey = ""
	t.issueSummary = ""
	t.startTime = time.Time{}
	t.lastNotifiedAt = time.Time{}
	return elapsed, key
}

// Snapshot returns the current state with Elapsed recomputed.
func (t *Timer) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(t.clock())
}

func (t *Timer) snapshotLocked(now time.Time) State {
	if !t.active {
		return State{}
	}
	elapsed := int64(now.Sub(t.startTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return State{
		Active:       true,
		IssueKey:     t.issueKey,
		IssueSummary: t.issueSummary,
		StartTime:    t.startTime.Unix(),
		Elapsed:      elapsed,
	}
}

// NotificationDue reports whether at least interval has passed since the
// run started or the last notification fired. When it reports true the
// notification baseline advances, so each interval fires exactly once.
func (t *Timer) NotificationDue(interval time.Duration) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || interval <= 0 {
		return State{}, false
	}
	now := t.clock()
	if now.Sub(t.lastNotifiedAt) < interval {
		return State{}, false
	}
	t.lastNotifiedAt = now
	return t.snapshotLocked(now), true
}
