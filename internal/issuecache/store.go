// Package issuecache holds the latest issue list fetched from Tracker so
// the UI renders from memory between refreshes.
package issuecache

import (
	"fmt"
	"sync"
	"time"

	"github.com/sovego/ytrack/internal/tracker"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Issues              []tracker.Issue
	TotalCount          int64 // -1 when the server did not report a total
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the API has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// New returns an empty store with no reported total.
func New() *Store {
	return &Store{snapshot: Snapshot{TotalCount: -1}}
}

// Update replaces the stored issue list. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(issues []tracker.Issue, totalCount int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Issues = cloneIssues(issues)
	s.snapshot.TotalCount = totalCount
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Issues = cloneIssues(s.snapshot.Issues)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Find returns the cached issue with the given key, if present.
func (s *Store) Find(key string) (tracker.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, issue := range s.snapshot.Issues {
		if issue.Key == key {
			return issue, true
		}
	}
	return tracker.Issue{}, false
}

func cloneIssues(issues []tracker.Issue) []tracker.Issue {
	if len(issues) == 0 {
		return nil
	}
	dup := make([]tracker.Issue, len(issues))
	copy(dup, issues)
	return dup
}
