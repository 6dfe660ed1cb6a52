// Package session persists the Tracker credentials between runs.
// The session is stored in ~/.config/ytrack/session.json with owner-only
// permissions.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sovego/ytrack/internal/tracker"
)

// Token is the persisted credential set.
type Token struct {
	Token   string `json:"token"`
	OrgID   string `json:"org_id"`
	OrgType string `json:"org_type"`
}

// OrgTypeValue returns the parsed organization type.
func (t Token) OrgTypeValue() tracker.OrgType {
	return tracker.ParseOrgType(t.OrgType)
}

const defaultSessionPath = "~/.config/ytrack/session.json"

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Store reads and writes the session file. Reads are served from an
// in-memory cache that only Save and Clear invalidate, so repeated loads
// within one run cost a single disk read.
type Store struct {
	mu     sync.Mutex
	path   string
	cached *Token
	loaded bool
}

// NewStore builds a store over the given path; empty means the default.
func NewStore(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Path returns the resolved session file location.
func (s *Store) Path() string { return s.path }

// Load returns the persisted session, or (nil, nil) when none exists.
func (s *Store) Load() (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return cloneToken(s.cached), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cached = nil
			s.loaded = true
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	token.Token = strings.TrimSpace(token.Token)
	if token.Token == "" {
		s.cached = nil
		s.loaded = true
		return nil, nil
	}
	token.OrgID = strings.TrimSpace(token.OrgID)
	token.OrgType = token.OrgTypeValue().String()

	s.cached = &token
	s.loaded = true
	return cloneToken(s.cached), nil
}

// Save persists the session and refreshes the cache. The token is required;
// the org type is canonicalized before writing.
func (s *Store) Save(token Token) error {
	token.Token = strings.TrimSpace(token.Token)
	if token.Token == "" {
		return fmt.Errorf("session token is empty")
	}
	token.OrgID = strings.TrimSpace(token.OrgID)
	token.OrgType = token.OrgTypeValue().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.cached = &token
	s.loaded = true
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	s.cached = nil
	s.loaded = true
	return nil
}

func cloneToken(t *Token) *Token {
	if t == nil {
		return nil
	}
	dup := *t
	return &dup
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultSessionPath
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
