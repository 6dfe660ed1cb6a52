package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	return store
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != nil {
		t.Fatalf("Load = %+v, want nil for missing file", token)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(Token{Token: "  secret  ", OrgID: " org-1 ", OrgType: "CLOUD"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token == nil {
		t.Fatalf("Load = nil after Save")
	}
	if token.Token != "secret" || token.OrgID != "org-1" {
		t.Fatalf("token = %+v, want trimmed values", token)
	}
	if token.OrgType != "cloud" {
		t.Fatalf("OrgType = %q, want canonical cloud", token.OrgType)
	}
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(Token{Token: "   "}); err == nil {
		t.Fatalf("Save accepted a blank token")
	}
}

func TestStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	store := newTestStore(t)
	if err := store.Save(Token{Token: "secret"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat returned error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}
}

func TestStore_ClearRemovesFileAndCache(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(Token{Token: "secret"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("session file still present after Clear")
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != nil {
		t.Fatalf("Load = %+v after Clear, want nil", token)
	}

	// Clearing again is a no-op.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}

func TestStore_CacheSurvivesExternalDelete(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(Token{Token: "secret"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	// Only Save and Clear invalidate the cache; an external delete is not
	// observed until then.
	if err := os.Remove(store.Path()); err != nil {
		t.Fatalf("remove file: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token == nil || token.Token != "secret" {
		t.Fatalf("Load = %+v, want cached token", token)
	}
}

func TestStore_LoadBlankTokenTreatedAsMissing(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte(`{"token":"  "}`), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if token != nil {
		t.Fatalf("Load = %+v, want nil for blank token", token)
	}
}
