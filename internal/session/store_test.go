package session

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "chorus.db"))
	if err != nil {
		t.Fatalf("OpenPath() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	sess := Session{
		ServerURL: "http://localhost:8080",
		Token:     "tok-123",
		Username:  "alice",
	}
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load("http://localhost:8080")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned nil for saved session")
	}
	if loaded.Token != "tok-123" || loaded.Username != "alice" {
		t.Errorf("Load() = %+v, want token/username preserved", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set on save")
	}
}

func TestStore_SaveReplacesExisting(t *testing.T) {
	store := openTestStore(t)

	url := "http://localhost:8080"
	if err := store.Save(Session{ServerURL: url, Token: "old", Username: "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(Session{ServerURL: url, Token: "new", Username: "alice"}); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(url)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Token != "new" {
		t.Errorf("Token = %q, want replacement %q", loaded.Token, "new")
	}
}

func TestStore_LoadUnknownServer(t *testing.T) {
	store := openTestStore(t)

	loaded, err := store.Load("http://unknown:9999")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Load() = %+v, want nil for unknown server", loaded)
	}
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)

	url := "http://localhost:8080"
	if err := store.Save(Session{ServerURL: url, Token: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(url); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	loaded, err := store.Load(url)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != nil {
		t.Error("session should be gone after Clear()")
	}

	// Clearing again is fine.
	if err := store.Clear(url); err != nil {
		t.Errorf("Clear() on empty store error: %v", err)
	}
}
