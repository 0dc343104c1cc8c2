package memberclient

import (
	"path/filepath"
	"testing"
)

func TestFileTokenStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir)

	if _, err := store.Load(); err == nil {
		t.Fatalf("expected an error before any save")
	}

	if err := store.Save("token123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil || got != "token123" {
		t.Fatalf("Load returned %q, %v", got, err)
	}

	// The storage key is fixed so a fresh store over the same directory
	// finds the token, like a reloaded browser tab.
	if got, _ := NewFileTokenStore(dir).Load(); got != "token123" {
		t.Fatalf("expected the token under the fixed key, got %q", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear must be idempotent: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected an error after clear")
	}
}

func TestFileTokenStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	store := NewFileTokenStore(dir)

	if err := store.Save("token123"); err != nil {
		t.Fatalf("Save must create the directory: %v", err)
	}
	if got, _ := store.Load(); got != "token123" {
		t.Fatalf("unexpected token %q", got)
	}
}
