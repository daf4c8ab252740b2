package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_SaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	first, err := store.Save("avatar.png", []byte("one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := store.Save("avatar.png", []byte("two"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if first == second {
		t.Errorf("Expected distinct names for same original, got %q twice", first)
	}
	for _, name := range []string{first, second} {
		if !strings.HasPrefix(name, "avatar-") || !strings.HasSuffix(name, ".png") {
			t.Errorf("Expected name to keep basename and extension, got %q", name)
		}
		if _, err := os.Stat(filepath.Join(store.Dir(), name)); err != nil {
			t.Errorf("Expected file %q to exist: %v", name, err)
		}
	}
}

func TestLocalStore_Delete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	name, err := store.Save("photo.jpg", []byte("data"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), name)); !os.IsNotExist(err) {
		t.Errorf("Expected file removed, stat err = %v", err)
	}

	// Deleting again (or a never-stored name) is not an error.
	if err := store.Delete(name); err != nil {
		t.Errorf("Expected missing file delete to be silent, got %v", err)
	}
	if err := store.Delete(""); err != nil {
		t.Errorf("Expected empty name delete to be silent, got %v", err)
	}
}

func TestLocalStore_DeleteDoesNotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "outside.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := NewLocalStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if err := store.Delete("../outside.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("Expected file outside the store to survive: %v", err)
	}
}
