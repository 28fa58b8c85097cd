package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func setupTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	tmpDir := filepath.Join(t.TempDir(), "uploads")
	return NewLocalStorage(tmpDir), tmpDir
}

func TestSaveAndOpen(t *testing.T) {
	storage, _ := setupTestStorage(t)

	data := []byte("Hello, World!")
	size, err := storage.Save("user_1_1.png", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if size != int64(len(data)) {
		t.Errorf("expected size %d, got %d", len(data), size)
	}

	f, err := storage.Open("user_1_1.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read stored file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("stored bytes differ: expected %q, got %q", data, got)
	}
}

func TestSaveCreatesBaseDir(t *testing.T) {
	storage, tmpDir := setupTestStorage(t)

	if _, err := os.Stat(tmpDir); !os.IsNotExist(err) {
		t.Fatalf("base dir should not exist before first save")
	}

	if _, err := storage.Save("a.png", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(tmpDir); err != nil {
		t.Errorf("base dir should exist after save: %v", err)
	}
}

func TestSaveReplacesExistingFile(t *testing.T) {
	storage, _ := setupTestStorage(t)

	if _, err := storage.Save("a.png", bytes.NewReader([]byte("first"))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := storage.Save("a.png", bytes.NewReader([]byte("second"))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := storage.Open("a.png")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, _ := io.ReadAll(f)
	if string(got) != "second" {
		t.Errorf("expected replaced content 'second', got %q", got)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	storage, tmpDir := setupTestStorage(t)

	if _, err := storage.Save("a.png", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("failed to read base dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.png" {
		t.Errorf("expected only a.png in base dir, got %v", entries)
	}
}

func TestOpenMissingFile(t *testing.T) {
	storage, _ := setupTestStorage(t)

	_, err := storage.Open("missing.png")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
