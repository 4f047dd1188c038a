package task

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), DefaultFile), StoreOptions{})
}

func newTestStoreWithContent(t *testing.T, content string) *Store {
	t.Helper()
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}

func readStoreFile(t *testing.T, store *Store) []byte {
	t.Helper()
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}
	return data
}

func compactJSON(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		t.Fatalf("failed to compact %q: %v", string(data), err)
	}
	return buf.String()
}

func mustCreate(t *testing.T, store Tracker, description string) Task {
	t.Helper()
	created, err := store.Create(New(description))
	if err != nil {
		t.Fatalf("failed to create %q: %v", description, err)
	}
	return created
}

func stringPtr(value string) *string {
	return &value
}

func statusPtr(status Status) *Status {
	return &status
}
