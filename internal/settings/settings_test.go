package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "prefs.json")}

	enabled, err := store.Load()
	if err != nil || enabled {
		t.Fatalf("missing file Load() = %v, %v; want false, nil", enabled, err)
	}

	if err := store.Save(true); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	enabled, err = store.Load()
	if err != nil || !enabled {
		t.Errorf("Load() = %v, %v; want true, nil", enabled, err)
	}
}

func TestServiceDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"enabled", `{"screen_reader_enabled": true}`, true},
		{"disabled", `{"screen_reader_enabled": false}`, false},
		{"corrupt", `{"screen_reader_enabled": tru`, false},
		{"wrong type", `{"screen_reader_enabled": "yes"}`, false},
		{"empty object", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			s := NewService(&FileStore{Path: path})
			if got := s.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceToggleWritesThrough(t *testing.T) {
	store := &MemoryStore{}
	s := NewService(store)

	if !s.Toggle() {
		t.Error("first Toggle() should enable")
	}
	if got := s.Announcement(); got != "Screen reader mode enabled" {
		t.Errorf("Announcement() = %q", got)
	}
	if enabled, _ := store.Load(); !enabled {
		t.Error("store should hold true after toggle")
	}

	s.Set(false)
	if s.Enabled() {
		t.Error("Set(false) should disable")
	}
	if store.Saves != 2 {
		t.Errorf("Saves = %d, want 2", store.Saves)
	}

	// A new service sees the persisted value.
	if NewService(store).Enabled() {
		t.Error("new service should read false")
	}
}

func TestServiceStoreFailures(t *testing.T) {
	store := &MemoryStore{LoadErr: errors.New("unreadable"), SaveErr: errors.New("read-only")}
	s := NewService(store)
	if s.Enabled() {
		t.Error("read failure should default to false")
	}
	if !s.Toggle() {
		t.Error("toggle should change the in-memory value even if saving fails")
	}
	if !s.Enabled() {
		t.Error("Enabled() should reflect the toggle")
	}
}

func TestFileStoreUnwritable(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "missing-dir", "prefs.json")}
	if err := store.Save(true); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
	s := NewService(store)
	s.Set(true)
	if !s.Enabled() {
		t.Error("Service should keep the value despite the write failure")
	}
}
