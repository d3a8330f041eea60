// Package settings persists the screen reader shortcut preference.
package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store reads and writes the preference. Implementations report errors;
// Service decides how to degrade.
type Store interface {
	Load() (bool, error)
	Save(enabled bool) error
}

type prefs struct {
	ScreenReaderEnabled bool `json:"screen_reader_enabled"`
}

// FileStore keeps the preference in a small JSON file.
type FileStore struct {
	Path string
}

// DefaultPath returns ~/.gallery_prefs.json, or a relative file when the
// home directory is unknown.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "gallery_prefs.json"
	}
	return filepath.Join(homeDir, ".gallery_prefs.json")
}

// Load returns false without error when the file does not exist.
func (s *FileStore) Load() (bool, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var p prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return false, fmt.Errorf("invalid preferences file %s: %w", s.Path, err)
	}
	return p.ScreenReaderEnabled, nil
}

func (s *FileStore) Save(enabled bool) error {
	data, err := json.MarshalIndent(prefs{ScreenReaderEnabled: enabled}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0644)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	enabled bool
	LoadErr error
	SaveErr error
	Saves   int
}

func (m *MemoryStore) Load() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return false, m.LoadErr
	}
	return m.enabled, nil
}

func (m *MemoryStore) Save(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.enabled = enabled
	return nil
}

// Service is the process-wide screen reader flag. It reads the store once
// at construction and writes it on every change. Store failures are
// logged and never surface to the caller.
type Service struct {
	mu      sync.Mutex
	store   Store
	enabled bool
}

func NewService(store Store) *Service {
	enabled, err := store.Load()
	if err != nil {
		log.Printf("Warning: Failed to read accessibility preference, using default: %v", err)
		enabled = false
	}
	return &Service{store: store, enabled: enabled}
}

// Enabled reports whether screen reader mode is on.
func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Set changes the flag and persists it.
func (s *Service) Set(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()

	if err := s.store.Save(enabled); err != nil {
		log.Printf("Warning: Failed to save accessibility preference: %v", err)
	}
}

// Toggle flips the flag and returns the new value.
func (s *Service) Toggle() bool {
	s.mu.Lock()
	s.enabled = !s.enabled
	enabled := s.enabled
	s.mu.Unlock()

	if err := s.store.Save(enabled); err != nil {
		log.Printf("Warning: Failed to save accessibility preference: %v", err)
	}
	return enabled
}

// Announcement returns the status message for the current mode.
func (s *Service) Announcement() string {
	if s.Enabled() {
		return "Screen reader mode enabled"
	}
	return "Screen reader mode disabled"
}
