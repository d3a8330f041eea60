package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeZip(t *testing.T, entries map[string]string, order []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close zip file: %v", err)
	}
	return path
}

func TestIsArchive(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"a.zip", true},
		{"a.ZIP", true},
		{"a.rar", true},
		{"a.7z", true},
		{"a.tar", false},
		{"a.png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsArchive(tt.path); got != tt.expected {
				t.Errorf("IsArchive(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestSplitLocator(t *testing.T) {
	tests := []struct {
		name        string
		locator     string
		wantArchive string
		wantEntry   string
		wantOK      bool
	}{
		{"zip entry", "photos.zip!/a/001.jpg", "photos.zip", "a/001.jpg", true},
		{"7z entry", "/tmp/x.7z!/b.png", "/tmp/x.7z", "b.png", true},
		{"plain file", "/tmp/x.png", "", "", false},
		{"not an archive", "dir!/b.png", "", "", false},
		{"empty entry", "x.zip!/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, e, ok := SplitLocator(tt.locator)
			if a != tt.wantArchive || e != tt.wantEntry || ok != tt.wantOK {
				t.Errorf("SplitLocator(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.locator, a, e, ok, tt.wantArchive, tt.wantEntry, tt.wantOK)
			}
		})
	}

	if got := Locator("x.zip", "y.png"); got != "x.zip!/y.png" {
		t.Errorf("Locator = %q", got)
	}
}

func TestListAndReadZip(t *testing.T) {
	entries := map[string]string{
		"b.png":     "bbb",
		"a.jpg":     "aaa",
		"notes.txt": "skip me",
	}
	path := writeZip(t, entries, []string{"b.png", "notes.txt", "a.jpg"})

	names, err := List(path, func(name string) bool {
		return !strings.HasSuffix(name, ".txt")
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff([]string{"b.png", "a.jpg"}, names); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	data, err := ReadEntry(path, "a.jpg")
	if err != nil {
		t.Fatalf("ReadEntry failed: %v", err)
	}
	if string(data) != "aaa" {
		t.Errorf("ReadEntry = %q, want %q", data, "aaa")
	}

	if _, err := ReadEntry(path, "missing.png"); err == nil {
		t.Error("Expected error for missing entry")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := List("x.tar", func(string) bool { return true }); err == nil {
		t.Error("Expected error listing unsupported archive")
	}
	if _, err := ReadEntry("x.tar", "a"); err == nil {
		t.Error("Expected error reading unsupported archive")
	}
}
