package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gallery/internal/dispatch"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	result := Load(filepath.Join(t.TempDir(), "missing.json"))
	if result.Status != StatusDefault {
		t.Errorf("Status = %q, want %q", result.Status, StatusDefault)
	}
	if result.HasError {
		t.Error("missing file should not be an error")
	}
	if diff := cmp.Diff(Default(), result.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	result := Load(writeConfig(t, `{"window_width": 900,`))
	if result.Status != StatusError || !result.HasError {
		t.Errorf("Status = %q HasError = %v, want Error/true", result.Status, result.HasError)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one entry", result.Warnings)
	}
	if result.Config.WindowWidth != DefaultWidth {
		t.Errorf("WindowWidth = %d, want default %d", result.Config.WindowWidth, DefaultWidth)
	}
}

func TestLoadValues(t *testing.T) {
	path := writeConfig(t, `{
		"window_width": 1280,
		"window_height": 720,
		"fullscreen": true,
		"cache_size": 64,
		"thumbnail_batch_size": 10,
		"thumbnail_batch_delay_ms": 150,
		"preload_radius": 3,
		"pan_step": 80,
		"arrows_navigate_with_thumbnails": true,
		"mouse": {"wheel_zoom": false, "swipe_distance": 120}
	}`)

	result := Load(path)
	if result.Status != StatusOK {
		t.Fatalf("Status = %q, want OK (warnings %v)", result.Status, result.Warnings)
	}

	want := Default()
	want.WindowWidth = 1280
	want.WindowHeight = 720
	want.Fullscreen = true
	want.CacheSize = 64
	want.ThumbnailBatchSize = 10
	want.ThumbnailBatchDelayMs = 150
	want.PreloadRadius = 3
	want.PanStep = 80
	want.ArrowsNavigateWithThumbnails = true
	want.Mouse.WheelZoom = false
	want.Mouse.SwipeDistance = 120

	if diff := cmp.Diff(want, result.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got := result.Config.ThumbnailBatchDelay(); got != 150*time.Millisecond {
		t.Errorf("ThumbnailBatchDelay() = %v, want 150ms", got)
	}
}

func TestLoadClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(Config) bool
	}{
		{"small window", `{"window_width": 100, "window_height": 50}`, func(c Config) bool {
			return c.WindowWidth == DefaultWidth && c.WindowHeight == DefaultHeight
		}},
		{"cache too large", `{"cache_size": 1000}`, func(c Config) bool { return c.CacheSize == MaxCacheSize }},
		{"cache zero", `{"cache_size": 0}`, func(c Config) bool { return c.CacheSize == 32 }},
		{"radius too large", `{"preload_radius": 9}`, func(c Config) bool { return c.PreloadRadius == MaxPreloadRadius }},
		{"radius zero", `{"preload_radius": 0}`, func(c Config) bool { return c.PreloadRadius == 2 }},
		{"negative batch", `{"thumbnail_batch_size": -1, "thumbnail_batch_delay_ms": -5}`, func(c Config) bool {
			return c.ThumbnailBatchSize == 5 && c.ThumbnailBatchDelay() == 300*time.Millisecond
		}},
		{"sort method", `{"sort_method": 7}`, func(c Config) bool { return c.SortMethod == 0 }},
		{"pan step", `{"pan_step": -3}`, func(c Config) bool { return c.PanStep == 50 }},
		{"font size", `{"help_font_size": 4}`, func(c Config) bool { return c.HelpFontSize == DefaultHelpFont }},
		{"mouse", `{"mouse": {"double_click_time": 0, "drag_threshold": -1}}`, func(c Config) bool {
			return c.Mouse.DoubleClickTime == 300 && c.Mouse.DragThreshold == 5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Load(writeConfig(t, tt.content))
			if result.Status != StatusOK {
				t.Errorf("Status = %q, want OK", result.Status)
			}
			if !tt.check(result.Config) {
				t.Errorf("unexpected config: %+v", result.Config)
			}
		})
	}
}

func TestLoadKeybindings(t *testing.T) {
	t.Run("partial override keeps other defaults", func(t *testing.T) {
		result := Load(writeConfig(t, `{"keybindings": {"exit": ["KeyX"]}}`))
		if result.Status != StatusOK {
			t.Fatalf("Status = %q, warnings %v", result.Status, result.Warnings)
		}
		if diff := cmp.Diff([]string{"KeyX"}, result.Config.Keybindings["exit"]); diff != "" {
			t.Errorf("exit keys mismatch (-want +got):\n%s", diff)
		}
		want := dispatch.GetDefaultKeybindings()["next"]
		if diff := cmp.Diff(want, result.Config.Keybindings["next"]); diff != "" {
			t.Errorf("next keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("conflict falls back to defaults", func(t *testing.T) {
		result := Load(writeConfig(t, `{"keybindings": {"exit": ["KeyF"]}}`))
		if result.Status != StatusWarning {
			t.Errorf("Status = %q, want Warning", result.Status)
		}
		if diff := cmp.Diff(dispatch.GetDefaultKeybindings(), result.Config.Keybindings); diff != "" {
			t.Errorf("keybindings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown key falls back to defaults", func(t *testing.T) {
		result := Load(writeConfig(t, `{"keybindings": {"exit": ["Hyper+KeyQ"]}}`))
		if result.Status != StatusWarning {
			t.Errorf("Status = %q, want Warning", result.Status)
		}
		if diff := cmp.Diff(dispatch.GetDefaultKeybindings()["exit"], result.Config.Keybindings["exit"]); diff != "" {
			t.Errorf("exit keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown action is dropped", func(t *testing.T) {
		result := Load(writeConfig(t, `{"keybindings": {"rotate": ["KeyR"]}}`))
		if result.Status != StatusWarning {
			t.Errorf("Status = %q, want Warning", result.Status)
		}
		if _, ok := result.Config.Keybindings["rotate"]; ok {
			t.Error("unknown action should be removed")
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	config := Default()
	config.WindowWidth = 1600
	config.WindowHeight = 900
	config.PreloadRadius = 1

	if err := Save(config, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	result := Load(path)
	if result.Status != StatusOK {
		t.Fatalf("Status = %q", result.Status)
	}
	if diff := cmp.Diff(config, result.Config); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRejectsSmallWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	config := Default()
	config.WindowWidth = 10

	if err := Save(config, path); err == nil {
		t.Error("Expected error for a window below the minimum size")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("nothing should be written")
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv("GALLERY_CONFIG", "/tmp/custom.json")
	if got := DefaultPath(); got != "/tmp/custom.json" {
		t.Errorf("DefaultPath() = %q", got)
	}
}
