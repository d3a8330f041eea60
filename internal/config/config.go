// Package config loads and saves the viewer's JSON configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gallery/internal/catalog"
	"gallery/internal/dispatch"
	"gallery/internal/loader"
	"gallery/internal/prefetch"
	"gallery/internal/zoompan"
)

// Window size constants
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
	MinWidth      = 400
	MinHeight     = 300
)

const (
	MaxCacheSize     = 256
	MinPreloadRadius = 1
	MaxPreloadRadius = 4
	MinHelpFontSize  = 12.0
	DefaultHelpFont  = 20.0
)

// Load status values.
const (
	StatusOK      = "OK"
	StatusDefault = "Default"
	StatusWarning = "Warning"
	StatusError   = "Error"
)

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth                  int                    `json:"window_width"`
	WindowHeight                 int                    `json:"window_height"`
	Fullscreen                   bool                   `json:"fullscreen"`
	SortMethod                   int                    `json:"sort_method"`
	CacheSize                    int                    `json:"cache_size"`
	ThumbnailBatchSize           int                    `json:"thumbnail_batch_size"`
	ThumbnailBatchDelayMs        int                    `json:"thumbnail_batch_delay_ms"`
	PreloadRadius                int                    `json:"preload_radius"`
	PanStep                      float64                `json:"pan_step"`
	ArrowsNavigateWithThumbnails bool                   `json:"arrows_navigate_with_thumbnails"`
	HelpFontSize                 float64                `json:"help_font_size"`
	Keybindings                  map[string][]string    `json:"keybindings"`
	Mouse                        dispatch.MouseSettings `json:"mouse"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WindowWidth:           DefaultWidth,
		WindowHeight:          DefaultHeight,
		SortMethod:            catalog.SortNatural,
		CacheSize:             loader.DefaultCacheSize,
		ThumbnailBatchSize:    prefetch.DefaultBatchSize,
		ThumbnailBatchDelayMs: int(prefetch.DefaultBatchDelay / time.Millisecond),
		PreloadRadius:         prefetch.DefaultRadius,
		PanStep:               zoompan.BaseStep,
		HelpFontSize:          DefaultHelpFont,
		Keybindings:           dispatch.GetDefaultKeybindings(),
		Mouse:                 dispatch.GetDefaultMouseSettings(),
	}
}

// ThumbnailBatchDelay returns the pause between thumbnail batches.
func (c Config) ThumbnailBatchDelay() time.Duration {
	return time.Duration(c.ThumbnailBatchDelayMs) * time.Millisecond
}

// DefaultPath returns GALLERY_CONFIG if set, otherwise ~/.gallery.json.
func DefaultPath() string {
	if p := os.Getenv("GALLERY_CONFIG"); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "gallery.json"
	}
	return filepath.Join(homeDir, ".gallery.json")
}

// Load reads the configuration at path. A missing file yields the
// defaults with status "Default"; a malformed one yields the defaults
// with status "Error".
func Load(path string) ConfigLoadResult {
	config := Default()
	result := ConfigLoadResult{
		Config:   config,
		Warnings: []string{},
		Status:   StatusOK,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Status = StatusDefault
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", path, err)
		result.HasError = true
		result.Status = StatusError
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	normalize(&config)

	if warning := resolveKeybindings(&config); warning != "" {
		log.Printf("Warning: Keybinding problems in %s: %s", path, warning)
		result.Status = StatusWarning
		result.Warnings = append(result.Warnings, "Keybinding errors: "+warning)
	}

	result.Config = config
	return result
}

// normalize replaces or clamps out-of-range values.
func normalize(c *Config) {
	d := Default()

	if c.WindowWidth < MinWidth {
		c.WindowWidth = d.WindowWidth
	}
	if c.WindowHeight < MinHeight {
		c.WindowHeight = d.WindowHeight
	}

	if c.SortMethod < catalog.SortNatural || c.SortMethod > catalog.SortEntryOrder {
		c.SortMethod = d.SortMethod
	}

	if c.CacheSize < 1 {
		c.CacheSize = d.CacheSize
	} else if c.CacheSize > MaxCacheSize {
		c.CacheSize = MaxCacheSize
	}

	if c.ThumbnailBatchSize < 1 {
		c.ThumbnailBatchSize = d.ThumbnailBatchSize
	}
	if c.ThumbnailBatchDelayMs <= 0 {
		c.ThumbnailBatchDelayMs = d.ThumbnailBatchDelayMs
	}

	if c.PreloadRadius < MinPreloadRadius {
		c.PreloadRadius = d.PreloadRadius
	} else if c.PreloadRadius > MaxPreloadRadius {
		c.PreloadRadius = MaxPreloadRadius
	}

	if c.PanStep <= 0 {
		c.PanStep = d.PanStep
	}

	// Minimum 12px for readability
	if c.HelpFontSize < MinHelpFontSize {
		c.HelpFontSize = d.HelpFontSize
	}

	m := &c.Mouse
	if m.DoubleClickTime <= 0 {
		m.DoubleClickTime = d.Mouse.DoubleClickTime
	}
	if m.DragThreshold <= 0 {
		m.DragThreshold = d.Mouse.DragThreshold
	}
	if m.SwipeDistance <= 0 {
		m.SwipeDistance = d.Mouse.SwipeDistance
	}
	if m.WheelSensitivity <= 0 {
		m.WheelSensitivity = d.Mouse.WheelSensitivity
	}
}

// resolveKeybindings fills in actions missing from c.Keybindings, drops
// unknown actions and falls back to the defaults when the result does not
// validate. It returns a description of what was wrong, or "".
func resolveKeybindings(c *Config) string {
	defaults := dispatch.GetDefaultKeybindings()
	if c.Keybindings == nil {
		c.Keybindings = defaults
		return ""
	}

	var warning string
	for action := range c.Keybindings {
		if !dispatch.IsAction(action) {
			log.Printf("Warning: Ignoring keybindings for unknown action %q", action)
			delete(c.Keybindings, action)
			warning = fmt.Sprintf("unknown action %q", action)
		}
	}
	for action, keys := range defaults {
		if _, exists := c.Keybindings[action]; !exists {
			c.Keybindings[action] = keys
		}
	}

	if err := dispatch.ValidateKeybindings(c.Keybindings); err != nil {
		c.Keybindings = defaults
		return err.Error()
	}
	return warning
}

// Save writes config to path. A config with a window smaller than the
// minimum is not saved.
func Save(config Config, path string) error {
	if config.WindowWidth < MinWidth || config.WindowHeight < MinHeight {
		return fmt.Errorf("not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}
	return nil
}
