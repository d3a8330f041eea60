package viewer

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"gallery/internal/config"
	"gallery/internal/prefetch"
	"gallery/internal/zoompan"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// LoadStatus is the state of the visible slide's image.
type LoadStatus int

const (
	StatusLoading LoadStatus = iota
	StatusReady
	StatusFailed
	StatusEmpty // The catalog has no images
)

// Stats summarizes cache and prefetch activity for the help overlay.
type Stats struct {
	Images           prefetch.Stats
	Thumbnails       prefetch.Stats
	ThumbnailsLoaded int
	CachedImages     int
	Textures         int
}

// RenderState provides read-only access to viewer state for the renderer
type RenderState interface {
	// Visible slide
	CurrentTexture() (*ebiten.Image, LoadStatus)
	CurrentLabel() string
	Transform() zoompan.State
	Position() (current, total int)
	IsFullscreen() bool
	HintVisible() bool

	// Thumbnail panel
	ThumbnailsOpen() bool
	ThumbnailGrid() Grid
	ThumbnailTexture(index int) *ebiten.Image

	// Overlays
	IsShowingHelp() bool
	ScreenReaderEnabled() bool
	OverlayMessage() (string, time.Time)
	Now() time.Time

	// Display data
	FontSize() float64
	ConfigStatus() config.ConfigLoadResult
	Keybindings() map[string][]string
	Stats() Stats
}
