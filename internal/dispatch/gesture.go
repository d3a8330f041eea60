package dispatch

import (
	"math"
	"time"

	"gallery/internal/debuglog"
	"gallery/internal/zoompan"
)

// MouseSettings contains pointer-specific configuration
type MouseSettings struct {
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
	DragThreshold    int     `json:"drag_threshold"`    // pixels before a press becomes a drag
	SwipeDistance    int     `json:"swipe_distance"`    // pixels of horizontal travel for a swipe
	WheelZoom        bool    `json:"wheel_zoom"`
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	WheelInverted    bool    `json:"wheel_inverted"`
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		DoubleClickTime:  300,
		DragThreshold:    5,
		SwipeDistance:    50,
		WheelZoom:        true,
		WheelSensitivity: 1.0,
		WheelInverted:    false,
	}
}

// Surface is the gesture target: the visible slide and the slide
// controller.
type Surface interface {
	SwipeEnabled() bool
	Prev()
	Next()

	BeginDrag()
	Pan(dx, dy float64)
	PanStop()
	ToggleZoom(x, y float64)
	ZoomBy(x, y, delta float64)
}

// Gesture is what a completed press/release sequence was recognized as.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureClick
	GestureDoubleClick
	GestureSwipe
	GesturePan
)

func (g Gesture) String() string {
	switch g {
	case GestureClick:
		return "click"
	case GestureDoubleClick:
		return "double-click"
	case GestureSwipe:
		return "swipe"
	case GesturePan:
		return "pan"
	default:
		return "none"
	}
}

type dragMode int

const (
	dragNone dragMode = iota
	dragPending
	dragSwipe
	dragPan
)

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime time.Time
	clickCount    int
}

// register records a click at now and reports whether it completes a
// double click.
func (t *DoubleClickTracker) register(now time.Time, window time.Duration) bool {
	if t.clickCount == 1 && now.Sub(t.lastClickTime) <= window {
		t.clickCount = 0
		t.lastClickTime = now
		return true
	}
	t.clickCount = 1
	t.lastClickTime = now
	return false
}

// GestureRecognizer turns raw pointer events into swipes, pans, double
// clicks and wheel zoom. A drag becomes a pan when the visible slide is
// zoomed at the moment the drag threshold is crossed, and a swipe
// otherwise.
type GestureRecognizer struct {
	settings MouseSettings
	surface  Surface
	clock    func() time.Time

	mode           dragMode
	startX, startY float64
	lastX, lastY   float64
	clicks         DoubleClickTracker
}

func NewGestureRecognizer(settings MouseSettings, surface Surface, clock func() time.Time) *GestureRecognizer {
	if clock == nil {
		clock = time.Now
	}
	return &GestureRecognizer{settings: settings, surface: surface, clock: clock}
}

// UpdateSettings updates the mouse settings
func (g *GestureRecognizer) UpdateSettings(settings MouseSettings) {
	g.settings = settings
}

// Press starts a pointer sequence at (x, y).
func (g *GestureRecognizer) Press(x, y float64) {
	g.mode = dragPending
	g.startX, g.startY = x, y
	g.lastX, g.lastY = x, y
}

// Move reports a pointer position while pressed.
func (g *GestureRecognizer) Move(x, y float64) {
	switch g.mode {
	case dragPending:
		if math.Hypot(x-g.startX, y-g.startY) < float64(g.settings.DragThreshold) {
			return
		}
		if g.surface.SwipeEnabled() {
			g.mode = dragSwipe
		} else {
			g.mode = dragPan
			g.surface.BeginDrag()
			g.surface.Pan(x-g.startX, y-g.startY)
		}
	case dragPan:
		g.surface.Pan(x-g.lastX, y-g.lastY)
	}
	g.lastX, g.lastY = x, y
}

// Release ends the sequence at (x, y) and returns what it was.
func (g *GestureRecognizer) Release(x, y float64) Gesture {
	mode := g.mode
	g.mode = dragNone

	switch mode {
	case dragPan:
		g.surface.PanStop()
		return GesturePan
	case dragSwipe:
		return g.finishSwipe(x-g.startX, y-g.startY)
	case dragPending:
		window := time.Duration(g.settings.DoubleClickTime) * time.Millisecond
		if g.clicks.register(g.clock(), window) {
			g.surface.ToggleZoom(x, y)
			return GestureDoubleClick
		}
		return GestureClick
	}
	return GestureNone
}

func (g *GestureRecognizer) finishSwipe(dx, dy float64) Gesture {
	if math.Abs(dx) < float64(g.settings.SwipeDistance) || math.Abs(dx) <= math.Abs(dy) {
		return GestureNone
	}
	// The slide may have been zoomed mid-drag.
	if !g.surface.SwipeEnabled() {
		return GestureNone
	}
	if dx < 0 {
		debuglog.Printf("Swipe left: next")
		g.surface.Next()
	} else {
		debuglog.Printf("Swipe right: previous")
		g.surface.Prev()
	}
	return GestureSwipe
}

// Cancel drops an in-progress sequence, e.g. when the window loses focus.
func (g *GestureRecognizer) Cancel() {
	if g.mode == dragPan {
		g.surface.PanStop()
	}
	g.mode = dragNone
}

// Wheel zooms around (x, y); positive dy zooms in. It reports whether the
// wheel was consumed.
func (g *GestureRecognizer) Wheel(x, y, dy float64) bool {
	if !g.settings.WheelZoom || dy == 0 {
		return false
	}
	if g.settings.WheelInverted {
		dy = -dy
	}
	g.surface.ZoomBy(x, y, dy*g.settings.WheelSensitivity*zoompan.ZoomStep)
	return true
}
