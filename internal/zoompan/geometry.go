// Package zoompan holds per-slide zoom and pan state, pan boundary
// detection and the swipe versus pan arbitration rule.
package zoompan

import (
	"math"
	"time"
)

const (
	MinScale        = 1.0
	MaxScale        = 8.0
	ZoomStep        = 0.5
	ZoomedThreshold = 1.05

	SettleDelay  = 100 * time.Millisecond
	PanInterval  = 16 * time.Millisecond
	HintCooldown = 500 * time.Millisecond
	HintDuration = time.Second

	BaseStep       = 50.0
	FastMultiplier = 2.5
	FineMultiplier = 0.25
	EdgeTolerance  = 1.0
)

// State is the transform of one slide. Positions are the offset of the
// scaled content's top-left corner relative to the viewport.
type State struct {
	Scale float64
	X     float64
	Y     float64
}

// Identity is the unzoomed transform.
func Identity() State {
	return State{Scale: 1}
}

// Viewport is the size of the area a slide is drawn in.
type Viewport struct {
	Width  float64
	Height float64
}

// Bounds is the range positions may take at a given scale.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// ComputeBounds returns the pan range for vp at scale. Content is
// vp scaled by scale; MaxX and MaxY are always 0.
func ComputeBounds(vp Viewport, scale float64) Bounds {
	contentW := vp.Width * scale
	contentH := vp.Height * scale
	return Bounds{
		MinX: math.Min(0, -(contentW - vp.Width)),
		MaxX: 0,
		MinY: math.Min(0, -(contentH - vp.Height)),
		MaxY: 0,
	}
}

// Clamp limits x and y to b.
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	return clampFloat(x, b.MinX, b.MaxX), clampFloat(y, b.MinY, b.MaxY)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Edge is the horizontal boundary a pan has reached. EdgeRight means the
// position sits at MaxX, EdgeLeft at MinX.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "none"
	}
}

// DetectEdge reports which horizontal edge x is within EdgeTolerance of.
// At scale 1 both edges coincide and EdgeRight wins.
func DetectEdge(b Bounds, x float64) Edge {
	switch {
	case math.Abs(x-b.MaxX) < EdgeTolerance:
		return EdgeRight
	case math.Abs(x-b.MinX) < EdgeTolerance:
		return EdgeLeft
	default:
		return EdgeNone
	}
}

// Direction is a pan or nudge direction. A direction names the way the
// content moves: Right increases X.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// Modifiers alter the keyboard nudge step.
type Modifiers struct {
	Fast bool // Shift
	Fine bool // Ctrl or Cmd
}

// StepSize returns the nudge distance for base step, scale and mods.
func StepSize(base, scale float64, mods Modifiers) float64 {
	if scale <= 0 {
		scale = MinScale
	}
	step := base / scale
	if mods.Fast {
		step *= FastMultiplier
	}
	if mods.Fine {
		step *= FineMultiplier
	}
	return step
}
