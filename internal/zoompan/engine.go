package zoompan

import (
	"time"

	"golang.org/x/time/rate"
)

// Options configure an Engine. A nil Clock uses time.Now, a nil Hint
// disables hint emission and a zero BaseStep uses BaseStep.
type Options struct {
	Clock    func() time.Time
	Viewport Viewport
	Hint     *Hint
	BaseStep float64
}

// Engine is the zoom and pan state machine of one slide. It is driven
// from the UI goroutine and is not safe for concurrent use.
type Engine struct {
	clock    func() time.Time
	viewport Viewport
	hint     *Hint
	baseStep float64
	state    State

	// zoomed is the Zoomed/Idle state. Zooming past the threshold enters
	// Zoomed at once; leaving it is recomputed SettleDelay after a change.
	zoomed   bool
	settleAt time.Time

	dragging bool
	lastX    float64
	panDir   Direction
	boundary Edge
	observe  *rate.Limiter
}

func NewEngine(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.BaseStep <= 0 {
		opts.BaseStep = BaseStep
	}
	return &Engine{
		clock:    opts.Clock,
		viewport: opts.Viewport,
		hint:     opts.Hint,
		baseStep: opts.BaseStep,
		state:    Identity(),
		observe:  rate.NewLimiter(rate.Every(PanInterval), 1),
	}
}

// State returns the current transform.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Viewport() Viewport {
	return e.viewport
}

// SetViewport changes the viewport size and re-clamps the position.
func (e *Engine) SetViewport(vp Viewport) {
	e.viewport = vp
	e.state.X, e.state.Y = e.Bounds().Clamp(e.state.X, e.state.Y)
}

// Bounds returns the pan range at the current scale.
func (e *Engine) Bounds() Bounds {
	return ComputeBounds(e.viewport, e.state.Scale)
}

// Boundary returns the edge detected by the last observed pan.
func (e *Engine) Boundary() Edge {
	return e.boundary
}

// IsZoomed reports the Zoomed state used for keyboard gating and hint
// emission.
func (e *Engine) IsZoomed() bool {
	e.settle(e.clock())
	return e.zoomed
}

// SwipeEnabled reports whether a horizontal swipe on this slide should
// change slides. It reads the live scale so a swipe is suppressed as soon
// as the slide is zoomed.
func (e *Engine) SwipeEnabled() bool {
	return e.state.Scale <= ZoomedThreshold
}

func (e *Engine) settle(now time.Time) {
	if e.settleAt.IsZero() || now.Before(e.settleAt) {
		return
	}
	e.zoomed = e.state.Scale > ZoomedThreshold
	e.settleAt = time.Time{}
}

func (e *Engine) scheduleSettle() {
	e.settleAt = e.clock().Add(SettleDelay)
}

// ZoomIn increases the scale by ZoomStep around the viewport center.
func (e *Engine) ZoomIn() {
	e.ZoomAt(e.viewport.Width/2, e.viewport.Height/2, e.state.Scale+ZoomStep)
}

// ZoomOut decreases the scale by ZoomStep around the viewport center.
func (e *Engine) ZoomOut() {
	e.ZoomAt(e.viewport.Width/2, e.viewport.Height/2, e.state.Scale-ZoomStep)
}

// ZoomAt sets the scale to target, keeping the viewport point (cx, cy)
// fixed on the content.
func (e *Engine) ZoomAt(cx, cy, target float64) {
	target = clampFloat(target, MinScale, MaxScale)
	old := e.state
	if target == old.Scale {
		return
	}
	ratio := target / old.Scale
	x := cx - (cx-old.X)*ratio
	y := cy - (cy-old.Y)*ratio

	e.state.Scale = target
	e.state.X, e.state.Y = e.Bounds().Clamp(x, y)
	e.lastX = e.state.X
	if target > ZoomedThreshold {
		e.zoomed = true
	}
	e.scheduleSettle()
}

// ToggleZoom zooms to 2x around (cx, cy) when idle and resets otherwise.
func (e *Engine) ToggleZoom(cx, cy float64) {
	if e.state.Scale > ZoomedThreshold {
		e.ResetTransform()
		return
	}
	e.ZoomAt(cx, cy, 2)
}

// ResetTransform returns to the identity transform. The settled state
// follows after SettleDelay.
func (e *Engine) ResetTransform() {
	e.state = Identity()
	e.lastX = 0
	e.panDir = DirectionNone
	e.boundary = EdgeNone
	e.scheduleSettle()
}

// reset returns to identity immediately, as on a slide change.
func (e *Engine) reset() {
	e.state = Identity()
	e.zoomed = false
	e.settleAt = time.Time{}
	e.dragging = false
	e.lastX = 0
	e.panDir = DirectionNone
	e.boundary = EdgeNone
	if e.hint != nil {
		e.hint.Dismiss()
	}
}

// BeginDrag marks a pointer drag in progress; keyboard nudges are ignored
// until PanStop.
func (e *Engine) BeginDrag() {
	e.dragging = true
}

// Dragging reports whether a pointer drag is in progress.
func (e *Engine) Dragging() bool {
	return e.dragging
}

// Pan moves the content by (dx, dy), clamped to the bounds. While zoomed,
// the move is observed at most once per PanInterval for edge detection.
func (e *Engine) Pan(dx, dy float64) {
	e.state.X, e.state.Y = e.Bounds().Clamp(e.state.X+dx, e.state.Y+dy)

	now := e.clock()
	e.settle(now)
	if !e.zoomed || !e.observe.AllowN(now, 1) {
		return
	}
	e.observePan(now, dx)
}

func (e *Engine) observePan(now time.Time, dx float64) {
	x := e.state.X
	switch {
	case x < e.lastX:
		e.panDir = DirectionLeft
	case x > e.lastX:
		e.panDir = DirectionRight
	case dx < 0:
		e.panDir = DirectionLeft
	case dx > 0:
		e.panDir = DirectionRight
	}

	e.boundary = DetectEdge(e.Bounds(), x)
	if (e.boundary == EdgeRight && e.panDir == DirectionRight) ||
		(e.boundary == EdgeLeft && e.panDir == DirectionLeft) {
		e.showHint(now)
	}
	e.lastX = x
}

// PanStop ends a drag and forgets the pan direction.
func (e *Engine) PanStop() {
	e.dragging = false
	e.panDir = DirectionNone
}

// Nudge moves the content one keyboard step in dir. It reports whether the
// key was consumed, which requires the slide to be zoomed with no drag in
// progress. A horizontal nudge toward an edge already reached shows the
// hint.
func (e *Engine) Nudge(dir Direction, mods Modifiers) bool {
	now := e.clock()
	e.settle(now)
	if !e.zoomed || e.dragging {
		return false
	}

	step := StepSize(e.baseStep, e.state.Scale, mods)
	x, y := e.state.X, e.state.Y
	switch dir {
	case DirectionLeft:
		x -= step
	case DirectionRight:
		x += step
	case DirectionUp:
		y -= step
	case DirectionDown:
		y += step
	default:
		return false
	}

	b := e.Bounds()
	blocked := (dir == DirectionRight && DetectEdge(b, e.state.X) == EdgeRight) ||
		(dir == DirectionLeft && DetectEdge(b, e.state.X) == EdgeLeft)

	nx, ny := b.Clamp(x, y)
	e.state.X, e.state.Y = nx, ny
	e.lastX = nx
	e.boundary = DetectEdge(b, nx)
	if blocked {
		e.showHint(now)
	}
	return true
}

func (e *Engine) showHint(now time.Time) {
	if e.hint != nil {
		e.hint.Trigger(now)
	}
}
