package zoompan

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gallery/internal/slider"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEngine(clock *fakeClock) (*Engine, *Hint) {
	hint := NewHint()
	e := NewEngine(Options{
		Clock:    clock.Now,
		Viewport: Viewport{Width: 100, Height: 80},
		Hint:     hint,
	})
	return e, hint
}

// zoomedEngine returns an engine at scale 2 positioned at (0, 0) with the
// Zoomed state settled.
func zoomedEngine(clock *fakeClock) (*Engine, *Hint) {
	e, hint := newTestEngine(clock)
	e.ZoomAt(0, 0, 2)
	clock.Advance(SettleDelay)
	return e, hint
}

func TestComputeBounds(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	tests := []struct {
		name  string
		scale float64
		want  Bounds
	}{
		{"identity", 1, Bounds{}},
		{"double", 2, Bounds{MinX: -800, MinY: -600}},
		{"one and a half", 1.5, Bounds{MinX: -400, MinY: -300}},
		{"below one never positive", 0.5, Bounds{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ComputeBounds(vp, tt.scale)); diff != "" {
				t.Errorf("bounds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetectEdge(t *testing.T) {
	b := Bounds{MinX: -100}
	tests := []struct {
		x    float64
		want Edge
	}{
		{0, EdgeRight},
		{-0.5, EdgeRight},
		{-1.5, EdgeNone},
		{-50, EdgeNone},
		{-99.5, EdgeLeft},
		{-100, EdgeLeft},
	}
	for _, tt := range tests {
		if got := DetectEdge(b, tt.x); got != tt.want {
			t.Errorf("DetectEdge(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestStepSize(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		mods  Modifiers
		want  float64
	}{
		{"plain", 2, Modifiers{}, 25},
		{"fast", 2, Modifiers{Fast: true}, 62.5},
		{"fine", 2, Modifiers{Fine: true}, 6.25},
		{"both", 2, Modifiers{Fast: true, Fine: true}, 15.625},
		{"identity", 1, Modifiers{}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepSize(BaseStep, tt.scale, tt.mods); got != tt.want {
				t.Errorf("StepSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	clock := newFakeClock()
	e, _ := newTestEngine(clock)

	e.ZoomAt(50, 40, 2)
	want := State{Scale: 2, X: -50, Y: -40}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	for i := 0; i < 20; i++ {
		e.ZoomIn()
	}
	if e.State().Scale != MaxScale {
		t.Errorf("scale = %v, want %v", e.State().Scale, MaxScale)
	}
	for i := 0; i < 20; i++ {
		e.ZoomOut()
	}
	if diff := cmp.Diff(Identity(), e.State()); diff != "" {
		t.Errorf("zooming out fully should restore identity (-want +got):\n%s", diff)
	}
}

func TestZoomedSettles(t *testing.T) {
	clock := newFakeClock()
	e, _ := newTestEngine(clock)

	e.ZoomIn()
	if !e.IsZoomed() {
		t.Error("zooming past the threshold should enter Zoomed at once")
	}
	if e.SwipeEnabled() {
		t.Error("swipe should be suppressed as soon as scale exceeds the threshold")
	}
	clock.Advance(SettleDelay)
	if !e.IsZoomed() {
		t.Error("Zoomed should hold after the delay")
	}

	e.ResetTransform()
	if !e.SwipeEnabled() {
		t.Error("swipe should be enabled right after reset")
	}
	if !e.IsZoomed() {
		t.Error("settled state lags the reset by the settle delay")
	}
	clock.Advance(SettleDelay)
	if e.IsZoomed() {
		t.Error("reset should settle to Idle")
	}
}

func TestSwipeSuppression(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		want  bool
	}{
		{"identity", 1.0, true},
		{"inside hysteresis band", 1.05, true},
		{"zoomed", 1.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(newFakeClock())
			e.ZoomAt(0, 0, tt.scale)
			if got := e.SwipeEnabled(); got != tt.want {
				t.Errorf("SwipeEnabled() at %v = %v, want %v", tt.scale, got, tt.want)
			}
		})
	}
}

func TestHintThrottling(t *testing.T) {
	clock := newFakeClock()
	t0 := clock.Now()
	h := NewHint()

	if !h.Trigger(t0) {
		t.Fatal("first trigger should show the hint")
	}
	if h.Trigger(t0.Add(200 * time.Millisecond)) {
		t.Error("trigger within the cooldown should be dropped")
	}
	if !h.Visible(t0.Add(999 * time.Millisecond)) {
		t.Error("hint should be visible for its full duration")
	}
	if h.Visible(t0.Add(HintDuration)) {
		t.Error("a dropped trigger must not extend visibility")
	}

	t1 := t0.Add(HintCooldown)
	if !h.Trigger(t1) {
		t.Error("trigger after the cooldown should restart the hint")
	}
	if !h.Visible(t1.Add(999 * time.Millisecond)) {
		t.Error("restarted hint should be visible")
	}

	h.Dismiss()
	if h.Visible(t1) {
		t.Error("dismissed hint should be hidden")
	}
}

func TestPanDetectsEdgeAndShowsHint(t *testing.T) {
	clock := newFakeClock()
	e, hint := zoomedEngine(clock)

	e.BeginDrag()
	e.Pan(-30, 0)
	if e.Boundary() != EdgeNone {
		t.Errorf("Boundary() = %v, want none", e.Boundary())
	}
	if hint.Visible(clock.Now()) {
		t.Error("hint should not show away from edges")
	}

	clock.Advance(20 * time.Millisecond)
	e.Pan(-500, 0)
	if got := e.State().X; got != -100 {
		t.Errorf("X = %v, want clamped -100", got)
	}
	if e.Boundary() != EdgeLeft {
		t.Errorf("Boundary() = %v, want left", e.Boundary())
	}
	if !hint.Visible(clock.Now()) {
		t.Error("pushing against the left edge should show the hint")
	}
	e.PanStop()
	if e.Dragging() {
		t.Error("PanStop should end the drag")
	}
}

func TestPanStartingAtEdgeShowsHint(t *testing.T) {
	clock := newFakeClock()
	e, hint := zoomedEngine(clock)

	// Already at MaxX; dragging right cannot move the content.
	e.BeginDrag()
	e.Pan(10, 0)
	if e.Boundary() != EdgeRight {
		t.Errorf("Boundary() = %v, want right", e.Boundary())
	}
	if !hint.Visible(clock.Now()) {
		t.Error("dragging past the right edge should show the hint")
	}
}

func TestPanObservationIsRateLimited(t *testing.T) {
	clock := newFakeClock()
	e, _ := zoomedEngine(clock)

	e.Pan(-100, 0)
	if e.Boundary() != EdgeLeft {
		t.Fatalf("Boundary() = %v, want left", e.Boundary())
	}

	clock.Advance(5 * time.Millisecond)
	e.Pan(50, 0)
	if e.State().X != -50 {
		t.Errorf("X = %v, position must update on every pan", e.State().X)
	}
	if e.Boundary() != EdgeLeft {
		t.Error("observation within the interval should be skipped")
	}

	clock.Advance(20 * time.Millisecond)
	e.Pan(1, 0)
	if e.Boundary() != EdgeNone {
		t.Errorf("Boundary() = %v, want none after the interval", e.Boundary())
	}
}

func TestPanWhileIdleNeverHints(t *testing.T) {
	clock := newFakeClock()
	e, hint := newTestEngine(clock)

	e.Pan(10, 0)
	if hint.Visible(clock.Now()) {
		t.Error("an unzoomed slide must not show the hint")
	}
	if diff := cmp.Diff(Identity(), e.State()); diff != "" {
		t.Errorf("unzoomed pan should not move content (-want +got):\n%s", diff)
	}
}

func TestNudge(t *testing.T) {
	clock := newFakeClock()

	t.Run("idle is not consumed", func(t *testing.T) {
		e, _ := newTestEngine(clock)
		if e.Nudge(DirectionLeft, Modifiers{}) {
			t.Error("Nudge should not be consumed when idle")
		}
	})

	t.Run("moves by scaled step", func(t *testing.T) {
		e, _ := zoomedEngine(clock)
		if !e.Nudge(DirectionLeft, Modifiers{}) {
			t.Fatal("Nudge should be consumed when zoomed")
		}
		e.Nudge(DirectionUp, Modifiers{Fast: true})
		want := State{Scale: 2, X: -25, Y: -62.5}
		if diff := cmp.Diff(want, e.State()); diff != "" {
			t.Errorf("state mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("blocked by edge shows hint", func(t *testing.T) {
		e, hint := zoomedEngine(clock)
		if !e.Nudge(DirectionRight, Modifiers{}) {
			t.Fatal("blocked nudge is still consumed")
		}
		if e.State().X != 0 {
			t.Errorf("X = %v, want 0", e.State().X)
		}
		if !hint.Visible(clock.Now()) {
			t.Error("blocked nudge should show the hint")
		}
	})

	t.Run("sub-pixel step away from edges shows no hint", func(t *testing.T) {
		hint := NewHint()
		e := NewEngine(Options{
			Clock:    clock.Now,
			Viewport: Viewport{Width: 100, Height: 80},
			Hint:     hint,
			BaseStep: 10,
		})
		e.ZoomAt(50, 40, MaxScale)
		for i := 0; i < 3; i++ {
			if !e.Nudge(DirectionLeft, Modifiers{Fine: true}) {
				t.Fatal("Nudge should be consumed when zoomed")
			}
		}
		if got, want := e.State().X, -350-3*10/MaxScale*FineMultiplier; got != want {
			t.Errorf("X = %v, want %v", got, want)
		}
		if hint.Visible(clock.Now()) {
			t.Error("hint should stay hidden away from the edges")
		}
	})

	t.Run("vertical nudge at an edge shows no hint", func(t *testing.T) {
		e, hint := zoomedEngine(clock)
		e.Nudge(DirectionDown, Modifiers{})
		if hint.Visible(clock.Now()) {
			t.Error("hint is for horizontal edges only")
		}
	})

	t.Run("clamped to bounds", func(t *testing.T) {
		e, _ := zoomedEngine(clock)
		for i := 0; i < 10; i++ {
			e.Nudge(DirectionLeft, Modifiers{Fast: true})
		}
		if e.State().X != -100 {
			t.Errorf("X = %v, want -100", e.State().X)
		}
	})

	t.Run("ignored while dragging", func(t *testing.T) {
		e, _ := zoomedEngine(clock)
		e.BeginDrag()
		if e.Nudge(DirectionLeft, Modifiers{}) {
			t.Error("Nudge should be ignored during a drag")
		}
		e.PanStop()
		if !e.Nudge(DirectionLeft, Modifiers{}) {
			t.Error("Nudge should resume after the drag")
		}
	})
}

func TestToggleZoom(t *testing.T) {
	e, _ := newTestEngine(newFakeClock())
	e.ToggleZoom(0, 0)
	if e.State().Scale != 2 {
		t.Errorf("scale = %v, want 2", e.State().Scale)
	}
	e.ToggleZoom(0, 0)
	if diff := cmp.Diff(Identity(), e.State()); diff != "" {
		t.Errorf("second toggle should reset (-want +got):\n%s", diff)
	}
}

func TestSetViewportReclamps(t *testing.T) {
	e, _ := zoomedEngine(newFakeClock())
	e.Pan(-100, -80)
	e.SetViewport(Viewport{Width: 50, Height: 40})
	want := State{Scale: 2, X: -50, Y: -40}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestZoomResetOnNavigation(t *testing.T) {
	clock := newFakeClock()
	arena := NewArena(clock.Now, Viewport{Width: 100, Height: 80})
	ctrl := slider.New(3, 0)
	ctrl.Subscribe(arena.HandleChange)

	arena.Current().ZoomIn()
	arena.Current().ZoomIn()
	clock.Advance(SettleDelay)
	if arena.SwipeEnabled() {
		t.Fatal("zoomed slide should suppress swipe")
	}

	ctrl.Next()
	if arena.CurrentID() != 1 {
		t.Errorf("CurrentID() = %d, want 1", arena.CurrentID())
	}
	if diff := cmp.Diff(Identity(), arena.Current().State()); diff != "" {
		t.Errorf("new slide not at identity (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Identity(), arena.Engine(0).State()); diff != "" {
		t.Errorf("previous slide kept its zoom (-want +got):\n%s", diff)
	}
	if arena.Current().IsZoomed() {
		t.Error("new slide should be Idle")
	}
}

func TestOnlyCurrentSlideGatesSwipe(t *testing.T) {
	arena := NewArena(newFakeClock().Now, Viewport{Width: 100, Height: 80})
	arena.Engine(2).ZoomAt(0, 0, 3)
	if !arena.SwipeEnabled() {
		t.Error("an off-screen slide's zoom must not suppress swipe")
	}
}

func TestArenaClear(t *testing.T) {
	arena := NewArena(newFakeClock().Now, Viewport{Width: 100, Height: 80})
	arena.SetCurrent(2)
	arena.Current().ZoomIn()
	arena.Clear()
	if arena.CurrentID() != 0 {
		t.Errorf("CurrentID() = %d, want 0", arena.CurrentID())
	}
	if diff := cmp.Diff(Identity(), arena.Engine(2).State()); diff != "" {
		t.Errorf("cleared arena kept state (-want +got):\n%s", diff)
	}
}

func TestArenaBaseStep(t *testing.T) {
	clock := newFakeClock()
	arena := NewArena(clock.Now, Viewport{Width: 100, Height: 80})
	arena.SetBaseStep(100)

	e := arena.Current()
	e.ZoomAt(0, 0, 2)
	clock.Advance(SettleDelay)
	if !e.Nudge(DirectionLeft, Modifiers{}) {
		t.Fatal("Nudge should be consumed when zoomed")
	}
	if got := e.State().X; got != -50 {
		t.Errorf("X = %v, want -50", got)
	}
}
