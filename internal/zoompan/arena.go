package zoompan

import (
	"time"

	"gallery/internal/slider"
)

// Arena keeps one Engine per slide, keyed by descriptor id, and resets
// the slides involved in every navigation so zoom never survives a slide
// change.
type Arena struct {
	clock    func() time.Time
	viewport Viewport
	hint     *Hint
	baseStep float64
	engines  map[int]*Engine
	current  int
}

func NewArena(clock func() time.Time, vp Viewport) *Arena {
	if clock == nil {
		clock = time.Now
	}
	return &Arena{
		clock:    clock,
		viewport: vp,
		hint:     NewHint(),
		engines:  make(map[int]*Engine),
	}
}

// Engine returns the engine for slide id, creating it on first use.
func (a *Arena) Engine(id int) *Engine {
	e, ok := a.engines[id]
	if !ok {
		e = NewEngine(Options{Clock: a.clock, Viewport: a.viewport, Hint: a.hint, BaseStep: a.baseStep})
		a.engines[id] = e
	}
	return e
}

// Current returns the engine of the visible slide.
func (a *Arena) Current() *Engine {
	return a.Engine(a.current)
}

func (a *Arena) CurrentID() int {
	return a.current
}

// Hint returns the boundary hint shared by all slides.
func (a *Arena) Hint() *Hint {
	return a.hint
}

// SetCurrent makes id the visible slide, resetting both the slide being
// left and the one being shown.
func (a *Arena) SetCurrent(id int) {
	if e, ok := a.engines[a.current]; ok {
		e.reset()
	}
	a.current = id
	a.Engine(id).reset()
}

// HandleChange adapts SetCurrent to slider notifications.
func (a *Arena) HandleChange(ch slider.Change) {
	a.SetCurrent(ch.Current)
}

// SwipeEnabled reports whether the visible slide allows swiping.
func (a *Arena) SwipeEnabled() bool {
	return a.Current().SwipeEnabled()
}

// SetBaseStep sets the keyboard pan step used by slides created
// afterwards. Call it before the first Engine lookup.
func (a *Arena) SetBaseStep(step float64) {
	a.baseStep = step
}

// SetViewport resizes every slide.
func (a *Arena) SetViewport(vp Viewport) {
	a.viewport = vp
	for _, e := range a.engines {
		e.SetViewport(vp)
	}
}

// Clear drops every engine, as when the catalog is replaced.
func (a *Arena) Clear() {
	a.engines = make(map[int]*Engine)
	a.current = 0
	a.hint.Dismiss()
}
