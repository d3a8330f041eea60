// Package slider owns the current slide index of a gallery.
package slider

import (
	"errors"
	"fmt"
	"sync"
)

// ErrIndexOutOfRange is returned by GoTo for an index outside [0, length).
var ErrIndexOutOfRange = errors.New("slide index out of range")

// NavigationDirection describes how the current index was reached.
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

func (d NavigationDirection) String() string {
	switch d {
	case NavigationForward:
		return "forward"
	case NavigationBackward:
		return "backward"
	default:
		return "jump"
	}
}

// Change is delivered to subscribers after every index change.
type Change struct {
	Previous  int
	Current   int
	Direction NavigationDirection
}

// Controller is the single writer of the current index. Subscribers are
// called synchronously, outside the controller's lock, in subscription
// order.
type Controller struct {
	mu      sync.Mutex
	current int
	length  int

	nextID      int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(Change)
}

// New creates a controller over length slides starting at initial.
// initial is clamped into range.
func New(length, initial int) *Controller {
	c := &Controller{length: max(length, 0)}
	c.current = clamp(initial, c.length)
	return c
}

func clamp(i, length int) int {
	if length == 0 || i < 0 {
		return 0
	}
	if i >= length {
		return length - 1
	}
	return i
}

// Current returns the current index. It is 0 for an empty gallery.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Len returns the number of slides.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.length
}

// Subscribe registers fn for index changes and returns a function that
// removes it.
func (c *Controller) Subscribe(fn func(Change)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Prev moves to the previous slide, wrapping to the last. It reports
// whether the index changed.
func (c *Controller) Prev() bool {
	return c.move(func(cur, n int) int { return (cur - 1 + n) % n }, NavigationBackward)
}

// Next moves to the next slide, wrapping to the first.
func (c *Controller) Next() bool {
	return c.move(func(cur, n int) int { return (cur + 1) % n }, NavigationForward)
}

// GoTo jumps to index i. Out-of-range input leaves the index unchanged.
func (c *Controller) GoTo(i int) error {
	c.mu.Lock()
	if i < 0 || i >= c.length {
		n := c.length
		c.mu.Unlock()
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
	}
	c.mu.Unlock()

	c.move(func(int, int) int { return i }, NavigationJump)
	return nil
}

// First jumps to index 0.
func (c *Controller) First() bool {
	return c.move(func(int, int) int { return 0 }, NavigationJump)
}

// Last jumps to the final index.
func (c *Controller) Last() bool {
	return c.move(func(_, n int) int { return n - 1 }, NavigationJump)
}

// SetLength replaces the slide count after a catalog change. The current
// index is clamped and subscribers are notified even when it is unchanged,
// so they can restart for the new catalog.
func (c *Controller) SetLength(length int) {
	c.mu.Lock()
	prev := c.current
	c.length = max(length, 0)
	c.current = clamp(c.current, c.length)
	change := Change{Previous: prev, Current: c.current, Direction: NavigationJump}
	subs := c.snapshot()
	c.mu.Unlock()

	notify(subs, change)
}

func (c *Controller) move(next func(cur, n int) int, dir NavigationDirection) bool {
	c.mu.Lock()
	if c.length == 0 {
		c.mu.Unlock()
		return false
	}
	prev := c.current
	c.current = next(prev, c.length)
	if c.current == prev {
		c.mu.Unlock()
		return false
	}
	change := Change{Previous: prev, Current: c.current, Direction: dir}
	subs := c.snapshot()
	c.mu.Unlock()

	notify(subs, change)
	return true
}

func (c *Controller) snapshot() []func(Change) {
	fns := make([]func(Change), len(c.subscribers))
	for i, s := range c.subscribers {
		fns[i] = s.fn
	}
	return fns
}

func notify(fns []func(Change), change Change) {
	for _, fn := range fns {
		fn(change)
	}
}
