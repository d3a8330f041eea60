package zoompan

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Hint is the transient "reset zoom to swipe" message shown when a pan
// pushes against an edge. Triggers closer than HintCooldown are dropped
// without extending the visible window.
type Hint struct {
	mu           sync.Mutex
	limiter      *rate.Limiter
	duration     time.Duration
	visibleUntil time.Time
}

func NewHint() *Hint {
	return &Hint{
		limiter:  rate.NewLimiter(rate.Every(HintCooldown), 1),
		duration: HintDuration,
	}
}

// Trigger shows the hint at now unless one was shown less than
// HintCooldown ago. It reports whether the hint was (re)started.
func (h *Hint) Trigger(now time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.limiter.AllowN(now, 1) {
		return false
	}
	h.visibleUntil = now.Add(h.duration)
	return true
}

// Visible reports whether the hint is on screen at now.
func (h *Hint) Visible(now time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return now.Before(h.visibleUntil)
}

// Dismiss hides the hint immediately.
func (h *Hint) Dismiss() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visibleUntil = time.Time{}
}
