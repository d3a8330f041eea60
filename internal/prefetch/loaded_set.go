// Package prefetch warms the image loader ahead of rendering and records
// which indices are ready to draw.
package prefetch

import (
	"context"
	"sort"
	"sync"
	"time"

	"gallery/internal/catalog"
)

// LoadedSet records the indices whose image bytes are confirmed loaded.
// It only grows during a prefetch session; a new session gets a new set.
// Only the owning prefetcher writes to it.
type LoadedSet struct {
	mu      sync.RWMutex
	items   map[int]catalog.ImageDescriptor
	version uint64
}

func newLoadedSet() *LoadedSet {
	return &LoadedSet{items: make(map[int]catalog.ImageDescriptor)}
}

func (s *LoadedSet) add(index int, d catalog.ImageDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[index]; ok {
		return
	}
	s.items[index] = d
	s.version++
}

// Has reports whether index is loaded. A nil set is empty.
func (s *LoadedSet) Has(index int) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[index]
	return ok
}

// Get returns the descriptor recorded for index.
func (s *LoadedSet) Get(index int) (catalog.ImageDescriptor, bool) {
	if s == nil {
		return catalog.ImageDescriptor{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.items[index]
	return d, ok
}

func (s *LoadedSet) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version increases on every insertion; renderers compare it to decide
// whether to redraw.
func (s *LoadedSet) Version() uint64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Indices returns the loaded indices in ascending order.
func (s *LoadedSet) Indices() []int {
	if s == nil {
		return []int{}
	}
	s.mu.RLock()
	out := make([]int, 0, len(s.items))
	for i := range s.items {
		out = append(out, i)
	}
	s.mu.RUnlock()
	sort.Ints(out)
	return out
}

// Stats provides statistics about prefetching.
type Stats struct {
	QueueSize   int // Requests in flight
	LoadedCount int
	FailedCount int
}

// WaitFunc pauses for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default WaitFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
