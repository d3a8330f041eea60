package prefetch

import (
	"context"
	"sync"

	"gallery/internal/catalog"
	"gallery/internal/debuglog"
	"gallery/internal/loader"
)

const DefaultRadius = 2

// ImageOptions configure an ImagePrefetcher.
type ImageOptions struct {
	Radius int
	OnLoad func(index int)
}

// ImagePrefetcher keeps a window of full-resolution images around the
// current index loaded.
type ImagePrefetcher struct {
	loader loader.Loader
	radius int
	onLoad func(int)

	mu       sync.Mutex
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	cat      *catalog.Catalog
	loaded   *LoadedSet
	inflight map[int]bool
	failed   map[int]bool
	stats    Stats
	wg       sync.WaitGroup
}

func NewImagePrefetcher(l loader.Loader, opts ImageOptions) *ImagePrefetcher {
	if opts.Radius <= 0 {
		opts.Radius = DefaultRadius
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ImagePrefetcher{
		loader:   l,
		radius:   opts.Radius,
		onLoad:   opts.OnLoad,
		ctx:      ctx,
		cancel:   cancel,
		loaded:   newLoadedSet(),
		inflight: make(map[int]bool),
		failed:   make(map[int]bool),
	}
}

// Window returns the indices within radius of current, each wrapped
// modulo length, without duplicates. Offset 0 is always included.
func Window(current, length, radius int) []int {
	if length <= 0 {
		return nil
	}
	seen := make(map[int]bool, 2*radius+1)
	out := make([]int, 0, 2*radius+1)
	for off := -radius; off <= radius; off++ {
		idx := ((current+off)%length + length) % length
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

// SetCatalog starts a new session for cat and requests the window around
// current.
func (p *ImagePrefetcher) SetCatalog(cat *catalog.Catalog, current int) {
	p.mu.Lock()
	p.cancel()
	p.gen++
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.cat = cat
	p.loaded = newLoadedSet()
	p.inflight = make(map[int]bool)
	p.failed = make(map[int]bool)
	p.stats = Stats{}
	p.mu.Unlock()

	p.OnIndexChange(current)
}

// OnIndexChange requests every index of the window around current that
// is neither loaded nor in flight.
func (p *ImagePrefetcher) OnIndexChange(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.cat.Len()
	if n == 0 {
		return
	}
	for _, i := range Window(current, n, p.radius) {
		if p.loaded.Has(i) {
			continue
		}
		p.request(i)
	}
}

// Refresh loads index again even if it is recorded as loaded, e.g. after
// the decoded image was evicted from the loader cache.
func (p *ImagePrefetcher) Refresh(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.request(index)
}

// request dispatches a load for index unless one is in flight. p.mu must
// be held.
func (p *ImagePrefetcher) request(index int) {
	if p.inflight[index] {
		return
	}
	d, ok := p.cat.At(index)
	if !ok {
		return
	}
	delete(p.failed, index)
	p.inflight[index] = true
	p.stats.QueueSize++
	p.wg.Add(1)
	go p.load(p.ctx, p.gen, p.loaded, index, d)
}

func (p *ImagePrefetcher) load(ctx context.Context, gen uint64, set *LoadedSet, index int, d catalog.ImageDescriptor) {
	defer p.wg.Done()

	_, err := p.loader.Load(ctx, d.URL)

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	delete(p.inflight, index)
	p.stats.QueueSize--
	if err != nil {
		p.stats.FailedCount++
		p.failed[index] = true
		p.mu.Unlock()
		debuglog.Printf("Preload failed for [%d] %s: %v", index+1, d.URL, err)
		return
	}
	set.add(index, d)
	p.stats.LoadedCount++
	onLoad := p.onLoad
	p.mu.Unlock()

	debuglog.Printf("Preloaded [%d] %s", index+1, d.URL)
	if onLoad != nil {
		onLoad(index)
	}
}

// IsLoaded reports whether index is ready to render in full resolution.
func (p *ImagePrefetcher) IsLoaded(index int) bool {
	return p.Loaded().Has(index)
}

// Failed reports whether the last load of index failed. The index is
// retried when it next enters the window.
func (p *ImagePrefetcher) Failed(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed[index]
}

func (p *ImagePrefetcher) Loaded() *LoadedSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

func (p *ImagePrefetcher) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Stop abandons the current session; late completions are dropped.
func (p *ImagePrefetcher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel()
	p.gen++
	p.cat = nil
}

// Wait blocks until all dispatched requests have returned.
func (p *ImagePrefetcher) Wait() {
	p.wg.Wait()
}
