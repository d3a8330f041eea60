package prefetch

import (
	"context"
	"sync"
	"time"

	"gallery/internal/catalog"
	"gallery/internal/debuglog"
	"gallery/internal/loader"
)

const (
	DefaultBatchSize  = 5
	DefaultBatchDelay = 300 * time.Millisecond
)

// ThumbnailOptions configure a ThumbnailPrefetcher. Zero values select the
// defaults.
type ThumbnailOptions struct {
	BatchSize int
	Delay     time.Duration
	Wait      WaitFunc        // Pause between batches
	OnLoad    func(index int) // Called after an index enters the LoadedSet
}

// ThumbnailPrefetcher loads every thumbnail of a catalog in fixed-size
// batches, pausing between batch dispatches. The pause paces request
// issuance only; completions of a batch are never awaited.
type ThumbnailPrefetcher struct {
	loader    loader.Loader
	batchSize int
	delay     time.Duration
	wait      WaitFunc
	onLoad    func(int)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	loaded *LoadedSet
	stats  Stats
	wg     sync.WaitGroup
}

func NewThumbnailPrefetcher(l loader.Loader, opts ThumbnailOptions) *ThumbnailPrefetcher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultBatchDelay
	}
	if opts.Wait == nil {
		opts.Wait = SleepContext
	}
	return &ThumbnailPrefetcher{
		loader:    l,
		batchSize: opts.BatchSize,
		delay:     opts.Delay,
		wait:      opts.Wait,
		onLoad:    opts.OnLoad,
		loaded:    newLoadedSet(),
	}
}

// Batches partitions [0, length) into consecutive batches of size.
func Batches(length, size int) [][]int {
	if length <= 0 || size <= 0 {
		return nil
	}
	var batches [][]int
	for start := 0; start < length; start += size {
		end := min(start+size, length)
		batch := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			batch = append(batch, i)
		}
		batches = append(batches, batch)
	}
	return batches
}

// Start begins a new session for cat, abandoning any previous one. A nil
// or empty catalog starts an empty session and loads nothing.
func (p *ThumbnailPrefetcher) Start(cat *catalog.Catalog) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loaded = newLoadedSet()
	p.stats = Stats{}
	set := p.loaded
	p.mu.Unlock()

	if cat.Len() == 0 {
		return
	}

	debuglog.Printf("Thumbnail prefetch: %d images in batches of %d", cat.Len(), p.batchSize)
	p.wg.Add(1)
	go p.run(ctx, gen, cat, set)
}

func (p *ThumbnailPrefetcher) run(ctx context.Context, gen uint64, cat *catalog.Catalog, set *LoadedSet) {
	defer p.wg.Done()

	for n, batch := range Batches(cat.Len(), p.batchSize) {
		if n > 0 {
			if err := p.wait(ctx, p.delay); err != nil {
				return
			}
		}
		for _, i := range batch {
			d, ok := cat.At(i)
			if !ok {
				continue
			}
			p.mu.Lock()
			if p.gen != gen {
				p.mu.Unlock()
				return
			}
			p.stats.QueueSize++
			p.mu.Unlock()

			p.wg.Add(1)
			go p.load(ctx, gen, set, i, d)
		}
	}
}

func (p *ThumbnailPrefetcher) load(ctx context.Context, gen uint64, set *LoadedSet, index int, d catalog.ImageDescriptor) {
	defer p.wg.Done()

	_, err := p.loader.Load(ctx, d.URL)

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.stats.QueueSize--
	if err != nil {
		p.stats.FailedCount++
		p.mu.Unlock()
		debuglog.Printf("Thumbnail load failed for [%d] %s: %v", index+1, d.URL, err)
		return
	}
	set.add(index, d)
	p.stats.LoadedCount++
	onLoad := p.onLoad
	p.mu.Unlock()

	if onLoad != nil {
		onLoad(index)
	}
}

// Stop abandons the current session. Completions that arrive afterwards
// are dropped.
func (p *ThumbnailPrefetcher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
}

// Wait blocks until every dispatched request of every session has
// returned.
func (p *ThumbnailPrefetcher) Wait() {
	p.wg.Wait()
}

// Loaded returns the LoadedSet of the current session.
func (p *ThumbnailPrefetcher) Loaded() *LoadedSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

func (p *ThumbnailPrefetcher) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
