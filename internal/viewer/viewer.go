// Package viewer is the Ebiten front end: it owns the window, polls input,
// and wires the slide controller, prefetchers and zoom engines together.
package viewer

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"gallery/internal/catalog"
	"gallery/internal/config"
	"gallery/internal/debuglog"
	"gallery/internal/dispatch"
	"gallery/internal/loader"
	"gallery/internal/prefetch"
	"gallery/internal/settings"
	"gallery/internal/slider"
	"gallery/internal/zoompan"
)

const thumbnailCacheSize = 512

// Options configure a Game.
type Options struct {
	Config       config.Config
	ConfigStatus config.ConfigLoadResult
	ConfigPath   string // Where the window size is saved on exit; empty disables saving
	Catalogs     catalog.Pair
	Start        int // Initial index
	Fullscreen   bool
	Settings     *settings.Service
	Clock        func() time.Time

	// Reload fetches the catalogs again for the reload action. Nil
	// disables reloading.
	Reload func(ctx context.Context) (catalog.Pair, error)
}

type reloadResult struct {
	pair catalog.Pair
	err  error
}

type Game struct {
	cfg        config.Config
	cfgStatus  config.ConfigLoadResult
	cfgPath    string
	clock      func() time.Time
	images     *catalog.Catalog
	thumbnails *catalog.Catalog

	slider        *slider.Controller
	arena         *zoompan.Arena
	imageLoader   *loader.ResourceLoader
	thumbLoader   *loader.ResourceLoader
	imagePrefetch *prefetch.ImagePrefetcher
	thumbPrefetch *prefetch.ThumbnailPrefetcher
	settings      *settings.Service
	keys          *dispatch.Dispatcher
	gestures      *dispatch.GestureRecognizer
	textures      *textureCache
	thumbTextures *textureCache
	renderer      *Renderer
	unsubscribe   func()

	ctx    context.Context
	cancel context.CancelFunc

	reload    func(ctx context.Context) (catalog.Pair, error)
	reloads   chan reloadResult
	reloading bool

	mu     sync.Mutex
	width  int
	height int

	keyBuf   []ebiten.Key
	pointer  pointerState
	viewport zoompan.Viewport

	fullscreen      bool
	fullscreenCheck bool
	savedWinW       int
	savedWinH       int

	showHelp       bool
	thumbnailsOpen bool
	overlayMessage string
	overlayTime    time.Time
	exiting        bool
}

// New builds a Game for opts and starts prefetching. An empty catalog is
// shown as an empty gallery.
func New(opts Options) (*Game, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Settings == nil {
		opts.Settings = settings.NewService(&settings.MemoryStore{})
	}
	thumbs := opts.Catalogs.Thumbnails
	if thumbs == nil {
		thumbs = opts.Catalogs.Images
	}
	cfg := opts.Config

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:        cfg,
		cfgStatus:  opts.ConfigStatus,
		cfgPath:    opts.ConfigPath,
		clock:      opts.Clock,
		images:     opts.Catalogs.Images,
		thumbnails: thumbs,
		settings:   opts.Settings,
		ctx:        ctx,
		cancel:     cancel,
		reload:     opts.Reload,
		reloads:    make(chan reloadResult, 1),
		width:      cfg.WindowWidth,
		height:     cfg.WindowHeight,
		fullscreen: opts.Fullscreen,
	}

	g.viewport = zoompan.Viewport{Width: float64(g.width), Height: float64(g.height)}
	g.slider = slider.New(g.images.Len(), opts.Start)
	g.arena = zoompan.NewArena(g.clock, g.viewport)
	g.arena.SetBaseStep(cfg.PanStep)
	g.arena.SetCurrent(g.slider.Current())

	g.imageLoader = loader.NewResourceLoader(cfg.CacheSize, nil)
	g.thumbLoader = loader.NewResourceLoader(thumbnailCacheSize, nil)
	g.imagePrefetch = prefetch.NewImagePrefetcher(g.imageLoader, prefetch.ImageOptions{Radius: cfg.PreloadRadius})
	g.thumbPrefetch = prefetch.NewThumbnailPrefetcher(g.thumbLoader, prefetch.ThumbnailOptions{
		BatchSize: cfg.ThumbnailBatchSize,
		Delay:     cfg.ThumbnailBatchDelay(),
	})
	g.textures = newTextureCache(cfg.CacheSize)
	g.thumbTextures = newTextureCache(thumbnailCacheSize)

	g.keys = dispatch.NewDispatcher(cfg.Keybindings, g, g, dispatch.Options{
		ArrowsNavigateWithThumbnails: cfg.ArrowsNavigateWithThumbnails,
	})
	g.gestures = dispatch.NewGestureRecognizer(cfg.Mouse, g, g.clock)

	renderer, err := NewRenderer(g)
	if err != nil {
		cancel()
		return nil, err
	}
	g.renderer = renderer

	g.unsubscribe = g.slider.Subscribe(g.onSlideChange)
	g.imagePrefetch.SetCatalog(g.images, g.slider.Current())
	g.thumbPrefetch.Start(g.thumbnails)
	return g, nil
}

// Run opens the window and blocks until the viewer exits. The window size
// is saved on the way out.
func Run(opts Options) error {
	g, err := New(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowTitle("Gallery")
	ebiten.SetWindowSize(g.cfg.WindowWidth, g.cfg.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if g.fullscreen {
		g.fullscreen = false
		g.ToggleFullscreen()
	}

	err = ebiten.RunGame(g)
	g.saveWindowSize()
	return err
}

// Close stops prefetching and releases textures.
func (g *Game) Close() {
	g.unsubscribe()
	g.cancel()
	g.imagePrefetch.Stop()
	g.thumbPrefetch.Stop()
	g.textures.purge()
	g.thumbTextures.purge()
}

func (g *Game) onSlideChange(ch slider.Change) {
	debuglog.Printf("Slide %d -> %d (%s)", ch.Previous+1, ch.Current+1, ch.Direction)

	g.arena.HandleChange(ch)
	g.gestures.Cancel()
	g.imagePrefetch.OnIndexChange(ch.Current)

	if g.settings.Enabled() && g.images.Len() > 0 {
		g.showOverlayMessage(fmt.Sprintf("Image %d of %d: %s", ch.Current+1, g.images.Len(), g.CurrentLabel()))
	}
}

func (g *Game) saveWindowSize() {
	if g.cfgPath == "" {
		return
	}
	if g.fullscreen {
		// Save the size from before fullscreen
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.cfg.WindowWidth = g.savedWinW
			g.cfg.WindowHeight = g.savedWinH
		}
	} else {
		g.cfg.WindowWidth, g.cfg.WindowHeight = ebiten.WindowSize()
	}
	if err := config.Save(g.cfg, g.cfgPath); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (g *Game) Update() error {
	if g.exiting {
		return ebiten.Termination
	}

	g.syncViewport()
	g.checkFullscreen()
	g.pollReload()
	g.handleKeys()
	if !g.exiting {
		g.handlePointer()
	}

	if g.exiting {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	g.width, g.height = outsideWidth, outsideHeight
	g.mu.Unlock()
	return outsideWidth, outsideHeight
}

// syncViewport resizes every zoom engine when the window size changed.
func (g *Game) syncViewport() {
	g.mu.Lock()
	vp := zoompan.Viewport{Width: float64(g.width), Height: float64(g.height)}
	g.mu.Unlock()
	if vp != g.viewport {
		g.viewport = vp
		g.arena.SetViewport(vp)
	}
}

// checkFullscreen logs a fullscreen request the platform did not honor
// and resyncs the flag.
func (g *Game) checkFullscreen() {
	if !g.fullscreenCheck {
		return
	}
	g.fullscreenCheck = false
	if actual := ebiten.IsFullscreen(); actual != g.fullscreen {
		log.Printf("Warning: Fullscreen request (%v) was not honored", g.fullscreen)
		g.fullscreen = actual
	}
}

func (g *Game) handleKeys() {
	var events []dispatch.KeyEvent
	g.keyBuf, events = keyEvents(g.keyBuf)
	for _, ev := range events {
		g.keys.HandleKey(ev)
	}
}

func (g *Game) showOverlayMessage(msg string) {
	g.overlayMessage = msg
	g.overlayTime = g.clock()
}

// Actions

func (g *Game) Prev()  { g.slider.Prev() }
func (g *Game) Next()  { g.slider.Next() }
func (g *Game) First() { g.slider.First() }
func (g *Game) Last()  { g.slider.Last() }

func (g *Game) ZoomIn()    { g.arena.Current().ZoomIn() }
func (g *Game) ZoomOut()   { g.arena.Current().ZoomOut() }
func (g *Game) ZoomReset() { g.arena.Current().ResetTransform() }

func (g *Game) Nudge(dir zoompan.Direction, mods zoompan.Modifiers) bool {
	return g.arena.Current().Nudge(dir, mods)
}

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if g.savedWinW > 0 && g.savedWinH > 0 {
			ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
		}
	}
	g.fullscreenCheck = true
}

func (g *Game) ToggleThumbnails() {
	g.thumbnailsOpen = !g.thumbnailsOpen
	g.gestures.Cancel()
}

func (g *Game) CloseThumbnails() {
	g.thumbnailsOpen = false
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleScreenReader() {
	g.settings.Toggle()
	g.showOverlayMessage(g.settings.Announcement())
}

func (g *Game) Exit() {
	g.exiting = true
}

// Reload fetches the catalogs again in the background. The result is
// applied by Update.
func (g *Game) Reload() {
	if g.reload == nil || g.reloading {
		return
	}
	g.reloading = true
	g.showOverlayMessage("Reloading...")
	go func() {
		pair, err := g.reload(g.ctx)
		g.reloads <- reloadResult{pair: pair, err: err}
	}()
}

// pollReload applies a finished reload, if any.
func (g *Game) pollReload() {
	select {
	case r := <-g.reloads:
		g.applyReload(r)
	default:
	}
}

func (g *Game) applyReload(r reloadResult) {
	g.reloading = false
	if r.err != nil {
		log.Printf("Warning: Failed to reload catalog: %v", r.err)
		g.showOverlayMessage("Reload failed")
		return
	}
	g.setCatalogs(r.pair)
	g.showOverlayMessage(fmt.Sprintf("Reloaded %d images", g.images.Len()))
}

// setCatalogs replaces both catalogs. Zoom state, textures and prefetch
// sessions restart; the current index is clamped into the new length.
func (g *Game) setCatalogs(pair catalog.Pair) {
	images := pair.Images
	thumbs := pair.Thumbnails
	if thumbs == nil {
		thumbs = images
	}
	g.images, g.thumbnails = images, thumbs

	g.textures.purge()
	g.thumbTextures.purge()
	g.arena.Clear()
	g.CloseThumbnails()

	current := min(g.slider.Current(), max(images.Len()-1, 0))
	g.imagePrefetch.SetCatalog(images, current)
	g.thumbPrefetch.Start(thumbs)
	g.slider.SetLength(images.Len())
}

// selectThumbnail shows slide index and closes the panel.
func (g *Game) selectThumbnail(index int) {
	if err := g.slider.GoTo(index); err != nil {
		log.Printf("Warning: %v", err)
		return
	}
	g.CloseThumbnails()
}

// State

func (g *Game) IsZoomed() bool {
	return g.arena.Current().IsZoomed()
}

func (g *Game) ThumbnailsOpen() bool {
	return g.thumbnailsOpen
}

func (g *Game) ScreenReaderEnabled() bool {
	return g.settings.Enabled()
}

// Surface

func (g *Game) SwipeEnabled() bool {
	return g.arena.SwipeEnabled()
}

func (g *Game) BeginDrag()         { g.arena.Current().BeginDrag() }
func (g *Game) Pan(dx, dy float64) { g.arena.Current().Pan(dx, dy) }
func (g *Game) PanStop()           { g.arena.Current().PanStop() }

func (g *Game) ToggleZoom(x, y float64) {
	g.arena.Current().ToggleZoom(x, y)
}

func (g *Game) ZoomBy(x, y, delta float64) {
	e := g.arena.Current()
	e.ZoomAt(x, y, e.State().Scale+delta)
}

// RenderState

func (g *Game) CurrentTexture() (*ebiten.Image, LoadStatus) {
	idx := g.slider.Current()
	d, ok := g.images.At(idx)
	if !ok {
		return nil, StatusEmpty
	}
	if !g.imagePrefetch.IsLoaded(idx) {
		if g.imagePrefetch.Failed(idx) {
			return nil, StatusFailed
		}
		return nil, StatusLoading
	}
	if img, ok := g.textures.lookup(d.URL); ok {
		return img, StatusReady
	}
	src, ok := g.imageLoader.Peek(d.URL)
	if !ok {
		// Evicted from the decoded image cache.
		g.imagePrefetch.Refresh(idx)
		return nil, StatusLoading
	}
	return g.textures.get(d.URL, src), StatusReady
}

func (g *Game) CurrentLabel() string {
	d, _ := g.images.At(g.slider.Current())
	return d.Label
}

func (g *Game) Transform() zoompan.State {
	return g.arena.Current().State()
}

func (g *Game) Position() (int, int) {
	return g.slider.Current(), g.slider.Len()
}

func (g *Game) IsFullscreen() bool {
	return g.fullscreen
}

func (g *Game) HintVisible() bool {
	return g.arena.Hint().Visible(g.clock())
}

func (g *Game) ThumbnailGrid() Grid {
	return GridLayout(g.thumbnails.Len(), g.viewport.Width, g.viewport.Height, g.slider.Current())
}

func (g *Game) ThumbnailTexture(index int) *ebiten.Image {
	d, ok := g.thumbnails.At(index)
	if !ok || !g.thumbPrefetch.Loaded().Has(index) {
		return nil
	}
	if img, ok := g.thumbTextures.lookup(d.URL); ok {
		return img
	}
	src, ok := g.thumbLoader.Peek(d.URL)
	if !ok {
		return nil
	}
	return g.thumbTextures.get(d.URL, src)
}

func (g *Game) IsShowingHelp() bool {
	return g.showHelp
}

func (g *Game) OverlayMessage() (string, time.Time) {
	return g.overlayMessage, g.overlayTime
}

func (g *Game) Now() time.Time {
	return g.clock()
}

func (g *Game) FontSize() float64 {
	return g.cfg.HelpFontSize
}

func (g *Game) ConfigStatus() config.ConfigLoadResult {
	return g.cfgStatus
}

func (g *Game) Keybindings() map[string][]string {
	return g.cfg.Keybindings
}

func (g *Game) Stats() Stats {
	return Stats{
		Images:           g.imagePrefetch.Stats(),
		Thumbnails:       g.thumbPrefetch.Stats(),
		ThumbnailsLoaded: g.thumbPrefetch.Loaded().Len(),
		CachedImages:     g.imageLoader.CacheLen(),
		Textures:         g.textures.len(),
	}
}
