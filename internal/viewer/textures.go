package viewer

import (
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// textureCache holds GPU images keyed by URL. Evicted textures are
// deallocated immediately. Only used from the UI goroutine.
type textureCache struct {
	cache *lru.Cache[string, *ebiten.Image]
}

func newTextureCache(size int) *textureCache {
	onEvict := func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[string, *ebiten.Image](size, onEvict)
	if err != nil {
		log.Printf("Error: Failed to create texture cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, onEvict)
	}
	return &textureCache{cache: cache}
}

// get returns the texture for url, uploading src when it is not cached.
func (c *textureCache) get(url string, src image.Image) *ebiten.Image {
	if img, ok := c.cache.Get(url); ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	c.cache.Add(url, img)
	return img
}

// lookup returns a cached texture without uploading.
func (c *textureCache) lookup(url string) (*ebiten.Image, bool) {
	return c.cache.Get(url)
}

func (c *textureCache) purge() {
	c.cache.Purge()
}

func (c *textureCache) len() int {
	return c.cache.Len()
}
