// Package loader fetches and decodes image resources addressed by URL.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"gallery/internal/archive"
)

const (
	DefaultCacheSize   = 32
	defaultHTTPTimeout = 30 * time.Second
)

// Loader resolves a URL to a decoded image. Implementations must be safe
// for concurrent use.
type Loader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, url string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

// ResourceLoader loads http(s) URLs, archive entries ("a.zip!/b.png"),
// file:// URLs and plain paths. Decoded images are kept in an LRU keyed by
// URL; concurrent loads of the same URL share one fetch.
type ResourceLoader struct {
	client *http.Client
	cache  *lru.Cache[string, image.Image]
	group  singleflight.Group
}

// NewResourceLoader creates a loader caching up to cacheSize decoded images.
// A nil client uses a client with a 30 second timeout.
func NewResourceLoader(cacheSize int, client *http.Client) *ResourceLoader {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	cache, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.New[string, image.Image](DefaultCacheSize)
	}
	return &ResourceLoader{client: client, cache: cache}
}

func (l *ResourceLoader) Load(ctx context.Context, url string) (image.Image, error) {
	if img, ok := l.cache.Get(url); ok {
		return img, nil
	}

	v, err, _ := l.group.Do(url, func() (interface{}, error) {
		data, err := l.read(ctx, url)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", url, err)
		}
		l.cache.Add(url, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Peek returns the cached image for url without loading it or touching
// its recency.
func (l *ResourceLoader) Peek(url string) (image.Image, bool) {
	return l.cache.Peek(url)
}

// Cached reports whether url is held in the decoded-image cache.
func (l *ResourceLoader) Cached(url string) bool {
	return l.cache.Contains(url)
}

// CacheLen returns the number of cached images.
func (l *ResourceLoader) CacheLen() int {
	return l.cache.Len()
}

func (l *ResourceLoader) read(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return l.fetch(ctx, location)
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL %s: %w", location, err)
		}
		return readLocal(u.Path)
	default:
		return readLocal(location)
	}
}

func readLocal(path string) ([]byte, error) {
	if archivePath, entry, ok := archive.SplitLocator(path); ok {
		return archive.ReadEntry(archivePath, entry)
	}
	return os.ReadFile(path)
}

func (l *ResourceLoader) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", location, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
