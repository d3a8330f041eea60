package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"gallery/internal/archive"
)

const defaultHTTPTimeout = 30 * time.Second

// Source produces a catalog. Ordering must be stable across calls.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Options control how Open interprets a location.
type Options struct {
	SortMethod int          // Ordering for directory and archive listings
	Thumbnails bool         // Read the thumbnail list of a manifest
	Client     *http.Client // HTTP client for remote manifests
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// Open picks a source for location: an http(s) manifest URL, a manifest
// file (.json, .yaml, .yml), an archive or a directory.
func Open(location string, opts Options) (Source, error) {
	if location == "" {
		return nil, ErrEmptySource
	}
	if isRemote(location) {
		return &HTTPManifest{URL: location, Thumbnails: opts.Thumbnails, Client: opts.Client}, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &Directory{Path: location, SortMethod: opts.SortMethod}, nil
	}
	if archive.IsArchive(location) {
		return &Archive{Path: location, SortMethod: opts.SortMethod}, nil
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json", ".yaml", ".yml":
		return &ManifestFile{Path: location, Thumbnails: opts.Thumbnails}, nil
	}
	return nil, fmt.Errorf("unsupported catalog source: %s", location)
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Directory lists the image files directly inside a directory.
type Directory struct {
	Path       string
	SortMethod int
}

func (d *Directory) Load(ctx context.Context) (*Catalog, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.Path, err)
	}

	var locators []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		locators = append(locators, filepath.Join(d.Path, entry.Name()))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fromLocators(GetSortStrategy(d.SortMethod).Sort(locators)), nil
}

// Archive lists the image entries of a zip, rar or 7z file.
type Archive struct {
	Path       string
	SortMethod int
}

func (a *Archive) Load(ctx context.Context) (*Catalog, error) {
	names, err := archive.List(a.Path, IsImageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", a.Path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sorted := GetSortStrategy(a.SortMethod).Sort(names)
	locators := make([]string, len(sorted))
	for i, name := range sorted {
		locators[i] = archive.Locator(a.Path, name)
	}
	return fromLocators(locators), nil
}

type manifestEntry struct {
	ID  *int   `json:"id" yaml:"id"`
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt" yaml:"alt"`
}

type manifest struct {
	Images     []manifestEntry `json:"images" yaml:"images"`
	BigImages  []manifestEntry `json:"bigImages" yaml:"bigImages"`
	Thumbnails []manifestEntry `json:"thumbnails" yaml:"thumbnails"`
}

// entries returns the requested list; a manifest without thumbnails
// serves its full-size list for both variants.
func (m *manifest) entries(thumbnails bool) []manifestEntry {
	images := m.Images
	if len(images) == 0 {
		images = m.BigImages
	}
	if thumbnails && len(m.Thumbnails) > 0 {
		return m.Thumbnails
	}
	return images
}

func (m *manifest) catalog(thumbnails bool, resolve func(string) (string, error)) (*Catalog, error) {
	list := m.entries(thumbnails)
	images := make([]ImageDescriptor, len(list))
	for i, e := range list {
		id := i
		if e.ID != nil {
			id = *e.ID
		}
		if e.Src == "" {
			return nil, fmt.Errorf("manifest entry %d has no src", i)
		}
		loc, err := resolve(e.Src)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
		label := e.Alt
		if label == "" {
			label = fmt.Sprintf("Image %d", i+1)
		}
		images[i] = ImageDescriptor{ID: id, URL: loc, Label: label}
	}
	return New(images)
}

func decodeManifest(data []byte, yamlFormat bool) (*manifest, error) {
	var m manifest
	var err error
	if yamlFormat {
		err = yaml.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// ManifestFile reads a JSON or YAML manifest from disk. Relative src
// values are resolved against the manifest's directory.
type ManifestFile struct {
	Path       string
	Thumbnails bool
}

func (f *ManifestFile) Load(ctx context.Context) (*Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", f.Path, err)
	}
	ext := strings.ToLower(filepath.Ext(f.Path))
	m, err := decodeManifest(data, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(f.Path)
	return m.catalog(f.Thumbnails, func(src string) (string, error) {
		if isRemote(src) || filepath.IsAbs(src) {
			return src, nil
		}
		return filepath.Join(dir, filepath.FromSlash(src)), nil
	})
}

// HTTPManifest fetches a JSON or YAML manifest over HTTP. Relative src
// values are resolved against the manifest URL.
type HTTPManifest struct {
	URL        string
	Thumbnails bool
	Client     *http.Client
}

func (h *HTTPManifest) Load(ctx context.Context) (*Catalog, error) {
	base, err := url.Parse(h.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest URL %s: %w", h.URL, err)
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest URL returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(base.Path))
	yamlFormat := ext == ".yaml" || ext == ".yml" ||
		strings.Contains(resp.Header.Get("Content-Type"), "yaml")
	m, err := decodeManifest(data, yamlFormat)
	if err != nil {
		return nil, err
	}

	return m.catalog(h.Thumbnails, func(src string) (string, error) {
		ref, err := url.Parse(src)
		if err != nil {
			return "", err
		}
		return base.ResolveReference(ref).String(), nil
	})
}

// Pair is the full-resolution catalog with its thumbnail variant.
type Pair struct {
	Images     *Catalog
	Thumbnails *Catalog
}

// LoadPair loads both catalogs concurrently. A nil thumbnails source, or
// one that fails, falls back to the full-resolution catalog.
func LoadPair(ctx context.Context, images, thumbnails Source) (Pair, error) {
	var pair Pair
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := images.Load(gctx)
		if err != nil {
			return err
		}
		pair.Images = c
		return nil
	})

	if thumbnails != nil {
		g.Go(func() error {
			c, err := thumbnails.Load(gctx)
			if err != nil {
				log.Printf("Warning: Failed to load thumbnail catalog, using full images: %v", err)
				return nil
			}
			pair.Thumbnails = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Pair{}, err
	}

	if pair.Thumbnails == nil {
		pair.Thumbnails = pair.Images
	} else if pair.Thumbnails.Len() != pair.Images.Len() {
		log.Printf("Warning: Thumbnail catalog has %d images but full catalog has %d, using full images",
			pair.Thumbnails.Len(), pair.Images.Len())
		pair.Thumbnails = pair.Images
	}
	return pair, nil
}
