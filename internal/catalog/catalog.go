// Package catalog holds the ordered, immutable list of images a gallery
// shows and the sources it can be loaded from.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrIDMismatch is returned when a descriptor id does not match its position.
	ErrIDMismatch = errors.New("image id does not match catalog position")
	// ErrEmptySource is returned when a source location is empty.
	ErrEmptySource = errors.New("empty catalog source")
)

// ImageDescriptor identifies one image of the gallery.
type ImageDescriptor struct {
	ID    int    // Stable id, equal to the position in the catalog
	URL   string // Locator understood by the resource loader
	Label string // Accessible label
}

// Catalog is an ordered, index-addressed sequence of descriptors.
// It is never mutated after construction; a changed source produces a new
// Catalog. A nil *Catalog behaves as an empty one.
type Catalog struct {
	images []ImageDescriptor
}

// New validates that every id matches its position and returns a catalog
// holding a private copy of images.
func New(images []ImageDescriptor) (*Catalog, error) {
	copied := make([]ImageDescriptor, len(images))
	for i, img := range images {
		if img.ID != i {
			return nil, fmt.Errorf("%w: position %d has id %d", ErrIDMismatch, i, img.ID)
		}
		copied[i] = img
	}
	return &Catalog{images: copied}, nil
}

// Len returns the number of images; it is the modulus for wraparound.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.images)
}

// At returns the descriptor at index i.
func (c *Catalog) At(i int) (ImageDescriptor, bool) {
	if c == nil || i < 0 || i >= len(c.images) {
		return ImageDescriptor{}, false
	}
	return c.images[i], true
}

// All returns a copy of all descriptors in order.
func (c *Catalog) All() []ImageDescriptor {
	if c == nil {
		return []ImageDescriptor{}
	}
	out := make([]ImageDescriptor, len(c.images))
	copy(out, c.images)
	return out
}

// fromLocators builds a catalog from an ordered list of locators, labelling
// images "Image N".
func fromLocators(locators []string) *Catalog {
	images := make([]ImageDescriptor, len(locators))
	for i, loc := range locators {
		images[i] = ImageDescriptor{
			ID:    i,
			URL:   loc,
			Label: fmt.Sprintf("Image %d", i+1),
		}
	}
	return &Catalog{images: images}
}
