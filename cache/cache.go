// worldink - stroke rendering for layered world maps
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Package cache holds the persistent raster of a drawing layer.
//
// A [Cache] owns the only writable copy of a layer's pixels. Every mutating
// operation first saves a snapshot into a bounded undo stack, so callers
// never need to checkpoint explicitly. When the stack is full the oldest
// snapshot is dropped and can no longer be restored.
package cache

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/worldink/worldink/curve"
	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/raster"
	"github.com/worldink/worldink/stroke"
)

var (
	// ErrNotInitialized is returned by operations on a cache whose raster
	// has not been allocated.
	ErrNotInitialized = errors.New("cache: not initialized")

	// ErrStrokeActive is returned when an operation conflicts with a live
	// stroke.
	ErrStrokeActive = errors.New("cache: live stroke in progress")
)

// Options configures a [Cache].
type Options struct {
	// Capacity is the maximum number of undo snapshots. Values below 1
	// are treated as 1.
	Capacity int
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{Capacity: defaultCapacity}
}

// Cache is the raster of one layer. It is not safe for concurrent use.
type Cache struct {
	id   string
	opts Options

	width, height int
	work          *image.RGBA
	base          *image.RGBA

	undo  []*image.RGBA
	redo  []*image.RGBA
	spare []*image.RGBA

	initialized  bool
	hasBaseImage bool

	mask     *raster.MaskWriter
	renderer *curve.Renderer
	live     *liveStroke
}

// New returns an uninitialized cache for the layer id.
func New(id string, opts Options) *Cache {
	if opts.Capacity < 1 {
		opts.Capacity = 1
	}
	return &Cache{id: id, opts: opts, renderer: curve.NewRenderer()}
}

// ID returns the layer id.
func (c *Cache) ID() string {
	return c.id
}

// Initialize allocates a transparent width×height raster and discards all
// previous content, snapshots and the base image.
func (c *Cache) Initialize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("cache %q: invalid size %dx%d", c.id, width, height)
	}
	c.width, c.height = width, height
	r := image.Rect(0, 0, width, height)
	c.work = image.NewRGBA(r)
	c.base = nil
	c.undo, c.redo, c.spare = nil, nil, nil
	c.mask = raster.NewMaskWriter(width, height)
	c.live = nil
	c.hasBaseImage = false
	c.initialized = true

	logging.Logger().Info("cache: initialized", "layer", c.id, "width", width, "height", height)
	return nil
}

// Initialized reports whether Initialize has been called.
func (c *Cache) Initialized() bool {
	return c.initialized
}

// HasBaseImage reports whether a base image is loaded.
func (c *Cache) HasBaseImage() bool {
	return c.hasBaseImage
}

// Size returns the raster dimensions.
func (c *Cache) Size() (width, height int) {
	return c.width, c.height
}

// Image returns the working raster. The image must not be modified and is
// only valid until the next mutating call.
func (c *Cache) Image() *image.RGBA {
	return c.work
}

// Snapshot returns a copy of the working raster.
func (c *Cache) Snapshot() *image.RGBA {
	if !c.initialized {
		return nil
	}
	img := image.NewRGBA(c.work.Rect)
	copy(img.Pix, c.work.Pix)
	return img
}

// LoadBaseImage draws img centered onto the base surface and replaces the
// working raster by it. An image whose size differs from the raster is not
// scaled: it is centered, cropped or padded, and a warning is logged.
func (c *Cache) LoadBaseImage(img image.Image) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.live != nil {
		return ErrStrokeActive
	}
	c.SaveSnapshot()

	b := img.Bounds()
	if b.Dx() != c.width || b.Dy() != c.height {
		logging.Logger().Warn("cache: base image size mismatch, centering",
			"layer", c.id,
			"width", b.Dx(), "height", b.Dy(),
			"want_width", c.width, "want_height", c.height)
	}

	if c.base == nil {
		c.base = image.NewRGBA(c.work.Rect)
	} else {
		clear(c.base.Pix)
	}
	dp := image.Pt((c.width-b.Dx())/2, (c.height-b.Dy())/2)
	draw.Copy(c.base, dp, img, b, draw.Src, nil)
	copy(c.work.Pix, c.base.Pix)
	c.hasBaseImage = true

	logging.Logger().Info("cache: base image loaded", "layer", c.id, "width", b.Dx(), "height", b.Dy())
	return nil
}

// CompositePenStroke paints the stroke through pts with the pen style st.
// It returns the rectangle of changed pixels.
func (c *Cache) CompositePenStroke(pts []stroke.Point, st stroke.Style) (image.Rectangle, error) {
	return c.composite(pts, st, stroke.Pen)
}

// CompositeEraserStroke erases along pts. The eraser is twice as wide as
// the pen width in st.
func (c *Cache) CompositeEraserStroke(pts []stroke.Point, st stroke.Style) (image.Rectangle, error) {
	return c.composite(pts, st, stroke.Eraser)
}

func (c *Cache) composite(pts []stroke.Point, st stroke.Style, tool stroke.Tool) (image.Rectangle, error) {
	if !c.initialized {
		return image.Rectangle{}, ErrNotInitialized
	}
	if c.live != nil {
		return image.Rectangle{}, ErrStrokeActive
	}
	c.SaveSnapshot()

	dirty := c.renderer.Full(c.mask, pts, st, tool)
	col, op := paint(st, tool)
	raster.Composite(c.work, nil, c.mask.Mask, col, op, dirty)
	c.mask.Reset()
	return dirty, nil
}

// Repaint resets the raster to the base image, or to transparent, and
// paints strokes onto it in order. The whole repaint is a single undo step.
func (c *Cache) Repaint(strokes []stroke.Stroke) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.live != nil {
		return ErrStrokeActive
	}
	c.SaveSnapshot()
	c.reset()
	for _, s := range strokes {
		dirty := c.renderer.Full(c.mask, s.Points, s.Style, s.Tool)
		col, op := paint(s.Style, s.Tool)
		raster.Composite(c.work, nil, c.mask.Mask, col, op, dirty)
		c.mask.Reset()
	}
	logging.Logger().Info("cache: repainted", "layer", c.id, "strokes", len(strokes))
	return nil
}

// paint returns the colour and operator for a tool.
func paint(st stroke.Style, tool stroke.Tool) (color.NRGBA, raster.Op) {
	if tool == stroke.Eraser {
		return color.NRGBA{A: 255}, raster.DestinationOut
	}
	return st.Color, raster.SourceOver
}

// Clear resets the raster to the base image, or to transparent if no base
// image is loaded.
func (c *Cache) Clear() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.live != nil {
		return ErrStrokeActive
	}
	c.SaveSnapshot()
	c.reset()
	return nil
}

func (c *Cache) reset() {
	if c.hasBaseImage {
		copy(c.work.Pix, c.base.Pix)
	} else {
		clear(c.work.Pix)
	}
}

const defaultCapacity = 30
