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


package cache

import (
	"image"

	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/raster"
	"github.com/worldink/worldink/stroke"
)

// liveStroke is a stroke being drawn. Its coverage accumulates in the
// cache mask and is recomposed onto the checkpoint, the copy of the raster
// taken by BeginStroke, whenever it grows.
type liveStroke struct {
	tool       stroke.Tool
	style      stroke.Style
	checkpoint *image.RGBA
	dirty      image.Rectangle
}

// BeginStroke starts a live stroke. The current raster serves as the
// background of the stroke preview. The undo and redo stacks are left
// alone until the stroke is committed.
func (c *Cache) BeginStroke(tool stroke.Tool, st stroke.Style) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.live != nil {
		logging.Logger().Warn("cache: live stroke replaced", "layer", c.id)
		c.AbortStroke()
	}
	c.live = &liveStroke{
		tool:       tool,
		style:      st,
		checkpoint: c.copyOf(c.work),
	}
	c.mask.Reset()
	return nil
}

// Live reports whether a live stroke is in progress.
func (c *Cache) Live() bool {
	return c.live != nil
}

// DrawLive renders the live stroke through pts. If changed is 0 the whole
// stroke is drawn; otherwise only the segments affected by the points from
// index changed onwards. The returned rectangle contains the pixels that
// changed.
func (c *Cache) DrawLive(pts []stroke.Point, changed int) image.Rectangle {
	if c.live == nil {
		logging.Logger().Warn("cache: draw without live stroke ignored", "layer", c.id)
		return image.Rectangle{}
	}
	l := c.live
	var dirty image.Rectangle
	if changed <= 0 {
		dirty = c.renderer.Full(c.mask, pts, l.style, l.tool)
	} else {
		dirty = c.renderer.Incremental(c.mask, pts, changed, l.style, l.tool)
	}
	c.recompose(dirty)
	return dirty
}

// DrawLivePath is like DrawLive, for a path computed elsewhere.
func (c *Cache) DrawLivePath(draw func(m *raster.MaskWriter, st stroke.Style, tool stroke.Tool) image.Rectangle) image.Rectangle {
	if c.live == nil {
		return image.Rectangle{}
	}
	dirty := draw(c.mask, c.live.style, c.live.tool)
	c.recompose(dirty)
	return dirty
}

func (c *Cache) recompose(dirty image.Rectangle) {
	l := c.live
	l.dirty = l.dirty.Union(dirty)
	col, op := paint(l.style, l.tool)
	raster.Composite(c.work, l.checkpoint, c.mask.Mask, col, op, dirty)
}

// CommitStroke replaces the live preview by the final stroke through pts.
// The result is exactly what CompositePenStroke or CompositeEraserStroke
// would have produced on the checkpoint, and the checkpoint becomes the
// new undo snapshot. It returns the changed area.
func (c *Cache) CommitStroke(pts []stroke.Point) image.Rectangle {
	if c.live == nil {
		logging.Logger().Warn("cache: commit without live stroke ignored", "layer", c.id)
		return image.Rectangle{}
	}
	l := c.live
	c.mask.Reset()
	final := c.renderer.Full(c.mask, pts, l.style, l.tool)
	area := l.dirty.Union(final)
	col, op := paint(l.style, l.tool)
	raster.Composite(c.work, l.checkpoint, c.mask.Mask, col, op, area)
	c.mask.Reset()
	c.live = nil
	c.push(l.checkpoint)
	return area
}

// AbortStroke discards the live stroke and restores the raster. The undo
// and redo stacks are unchanged.
func (c *Cache) AbortStroke() {
	if c.live == nil {
		return
	}
	l := c.live
	c.live = nil
	c.mask.Reset()
	copy(c.work.Pix, l.checkpoint.Pix)
	c.release(l.checkpoint)
}
