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
)

// SaveSnapshot pushes a copy of the working raster onto the undo stack and
// clears the redo stack.
func (c *Cache) SaveSnapshot() {
	if !c.initialized {
		return
	}
	if c.live != nil {
		logging.Logger().Warn("cache: snapshot during live stroke ignored", "layer", c.id)
		return
	}
	c.push(c.copyOf(c.work))
}

// push adds snap to the undo stack and drops the redo stack.
func (c *Cache) push(snap *image.RGBA) {
	c.undo = c.trim(append(c.undo, snap))
	for i, s := range c.redo {
		c.release(s)
		c.redo[i] = nil
	}
	c.redo = c.redo[:0]
}

// Undo restores the most recent snapshot. The replaced content moves to
// the redo stack. Undo reports false, leaving everything unchanged, if
// there is nothing to undo.
func (c *Cache) Undo() bool {
	if !c.canStep(c.undo, "undo") {
		return false
	}
	c.redo = append(c.redo, c.copyOf(c.work))
	c.undo = c.restore(c.undo)
	return true
}

// Redo re-applies the most recently undone change.
func (c *Cache) Redo() bool {
	if !c.canStep(c.redo, "redo") {
		return false
	}
	c.undo = c.trim(append(c.undo, c.copyOf(c.work)))
	c.redo = c.restore(c.redo)
	return true
}

func (c *Cache) canStep(stack []*image.RGBA, op string) bool {
	if c.live != nil {
		logging.Logger().Warn("cache: "+op+" during live stroke ignored", "layer", c.id)
		return false
	}
	if len(stack) == 0 {
		logging.Logger().Debug("cache: nothing to "+op, "layer", c.id)
		return false
	}
	return true
}

// CanUndo reports whether a snapshot is available.
func (c *Cache) CanUndo() bool {
	return len(c.undo) > 0
}

// CanRedo reports whether an undone change can be re-applied.
func (c *Cache) CanRedo() bool {
	return len(c.redo) > 0
}

// Depth returns the sizes of the undo and redo stacks.
func (c *Cache) Depth() (undo, redo int) {
	return len(c.undo), len(c.redo)
}

// restore copies the top of stack into the working raster and pops it.
func (c *Cache) restore(stack []*image.RGBA) []*image.RGBA {
	top := stack[len(stack)-1]
	copy(c.work.Pix, top.Pix)
	stack[len(stack)-1] = nil
	c.release(top)
	return stack[:len(stack)-1]
}

func (c *Cache) trim(stack []*image.RGBA) []*image.RGBA {
	for len(stack) > c.opts.Capacity {
		c.release(stack[0])
		stack[0] = nil
		stack = stack[1:]
	}
	return stack
}

// copyOf returns a copy of img in a recycled buffer if one is available.
func (c *Cache) copyOf(img *image.RGBA) *image.RGBA {
	var buf *image.RGBA
	if n := len(c.spare); n > 0 {
		buf = c.spare[n-1]
		c.spare[n-1] = nil
		c.spare = c.spare[:n-1]
	} else {
		buf = image.NewRGBA(img.Rect)
	}
	copy(buf.Pix, img.Pix)
	return buf
}

// release keeps a few buffers for reuse.
func (c *Cache) release(img *image.RGBA) {
	if len(c.spare) < maxSpare && img.Rect == c.work.Rect {
		c.spare = append(c.spare, img)
	}
}

const maxSpare = 2
