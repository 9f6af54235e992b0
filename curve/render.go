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


package curve

import (
	"image"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/worldink/worldink/raster"
	"github.com/worldink/worldink/stroke"
)

// Renderer draws strokes into coverage masks. Map units are mask pixels.
// A Renderer is not safe for concurrent use.
type Renderer struct {
	r    *raster.Rasterizer
	pos  []vec.Vec2
	path path.Data

	mask  *raster.MaskWriter
	dirty image.Rectangle
}

// NewRenderer returns a renderer.
func NewRenderer() *Renderer {
	return &Renderer{r: raster.New(rect.Rect{})}
}

// Full draws the whole stroke and returns the bounding box of the pixels
// written.
func (c *Renderer) Full(m *raster.MaskWriter, pts []stroke.Point, st stroke.Style, tool stroke.Tool) image.Rectangle {
	return c.draw(m, pts, st, tool, 0)
}

// Incremental draws the part of the stroke affected by the points from
// changed onwards.
func (c *Renderer) Incremental(m *raster.MaskWriter, pts []stroke.Point, changed int, st stroke.Style, tool stroke.Tool) image.Rectangle {
	return c.draw(m, pts, st, tool, ContextStart(changed))
}

// DrawPath strokes a prebuilt path at constant width, as produced by a
// [Worker].
func (c *Renderer) DrawPath(m *raster.MaskWriter, p *path.Data, st stroke.Style, tool stroke.Tool) image.Rectangle {
	c.begin(m, st)
	c.r.Width = st.Width(tool)
	c.r.Stroke(p, c.emit)
	return c.end()
}

func (c *Renderer) draw(m *raster.MaskWriter, pts []stroke.Point, st stroke.Style, tool stroke.Tool, from int) image.Rectangle {
	if len(pts) == 0 || from >= len(pts) {
		return image.Rectangle{}
	}
	c.pos = c.pos[:0]
	for _, p := range pts {
		c.pos = append(c.pos, p.Pos())
	}

	c.begin(m, st)
	if st.PressureScale <= 0 || len(pts) < 2 {
		c.path.Cmds = c.path.Cmds[:0]
		c.path.Coords = c.path.Coords[:0]
		AppendPath(&c.path, c.pos, st.Tension, from)
		c.r.Width = st.Width(tool)
		c.r.Stroke(&c.path, c.emit)
		return c.end()
	}

	// variable width: one stroke per segment
	for i := from; i < len(pts)-1; i++ {
		p1, c1, c2, p2 := Segment(c.pos, i, st.Tension)
		c.path.Cmds = c.path.Cmds[:0]
		c.path.Coords = c.path.Coords[:0]
		c.path.MoveTo(p1).CubeTo(c1, c2, p2)
		c.r.Width = st.PressureWidth(tool, (pts[i].Pressure+pts[i+1].Pressure)/2)
		c.r.Stroke(&c.path, c.emit)
	}
	return c.end()
}

func (c *Renderer) begin(m *raster.MaskWriter, st stroke.Style) {
	b := m.Mask.Rect
	c.r.Clip = rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	}
	c.r.Cap = st.Cap
	c.r.Join = st.Join
	c.mask = m
	c.dirty = image.Rectangle{}
}

func (c *Renderer) end() image.Rectangle {
	c.mask = nil
	return c.dirty
}

func (c *Renderer) emit(y, xMin int, coverage []float32) {
	c.mask.Emit(y, xMin, coverage)
	c.dirty = c.dirty.Union(image.Rect(xMin, y, xMin+len(coverage), y+1))
}
