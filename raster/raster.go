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


// Package raster converts vector paths into anti-aliased pixel coverage and
// composites coverage masks onto RGBA surfaces.
//
// Coverage is computed exactly from the signed area that the path boundary
// sweeps inside each pixel. Curves are flattened into line segments first,
// using a tolerance measured in device pixels.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one pixel row, starting at column xMin.
// The slice is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a non-horizontal line segment in device space.
type edge struct {
	x0, y0 float64
	yMin   float64
	yMax   float64
	dxdy   float64
	dir    float32 // +1 if the edge runs downwards, -1 otherwise
}

func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// Rasterizer fills and strokes paths. Its buffers are kept between calls,
// so a single instance should be reused. A Rasterizer is not safe for
// concurrent use.
type Rasterizer struct {
	// CTM maps path coordinates to device pixels.
	CTM matrix.Matrix

	// Clip limits the output. The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the curve approximation tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in path units.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	edges  []edge
	active []int
	cover  []float32
	area   []float32

	bboxEmpty bool
	bbox      rect.Rect // device space bounding box of r.edges

	// stroke outline state
	segs     []segment
	runs     []int // start of each flattened subpath in segs
	closed   []bool
	dots     []vec.Vec2
	poly     []vec.Vec2
	polyEnds []int
}

// New returns a Rasterizer for the given clip rectangle, with an identity
// transformation and a one unit wide stroke with round caps and joins.
func New(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinRound,
		MiterLimit: defaultMiterLimit,
	}
}

// Fill fills p using the nonzero winding rule.
func (r *Rasterizer) Fill(p *path.Data, emit EmitFunc) {
	r.resetEdges()
	r.walk(p, r.addEdge)
	r.scan(emit)
}

// device applies the CTM to a point.
func (r *Rasterizer) device(p vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// deviceLength returns the length of v after the linear part of the CTM.
func (r *Rasterizer) deviceLength(v vec.Vec2) float64 {
	m := r.CTM
	return math.Hypot(m[0]*v.X+m[2]*v.Y, m[1]*v.X+m[3]*v.Y)
}

// deviceScale returns the largest factor by which the CTM stretches a unit
// length along either axis.
func (r *Rasterizer) deviceScale() float64 {
	return max(r.deviceLength(vec.Vec2{X: 1}), r.deviceLength(vec.Vec2{Y: 1}))
}

// walk flattens p and calls line for every resulting segment. Subpaths are
// closed implicitly.
func (r *Rasterizer) walk(p *path.Data, line func(a, b vec.Vec2)) {
	var cur, start vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open && cur != start {
				line(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			open = true
			k++
		case path.CmdLineTo:
			line(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			c := p.Coords[k : k+2]
			// degree elevation
			c1 := cur.Add(c[0].Sub(cur).Mul(2.0 / 3))
			c2 := c[1].Add(c[0].Sub(c[1]).Mul(2.0 / 3))
			r.flattenCubic(cur, c1, c2, c[1], line)
			cur = c[1]
			k += 2
		case path.CmdCubeTo:
			c := p.Coords[k : k+3]
			r.flattenCubic(cur, c[0], c[1], c[2], line)
			cur = c[2]
			k += 3
		case path.CmdClose:
			if cur != start {
				line(cur, start)
			}
			cur = start
			open = false
		}
	}
	if open && cur != start {
		line(cur, start)
	}
}

// flattenCubic approximates a cubic Bézier by line segments. The number of
// segments follows Wang's formula, evaluated in device space.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	dd := max(
		r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2)),
		r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3)),
	)
	n := 1
	if dd > 0 {
		n = max(1, int(math.Ceil(math.Sqrt(0.75*dd/r.Flatness))))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		next := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		if i == n {
			next = p3
		}
		line(prev, next)
		prev = next
	}
}

func (r *Rasterizer) resetEdges() {
	r.edges = r.edges[:0]
	r.bboxEmpty = true
}

// addEdge records the segment a-b, given in path coordinates.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	r.addDeviceEdge(r.device(a), r.device(b))
}

func (r *Rasterizer) addDeviceEdge(a, b vec.Vec2) {
	if r.bboxEmpty {
		r.bbox = rect.Rect{LLx: a.X, LLy: a.Y, URx: a.X, URy: a.Y}
		r.bboxEmpty = false
	}
	r.bbox.LLx = min(r.bbox.LLx, a.X, b.X)
	r.bbox.URx = max(r.bbox.URx, a.X, b.X)
	r.bbox.LLy = min(r.bbox.LLy, a.Y, b.Y)
	r.bbox.URy = max(r.bbox.URy, a.Y, b.Y)

	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	e := edge{x0: a.X, y0: a.Y, dxdy: (b.X - a.X) / dy, dir: 1}
	e.yMin, e.yMax = a.Y, b.Y
	if dy < 0 {
		e.yMin, e.yMax = b.Y, a.Y
		e.dir = -1
	}
	r.edges = append(r.edges, e)
}

// pixelBounds returns the integer pixel range covered by the edges,
// intersected with the clip rectangle.
func (r *Rasterizer) pixelBounds() (x0, x1, y0, y1 int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	x0 = max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	x1 = min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	y0 = max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	y1 = min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	return x0, x1, y0, y1, x0 < x1 && y0 < y1
}

// scan converts the collected edges into coverage, one scanline at a
// time, using an active edge list.
func (r *Rasterizer) scan(emit EmitFunc) {
	x0, x1, y0, y1, ok := r.pixelBounds()
	if !ok {
		return
	}
	w := x1 - x0
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin, b.yMin)
	})

	r.active = r.active[:0]
	next := 0
	for y := y0; y < y1; y++ {
		top, bot := float64(y), float64(y+1)
		for next < len(r.edges) && r.edges[next].yMin < bot {
			r.active = append(r.active, next)
			next++
		}

		// drop finished edges
		j := 0
		for _, idx := range r.active {
			if r.edges[idx].yMax > top {
				r.active[j] = idx
				j++
			}
		}
		r.active = r.active[:j]
		if len(r.active) == 0 {
			if next == len(r.edges) {
				return
			}
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, idx := range r.active {
			r.accumulate(&r.edges[idx], y, x0)
		}
		integrateNonZero(r.cover, r.area)
		if row, off := trimZeros(r.cover); row != nil {
			emit(y, x0+off, row)
		}
	}
}

// accumulate adds the contribution of e within scanline y to the cover and
// area buffers. Columns left of the buffer fold into column 0; columns to
// the right cannot affect the buffer and are dropped.
//
// For a piece of boundary with signed height h crossing column c at mean
// horizontal position x, the pixel itself receives h*(c+1-x) and every
// pixel right of it receives h.
func (r *Rasterizer) accumulate(e *edge, y, x0 int) {
	top := max(float64(y), e.yMin)
	bot := min(float64(y+1), e.yMax)
	if bot <= top {
		return
	}
	xa, xb := e.xAt(top), e.xAt(bot)
	lo, hi := min(xa, xb), max(xa, xb)
	c0, c1 := int(math.Floor(lo)), int(math.Floor(hi))

	if c0 == c1 {
		r.deposit(c0-x0, e.dir*float32(bot-top), (xa+xb)/2-float64(c0))
		return
	}

	// The edge crosses column boundaries: split it at every crossing.
	dydx := 1 / e.dxdy
	for c := c0; c <= c1; c++ {
		left := max(float64(c), lo)
		right := min(float64(c+1), hi)
		if right <= left {
			continue
		}
		h := math.Abs(right-left) * math.Abs(dydx)
		h = min(h, bot-top)
		r.deposit(c-x0, e.dir*float32(h), (left+right)/2-float64(c))
	}
}

// deposit adds coverage h at buffer column i, where frac is the mean
// position of the boundary inside the pixel.
func (r *Rasterizer) deposit(i int, h float32, frac float64) {
	if i < 0 {
		r.cover[0] += h
		r.area[0] += h
		return
	}
	if i >= len(r.cover) {
		return
	}
	r.cover[i] += h
	r.area[i] += h * float32(1-frac)
}

// integrateNonZero turns the accumulated buffers into coverage values,
// in place.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// trimZeros strips zero coverage from both ends of a row.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return row[lo:hi], lo
}

const (
	// defaultFlatness is the curve tolerance in device pixels.
	defaultFlatness = 0.25

	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// that contributes to coverage.
	horizontalEdgeThreshold = 1e-10
)
