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


package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// segment is a flattened piece of a stroked path, in path coordinates.
type segment struct {
	a, b vec.Vec2
	t    vec.Vec2 // unit direction from a to b
	n    vec.Vec2 // t rotated by +90 degrees
}

// Stroke paints the outline of p with the current Width, Cap and Join.
//
// The outline is built as a union of convex pieces: one quadrilateral per
// flattened segment, one piece per join and one per cap. All pieces are
// normalised to the same orientation and filled together with the nonzero
// rule, so overlaps are painted once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	if r.Width <= 0 {
		return
	}
	r.flattenStroke(p)

	r.poly = r.poly[:0]
	r.polyEnds = r.polyEnds[:0]
	hw := r.Width / 2

	for _, c := range r.dots {
		switch r.Cap {
		case graphics.LineCapRound:
			r.addCircle(c, hw)
		case graphics.LineCapSquare:
			r.addPiece(
				c.Add(vec.Vec2{X: -hw, Y: -hw}), c.Add(vec.Vec2{X: hw, Y: -hw}),
				c.Add(vec.Vec2{X: hw, Y: hw}), c.Add(vec.Vec2{X: -hw, Y: hw}))
		}
	}

	for i, start := range r.runs {
		end := len(r.segs)
		if i+1 < len(r.runs) {
			end = r.runs[i+1]
		}
		r.outlineRun(r.segs[start:end], r.closed[i], hw)
	}

	r.resetEdges()
	start := 0
	for _, end := range r.polyEnds {
		pts := r.poly[start:end]
		for j := range pts {
			r.addEdge(pts[j], pts[(j+1)%len(pts)])
		}
		start = end
	}
	r.scan(emit)
}

// flattenStroke splits p into runs of flattened segments. Subpaths without
// any extent are collected in r.dots.
func (r *Rasterizer) flattenStroke(p *path.Data) {
	r.segs = r.segs[:0]
	r.runs = r.runs[:0]
	r.closed = r.closed[:0]
	r.dots = r.dots[:0]

	var cur, start vec.Vec2
	runStart := 0
	open := false
	finish := func(closed bool) {
		if !open {
			return
		}
		if len(r.segs) == runStart {
			r.dots = append(r.dots, start)
		} else {
			r.runs = append(r.runs, runStart)
			r.closed = append(r.closed, closed)
		}
		runStart = len(r.segs)
		open = false
	}
	add := func(a, b vec.Vec2) {
		d := b.Sub(a)
		l := d.Length()
		if l < zeroLengthThreshold {
			return
		}
		t := d.Mul(1 / l)
		r.segs = append(r.segs, segment{a: a, b: b, t: t, n: vec.Vec2{X: -t.Y, Y: t.X}})
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			cur = p.Coords[k]
			start = cur
			open = true
			k++
		case path.CmdLineTo:
			add(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			c := p.Coords[k : k+2]
			c1 := cur.Add(c[0].Sub(cur).Mul(2.0 / 3))
			c2 := c[1].Add(c[0].Sub(c[1]).Mul(2.0 / 3))
			r.flattenCubic(cur, c1, c2, c[1], add)
			cur = c[1]
			k += 2
		case path.CmdCubeTo:
			c := p.Coords[k : k+3]
			r.flattenCubic(cur, c[0], c[1], c[2], add)
			cur = c[2]
			k += 3
		case path.CmdClose:
			add(cur, start)
			cur = start
			finish(true)
		}
	}
	finish(false)
}

// outlineRun adds the pieces for one subpath.
func (r *Rasterizer) outlineRun(segs []segment, closed bool, hw float64) {
	for i := range segs {
		s := &segs[i]
		r.addPiece(s.a.Add(s.n.Mul(hw)), s.b.Add(s.n.Mul(hw)), s.b.Sub(s.n.Mul(hw)), s.a.Sub(s.n.Mul(hw)))
		if i > 0 {
			r.addJoin(&segs[i-1], s, hw)
		}
	}
	if closed {
		r.addJoin(&segs[len(segs)-1], &segs[0], hw)
		return
	}
	r.addCap(segs[0].a, segs[0].t.Mul(-1), hw)
	last := &segs[len(segs)-1]
	r.addCap(last.b, last.t, hw)
}

// addCap adds the cap at p, where t points away from the stroke.
func (r *Rasterizer) addCap(p, t vec.Vec2, hw float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(p, hw)
	case graphics.LineCapSquare:
		n := vec.Vec2{X: -t.Y, Y: t.X}
		ext := t.Mul(hw)
		r.addPiece(p.Add(n.Mul(hw)), p.Add(n.Mul(hw)).Add(ext), p.Sub(n.Mul(hw)).Add(ext), p.Sub(n.Mul(hw)))
	}
}

// addJoin fills the wedge left open on the outer side of the corner where
// s1 ends and s2 begins.
func (r *Rasterizer) addJoin(s1, s2 *segment, hw float64) {
	cross := s1.t.X*s2.t.Y - s1.t.Y*s2.t.X
	dot := s1.t.Dot(s2.t)
	if math.Abs(cross) < collinearityThreshold && dot > 0 {
		return
	}
	p := s1.b
	if r.Join == graphics.LineJoinRound {
		r.addCircle(p, hw)
		return
	}

	// outer side: a left turn opens the right side and vice versa
	side := -1.0
	if cross < 0 {
		side = 1
	}
	o1 := p.Add(s1.n.Mul(side * hw))
	o2 := p.Add(s2.n.Mul(side * hw))

	if r.Join == graphics.LineJoinMiter {
		cosHalf := math.Sqrt(max(0, (1+dot)/2))
		if cosHalf > 0 && 1/cosHalf <= r.MiterLimit+miterEpsilon {
			bis := s1.n.Add(s2.n)
			if l := bis.Length(); l > zeroLengthThreshold {
				tip := p.Add(bis.Mul(side * hw / (cosHalf * l)))
				r.addPiece(p, o1, tip, o2)
				return
			}
		}
	}
	r.addPiece(p, o1, o2)
}

// addCircle adds a polygonal disc around c. The vertex count keeps the
// deviation from the true circle below Flatness.
func (r *Rasterizer) addCircle(c vec.Vec2, radius float64) {
	dev := radius * r.deviceScale()
	n := 4
	if dev > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/dev)
		if step > 0 && !math.IsNaN(step) {
			n = max(n, int(math.Ceil(2*math.Pi/step)))
		}
	}
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, c.Add(vec.Vec2{X: math.Cos(a), Y: math.Sin(a)}.Mul(radius)))
	}
	r.closePiece()
}

// addPiece adds a convex polygon with the given vertices.
func (r *Rasterizer) addPiece(pts ...vec.Vec2) {
	r.poly = append(r.poly, pts...)
	r.closePiece()
}

// closePiece ends the polygon started after the previous one, reversing it
// if it is oriented clockwise.
func (r *Rasterizer) closePiece() {
	start := 0
	if k := len(r.polyEnds); k > 0 {
		start = r.polyEnds[k-1]
	}
	pts := r.poly[start:]
	if len(pts) < 3 {
		r.poly = r.poly[:start]
		return
	}
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	r.polyEnds = append(r.polyEnds, len(r.poly))
}

const (
	// zeroLengthThreshold is the shortest stroke segment kept.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold bounds the sine of the angle between
	// segments that are joined without a join piece.
	collinearityThreshold = 1e-6

	miterEpsilon = 1e-10
)
