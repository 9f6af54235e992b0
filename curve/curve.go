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


// Package curve turns stroke point sequences into smooth cubic Bézier paths
// and renders them.
//
// Each segment between consecutive points p1 and p2 is a cubic whose
// control points follow the Catmull-Rom tangents at p1 and p2, computed
// from the neighbours p0 and p3. The first and last point of a stroke get
// mirrored neighbours, so every segment, including the end segments, is
// handled the same way.
package curve

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// ControlPoints returns the inner control points of the cubic from p1 to
// p2, where p0 precedes p1 and p3 follows p2.
//
// The handle lengths are proportional to the chord |p2-p1| and to the
// tension. At sharp corners the tension is reduced, so that the curve does
// not overshoot.
func ControlPoints(p0, p1, p2, p3 vec.Vec2, tension float64) (c1, c2 vec.Vec2) {
	chord := p2.Sub(p1).Length()
	if chord < coincidentDistance {
		// p1 and p2 (nearly) coincide: a straight segment
		return p1, p2
	}

	t1, k1 := tangent(p0, p1, p2, tension)
	t2, k2 := tangent(p1, p2, p3, tension)
	c1 = p1.Add(t1.Mul(chord * k1 * handleScale))
	c2 = p2.Sub(t2.Mul(chord * k2 * handleScale))
	return c1, c2
}

// tangent returns the unit tangent at cur, given its neighbours, together
// with the effective tension at cur.
func tangent(prev, cur, next vec.Vec2, tension float64) (vec.Vec2, float64) {
	in := cur.Sub(prev)
	out := next.Sub(cur)
	lin, lout := in.Length(), out.Length()

	switch {
	case lin < coincidentDistance && lout < coincidentDistance:
		return vec.Vec2{}, 0
	case lin < coincidentDistance:
		return out.Mul(1 / max(lout, epsilon)), tension
	case lout < coincidentDistance:
		return in.Mul(1 / max(lin, epsilon)), tension
	}

	d := next.Sub(prev)
	t := d.Mul(1 / max(d.Length(), epsilon))

	cos := in.Dot(out) / max(lin*lout, epsilon)
	if cos < sharpCornerCos {
		// scale down to zero at a full reversal
		tension *= max(0, (cos+1)/(sharpCornerCos+1))
	}
	return t, tension
}

// mirror reflects q across p.
func mirror(p, q vec.Vec2) vec.Vec2 {
	return p.Mul(2).Sub(q)
}

// neighbours returns the points before and after segment i of pts, using
// mirrored points beyond the ends.
func neighbours(pts []vec.Vec2, i int) (p0, p3 vec.Vec2) {
	n := len(pts)
	if i > 0 {
		p0 = pts[i-1]
	} else {
		p0 = mirror(pts[0], pts[1])
	}
	if i+2 < n {
		p3 = pts[i+2]
	} else {
		p3 = mirror(pts[n-1], pts[n-2])
	}
	return p0, p3
}

// AppendPath appends to p the Bézier path through pts, starting at point
// index from. The preceding points are only used for the tangent at
// pts[from]. A single point results in a zero length segment, which renders
// as a dot with round caps.
func AppendPath(p *path.Data, pts []vec.Vec2, tension float64, from int) *path.Data {
	if from < 0 {
		from = 0
	}
	switch {
	case from >= len(pts):
		return p
	case len(pts) == 1:
		return p.MoveTo(pts[0]).LineTo(pts[0])
	case from == len(pts)-1:
		return p.MoveTo(pts[from]).LineTo(pts[from])
	}

	p.MoveTo(pts[from])
	for i := from; i < len(pts)-1; i++ {
		p0, p3 := neighbours(pts, i)
		c1, c2 := ControlPoints(p0, pts[i], pts[i+1], p3, tension)
		p.CubeTo(c1, c2, pts[i+1])
	}
	return p
}

// Segment returns the control points of segment i of the path through
// pts.
func Segment(pts []vec.Vec2, i int, tension float64) (p1, c1, c2, p2 vec.Vec2) {
	p0, p3 := neighbours(pts, i)
	c1, c2 = ControlPoints(p0, pts[i], pts[i+1], p3, tension)
	return pts[i], c1, c2, pts[i+1]
}

// Bezier evaluates the cubic with the given control points at t.
func Bezier(p0, p1, p2, p3 vec.Vec2, t float64) vec.Vec2 {
	s := 1 - t
	return p0.Mul(s * s * s).
		Add(p1.Mul(3 * s * s * t)).
		Add(p2.Mul(3 * s * t * t)).
		Add(p3.Mul(t * t * t))
}

// ContextStart returns the index of the first point to draw when the points
// from changed onwards are new. The two segments before a new point change
// shape, so drawing starts two points earlier.
func ContextStart(changed int) int {
	return max(0, changed-contextPoints)
}

const (
	// handleScale converts tension times chord length into the handle
	// length. With tension 0.5 this matches uniform Catmull-Rom.
	handleScale = 2.0 / 3

	// sharpCornerCos is the cosine between adjacent directions below which
	// the tension is reduced (corners sharper than about 78 degrees).
	sharpCornerCos = 0.2

	// coincidentDistance is the distance in map units below which two
	// points are treated as one.
	coincidentDistance = 0.1

	// epsilon is the denominator floor for distances.
	epsilon = 1e-4

	contextPoints = 2
)
