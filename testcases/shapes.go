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


package testcases

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// line returns n+1 evenly spaced points from a to b.
func line(a, b vec.Vec2, n int) []vec.Vec2 {
	pts := make([]vec.Vec2, n+1)
	for i := range pts {
		t := float64(i) / float64(n)
		pts[i] = a.Add(b.Sub(a).Mul(t))
	}
	return pts
}

// wave returns n+1 points of a sine wave starting at start.
func wave(start vec.Vec2, length, amplitude, periods float64, n int) []vec.Vec2 {
	pts := make([]vec.Vec2, n+1)
	for i := range pts {
		t := float64(i) / float64(n)
		pts[i] = pt(start.X+t*length, start.Y+amplitude*math.Sin(2*math.Pi*periods*t))
	}
	return pts
}

// spiral returns n+1 points of an Archimedean spiral around c.
func spiral(c vec.Vec2, turns, radius float64, n int) []vec.Vec2 {
	pts := make([]vec.Vec2, n+1)
	for i := range pts {
		t := float64(i) / float64(n)
		a := 2 * math.Pi * turns * t
		r := radius * t
		pts[i] = pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}

// zigzag returns the corners of a zigzag line with sharp turns.
func zigzag(start vec.Vec2, step, height float64, n int) []vec.Vec2 {
	pts := make([]vec.Vec2, n+1)
	for i := range pts {
		y := start.Y
		if i%2 == 1 {
			y -= height
		}
		pts[i] = pt(start.X+float64(i)*step, y)
	}
	return pts
}

// ramp returns n pressure values rising from lo to hi.
func ramp(lo, hi float64, n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = lo + (hi-lo)*float64(i)/float64(max(n-1, 1))
	}
	return p
}
