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
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/worldink/worldink/raster"
	"github.com/worldink/worldink/stroke"
)

func v(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }

func near(a, b vec.Vec2, eps float64) bool {
	return a.Sub(b).Length() <= eps
}

func TestControlPointsStraight(t *testing.T) {
	c1, c2 := ControlPoints(v(0, 0), v(10, 0), v(20, 0), v(30, 0), 0.5)
	if !near(c1, v(10+10.0/3, 0), 1e-9) || !near(c2, v(20-10.0/3, 0), 1e-9) {
		t.Errorf("control points %v, %v", c1, c2)
	}
}

func TestPathInterpolates(t *testing.T) {
	pts := []vec.Vec2{v(0, 0), v(5, 1), v(10, 0), v(15, 1), v(20, 0)}
	for i := range len(pts) - 1 {
		p1, c1, c2, p2 := Segment(pts, i, 0.5)
		if !near(Bezier(p1, c1, c2, p2, 0), pts[i], 1e-12) || !near(Bezier(p1, c1, c2, p2, 1), pts[i+1], 1e-12) {
			t.Errorf("segment %d does not join the points", i)
		}
	}

	p := AppendPath(&path.Data{}, pts, 0.5, 0)
	if len(p.Cmds) != len(pts) || p.Cmds[0] != path.CmdMoveTo {
		t.Errorf("unexpected commands %v", p.Cmds)
	}
	if last := p.Coords[len(p.Coords)-1]; last != pts[len(pts)-1] {
		t.Errorf("path ends at %v", last)
	}
}

// TestTangentContinuity checks that adjacent segments share the tangent
// direction at the common point.
func TestTangentContinuity(t *testing.T) {
	pts := []vec.Vec2{v(0, 0), v(10, 5), v(20, 3), v(28, 12), v(35, 10)}
	for i := 1; i < len(pts)-1; i++ {
		_, _, in, p := Segment(pts, i-1, 0.5)
		_, out, _, _ := Segment(pts, i, 0.5)
		a := p.Sub(in)
		b := out.Sub(p)
		cross := a.X*b.Y - a.Y*b.X
		if math.Abs(cross) > 1e-9*a.Length()*b.Length() || a.Dot(b) <= 0 {
			t.Errorf("kink at point %d", i)
		}
	}
}

func TestSharpCornerNoOvershoot(t *testing.T) {
	pts := []vec.Vec2{v(0, 0), v(10, 0), v(0, 1)}
	for i := range len(pts) - 1 {
		p1, c1, c2, p2 := Segment(pts, i, 0.5)
		for _, q := range []vec.Vec2{p1, c1, c2, p2} {
			if q.X > 10+1e-3 {
				t.Errorf("segment %d: control point %v beyond the corner", i, q)
			}
		}
	}

	// without the reduction the handle would be 10*0.5*2/3 long
	_, _, c2, p2 := Segment(pts, 0, 0.5)
	if l := p2.Sub(c2).Length(); l > 0.1 {
		t.Errorf("handle at corner has length %g", l)
	}
}

func TestCoincidentPoints(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for range 1000 {
		var pts []vec.Vec2
		for range 2 + rng.IntN(6) {
			pts = append(pts, v(rng.Float64()*0.05, rng.Float64()*0.05))
		}
		if rng.IntN(2) == 0 {
			pts = append(pts, pts[len(pts)-1])
		}
		p := AppendPath(&path.Data{}, pts, 0.5, 0)
		for _, c := range p.Coords {
			if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
				t.Fatalf("non-finite control point for %v", pts)
			}
		}
	}
}

func TestContextStart(t *testing.T) {
	for _, tc := range []struct{ changed, want int }{{0, 0}, {1, 0}, {2, 0}, {5, 3}, {10, 8}} {
		if got := ContextStart(tc.changed); got != tc.want {
			t.Errorf("ContextStart(%d) = %d, want %d", tc.changed, got, tc.want)
		}
	}
}

func scenario() []stroke.Point {
	var out []stroke.Point
	for _, q := range [][2]float64{{0, 0}, {5, 1}, {10, 0}, {15, 1}, {20, 0}} {
		out = append(out, stroke.Point{X: q[0] + 10, Y: q[1] + 10, Pressure: 0.5})
	}
	return out
}

func TestFullRenderTouchesPoints(t *testing.T) {
	m := raster.NewMaskWriter(40, 30)
	pts := scenario()
	dirty := NewRenderer().Full(m, pts, stroke.DefaultStyle(), stroke.Pen)

	for _, p := range pts {
		if a := m.Mask.AlphaAt(int(p.X), int(p.Y)).A; a == 0 {
			t.Errorf("point (%g, %g) not painted", p.X, p.Y)
		}
	}
	if dirty.Empty() || !m.Dirty.In(dirty) {
		t.Errorf("dirty %v, mask dirty %v", dirty, m.Dirty)
	}
}

func TestIncrementalMatchesFull(t *testing.T) {
	pts := scenario()
	st := stroke.DefaultStyle()
	r := NewRenderer()

	full := raster.NewMaskWriter(40, 30)
	r.Full(full, pts, st, stroke.Pen)

	inc := raster.NewMaskWriter(40, 30)
	r.Full(inc, pts[:4], st, stroke.Pen)
	r.Incremental(inc, pts, 4, st, stroke.Pen)

	// every pixel of the full render is reached by the incremental one
	for i, a := range full.Mask.Pix {
		if a > 16 && inc.Mask.Pix[i] == 0 {
			t.Fatalf("pixel %d missing from incremental render", i)
		}
	}

	// redrawing is idempotent
	before := slices.Clone(full.Mask.Pix)
	r.Full(full, pts, st, stroke.Pen)
	if !slices.Equal(before, full.Mask.Pix) {
		t.Error("repeated render changed the mask")
	}
}

func TestEraserIsWider(t *testing.T) {
	pts := scenario()
	st := stroke.DefaultStyle()
	r := NewRenderer()
	pen := r.Full(raster.NewMaskWriter(40, 40), pts, st, stroke.Pen)
	eraser := r.Full(raster.NewMaskWriter(40, 40), pts, st, stroke.Eraser)
	if eraser.Dy() <= pen.Dy() || !pen.In(eraser) {
		t.Errorf("pen %v, eraser %v", pen, eraser)
	}
}

func TestPressureWidth(t *testing.T) {
	st := stroke.DefaultStyle()
	st.LineWidth = 8
	st.PressureScale = 1
	line := func(pressure float64) []stroke.Point {
		var out []stroke.Point
		for x := 10.0; x <= 50; x += 10 {
			out = append(out, stroke.Point{X: x, Y: 20, Pressure: pressure})
		}
		return out
	}
	r := NewRenderer()
	light := r.Full(raster.NewMaskWriter(60, 40), line(0.25), st, stroke.Pen)
	heavy := r.Full(raster.NewMaskWriter(60, 40), line(1), st, stroke.Pen)
	if light.Dy() >= heavy.Dy() {
		t.Errorf("light stroke %v not thinner than heavy stroke %v", light, heavy)
	}
}

func TestWorker(t *testing.T) {
	w := NewWorker(t.Context())
	defer w.Close()

	pts := []vec.Vec2{v(0, 0), v(5, 1), v(10, 0), v(15, 1), v(20, 0)}
	if !w.Submit(Request{EventID: 7, Generation: 3, Points: pts, Tension: 0.5}) {
		t.Fatal("submit refused")
	}

	var res Result
	deadline := time.Now().Add(5 * time.Second)
	for {
		var ok bool
		if res, ok = w.Poll(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no result from worker")
		}
		time.Sleep(time.Millisecond)
	}

	if res.EventID != 7 || res.Generation != 3 {
		t.Errorf("result for %d/%d", res.EventID, res.Generation)
	}
	want := AppendPath(&path.Data{}, pts, 0.5, 0)
	if !slices.Equal(res.Path.Cmds, want.Cmds) || !slices.Equal(res.Path.Coords, want.Coords) {
		t.Error("worker path differs from synchronous path")
	}

	w.Close()
	if w.Submit(Request{}) {
		t.Error("submit accepted after close")
	}
}
