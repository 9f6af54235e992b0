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


package mapview

import (
	"image"
	"image/color"
	"slices"
	"testing"

	"seehuhn.de/go/geom/vec"

	"github.com/worldink/worldink/layer"
	"github.com/worldink/worldink/viewport"
)

func TestThresholdsLookup(t *testing.T) {
	th := NewThresholds(
		Threshold[string]{MinScale: 1, Config: "near"},
		Threshold[string]{MinScale: 0.1, Config: "far"},
		Threshold[string]{MinScale: 0.5, Config: "mid"},
	)
	cases := []struct {
		scale float64
		want  string
		ok    bool
	}{
		{0.05, "", false},
		{0.1, "far", true},
		{0.3, "far", true},
		{0.5, "mid", true},
		{0.99, "mid", true},
		{1, "near", true},
		{100, "near", true},
	}
	for _, c := range cases {
		got, ok := th.Lookup(c.scale)
		if got != c.want || ok != c.ok {
			t.Errorf("Lookup(%g) = %q, %t, want %q, %t", c.scale, got, ok, c.want, c.ok)
		}
	}
	var empty Thresholds[int]
	if _, ok := empty.Lookup(1); ok {
		t.Error("empty table matched")
	}
}

func TestSortByZ(t *testing.T) {
	locs := []Location{
		{ID: "a", Priority: 2},
		{ID: "b", Priority: 1},
		{ID: "c", Priority: 2, Hidden: true},
		{ID: "d", Priority: 1},
	}
	var ids []string
	for _, l := range SortByZ(locs) {
		ids = append(ids, l.ID)
	}
	if want := []string{"b", "d", "a"}; !slices.Equal(ids, want) {
		t.Errorf("order %v, want %v", ids, want)
	}

	// mixed entity kinds through the common capability
	items := []Renderable{
		Label{Text: "x", Priority: 3},
		Territory{Boundary: []vec.Vec2{{}, {X: 1}, {Y: 1}}, Priority: 0},
		Connection{Points: []vec.Vec2{{}, {X: 4, Y: 2}}, Priority: 1},
		Label{Priority: -1}, // empty text is invisible
	}
	sorted := SortByZ(items)
	if len(sorted) != 3 {
		t.Fatalf("%d visible items, want 3", len(sorted))
	}
	if a := sorted[1].Anchor(); a != (vec.Vec2{X: 2, Y: 1}) {
		t.Errorf("connection anchor %v", a)
	}
}

func testContext(view viewport.State) *layer.Context {
	w, h := view.CanvasSize()
	return &layer.Context{Layer: "test", Surface: image.NewRGBA(image.Rect(0, 0, w, h)), View: view}
}

func TestTerrain(t *testing.T) {
	view := viewport.State{OffsetX: 10, OffsetY: 10, Scale: 1, DevicePixelRatio: 1, Width: 60, Height: 40}
	ctx := testContext(view)
	water := color.NRGBA{B: 200, A: 255}
	land := color.NRGBA{G: 200, A: 255}
	r := &Terrain{Extent: viewport.Extent{Width: 20, Height: 10}, Land: land, Water: water}
	if err := r.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if c := ctx.Surface.RGBAAt(2, 2); c != (color.RGBA{B: 200, A: 255}) {
		t.Errorf("water pixel %v", c)
	}
	if c := ctx.Surface.RGBAAt(15, 15); c != (color.RGBA{G: 200, A: 255}) {
		t.Errorf("land pixel %v", c)
	}
}

func TestGrid(t *testing.T) {
	view := viewport.State{Scale: 1, DevicePixelRatio: 1, Width: 100, Height: 50}
	ctx := testContext(view)
	line := color.NRGBA{A: 255}
	g := &Grid{
		Extent:   viewport.Extent{Width: 100, Height: 50},
		GridSize: 10,
		Density: NewThresholds(
			Threshold[GridDensity]{MinScale: 0.5, Config: GridDensity{Every: 2, Width: 2, Color: line}},
		),
	}
	if err := g.Render(ctx); err != nil {
		t.Fatal(err)
	}
	// vertical lines every 20 units, 2 pixels wide
	if a := ctx.Surface.RGBAAt(20, 25).A; a != 255 {
		t.Errorf("grid line alpha %d", a)
	}
	if a := ctx.Surface.RGBAAt(30, 25).A; a != 0 {
		t.Errorf("skipped grid line drawn, alpha %d", a)
	}

	// below the smallest threshold nothing is drawn
	ctx = testContext(viewport.State{Scale: 0.1, DevicePixelRatio: 1, Width: 100, Height: 50})
	if err := g.Render(ctx); err != nil {
		t.Fatal(err)
	}
	for _, v := range ctx.Surface.Pix {
		if v != 0 {
			t.Fatal("grid drawn below minimum scale")
		}
	}
}

func TestTerritoriesAndMarkers(t *testing.T) {
	view := viewport.State{Scale: 2, DevicePixelRatio: 1, Width: 100, Height: 100}
	ctx := testContext(view)
	red := color.NRGBA{R: 255, A: 255}
	tr := &Territories{Items: []Territory{{
		Boundary: []vec.Vec2{{X: 5, Y: 5}, {X: 45, Y: 5}, {X: 45, Y: 45}, {X: 5, Y: 45}},
		Fill:     red,
		Border:   color.NRGBA{A: 255},
	}}, BorderWidth: 4}
	if err := tr.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if c := ctx.Surface.RGBAAt(50, 50); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("territory interior %v", c)
	}
	if c := ctx.Surface.RGBAAt(10, 50); c != (color.RGBA{A: 255}) {
		t.Errorf("territory border %v", c)
	}

	blue := color.NRGBA{B: 255, A: 255}
	m := &Markers{Items: []Location{{Pos: vec.Vec2{X: 25, Y: 25}, Radius: 5, Color: blue}}}
	if err := m.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if c := ctx.Surface.RGBAAt(50, 50); c != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("marker centre %v", c)
	}
	if c := ctx.Surface.RGBAAt(60, 50); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("outside marker %v", c)
	}
}

func TestConnections(t *testing.T) {
	view := viewport.State{Scale: 1, DevicePixelRatio: 2, Width: 50, Height: 50}
	ctx := testContext(view)
	c := &Connections{Items: []Connection{{
		Points: []vec.Vec2{{X: 5, Y: 10}, {X: 40, Y: 10}},
		Width:  2,
		Color:  color.NRGBA{A: 255},
	}}}
	if err := c.Render(ctx); err != nil {
		t.Fatal(err)
	}
	// 2 screen pixels at dpr 2 cover rows 18 to 21 of the canvas
	for y := 18; y < 22; y++ {
		if a := ctx.Surface.RGBAAt(40, y).A; a != 255 {
			t.Errorf("row %d alpha %d", y, a)
		}
	}
	if a := ctx.Surface.RGBAAt(40, 24).A; a != 0 {
		t.Errorf("row 24 alpha %d", a)
	}
}

func TestDegenerateEntities(t *testing.T) {
	view := viewport.State{Scale: 2, DevicePixelRatio: 1, Width: 100, Height: 100}
	ctx := testContext(view)
	red := color.NRGBA{R: 255, A: 255}
	black := color.NRGBA{A: 255}
	tr := &Territories{Items: []Territory{
		{Fill: red, Border: black},
		{Boundary: []vec.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}}, Fill: red, Border: black},
		{
			Boundary: []vec.Vec2{{X: 5, Y: 5}, {X: 45, Y: 5}, {X: 45, Y: 45}, {X: 5, Y: 45}},
			Fill:     red,
			Border:   black,
		},
	}}
	if err := tr.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if c := ctx.Surface.RGBAAt(50, 50); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("territory interior %v", c)
	}

	c := &Connections{Items: []Connection{
		{Color: black},
		{Points: []vec.Vec2{{X: 5, Y: 5}}, Color: black},
		{Points: []vec.Vec2{{X: 5, Y: 40}, {X: 45, Y: 40}}, Width: 4, Color: black},
	}}
	if err := c.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if a := ctx.Surface.RGBAAt(50, 80).A; a != 255 {
		t.Errorf("connection alpha %d", a)
	}
}

func TestLabels(t *testing.T) {
	view := viewport.State{Scale: 1, DevicePixelRatio: 1, Width: 100, Height: 40}
	l := &Labels{
		Items:   []Label{{Text: "Harbor", Pos: vec.Vec2{X: 50, Y: 20}, Color: color.NRGBA{A: 255}}},
		Density: DefaultLabelDensity(),
	}
	ctx := testContext(view)
	if err := l.Render(ctx); err != nil {
		t.Fatal(err)
	}
	inked := func(img *image.RGBA) (int, image.Rectangle) {
		n := 0
		var box image.Rectangle
		for y := 0; y < img.Rect.Dy(); y++ {
			for x := 0; x < img.Rect.Dx(); x++ {
				if img.RGBAAt(x, y).A > 0 {
					n++
					box = box.Union(image.Rect(x, y, x+1, y+1))
				}
			}
		}
		return n, box
	}
	n, box := inked(ctx.Surface)
	if n == 0 {
		t.Fatal("no label drawn")
	}
	if !image.Pt(50, 20).In(box.Inset(-2)) {
		t.Errorf("label box %v not around its anchor", box)
	}

	ctx = testContext(viewport.State{Scale: 0.05, DevicePixelRatio: 1, Width: 100, Height: 40})
	if err := l.Render(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := inked(ctx.Surface); n != 0 {
		t.Error("label drawn while zoomed out")
	}
}

func TestCoordinates(t *testing.T) {
	view := viewport.State{Scale: 1, DevicePixelRatio: 1, Width: 100, Height: 60}
	cursor := vec.Vec2{X: 12.5, Y: 7}
	c := &Coordinates{
		Extent:   viewport.Extent{Width: 100, Height: 60},
		GridSize: 10,
		Density:  DefaultGridDensity(),
		Color:    color.NRGBA{A: 255},
		Cursor:   &cursor,
	}
	ctx := testContext(view)
	if err := c.Render(ctx); err != nil {
		t.Fatal(err)
	}
	n := 0
	for i := 3; i < len(ctx.Surface.Pix); i += 4 {
		if ctx.Surface.Pix[i] > 0 {
			n++
		}
	}
	if n == 0 {
		t.Error("no coordinates drawn")
	}
}

type fakeSource struct {
	img *image.RGBA
}

func (f fakeSource) Initialized() bool  { return f.img != nil }
func (f fakeSource) Image() *image.RGBA { return f.img }

func TestSurface(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 4; y < 12; y++ {
		for x := 8; x < 24; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	view := viewport.State{OffsetX: 5, OffsetY: 3, Scale: 2, DevicePixelRatio: 1, Width: 100, Height: 50}
	ctx := testContext(view)
	s := &Surface{Source: fakeSource{src}}
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}
	// map (16, 8) is at canvas (37, 19)
	if c := ctx.Surface.RGBAAt(37, 19); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("surface pixel %v", c)
	}
	if c := ctx.Surface.RGBAAt(3, 3); c.A != 0 {
		t.Errorf("outside pixel %v", c)
	}

	// uninitialized sources are skipped
	ctx = testContext(view)
	s = &Surface{Source: fakeSource{}}
	if err := s.Render(ctx); err != nil {
		t.Fatal(err)
	}
}
