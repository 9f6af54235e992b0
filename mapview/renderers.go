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
	"math"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/layer"
	"github.com/worldink/worldink/viewport"
)

// Terrain paints the water colour over the whole surface and the land
// colour over the map extent.
type Terrain struct {
	Extent viewport.Extent
	Land   color.NRGBA
	Water  color.NRGBA

	p painter
}

func (t *Terrain) Render(ctx *layer.Context) error {
	draw.Draw(ctx.Surface, ctx.Surface.Rect, image.NewUniform(t.Water), image.Point{}, draw.Src)
	t.p.begin(ctx)
	r := t.Extent.Rect()
	t.p.newPath().
		MoveTo(vec.Vec2{X: r.LLx, Y: r.LLy}).
		LineTo(vec.Vec2{X: r.URx, Y: r.LLy}).
		LineTo(vec.Vec2{X: r.URx, Y: r.URy}).
		LineTo(vec.Vec2{X: r.LLx, Y: r.URy}).
		Close()
	t.p.fill(t.Land)
	return nil
}

// Grid draws the lines of the map grid, thinned out according to Density.
type Grid struct {
	Extent   viewport.Extent
	GridSize int
	Density  Thresholds[GridDensity]

	p painter
}

func (g *Grid) Render(ctx *layer.Context) error {
	cfg, ok := g.Density.Lookup(scaleOf(ctx.View))
	if !ok || g.GridSize <= 0 || cfg.Every <= 0 {
		return nil
	}
	vis, ok := visible(ctx.View, g.Extent)
	if !ok {
		return nil
	}
	g.p.begin(ctx)
	step := float64(g.GridSize * cfg.Every)
	p := g.p.newPath()
	for x := math.Ceil(vis.LLx/step) * step; x <= vis.URx; x += step {
		p.MoveTo(vec.Vec2{X: x, Y: vis.LLy}).LineTo(vec.Vec2{X: x, Y: vis.URy})
	}
	for y := math.Ceil(vis.LLy/step) * step; y <= vis.URy; y += step {
		p.MoveTo(vec.Vec2{X: vis.LLx, Y: y}).LineTo(vec.Vec2{X: vis.URx, Y: y})
	}
	g.p.stroke(g.p.px(cfg.Width), cfg.Color, graphics.LineCapButt, graphics.LineJoinMiter)
	return nil
}

// Territories fills territory regions and outlines their borders.
type Territories struct {
	Items       []Territory
	BorderWidth float64 // screen pixels

	z *vector.Rasterizer
	p painter
}

func (t *Territories) Render(ctx *layer.Context) error {
	b := ctx.Surface.Rect
	if t.z == nil {
		t.z = vector.NewRasterizer(b.Dx(), b.Dy())
	}
	t.p.begin(ctx)
	bw := t.BorderWidth
	if bw <= 0 {
		bw = 1.5
	}
	for _, it := range SortByZ(t.Items) {
		t.z.Reset(b.Dx(), b.Dy())
		t.z.DrawOp = draw.Over
		for i, q := range it.Boundary {
			c := ctx.View.MapToCanvas(q)
			if i == 0 {
				t.z.MoveTo(float32(c.X), float32(c.Y))
			} else {
				t.z.LineTo(float32(c.X), float32(c.Y))
			}
		}
		t.z.ClosePath()
		t.z.Draw(ctx.Surface, b, image.NewUniform(it.Fill), image.Point{})

		if it.Border.A == 0 {
			continue
		}
		p := t.p.newPath()
		p.MoveTo(it.Boundary[0])
		for _, q := range it.Boundary[1:] {
			p.LineTo(q)
		}
		p.Close()
		t.p.stroke(t.p.px(bw), it.Border, graphics.LineCapRound, graphics.LineJoinRound)
	}
	return nil
}

// Connections draws routes between locations.
type Connections struct {
	Items []Connection

	p painter
}

func (c *Connections) Render(ctx *layer.Context) error {
	c.p.begin(ctx)
	for _, it := range SortByZ(c.Items) {
		p := c.p.newPath()
		p.MoveTo(it.Points[0])
		for _, q := range it.Points[1:] {
			p.LineTo(q)
		}
		w := it.Width
		if w <= 0 {
			w = 2
		}
		c.p.stroke(c.p.px(w), it.Color, graphics.LineCapRound, graphics.LineJoinRound)
	}
	return nil
}

// Markers draws a dot for every location.
type Markers struct {
	Items   []Location
	Outline color.NRGBA

	p painter
}

func (m *Markers) Render(ctx *layer.Context) error {
	m.p.begin(ctx)
	for _, it := range SortByZ(m.Items) {
		r := it.Radius
		if r <= 0 {
			r = 4
		}
		circle(m.p.newPath(), it.Pos, m.p.px(r))
		m.p.fill(it.Color)
		if m.Outline.A > 0 {
			circle(m.p.newPath(), it.Pos, m.p.px(r))
			m.p.stroke(m.p.px(1), m.Outline, graphics.LineCapRound, graphics.LineJoinRound)
		}
	}
	return nil
}

// Labels draws map labels, sized and shown according to Density.
type Labels struct {
	Items   []Label
	Density Thresholds[LabelDensity]
}

func (l *Labels) Render(ctx *layer.Context) error {
	cfg, ok := l.Density.Lookup(scaleOf(ctx.View))
	if !ok || !cfg.Show {
		return nil
	}
	for _, it := range SortByZ(l.Items) {
		s := it.Scale
		if s <= 0 {
			s = 1
		}
		face := fontFace(cfg.Size * s * ctx.View.Ratio())
		drawText(ctx.Surface, it.Text, ctx.View.MapToCanvas(it.Pos), it.Color, face)
	}
	return nil
}

// Coordinates labels the grid columns along the top edge and the grid
// rows along the left edge of the view. If Cursor is set, its map
// position is shown in the lower left corner.
type Coordinates struct {
	Extent   viewport.Extent
	GridSize int
	Density  Thresholds[GridDensity]
	Color    color.NRGBA
	Size     float64 // font size in screen pixels; 0 selects a default
	Cursor   *vec.Vec2
}

func (c *Coordinates) Render(ctx *layer.Context) error {
	size := c.Size
	if size <= 0 {
		size = 10
	}
	face := fontFace(size * ctx.View.Ratio())
	h := float64(face.Metrics().Height.Ceil())

	if c.Cursor != nil {
		txt := strconv.Itoa(int(math.Floor(c.Cursor.X))) + ", " + strconv.Itoa(int(math.Floor(c.Cursor.Y)))
		drawTextAt(ctx.Surface, txt, vec.Vec2{X: 4, Y: float64(ctx.Surface.Rect.Dy()) - 4}, c.Color, face)
	}

	cfg, ok := c.Density.Lookup(scaleOf(ctx.View))
	if !ok || c.GridSize <= 0 || cfg.Every <= 0 {
		return nil
	}
	vis, ok := visible(ctx.View, c.Extent)
	if !ok {
		return nil
	}
	step := float64(c.GridSize * cfg.Every)
	for x := math.Ceil(vis.LLx/step) * step; x < vis.URx; x += step {
		at := ctx.View.MapToCanvas(vec.Vec2{X: x, Y: vis.LLy})
		drawTextAt(ctx.Surface, strconv.Itoa(int(x)/c.GridSize), vec.Vec2{X: at.X + 2, Y: at.Y + h}, c.Color, face)
	}
	for y := math.Ceil(vis.LLy/step) * step; y < vis.URy; y += step {
		if y == vis.LLy {
			continue // the column labels use this corner
		}
		at := ctx.View.MapToCanvas(vec.Vec2{X: vis.LLx, Y: y})
		drawTextAt(ctx.Surface, strconv.Itoa(int(y)/c.GridSize), vec.Vec2{X: at.X + 2, Y: at.Y + h}, c.Color, face)
	}
	return nil
}

// ImageSource provides the raster of a drawing surface. It is
// implemented by *cache.Cache.
type ImageSource interface {
	Initialized() bool
	Image() *image.RGBA
}

// Surface draws the raster of a drawing surface through the view
// transformation.
type Surface struct {
	Source ImageSource

	// Interpolator resamples the raster; nil selects bilinear
	// interpolation.
	Interpolator draw.Interpolator
}

func (s *Surface) Render(ctx *layer.Context) error {
	if s.Source == nil || !s.Source.Initialized() {
		logging.Logger().Warn("mapview: drawing surface not initialized", "layer", ctx.Layer)
		return nil
	}
	img := s.Source.Image()
	m := ctx.Transform()
	s2d := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	ip := s.Interpolator
	if ip == nil {
		ip = draw.ApproxBiLinear
	}
	ip.Transform(ctx.Surface, s2d, img, img.Bounds(), draw.Over, nil)
	return nil
}
