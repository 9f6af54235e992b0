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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"github.com/worldink/worldink/layer"
	"github.com/worldink/worldink/raster"
	"github.com/worldink/worldink/viewport"
)

// painter fills and strokes map space paths onto a layer surface.
type painter struct {
	r    *raster.Rasterizer
	mask *raster.MaskWriter
	dst  *image.RGBA
	view viewport.State
	path path.Data
}

func (p *painter) begin(ctx *layer.Context) {
	if p.r == nil {
		p.r = raster.New(rect.Rect{})
	}
	b := ctx.Surface.Rect
	if p.mask == nil || p.mask.Mask.Rect != b {
		p.mask = &raster.MaskWriter{Mask: image.NewAlpha(b)}
	}
	p.r.Clip = rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	}
	p.r.CTM = ctx.Transform()
	p.dst = ctx.Surface
	p.view = ctx.View
}

// px converts a length in screen pixels to map units.
func (p *painter) px(screen float64) float64 {
	return screen * p.view.Ratio() / p.r.CTM[0]
}

func (p *painter) newPath() *path.Data {
	p.path.Cmds = p.path.Cmds[:0]
	p.path.Coords = p.path.Coords[:0]
	return &p.path
}

func (p *painter) fill(c color.NRGBA) {
	p.r.Fill(&p.path, p.mask.Emit)
	p.flush(c)
}

func (p *painter) stroke(width float64, c color.NRGBA, cap graphics.LineCapStyle, join graphics.LineJoinStyle) {
	p.r.Width = width
	p.r.Cap = cap
	p.r.Join = join
	p.r.Stroke(&p.path, p.mask.Emit)
	p.flush(c)
}

func (p *painter) flush(c color.NRGBA) {
	raster.Composite(p.dst, nil, p.mask.Mask, c, raster.SourceOver, p.mask.Dirty)
	p.mask.Reset()
}

// circle appends a circle approximated by four cubic arcs.
func circle(p *path.Data, c vec.Vec2, r float64) {
	k := r * kappa
	p.MoveTo(vec.Vec2{X: c.X + r, Y: c.Y})
	p.CubeTo(vec.Vec2{X: c.X + r, Y: c.Y + k}, vec.Vec2{X: c.X + k, Y: c.Y + r}, vec.Vec2{X: c.X, Y: c.Y + r})
	p.CubeTo(vec.Vec2{X: c.X - k, Y: c.Y + r}, vec.Vec2{X: c.X - r, Y: c.Y + k}, vec.Vec2{X: c.X - r, Y: c.Y})
	p.CubeTo(vec.Vec2{X: c.X - r, Y: c.Y - k}, vec.Vec2{X: c.X - k, Y: c.Y - r}, vec.Vec2{X: c.X, Y: c.Y - r})
	p.CubeTo(vec.Vec2{X: c.X + k, Y: c.Y - r}, vec.Vec2{X: c.X + r, Y: c.Y - k}, vec.Vec2{X: c.X + r, Y: c.Y})
	p.Close()
}

// scaleOf returns the effective screen pixels per map unit of v.
func scaleOf(v viewport.State) float64 {
	return v.TransformParams()[0] / v.Ratio()
}

// visible returns the part of the extent inside the view. The second
// result is false if they do not overlap.
func visible(v viewport.State, e viewport.Extent) (rect.Rect, bool) {
	vis := v.VisibleMapRect()
	r := rect.Rect{
		LLx: max(vis.LLx, 0),
		LLy: max(vis.LLy, 0),
		URx: min(vis.URx, float64(e.Width)),
		URy: min(vis.URy, float64(e.Height)),
	}
	return r, r.LLx < r.URx && r.LLy < r.URy
}

const kappa = 0.5522847498307936
