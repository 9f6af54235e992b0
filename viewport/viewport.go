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

// Package viewport converts between the three coordinate spaces of a map
// view: screen space (host pixels, as reported by pointer events), canvas
// space (device pixels, screen space times the device pixel ratio) and
// logical map space (the fixed raster extent of every layer).
//
// The device pixel ratio enters the conversions in exactly one place,
// [State.TransformParams]. Every other conversion is derived from that
// matrix or its inverse.
package viewport

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// State is a snapshot of the view transform. The zero value is not useful;
// missing or non-positive scale factors are treated as 1.
type State struct {
	// OffsetX and OffsetY give the screen position of the map origin.
	OffsetX, OffsetY float64

	// Scale is the number of screen pixels per map unit.
	Scale float64

	// DevicePixelRatio is the number of canvas pixels per screen pixel.
	DevicePixelRatio float64

	// Width and Height give the size of the host surface in screen pixels.
	Width, Height float64
}

// Extent is the fixed logical size of a map, in map units.
type Extent struct {
	Width, Height int
}

// MapExtent returns the logical map size for the given grid size:
// 360 columns by 180 rows of gridSize units each.
func MapExtent(gridSize int) Extent {
	return Extent{Width: 360 * gridSize, Height: 180 * gridSize}
}

// Rect returns the extent as a rectangle anchored at the origin.
func (e Extent) Rect() rect.Rect {
	return rect.Rect{URx: float64(e.Width), URy: float64(e.Height)}
}

func (s State) scale() float64 {
	if s.Scale <= 0 || math.IsNaN(s.Scale) || math.IsInf(s.Scale, 0) {
		return 1
	}
	return s.Scale
}

// Ratio returns the effective device pixel ratio.
func (s State) Ratio() float64 {
	if s.DevicePixelRatio <= 0 || math.IsNaN(s.DevicePixelRatio) {
		return 1
	}
	return s.DevicePixelRatio
}

// TransformParams returns the affine map from logical map space to canvas
// space, laid out as [scaleX, 0, 0, scaleY, translateX, translateY].
// Installing this matrix once per layer lets all subsequent drawing
// operate directly in map units.
func (s State) TransformParams() matrix.Matrix {
	dpr := s.Ratio()
	k := s.scale() * dpr
	return matrix.Matrix{k, 0, 0, k, s.OffsetX * dpr, s.OffsetY * dpr}
}

// MapToCanvas converts a point in map space to canvas space.
func (s State) MapToCanvas(p vec.Vec2) vec.Vec2 {
	m := s.TransformParams()
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// CanvasToMap converts a point in canvas space to map space.
func (s State) CanvasToMap(p vec.Vec2) vec.Vec2 {
	m := s.TransformParams()
	// The matrix has no shear, so the inverse is component-wise.
	return vec.Vec2{
		X: (p.X - m[4]) / m[0],
		Y: (p.Y - m[5]) / m[3],
	}
}

// ScreenToCanvas converts a host-relative pointer position to canvas space.
func (s State) ScreenToCanvas(p vec.Vec2) vec.Vec2 {
	return p.Mul(s.Ratio())
}

// CanvasToScreen converts a canvas position back to screen space.
func (s State) CanvasToScreen(p vec.Vec2) vec.Vec2 {
	return p.Mul(1 / s.Ratio())
}

// ScreenToMap converts a host-relative pointer position to map space.
func (s State) ScreenToMap(p vec.Vec2) vec.Vec2 {
	return s.CanvasToMap(s.ScreenToCanvas(p))
}

// MapToScreen converts a point in map space to screen space.
func (s State) MapToScreen(p vec.Vec2) vec.Vec2 {
	return s.CanvasToScreen(s.MapToCanvas(p))
}

// CanvasSize returns the size of the backing surface in canvas pixels.
func (s State) CanvasSize() (width, height int) {
	dpr := s.Ratio()
	return int(math.Ceil(s.Width * dpr)), int(math.Ceil(s.Height * dpr))
}

// VisibleMapRect returns the part of map space covered by the view.
func (s State) VisibleMapRect() rect.Rect {
	w, h := s.CanvasSize()
	ll := s.CanvasToMap(vec.Vec2{})
	ur := s.CanvasToMap(vec.Vec2{X: float64(w), Y: float64(h)})
	return rect.Rect{LLx: ll.X, LLy: ll.Y, URx: ur.X, URy: ur.Y}
}

// Pan returns the state moved by (dx, dy) screen pixels.
func (s State) Pan(dx, dy float64) State {
	s.OffsetX += dx
	s.OffsetY += dy
	return s
}

// Limits bounds the zoom scale.
type Limits struct {
	MinScale, MaxScale float64
}

// DefaultLimits allow zooming from a tenth to forty times the base scale.
var DefaultLimits = Limits{MinScale: 0.1, MaxScale: 40}

func (l Limits) clamp(scale float64) float64 {
	if l.MinScale > 0 && scale < l.MinScale {
		scale = l.MinScale
	}
	if l.MaxScale > 0 && scale > l.MaxScale {
		scale = l.MaxScale
	}
	return scale
}

// ZoomAt scales the view by factor around the given screen position. The
// map point under the position stays fixed.
func (s State) ZoomAt(screen vec.Vec2, factor float64, lim Limits) State {
	if factor <= 0 || math.IsNaN(factor) {
		return s
	}
	anchor := s.ScreenToMap(screen)
	newScale := lim.clamp(s.scale() * factor)
	s.Scale = newScale
	s.OffsetX = screen.X - anchor.X*newScale
	s.OffsetY = screen.Y - anchor.Y*newScale
	return s
}

// Resize returns the state with a new host size. The offset and scale are
// unchanged, so map coordinates of existing content stay put.
func (s State) Resize(width, height float64) State {
	s.Width = width
	s.Height = height
	return s
}

// Fit returns a state of the given host size that shows the whole extent,
// centred, at the largest scale that fits.
func Fit(e Extent, width, height, dpr float64) State {
	s := State{Width: width, Height: height, DevicePixelRatio: dpr, Scale: 1}
	if e.Width <= 0 || e.Height <= 0 || width <= 0 || height <= 0 {
		return s
	}
	s.Scale = min(width/float64(e.Width), height/float64(e.Height))
	s.OffsetX = (width - float64(e.Width)*s.Scale) / 2
	s.OffsetY = (height - float64(e.Height)*s.Scale) / 2
	return s
}
