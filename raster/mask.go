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

import "image"

// MaskWriter collects coverage in an alpha mask. Where coverage is written
// more than once, the larger value wins, so rendering the same geometry
// twice leaves the mask unchanged.
type MaskWriter struct {
	Mask *image.Alpha

	// Dirty is the bounding box of all pixels written since the last
	// call to Reset.
	Dirty image.Rectangle
}

// NewMaskWriter returns a writer for a new transparent w×h mask.
func NewMaskWriter(w, h int) *MaskWriter {
	return &MaskWriter{Mask: image.NewAlpha(image.Rect(0, 0, w, h))}
}

// Emit can be passed to [Rasterizer.Fill] and [Rasterizer.Stroke].
func (m *MaskWriter) Emit(y, xMin int, coverage []float32) {
	b := m.Mask.Rect
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	lo := max(xMin, b.Min.X)
	hi := min(xMin+len(coverage), b.Max.X)
	if lo >= hi {
		return
	}
	row := m.Mask.Pix[m.Mask.PixOffset(lo, y):]
	touched := false
	for x := lo; x < hi; x++ {
		v := coverageByte(coverage[x-xMin])
		if v > row[x-lo] {
			row[x-lo] = v
		}
		touched = touched || v > 0
	}
	if touched {
		m.Dirty = m.Dirty.Union(image.Rect(lo, y, hi, y+1))
	}
}

// Reset clears the pixels inside Dirty and empties Dirty.
func (m *MaskWriter) Reset() {
	r := m.Dirty.Intersect(m.Mask.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.Mask.PixOffset(r.Min.X, y)
		clear(m.Mask.Pix[i : i+r.Dx()])
	}
	m.Dirty = image.Rectangle{}
}

// Resize replaces the mask by a transparent w×h one.
func (m *MaskWriter) Resize(w, h int) {
	m.Mask = image.NewAlpha(image.Rect(0, 0, w, h))
	m.Dirty = image.Rectangle{}
}

func coverageByte(c float32) uint8 {
	return uint8(max(0, min(255, int(c*256))))
}
