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
	"image"
	"image/color"
)

// Op is a Porter-Duff compositing operator.
type Op uint8

const (
	// SourceOver paints the source on top of the destination.
	// Result: S + D*(1-Sa)
	SourceOver Op = iota

	// DestinationOut removes the destination where the source is opaque.
	// Result: D*(1-Sa)
	DestinationOut
)

func (op Op) String() string {
	switch op {
	case SourceOver:
		return "source-over"
	case DestinationOut:
		return "destination-out"
	default:
		return "unknown"
	}
}

// Composite paints the colour c, modulated by mask, onto dst inside r.
// The destination pixels are read from base, which must have the same
// bounds as dst, or from dst itself if base is nil. Reading from a
// separate base image makes repeated composites of a growing mask
// idempotent: the result only depends on base and the final mask.
//
// All pixel data are premultiplied, as in [image.RGBA].
func Composite(dst, base *image.RGBA, mask *image.Alpha, c color.NRGBA, op Op, r image.Rectangle) {
	r = r.Intersect(dst.Rect).Intersect(mask.Rect)
	if base == nil {
		base = dst
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		bi := base.PixOffset(r.Min.X, y)
		mi := mask.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, di, bi, mi = x+1, di+4, bi+4, mi+1 {
			d := base.Pix[bi : bi+4 : bi+4]
			out := dst.Pix[di : di+4 : di+4]
			m := mask.Pix[mi]
			if m == 0 {
				copy(out, d)
				continue
			}
			sa := mulDiv255(c.A, m)
			inv := 255 - sa
			switch op {
			case DestinationOut:
				out[0] = mulDiv255(d[0], inv)
				out[1] = mulDiv255(d[1], inv)
				out[2] = mulDiv255(d[2], inv)
				out[3] = mulDiv255(d[3], inv)
			default:
				out[0] = addSat(mulDiv255(c.R, sa), mulDiv255(d[0], inv))
				out[1] = addSat(mulDiv255(c.G, sa), mulDiv255(d[1], inv))
				out[2] = addSat(mulDiv255(c.B, sa), mulDiv255(d[2], inv))
				out[3] = addSat(sa, mulDiv255(d[3], inv))
			}
		}
	}
}

// mulDiv255 returns a*b/255, rounded, without a division.
func mulDiv255(a, b uint8) uint8 {
	t := uint16(a)*uint16(b) + 128
	return uint8((t + t>>8) >> 8)
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	return uint8(min(s, 255))
}
