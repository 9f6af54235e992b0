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
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"

	"github.com/worldink/worldink/internal/logging"
)

var fonts struct {
	once   sync.Once
	parsed *opentype.Font
	err    error

	mu    sync.Mutex
	faces map[int]font.Face // by size in canvas pixels
}

// fontFace returns the Go Regular face at the given pixel size, falling
// back to a fixed bitmap face if the font cannot be loaded.
func fontFace(size float64) font.Face {
	fonts.once.Do(func() {
		fonts.parsed, fonts.err = opentype.Parse(goregular.TTF)
		if fonts.err != nil {
			logging.Logger().Warn("mapview: font unavailable, using bitmap face", "err", fonts.err)
		}
		fonts.faces = make(map[int]font.Face)
	})
	if fonts.err != nil {
		return basicfont.Face7x13
	}
	key := max(1, int(math.Round(size)))

	fonts.mu.Lock()
	defer fonts.mu.Unlock()
	if f, ok := fonts.faces[key]; ok {
		return f
	}
	f, err := opentype.NewFace(fonts.parsed, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	fonts.faces[key] = f
	return f
}

// drawText draws s with its centre at the canvas position at.
func drawText(dst *image.RGBA, s string, at vec.Vec2, c color.NRGBA, face font.Face) {
	width := font.MeasureString(face, s)
	m := face.Metrics()
	dot := fixed.Point26_6{
		X: fixed.Int26_6(at.X*64) - width/2,
		Y: fixed.Int26_6(at.Y*64) + (m.Ascent-m.Descent)/2,
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  dot,
	}
	d.DrawString(s)
}

// drawTextAt draws s with its baseline starting at the canvas position at.
func drawTextAt(dst *image.RGBA, s string, at vec.Vec2, c color.NRGBA, face font.Face) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(int(at.X), int(at.Y)),
	}
	d.DrawString(s)
}
