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

// Package stroke holds the freehand stroke model and the store that owns the
// life cycle of the stroke currently being drawn.
package stroke

import (
	"fmt"
	"image/color"
	"math"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"github.com/worldink/worldink/viewport"
)

// Point is one input sample in logical map space.
type Point struct {
	X, Y        float64
	Timestamp   float64 // milliseconds
	Pressure    float64 // in [0, 1]
	IsPredicted bool
}

// Pos returns the position of the point.
func (p Point) Pos() vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}

// Tool selects how a stroke is composited.
type Tool int

const (
	Pen Tool = iota
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Pen:
		return "pen"
	case Eraser:
		return "eraser"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// Style describes the appearance of a stroke.
type Style struct {
	// LineWidth is the pen width in map units. Eraser strokes are twice
	// as wide.
	LineWidth float64

	// Color is the pen colour. It is ignored by the eraser.
	Color color.NRGBA

	// Tension scales the Catmull-Rom control handles. 0 draws a polyline,
	// 0.5 is the usual smooth setting.
	Tension float64

	// PressureScale in [0, 1] controls how strongly the pen pressure
	// modulates the width. 0 draws at constant width.
	PressureScale float64

	Cap  graphics.LineCapStyle
	Join graphics.LineJoinStyle
}

// DefaultStyle returns a 4 unit wide black round pen.
func DefaultStyle() Style {
	return Style{
		LineWidth: 4,
		Color:     color.NRGBA{A: 255},
		Tension:   0.5,
		Cap:       graphics.LineCapRound,
		Join:      graphics.LineJoinRound,
	}
}

// Width returns the effective stroke width for the given tool.
func (s Style) Width(t Tool) float64 {
	if t == Eraser {
		return s.LineWidth * eraserWidthMultiplier
	}
	return s.LineWidth
}

// PressureWidth returns the width for a segment drawn with the given
// average pressure.
func (s Style) PressureWidth(t Tool, pressure float64) float64 {
	w := s.Width(t)
	if s.PressureScale <= 0 {
		return w
	}
	k := min(s.PressureScale, 1)
	return w * (1 - k + k*clampPressure(pressure))
}

// Stroke is one pointer-down to pointer-up input.
type Stroke struct {
	EventID            uint64
	Tool               Tool
	Points             []Point
	OriginalPointCount int
	Style              Style
}

// Sample is a raw pointer sample in screen space.
type Sample struct {
	ScreenX, ScreenY float64
	Timestamp        float64
	Pressure         float64
	Predicted        bool
}

// PointerEvent is the platform-neutral form of a pointer event. Platform
// event objects must be converted to this shape before they reach the
// store.
type PointerEvent struct {
	Sample

	// Coalesced holds the high-frequency samples the platform merged into
	// this event. When present they replace the event's own sample.
	Coalesced []Sample
}

// Samples returns the samples carried by the event, oldest first.
func (e PointerEvent) Samples() []Sample {
	if len(e.Coalesced) > 0 {
		return e.Coalesced
	}
	return []Sample{e.Sample}
}

// MapPoints converts the event's samples to map-space points.
func (e PointerEvent) MapPoints(view viewport.State) []Point {
	samples := e.Samples()
	pts := make([]Point, 0, len(samples))
	for _, s := range samples {
		p := view.ScreenToMap(vec.Vec2{X: s.ScreenX, Y: s.ScreenY})
		pts = append(pts, Point{
			X:           p.X,
			Y:           p.Y,
			Timestamp:   s.Timestamp,
			Pressure:    normalizePressure(s.Pressure),
			IsPredicted: s.Predicted,
		})
	}
	return pts
}

// normalizePressure clamps to [0, 1]. Devices without pressure support
// report 0 while a button is held; those samples get the midpoint.
func normalizePressure(p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		return defaultPressure
	}
	return clampPressure(p)
}

func clampPressure(p float64) float64 {
	return max(0, min(1, p))
}

const (
	eraserWidthMultiplier = 2.0
	defaultPressure       = 0.5
)
