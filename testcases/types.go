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


// Package testcases holds named drawing scenarios shared by the tests and
// the command line tools.
//
// Coordinates are given in grid cells. Multiplying by the grid size gives
// map units, so the same scenario works on maps of every size.
package testcases

import (
	"image/color"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"github.com/worldink/worldink/stroke"
)

// Scenario is a sequence of user actions on a fresh engine.
type Scenario struct {
	Name  string // lowercase a-z and _ only
	Steps []Step

	// WantHistory is the number of undoable operations after all steps.
	WantHistory int
}

// Step is one user action.
type Step interface {
	isStep()
}

// Stroke draws a stroke through Points.
type Stroke struct {
	Layer  string // drawing layer; empty selects the terrain
	Tool   stroke.Tool
	Style  stroke.Style
	Points []vec.Vec2 // grid cells

	// Pressure gives the pressure of every point. If nil, all points use
	// the default pressure.
	Pressure []float64

	// Coalesce groups this many samples into each pointer event. Values
	// below 2 send one event per sample.
	Coalesce int
}

func (Stroke) isStep() {}

// Undo undoes the most recent operation.
type Undo struct{}

func (Undo) isStep() {}

// Redo redoes the most recently undone operation.
type Redo struct{}

func (Redo) isStep() {}

// Clear resets a drawing layer.
type Clear struct {
	Layer string
}

func (Clear) isStep() {}

// Rebuild repaints a drawing layer from the history.
type Rebuild struct {
	Layer string
}

func (Rebuild) isStep() {}

// Pan moves the view by screen pixels.
type Pan struct {
	DX, DY float64
}

func (Pan) isStep() {}

// Zoom scales the view about a screen position.
type Zoom struct {
	X, Y, Factor float64
}

func (Zoom) isStep() {}

// Resize changes the host size, in screen pixels.
type Resize struct {
	Width, Height float64
}

func (Resize) isStep() {}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

func pen(width float64, c color.NRGBA) stroke.Style {
	return stroke.Style{
		LineWidth: width,
		Color:     c,
		Tension:   0.5,
		Cap:       graphics.LineCapRound,
		Join:      graphics.LineJoinRound,
	}
}

var (
	black = color.NRGBA{A: 255}
	red   = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	blue  = color.NRGBA{R: 20, G: 60, B: 200, A: 160}
)
