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


// Package mapview provides the renderers of the map layers and the map
// entities they draw.
//
// Every renderer implements [layer.Renderer]. Entities are given in map
// units; line widths, marker sizes and font sizes are given in screen
// pixels so that they stay readable at every zoom level.
package mapview

import (
	"cmp"
	"image/color"
	"slices"

	"seehuhn.de/go/geom/vec"
)

// Renderable is the capability shared by all map entities.
type Renderable interface {
	Anchor() vec.Vec2
	Visible() bool
	ZPriority() int
}

// Location is a point of interest.
type Location struct {
	ID       string
	Name     string
	Pos      vec.Vec2
	Radius   float64 // screen pixels; 0 selects a default
	Color    color.NRGBA
	Hidden   bool
	Priority int
}

func (l Location) Anchor() vec.Vec2 { return l.Pos }
func (l Location) Visible() bool    { return !l.Hidden }
func (l Location) ZPriority() int   { return l.Priority }

// Connection is a route between locations, drawn as a polyline.
type Connection struct {
	ID       string
	Points   []vec.Vec2
	Width    float64 // screen pixels; 0 selects a default
	Color    color.NRGBA
	Hidden   bool
	Priority int
}

// Anchor returns the midpoint of the first and last point.
func (c Connection) Anchor() vec.Vec2 {
	if len(c.Points) == 0 {
		return vec.Vec2{}
	}
	return c.Points[0].Add(c.Points[len(c.Points)-1]).Mul(0.5)
}

func (c Connection) Visible() bool  { return !c.Hidden && len(c.Points) >= 2 }
func (c Connection) ZPriority() int { return c.Priority }

// Territory is a filled region with an outline.
type Territory struct {
	ID       string
	Name     string
	Boundary []vec.Vec2 // closed implicitly
	Fill     color.NRGBA
	Border   color.NRGBA
	Hidden   bool
	Priority int
}

// Anchor returns the vertex centroid of the boundary.
func (t Territory) Anchor() vec.Vec2 {
	var c vec.Vec2
	if len(t.Boundary) == 0 {
		return c
	}
	for _, p := range t.Boundary {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(t.Boundary)))
}

func (t Territory) Visible() bool  { return !t.Hidden && len(t.Boundary) >= 3 }
func (t Territory) ZPriority() int { return t.Priority }

// Label is a text placed on the map, centred on Pos.
type Label struct {
	Text     string
	Pos      vec.Vec2
	Color    color.NRGBA
	Scale    float64 // font size multiplier; 0 means 1
	Hidden   bool
	Priority int
}

func (l Label) Anchor() vec.Vec2 { return l.Pos }
func (l Label) Visible() bool    { return !l.Hidden && l.Text != "" }
func (l Label) ZPriority() int   { return l.Priority }

// SortByZ returns the visible items ordered by ascending z-priority.
// Items of equal priority keep their relative order.
func SortByZ[R Renderable](items []R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		if it.Visible() {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b R) int {
		return cmp.Compare(a.ZPriority(), b.ZPriority())
	})
	return out
}
