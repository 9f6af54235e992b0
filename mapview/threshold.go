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
	"cmp"
	"image/color"
	"slices"
	"sort"
)

// Threshold pairs a configuration with the smallest view scale at which it
// applies.
type Threshold[T any] struct {
	MinScale float64
	Config   T
}

// Thresholds is an ordered table of per-scale configurations.
type Thresholds[T any] struct {
	steps []Threshold[T]
}

// NewThresholds returns a table of the given steps, in any order.
func NewThresholds[T any](steps ...Threshold[T]) Thresholds[T] {
	s := slices.Clone(steps)
	slices.SortStableFunc(s, func(a, b Threshold[T]) int {
		return cmp.Compare(a.MinScale, b.MinScale)
	})
	return Thresholds[T]{steps: s}
}

// Lookup returns the configuration of the step with the largest MinScale
// not exceeding scale. The second result is false if scale lies below all
// steps.
func (t Thresholds[T]) Lookup(scale float64) (T, bool) {
	i := sort.Search(len(t.steps), func(i int) bool {
		return t.steps[i].MinScale > scale
	})
	if i == 0 {
		var zero T
		return zero, false
	}
	return t.steps[i-1].Config, true
}

// Len returns the number of steps.
func (t Thresholds[T]) Len() int {
	return len(t.steps)
}

// GridDensity configures the grid at one zoom range.
type GridDensity struct {
	Every int     // draw every n-th grid line
	Width float64 // screen pixels
	Color color.NRGBA
}

// LabelDensity configures map labels at one zoom range.
type LabelDensity struct {
	Size float64 // font size in screen pixels
	Show bool
}

// DefaultGridDensity thins the grid out as the view zooms out. Scales are
// screen pixels per map unit.
func DefaultGridDensity() Thresholds[GridDensity] {
	line := color.NRGBA{R: 40, G: 40, B: 40, A: 90}
	return NewThresholds(
		Threshold[GridDensity]{MinScale: 0.05, Config: GridDensity{Every: 30, Width: 1, Color: line}},
		Threshold[GridDensity]{MinScale: 0.15, Config: GridDensity{Every: 10, Width: 1, Color: line}},
		Threshold[GridDensity]{MinScale: 0.4, Config: GridDensity{Every: 5, Width: 1, Color: line}},
		Threshold[GridDensity]{MinScale: 1, Config: GridDensity{Every: 1, Width: 1, Color: line}},
	)
}

// DefaultLabelDensity hides labels when zoomed far out and grows them with
// the zoom level.
func DefaultLabelDensity() Thresholds[LabelDensity] {
	return NewThresholds(
		Threshold[LabelDensity]{MinScale: 0, Config: LabelDensity{Show: false}},
		Threshold[LabelDensity]{MinScale: 0.2, Config: LabelDensity{Size: 10, Show: true}},
		Threshold[LabelDensity]{MinScale: 0.6, Config: LabelDensity{Size: 13, Show: true}},
		Threshold[LabelDensity]{MinScale: 2, Config: LabelDensity{Size: 16, Show: true}},
	)
}
