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


package testcases

var historyCases = []Scenario{
	{
		Name: "undo_redo",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: line(pt(20, 20), pt(100, 40), 20)},
			Stroke{Style: pen(4, red), Points: line(pt(20, 60), pt(100, 80), 20)},
			Stroke{Style: pen(4, blue), Points: line(pt(20, 100), pt(100, 120), 20)},
			Undo{},
			Undo{},
			Redo{},
		},
		WantHistory: 2,
	},
	{
		Name: "undo_then_draw",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: wave(pt(20, 40), 200, 10, 2, 50)},
			Stroke{Style: pen(4, black), Points: wave(pt(20, 80), 200, 10, 2, 50)},
			Undo{},
			Stroke{Style: pen(4, red), Points: wave(pt(20, 120), 200, 10, 2, 50)},
		},
		WantHistory: 2,
	},
	{
		Name: "clear_and_undo",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: spiral(pt(90, 90), 3, 50, 200)},
			Clear{},
			Undo{},
		},
		WantHistory: 1,
	},
	{
		Name: "rebuild",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: zigzag(pt(20, 100), 10, 30, 16)},
			Stroke{Style: pen(8, blue), Points: line(pt(10, 80), pt(200, 80), 30)},
			Rebuild{},
		},
		WantHistory: 3,
	},
	{
		Name:        "capacity",
		Steps:       capacitySteps(32),
		WantHistory: 30,
	},
}

// capacitySteps returns n short strokes, more than the history holds.
func capacitySteps(n int) []Step {
	steps := make([]Step, n)
	for i := range steps {
		y := 5 + float64(i)*5
		steps[i] = Stroke{Style: pen(2, black), Points: line(pt(10, y), pt(60, y), 5)}
	}
	return steps
}
