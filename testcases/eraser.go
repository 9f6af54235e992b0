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

import "github.com/worldink/worldink/stroke"

var eraserCases = []Scenario{
	{
		Name: "erase_over_pen",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: line(pt(30, 30), pt(200, 60), 30)},
			Stroke{Tool: stroke.Eraser, Style: pen(4, black), Points: line(pt(30, 30), pt(200, 60), 30)},
		},
		WantHistory: 2,
	},
	{
		Name: "erase_partial",
		Steps: []Step{
			Stroke{Style: pen(6, red), Points: wave(pt(20, 90), 320, 30, 2, 100)},
			Stroke{Tool: stroke.Eraser, Style: pen(5, black), Points: line(pt(180, 20), pt(180, 160), 20)},
		},
		WantHistory: 2,
	},
	{
		Name: "erase_empty",
		Steps: []Step{
			Stroke{Tool: stroke.Eraser, Style: pen(5, black), Points: line(pt(10, 10), pt(100, 100), 20)},
		},
		WantHistory: 1,
	},
}
