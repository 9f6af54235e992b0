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

var viewCases = []Scenario{
	{
		Name: "zoom_then_draw",
		Steps: []Step{
			Zoom{X: 100, Y: 50, Factor: 2},
			Stroke{Style: pen(4, black), Points: wave(pt(40, 40), 100, 10, 1, 40)},
		},
		WantHistory: 1,
	},
	{
		Name: "pan_then_draw",
		Steps: []Step{
			Pan{DX: -40, DY: -20},
			Stroke{Style: pen(4, red), Points: line(pt(50, 50), pt(150, 120), 30)},
		},
		WantHistory: 1,
	},
	{
		Name: "resize_between_strokes",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: line(pt(20, 20), pt(200, 20), 30)},
			Resize{Width: 500, Height: 180},
			Stroke{Style: pen(4, black), Points: line(pt(20, 60), pt(200, 60), 30)},
		},
		WantHistory: 2,
	},
}
