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

import (
	"seehuhn.de/go/geom/vec"

	"github.com/worldink/worldink/stroke"
)

var penCases = []Scenario{
	{
		Name: "simple_stroke",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: []vec.Vec2{
				pt(10, 10), pt(15, 11), pt(20, 10), pt(25, 11), pt(30, 10),
			}},
		},
		WantHistory: 1,
	},
	{
		Name: "wave",
		Steps: []Step{
			Stroke{Style: pen(3, black), Points: wave(pt(20, 60), 200, 15, 3, 120)},
		},
		WantHistory: 1,
	},
	{
		Name: "spiral",
		Steps: []Step{
			Stroke{Style: pen(2, red), Points: spiral(pt(180, 90), 4, 60, 400)},
		},
		WantHistory: 1,
	},
	{
		Name: "zigzag",
		Steps: []Step{
			Stroke{Style: pen(5, black), Points: zigzag(pt(30, 150), 12, 20, 20)},
		},
		WantHistory: 1,
	},
	{
		Name: "pressure",
		Steps: []Step{
			Stroke{
				Style: func() stroke.Style {
					s := pen(8, red)
					s.PressureScale = 1
					return s
				}(),
				Points:   wave(pt(40, 100), 240, 20, 1, 60),
				Pressure: ramp(0.1, 1, 61),
			},
		},
		WantHistory: 1,
	},
	{
		Name: "coalesced",
		Steps: []Step{
			Stroke{Style: pen(3, black), Points: line(pt(20, 20), pt(300, 160), 80), Coalesce: 4},
		},
		WantHistory: 1,
	},
	{
		Name: "translucent",
		Steps: []Step{
			Stroke{Style: pen(10, blue), Points: line(pt(40, 40), pt(200, 140), 40)},
			Stroke{Style: pen(10, blue), Points: line(pt(40, 140), pt(200, 40), 40)},
		},
		WantHistory: 2,
	},
	{
		Name: "second_layer",
		Steps: []Step{
			Stroke{Style: pen(4, black), Points: wave(pt(20, 90), 300, 10, 2, 80)},
			Stroke{Layer: "drawing", Style: pen(6, red), Points: line(pt(180, 10), pt(180, 170), 30)},
		},
		WantHistory: 2,
	},
	{
		Name: "tap",
		Steps: []Step{
			Stroke{Style: pen(6, black), Points: []vec.Vec2{pt(100, 100), pt(100, 100)}},
		},
		WantHistory: 1,
	},
}
