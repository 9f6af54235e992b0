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


// Command export writes the drawing scenarios to JSON, for use by external
// reference tools.
// Run from the worldink module root directory.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/worldink/worldink/testcases"
)

func main() {
	var out struct {
		Scenarios []jsonScenario `json:"scenarios"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			out.Scenarios = append(out.Scenarios, toJSON(category, sc))
		}
	}

	if err := os.MkdirAll("testdata", 0o755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/scenarios.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonScenario struct {
	Name    string     `json:"name"`
	History int        `json:"history"`
	Steps   []jsonStep `json:"steps"`
}

type jsonStep struct {
	Op        string      `json:"op"`
	Layer     string      `json:"layer,omitempty"`
	Tool      string      `json:"tool,omitempty"`
	LineWidth float64     `json:"line_width,omitempty"`
	Color     []uint8     `json:"color,omitempty"`
	LineCap   string      `json:"line_cap,omitempty"`
	LineJoin  string      `json:"line_join,omitempty"`
	Points    [][]float64 `json:"points,omitempty"`
	Pressure  []float64   `json:"pressure,omitempty"`
	Coalesce  int         `json:"coalesce,omitempty"`
	Args      []float64   `json:"args,omitempty"`
}

func toJSON(category string, sc testcases.Scenario) jsonScenario {
	js := jsonScenario{
		Name:    category + "_" + sc.Name,
		History: sc.WantHistory,
	}
	for _, step := range sc.Steps {
		js.Steps = append(js.Steps, stepToJSON(step))
	}
	return js
}

func stepToJSON(step testcases.Step) jsonStep {
	switch s := step.(type) {
	case testcases.Stroke:
		js := jsonStep{
			Op:        "stroke",
			Layer:     s.Layer,
			Tool:      s.Tool.String(),
			LineWidth: s.Style.LineWidth,
			Color:     []uint8{s.Style.Color.R, s.Style.Color.G, s.Style.Color.B, s.Style.Color.A},
			LineCap:   s.Style.Cap.String(),
			LineJoin:  s.Style.Join.String(),
			Pressure:  s.Pressure,
			Coalesce:  s.Coalesce,
		}
		for _, p := range s.Points {
			js.Points = append(js.Points, []float64{p.X, p.Y})
		}
		return js
	case testcases.Undo:
		return jsonStep{Op: "undo"}
	case testcases.Redo:
		return jsonStep{Op: "redo"}
	case testcases.Clear:
		return jsonStep{Op: "clear", Layer: s.Layer}
	case testcases.Rebuild:
		return jsonStep{Op: "rebuild", Layer: s.Layer}
	case testcases.Pan:
		return jsonStep{Op: "pan", Args: []float64{s.DX, s.DY}}
	case testcases.Zoom:
		return jsonStep{Op: "zoom", Args: []float64{s.X, s.Y, s.Factor}}
	case testcases.Resize:
		return jsonStep{Op: "resize", Args: []float64{s.Width, s.Height}}
	}
	panic(fmt.Sprintf("unknown step %T", step))
}
