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
	"errors"
	"fmt"

	"github.com/worldink/worldink"
	"github.com/worldink/worldink/stroke"
)

// Replay performs the steps of sc on e, rendering a frame after every
// pointer event. Scenario coordinates are multiplied by gridSize.
func Replay(e *worldink.Engine, sc Scenario, gridSize int) error {
	for i, step := range sc.Steps {
		if err := replayStep(e, step, float64(gridSize)); err != nil {
			return fmt.Errorf("%s: step %d: %w", sc.Name, i, err)
		}
		e.Frame()
	}
	return nil
}

func replayStep(e *worldink.Engine, step Step, grid float64) error {
	switch s := step.(type) {
	case Stroke:
		return replayStroke(e, s, grid)
	case Undo:
		if _, ok := e.Undo(); !ok {
			return errors.New("nothing to undo")
		}
	case Redo:
		if _, ok := e.Redo(); !ok {
			return errors.New("nothing to redo")
		}
	case Clear:
		return e.Clear(layerOrTerrain(s.Layer))
	case Rebuild:
		return e.Rebuild(layerOrTerrain(s.Layer))
	case Pan:
		e.Pan(s.DX, s.DY)
	case Zoom:
		e.ZoomAt(s.X, s.Y, s.Factor)
	case Resize:
		e.Resize(s.Width, s.Height)
	default:
		return fmt.Errorf("unknown step %T", step)
	}
	return nil
}

func layerOrTerrain(id string) string {
	if id == "" {
		return worldink.LayerTerrain
	}
	return id
}

func replayStroke(e *worldink.Engine, s Stroke, grid float64) error {
	if len(s.Points) == 0 {
		return nil
	}
	if err := e.SetActiveLayer(layerOrTerrain(s.Layer)); err != nil {
		return err
	}
	st := s.Style
	if st.LineWidth <= 0 {
		st = stroke.DefaultStyle()
	}
	e.SetTool(s.Tool)
	e.SetStyle(st)

	view := e.View()
	samples := make([]stroke.Sample, len(s.Points))
	for i, p := range s.Points {
		q := view.MapToScreen(p.Mul(grid))
		pressure := 0.5
		if i < len(s.Pressure) {
			pressure = s.Pressure[i]
		}
		samples[i] = stroke.Sample{
			ScreenX:   q.X,
			ScreenY:   q.Y,
			Timestamp: float64(i) * sampleInterval,
			Pressure:  pressure,
		}
	}

	if err := e.PointerDown(stroke.PointerEvent{Sample: samples[0]}); err != nil {
		return err
	}
	last := len(samples) - 1
	moves := samples[1:max(last, 1)]
	k := max(s.Coalesce, 1)
	for len(moves) > 0 {
		n := min(k, len(moves))
		ev := stroke.PointerEvent{Sample: moves[n-1]}
		if k > 1 {
			ev.Coalesced = moves[:n]
		}
		e.PointerMove(ev)
		e.Frame()
		moves = moves[n:]
	}
	_, err := e.PointerUp(stroke.PointerEvent{Sample: samples[last]})
	return err
}

// sampleInterval is the time between samples, in milliseconds.
const sampleInterval = 8
