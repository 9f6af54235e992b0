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


package worldink

import (
	"image"

	"seehuhn.de/go/geom/vec"

	"github.com/worldink/worldink/curve"
	"github.com/worldink/worldink/history"
	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/raster"
	"github.com/worldink/worldink/stroke"
)

func vecOf(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// PointerDown starts a stroke on the active drawing layer with the
// selected tool and style. A stroke still in progress is abandoned.
func (e *Engine) PointerDown(ev stroke.PointerEvent) error {
	if e.drawing != "" {
		logging.Logger().Warn("worldink: pointer down during a stroke, abandoning it", "layer", e.drawing)
		e.CancelStroke()
	}
	c := e.caches[e.activeLayer]
	if c == nil {
		return ErrUnknownLayer
	}
	if err := c.BeginStroke(e.tool, e.style); err != nil {
		return err
	}
	id := e.store.StartStroke(e.tool, e.style)
	e.drawing = e.activeLayer
	e.pendingFrom = -1
	logging.Logger().Debug("worldink: stroke started", "event_id", id, "layer", e.drawing, "tool", e.tool.String())

	e.ingest(ev)
	return nil
}

// PointerMove adds the samples of ev to the stroke in progress and
// schedules a draw for the next frame. Without a stroke it only updates
// the cursor position of the coordinate overlay.
func (e *Engine) PointerMove(ev stroke.PointerEvent) {
	if e.drawing == "" {
		e.setCursor(ev)
		return
	}
	e.ingest(ev)
}

// PointerUp ends the stroke in progress. The final stroke is simplified,
// painted at full fidelity and logged before PointerUp returns. A stray
// pointer up without a stroke is logged and reported as ErrNotActive.
func (e *Engine) PointerUp(ev stroke.PointerEvent) (history.Item, error) {
	if e.drawing == "" {
		logging.Logger().Warn("worldink: pointer up without an active stroke ignored")
		return history.Item{}, ErrNotActive
	}
	e.store.AddPoints(ev.MapPoints(e.view)...)
	e.frames.Cancel()

	s, ok := e.store.FinalizeStroke()
	c := e.caches[e.drawing]
	layerID := e.drawing
	e.drawing = ""
	e.pendingFrom = -1
	if !ok || len(s.Points) == 0 {
		c.AbortStroke()
		e.invalidate(layerID)
		return history.Item{}, ErrNotActive
	}

	c.CommitStroke(s.Points)
	it := history.NewStrokeItem(layerID, s)
	e.hist.Push(it)
	e.invalidate(layerID)
	logging.Logger().Debug("worldink: stroke committed",
		"event_id", s.EventID, "layer", layerID,
		"original", s.OriginalPointCount, "points", len(s.Points))
	return it, nil
}

// CancelStroke discards the stroke in progress, if any, and restores the
// layer.
func (e *Engine) CancelStroke() {
	if e.drawing == "" {
		return
	}
	e.store.Abort()
	e.caches[e.drawing].AbortStroke()
	e.frames.Cancel()
	e.invalidate(e.drawing)
	e.drawing = ""
	e.pendingFrom = -1
}

// Drawing reports whether a stroke is in progress.
func (e *Engine) Drawing() bool {
	return e.drawing != ""
}

func (e *Engine) setCursor(ev stroke.PointerEvent) {
	pts := ev.MapPoints(e.view)
	if len(pts) == 0 {
		return
	}
	p := pts[len(pts)-1].Pos()
	e.coords.Cursor = &p
	e.invalidate(LayerCoordinates)
}

// ingest adds the samples of ev to the stroke and requests a draw.
func (e *Engine) ingest(ev stroke.PointerEvent) {
	e.setCursor(ev)
	if !e.store.AddPoints(ev.MapPoints(e.view)...) {
		return
	}
	d := e.store.IncrementalDrawData()
	if !d.CanDraw {
		return
	}
	if e.pendingFrom < 0 || d.NewSegmentStartIndex < e.pendingFrom {
		e.pendingFrom = d.NewSegmentStartIndex
	}
	e.generation++
	if e.useWorker() {
		cur, _ := e.store.Current()
		pos := make([]vec.Vec2, len(d.Points))
		for i, p := range d.Points {
			pos[i] = p.Pos()
		}
		from := 0
		if e.pendingFrom > 0 {
			from = curve.ContextStart(e.pendingFrom)
		}
		e.worker.Submit(curve.Request{
			EventID:    cur.EventID,
			Generation: e.generation,
			Points:     pos,
			Tension:    cur.Style.Tension,
			From:       from,
		})
	}
	e.frames.Request(e.drawLive)
}

// useWorker reports whether live paths are computed in the background.
// Pressure-dependent widths need per-segment strokes and are always drawn
// synchronously.
func (e *Engine) useWorker() bool {
	return e.worker != nil && e.style.PressureScale <= 0
}

// drawLive brings the live stroke on its layer up to date. A worker result
// is used only if it belongs to the current stroke and reflects all points
// received so far; otherwise the stroke is drawn synchronously.
func (e *Engine) drawLive() {
	if e.drawing == "" || e.pendingFrom < 0 {
		return
	}
	c := e.caches[e.drawing]
	cur, ok := e.store.Current()
	if !ok {
		return
	}

	var dirty image.Rectangle
	source := "sync"
	if res, ok := e.pollWorker(cur.EventID); ok {
		p := res.Path
		dirty = c.DrawLivePath(func(m *raster.MaskWriter, st stroke.Style, tool stroke.Tool) image.Rectangle {
			return e.renderer.DrawPath(m, p, st, tool)
		})
		source = "worker"
	} else {
		dirty = c.DrawLive(cur.Points, e.pendingFrom)
	}
	logging.Logger().Debug("worldink: live stroke drawn",
		"event_id", cur.EventID, "from", e.pendingFrom, "points", len(cur.Points), "source", source)
	e.pendingFrom = -1
	if !dirty.Empty() {
		e.invalidate(e.drawing)
	}
}

func (e *Engine) pollWorker(eventID uint64) (curve.Result, bool) {
	if !e.useWorker() {
		return curve.Result{}, false
	}
	res, ok := e.worker.Poll()
	if !ok || res.EventID != eventID || res.Generation != e.generation || res.Path == nil {
		return curve.Result{}, false
	}
	return res, true
}
