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
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/worldink/worldink/cache"
	"github.com/worldink/worldink/history"
	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/stroke"
)

func (e *Engine) drawingCache(id string) (*cache.Cache, error) {
	c, ok := e.caches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	return c, nil
}

// busy reports, and logs, whether op must be refused because a stroke is
// in progress.
func (e *Engine) busy(op string) bool {
	if e.drawing == "" {
		return false
	}
	logging.Logger().Warn("worldink: "+op+" during a stroke ignored", "layer", e.drawing)
	return true
}

// Undo reverts the most recent operation and returns it. It reports false
// if there is nothing to undo or a stroke is in progress.
func (e *Engine) Undo() (history.Item, bool) {
	if e.busy("undo") {
		return history.Item{}, false
	}
	it, ok := e.hist.Undo()
	if !ok {
		logging.Logger().Debug("worldink: nothing to undo")
		return history.Item{}, false
	}
	if c := e.caches[it.LayerID]; c != nil && !c.Undo() {
		logging.Logger().Warn("worldink: raster snapshot missing for undo", "layer", it.LayerID, "kind", it.Kind.String())
	}
	e.invalidate(it.LayerID)
	return it, true
}

// Redo re-applies the most recently undone operation and returns it.
func (e *Engine) Redo() (history.Item, bool) {
	if e.busy("redo") {
		return history.Item{}, false
	}
	it, ok := e.hist.Redo()
	if !ok {
		logging.Logger().Debug("worldink: nothing to redo")
		return history.Item{}, false
	}
	if c := e.caches[it.LayerID]; c != nil && !c.Redo() {
		logging.Logger().Warn("worldink: raster snapshot missing for redo", "layer", it.LayerID, "kind", it.Kind.String())
	}
	e.invalidate(it.LayerID)
	return it, true
}

// CanUndo reports whether Undo would do something.
func (e *Engine) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would do something.
func (e *Engine) CanRedo() bool { return e.hist.CanRedo() }

// HistoryCount returns the number of operations that can be undone.
func (e *Engine) HistoryCount() int { return e.hist.Count() }

// HistoryItems returns the operations that can be undone, oldest first.
func (e *Engine) HistoryItems() []history.Item { return e.hist.Items() }

// Clear resets a drawing layer to its base image, or to transparent.
func (e *Engine) Clear(id string) error {
	if e.busy("clear") {
		return cache.ErrStrokeActive
	}
	c, err := e.drawingCache(id)
	if err != nil {
		return err
	}
	if err := c.Clear(); err != nil {
		return err
	}
	e.hist.Push(history.NewItem(id, history.KindClear))
	e.invalidate(id)
	return nil
}

// Rebuild repaints a drawing layer from the strokes in the history. Only
// strokes after the most recent clear or base image load of the layer are
// painted; strokes that have dropped out of the history are lost. The
// rebuild can be undone like any other operation.
func (e *Engine) Rebuild(id string) error {
	if e.busy("rebuild") {
		return cache.ErrStrokeActive
	}
	c, err := e.drawingCache(id)
	if err != nil {
		return err
	}
	var strokes []stroke.Stroke
	err = e.hist.Replay(func(it history.Item) error {
		if it.LayerID != id {
			return nil
		}
		switch it.Kind {
		case history.KindClear, history.KindBaseImage:
			strokes = strokes[:0]
		case history.KindStroke:
			strokes = append(strokes, stroke.Stroke{
				EventID: it.EventID,
				Tool:    it.Tool,
				Points:  it.Points,
				Style:   it.Style,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := c.Repaint(strokes); err != nil {
		return err
	}
	e.hist.Push(history.NewItem(id, history.KindRepaint))
	e.invalidate(id)
	return nil
}

// LoadBaseImage decodes data and loads it as the base image of a drawing
// layer. PNG, JPEG, BMP and TIFF are accepted.
func (e *Engine) LoadBaseImage(id string, data []byte) error {
	img, err := cache.Decode(data)
	if err != nil {
		return fmt.Errorf("worldink: base image for %q: %w", id, err)
	}
	return e.SetBaseImage(id, img)
}

// SetBaseImage loads img as the base image of a drawing layer. An image of
// the wrong size is centered, not scaled.
func (e *Engine) SetBaseImage(id string, img image.Image) error {
	if e.busy("base image load") {
		return cache.ErrStrokeActive
	}
	c, err := e.drawingCache(id)
	if err != nil {
		return err
	}
	if err := c.LoadBaseImage(img); err != nil {
		return err
	}
	e.hist.Push(history.NewItem(id, history.KindBaseImage))
	e.invalidate(id)
	return nil
}

// ExportLayer encodes the raster of a drawing layer.
func (e *Engine) ExportLayer(id string, f cache.Format) ([]byte, error) {
	c, err := e.drawingCache(id)
	if err != nil {
		return nil, err
	}
	return c.Bytes(f)
}

// ExportAll encodes the rasters of all drawing layers concurrently. The
// rasters are copied on the calling goroutine before encoding starts.
func (e *Engine) ExportAll(ctx context.Context, f cache.Format) (map[string][]byte, error) {
	type job struct {
		id  string
		img *image.RGBA
	}
	var jobs []job
	for _, id := range e.opts.DrawingLayers {
		if img := e.caches[id].Snapshot(); img != nil {
			jobs = append(jobs, job{id, img})
		}
	}

	var mu sync.Mutex
	out := make(map[string][]byte, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := cache.Encode(&buf, j.img, f); err != nil {
				return fmt.Errorf("worldink: export %q: %w", j.id, err)
			}
			mu.Lock()
			out[j.id] = buf.Bytes()
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
