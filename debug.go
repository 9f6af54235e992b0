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
	"github.com/worldink/worldink/layer"
	"github.com/worldink/worldink/viewport"
)

// CacheInfo describes the raster cache of a drawing layer.
type CacheInfo struct {
	ID            string
	Width, Height int
	HasBaseImage  bool
	Undo, Redo    int
	Live          bool
}

// DebugInfo is a snapshot of the engine state for inspection.
type DebugInfo struct {
	View        viewport.State
	Layers      []layer.LayerInfo
	Caches      []CacheInfo
	StrokeState string
	ActiveLayer string
	Tool        string

	HistoryCount     int
	CanUndo, CanRedo bool

	FramesRequested int
	FramesCancelled int
	FramesFlushed   int
}

// Debug returns the current state of the engine.
func (e *Engine) Debug() DebugInfo {
	info := DebugInfo{
		View:         e.view,
		Layers:       e.layers.Debug(),
		StrokeState:  e.store.State().String(),
		ActiveLayer:  e.activeLayer,
		Tool:         e.tool.String(),
		HistoryCount: e.hist.Count(),
		CanUndo:      e.hist.CanUndo(),
		CanRedo:      e.hist.CanRedo(),
	}
	info.FramesRequested, info.FramesCancelled, info.FramesFlushed = e.frames.Stats()
	for _, id := range e.opts.DrawingLayers {
		c := e.caches[id]
		ci := CacheInfo{ID: id, HasBaseImage: c.HasBaseImage(), Live: c.Live()}
		ci.Width, ci.Height = c.Size()
		ci.Undo, ci.Redo = c.Depth()
		info.Caches = append(info.Caches, ci)
	}
	return info
}
