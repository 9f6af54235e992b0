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


// Package history keeps a bounded log of drawing operations.
//
// The log records what was done (tool, points, style) rather than pixels.
// It runs in step with the raster snapshots of the layer caches: every
// operation that saves a snapshot also pushes an item, so undoing an item
// and undoing a snapshot always refer to the same change.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/stroke"
)

// Kind is the type of a logged operation.
type Kind int

const (
	KindStroke Kind = iota
	KindBaseImage
	KindClear
	KindRepaint
)

func (k Kind) String() string {
	switch k {
	case KindStroke:
		return "stroke"
	case KindBaseImage:
		return "base-image"
	case KindClear:
		return "clear"
	case KindRepaint:
		return "repaint"
	default:
		return "unknown"
	}
}

// Item is one logged operation.
type Item struct {
	ID        uuid.UUID
	Kind      Kind
	LayerID   string
	Tool      stroke.Tool
	Points    []stroke.Point // after final simplification
	Style     stroke.Style
	EventID   uint64
	Timestamp time.Time
}

// NewStrokeItem returns an item for a finalized stroke on the given layer.
func NewStrokeItem(layerID string, s stroke.Stroke) Item {
	return Item{
		ID:        uuid.New(),
		Kind:      KindStroke,
		LayerID:   layerID,
		Tool:      s.Tool,
		Points:    s.Points,
		Style:     s.Style,
		EventID:   s.EventID,
		Timestamp: time.Now(),
	}
}

// NewItem returns an item of a kind without stroke data.
func NewItem(layerID string, kind Kind) Item {
	return Item{ID: uuid.New(), Kind: kind, LayerID: layerID, Timestamp: time.Now()}
}

// History is an undo/redo log with a fixed capacity. It is not safe for
// concurrent use.
type History struct {
	capacity int
	undo     []Item
	redo     []Item
}

// New returns an empty history. A capacity below 1 is replaced by the
// default of 30.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Capacity returns the maximum number of items kept.
func (h *History) Capacity() int {
	return h.capacity
}

// Push appends it and clears the redo stack. If the history is full the
// oldest item is dropped.
func (h *History) Push(it Item) {
	h.undo = append(h.undo, it)
	if n := len(h.undo) - h.capacity; n > 0 {
		clear(h.undo[:n])
		h.undo = h.undo[n:]
		logging.Logger().Debug("history: oldest items dropped", "dropped", n)
	}
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo moves the most recent item to the redo stack and returns it. It
// reports false if there is nothing to undo.
func (h *History) Undo() (Item, bool) {
	if len(h.undo) == 0 {
		return Item{}, false
	}
	it := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, it)
	return it, true
}

// Redo moves the most recently undone item back and returns it.
func (h *History) Redo() (Item, bool) {
	if len(h.redo) == 0 {
		return Item{}, false
	}
	it := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, it)
	return it, true
}

// Current returns the most recent item that has not been undone.
func (h *History) Current() (Item, bool) {
	if len(h.undo) == 0 {
		return Item{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// PeekRedo returns the item the next Redo would restore.
func (h *History) PeekRedo() (Item, bool) {
	if len(h.redo) == 0 {
		return Item{}, false
	}
	return h.redo[len(h.redo)-1], true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Count returns the number of items that can be undone.
func (h *History) Count() int { return len(h.undo) }

// Items returns a copy of the undoable items, oldest first.
func (h *History) Items() []Item {
	return append([]Item(nil), h.undo...)
}

// Replay calls fn for every undoable item, oldest first, and stops at the
// first error.
func (h *History) Replay(fn func(Item) error) error {
	for _, it := range h.undo {
		if err := fn(it); err != nil {
			return err
		}
	}
	return nil
}

// Clear forgets all items.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// DefaultCapacity is the capacity used when none is configured.
const DefaultCapacity = 30
