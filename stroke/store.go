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

package stroke

import (
	"github.com/worldink/worldink/internal/logging"
	"github.com/worldink/worldink/simplify"
)

// State is the life-cycle state of a [Store].
type State int

const (
	Idle State = iota
	Active
	Finalizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Finalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Options controls point ingestion.
type Options struct {
	// LiveSimplify enables per-batch simplification while a stroke is
	// active. With it disabled the raw samples are kept until the stroke
	// is finalized and every draw request covers the whole stroke.
	LiveSimplify bool

	Simplify simplify.Options
}

// DefaultOptions returns options with live simplification disabled.
func DefaultOptions() Options {
	return Options{Simplify: simplify.DefaultOptions()}
}

// DrawData tells the curve renderer what to draw for the active stroke.
type DrawData struct {
	Points []Point

	// NewSegmentStartIndex is the index of the first point added or changed since the
	// previous call. Segments that do not involve this point or any later
	// one are already on screen.
	NewSegmentStartIndex int

	// CanDraw reports whether enough points exist for a cubic segment.
	CanDraw bool
}

// Store owns the stroke currently being drawn. Only one stroke is active
// at a time. A Store is not safe for concurrent use.
type Store struct {
	opts   Options
	state  State
	lastID uint64

	current Stroke

	// Live simplification state. current.Points[:anchor+1] is settled;
	// tail holds the raw samples from current.Points[anchor] onwards and
	// is simplified again whenever new samples arrive.
	anchor  int
	tail    []Point
	recent  []Point // raw samples used to estimate the point spacing
	scratch []Point

	dirtyFrom int // first point changed since the last IncrementalDrawData
}

// NewStore returns an idle store.
func NewStore(opts Options) *Store {
	return &Store{opts: opts}
}

// State returns the current life-cycle state.
func (s *Store) State() State {
	return s.state
}

// LiveSimplify reports whether live simplification is enabled.
func (s *Store) LiveSimplify() bool {
	return s.opts.LiveSimplify
}

// SetLiveSimplify switches live simplification. The change applies from the
// next stroke on.
func (s *Store) SetLiveSimplify(on bool) {
	s.opts.LiveSimplify = on
}

// StartStroke begins a new stroke and returns its event id. A stroke that is
// still active is abandoned.
func (s *Store) StartStroke(tool Tool, style Style) uint64 {
	if s.state != Idle {
		logging.Logger().Warn("stroke: start while not idle, abandoning stroke",
			"event_id", s.current.EventID, "state", s.state.String())
	}
	s.lastID++
	s.current = Stroke{
		EventID: s.lastID,
		Tool:    tool,
		Style:   style,
		Points:  s.current.Points[:0],
	}
	s.reset()
	s.state = Active
	return s.lastID
}

func (s *Store) reset() {
	s.anchor = 0
	s.tail = s.tail[:0]
	s.recent = s.recent[:0]
	s.dirtyFrom = 0
}

// Current returns the active stroke. The returned value shares its point
// slice with the store and is valid until the next mutating call.
func (s *Store) Current() (Stroke, bool) {
	if s.state != Active {
		return Stroke{}, false
	}
	return s.current, true
}

// AddPoints appends samples to the active stroke. Predicted samples are
// dropped. It reports false, and logs, if no stroke is active.
func (s *Store) AddPoints(samples ...Point) bool {
	if s.state != Active {
		logging.Logger().Warn("stroke: points outside an active stroke ignored",
			"points", len(samples), "state", s.state.String())
		return false
	}

	n := len(s.current.Points)
	for _, p := range samples {
		if p.IsPredicted {
			continue
		}
		s.current.OriginalPointCount++
		if s.opts.LiveSimplify {
			s.tail = append(s.tail, p)
			s.recent = append(s.recent, p)
		} else {
			s.current.Points = append(s.current.Points, p)
		}
	}
	if !s.opts.LiveSimplify {
		return true
	}
	if len(s.tail) == 0 || (n > 0 && len(s.tail) == 1) {
		return true
	}
	s.simplifyTail()
	return true
}

// simplifyTail replaces the unsettled part of the stroke by the simplified
// raw tail and settles everything but its last segment.
func (s *Store) simplifyTail() {
	o := s.opts.Simplify
	if w := max(o.Window, 2); len(s.recent) > 2*w {
		s.recent = append(s.recent[:0], s.recent[len(s.recent)-w:]...)
	}
	tol := o.LiveTolerance(simplify.AverageSpacing(s.recent, o.Window))
	keep := simplify.RDPIndices(s.tail, tol)

	pts := s.current.Points
	s.scratch = append(s.scratch[:0], pts[s.anchor:]...)
	pts = pts[:s.anchor]
	for _, i := range keep {
		pts = append(pts, s.tail[i])
	}
	s.current.Points = pts

	changed := s.anchor
	for changed-s.anchor < len(s.scratch) && changed < len(pts) && pts[changed] == s.scratch[changed-s.anchor] {
		changed++
	}
	s.dirtyFrom = min(s.dirtyFrom, changed)

	if len(keep) > 2 {
		k := keep[len(keep)-2]
		s.anchor += len(keep) - 2
		s.tail = append(s.tail[:0], s.tail[k:]...)
	}
	if len(s.tail) > max(o.BatchSize, minDrawPoints) {
		s.anchor = len(pts) - 1
		s.tail = append(s.tail[:0], s.tail[len(s.tail)-1])
	}
}

// IncrementalDrawData returns the data needed to bring the on-screen stroke
// up to date. Without live simplification the start index is always 0, so
// the whole stroke is redrawn and no seams can appear.
func (s *Store) IncrementalDrawData() DrawData {
	if s.state != Active {
		return DrawData{}
	}
	pts := s.current.Points
	d := DrawData{
		Points:  pts,
		CanDraw: len(pts) >= minDrawPoints,
	}
	if !d.CanDraw {
		return d
	}
	if s.opts.LiveSimplify {
		d.NewSegmentStartIndex = min(s.dirtyFrom, len(pts)-1)
	}
	s.dirtyFrom = len(pts)
	return d
}

// FinalizeStroke applies the final simplification to the whole stroke,
// returns it, and makes the store idle. The returned stroke owns its
// points. It reports false, and logs, if no stroke is active.
func (s *Store) FinalizeStroke() (Stroke, bool) {
	if s.state != Active {
		logging.Logger().Warn("stroke: finalize outside an active stroke ignored",
			"state", s.state.String())
		return Stroke{}, false
	}
	s.state = Finalizing

	o := s.opts.Simplify
	final := simplify.Batched(s.current.Points, o.FinalTolerance, o)
	out := s.current
	out.Points = append([]Point(nil), final...)

	logging.Logger().Debug("stroke: finalized",
		"event_id", out.EventID,
		"tool", out.Tool.String(),
		"original", out.OriginalPointCount,
		"points", len(out.Points))

	s.current.Points = s.current.Points[:0]
	s.reset()
	s.state = Idle
	return out, true
}

// Abort discards the active stroke, if any.
func (s *Store) Abort() {
	s.current.Points = s.current.Points[:0]
	s.reset()
	s.state = Idle
}

// minDrawPoints is the number of points needed before a stroke is drawn.
const minDrawPoints = 4
