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


// Package frame coalesces draw requests to at most one per display frame.
package frame

import "github.com/worldink/worldink/internal/logging"

// Scheduler holds at most one pending draw request. A new request replaces
// the pending one, which is then counted as cancelled. The host calls Flush
// once per display refresh.
//
// Replacing a request never loses input: requests only decide when to draw,
// and the replacing request sees all data accumulated so far.
type Scheduler struct {
	pending   func()
	requests  int
	cancelled int
	flushed   int
}

// Request schedules fn for the next Flush.
func (s *Scheduler) Request(fn func()) {
	if fn == nil {
		return
	}
	s.requests++
	if s.pending != nil {
		s.cancelled++
		logging.Logger().Debug("frame: pending draw replaced", "cancelled", s.cancelled)
	}
	s.pending = fn
}

// Pending reports whether a request is waiting.
func (s *Scheduler) Pending() bool {
	return s.pending != nil
}

// Cancel drops the pending request.
func (s *Scheduler) Cancel() {
	if s.pending != nil {
		s.pending = nil
		s.cancelled++
	}
}

// Flush runs the pending request, if any, and reports whether it did.
func (s *Scheduler) Flush() bool {
	fn := s.pending
	if fn == nil {
		return false
	}
	s.pending = nil
	s.flushed++
	fn()
	return true
}

// Stats returns the number of requests, cancelled requests, and executed
// requests.
func (s *Scheduler) Stats() (requests, cancelled, flushed int) {
	return s.requests, s.cancelled, s.flushed
}

// Cancelled returns the number of requests replaced before they ran.
func (s *Scheduler) Cancelled() int {
	return s.cancelled
}
