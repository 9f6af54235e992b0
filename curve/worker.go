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


package curve

import (
	"context"
	"sync"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Request asks a [Worker] for the Bézier path through Points, starting at
// point index From.
type Request struct {
	EventID    uint64
	Generation uint64
	Points     []vec.Vec2
	Tension    float64
	From       int
}

// Result is the answer to a [Request].
type Result struct {
	EventID    uint64
	Generation uint64
	From       int
	Path       *path.Data
}

// Worker computes Bézier paths on a background goroutine. At most one
// request is pending: a new request replaces one that has not been picked
// up yet. Only the most recent result is kept.
//
// A Worker is a throughput optimisation. Callers compare the EventID and
// Generation of a result with their own state and fall back to computing
// the path synchronously if they do not match.
type Worker struct {
	mu      sync.Mutex
	pending *Request
	latest  *Result
	closed  bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// NewWorker starts a worker. It stops when ctx is cancelled or Close is
// called.
func NewWorker(ctx context.Context) *Worker {
	w := &Worker{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run(ctx)
	return w
}

// Submit queues req, replacing a pending request. The point slice of req
// is copied. Submit reports false if the worker has stopped.
func (w *Worker) Submit(req Request) bool {
	req.Points = append([]vec.Vec2(nil), req.Points...)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	w.pending = &req
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

// Poll returns the latest result, if any, and removes it.
func (w *Worker) Poll() (Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.latest == nil {
		return Result{}, false
	}
	res := *w.latest
	w.latest = nil
	return res, true
}

// Close stops the worker and waits for it to exit.
func (w *Worker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.done)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.closed = true
			w.mu.Unlock()
			return
		case <-w.done:
			return
		case <-w.wake:
		}

		w.mu.Lock()
		req := w.pending
		w.pending = nil
		w.mu.Unlock()
		if req == nil {
			continue
		}

		p := AppendPath(&path.Data{}, req.Points, req.Tension, req.From)
		res := &Result{
			EventID:    req.EventID,
			Generation: req.Generation,
			From:       req.From,
			Path:       p,
		}

		w.mu.Lock()
		if w.latest == nil || w.latest.EventID != res.EventID || w.latest.Generation <= res.Generation {
			w.latest = res
		}
		w.mu.Unlock()
	}
}
