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


package frame

import "testing"

func TestCoalescing(t *testing.T) {
	var s Scheduler
	if s.Flush() {
		t.Error("flush without request ran something")
	}

	var ran []int
	for i := range 5 {
		s.Request(func() { ran = append(ran, i) })
	}
	if !s.Pending() {
		t.Fatal("no pending request")
	}
	if !s.Flush() {
		t.Fatal("flush did nothing")
	}
	if len(ran) != 1 || ran[0] != 4 {
		t.Errorf("ran %v, want only the last request", ran)
	}
	if s.Pending() || s.Flush() {
		t.Error("request ran twice")
	}
	if req, canc, fl := s.Stats(); req != 5 || canc != 4 || fl != 1 {
		t.Errorf("stats %d/%d/%d", req, canc, fl)
	}
}

func TestRequestDuringFlush(t *testing.T) {
	var s Scheduler
	n := 0
	s.Request(func() {
		n++
		s.Request(func() { n += 10 })
	})
	s.Flush()
	if n != 1 || !s.Pending() {
		t.Fatalf("n=%d pending=%v", n, s.Pending())
	}
	s.Flush()
	if n != 11 {
		t.Errorf("n=%d", n)
	}
	if s.Cancelled() != 0 {
		t.Errorf("cancelled %d", s.Cancelled())
	}
}

func TestCancel(t *testing.T) {
	var s Scheduler
	s.Request(func() { t.Error("cancelled request ran") })
	s.Cancel()
	s.Request(nil)
	if s.Flush() {
		t.Error("flush ran a request")
	}
	if s.Cancelled() != 1 {
		t.Errorf("cancelled %d", s.Cancelled())
	}
}
