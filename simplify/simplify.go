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

// Package simplify reduces polylines with the Ramer-Douglas-Peucker
// algorithm.
//
// The algorithm is run in two tiers while a stroke is drawn: a live tier
// with a tolerance derived from the recent point spacing ([LiveTolerance]),
// applied batch by batch as samples arrive, and a final tier with a fixed
// tolerance, applied once to the whole stroke when it is completed.
// Very long inputs can be processed in overlapping batches ([Batched]) to
// bound the cost of a single call.
package simplify

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Positioner is implemented by point types that can be simplified.
type Positioner interface {
	Pos() vec.Vec2
}

// Options controls both simplification tiers.
type Options struct {
	// LiveFactor scales the average spacing of recent points to obtain
	// the live tolerance.
	LiveFactor float64

	// MinLiveTolerance is the lower bound for the live tolerance, in map
	// units.
	MinLiveTolerance float64

	// Window is the number of most recent points used to estimate the
	// point spacing.
	Window int

	// FinalTolerance is the fixed tolerance applied at stroke completion.
	FinalTolerance float64

	// BatchSize is the point count above which [Batched] partitions its
	// input.
	BatchSize int

	// OverlapFraction and MinOverlap determine how many points adjacent
	// batches share: the larger of OverlapFraction*BatchSize and
	// MinOverlap.
	OverlapFraction float64
	MinOverlap      int
}

// DefaultOptions returns the tuning used by the drawing engine.
func DefaultOptions() Options {
	return Options{
		LiveFactor:       defaultLiveFactor,
		MinLiveTolerance: defaultMinLiveTolerance,
		Window:           defaultWindow,
		FinalTolerance:   defaultFinalTolerance,
		BatchSize:        defaultBatchSize,
		OverlapFraction:  defaultOverlapFraction,
		MinOverlap:       defaultMinOverlap,
	}
}

// overlap returns the number of points shared by adjacent batches.
func (o Options) overlap() int {
	n := max(int(math.Ceil(o.OverlapFraction*float64(o.BatchSize))), o.MinOverlap)
	return min(n, o.BatchSize-2)
}

// PerpendicularDistance returns the distance of p from the line through a
// and b. If a and b (nearly) coincide, the distance from a is returned.
func PerpendicularDistance(p, a, b vec.Vec2) float64 {
	d := b.Sub(a)
	length := d.Length()
	if length < distanceEpsilon {
		return p.Sub(a).Length()
	}
	ap := p.Sub(a)
	return math.Abs(d.X*ap.Y-d.Y*ap.X) / length
}

// RDP simplifies pts with tolerance epsilon. Endpoints are always kept.
// Inputs of two points or fewer are returned unchanged; otherwise the result
// is a newly allocated subsequence of pts.
func RDP[P Positioner](pts []P, epsilon float64) []P {
	if len(pts) <= 2 {
		return pts
	}
	keep := keepMask(pts, 0, len(pts)-1, epsilon, nil)
	out := make([]P, 0, countTrue(keep))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// RDPIndices is like [RDP] but returns the indices of the kept points, in
// increasing order.
func RDPIndices[P Positioner](pts []P, epsilon float64) []int {
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return []int{0}
	}
	keep := keepMask(pts, 0, len(pts)-1, epsilon, nil)
	out := make([]int, 0, countTrue(keep))
	for i, k := range keep {
		if k {
			out = append(out, i)
		}
	}
	return out
}

// span is a pending sub-problem on the explicit stack.
type span struct {
	first, last int
}

// keepMask marks the points of pts[first:last+1] that survive
// simplification. The mask is indexed relative to first. If buf has enough
// capacity it is reused.
func keepMask[P Positioner](pts []P, first, last int, epsilon float64, buf []bool) []bool {
	n := last - first + 1
	if cap(buf) >= n {
		buf = buf[:n]
		clear(buf)
	} else {
		buf = make([]bool, n)
	}
	buf[0] = true
	buf[n-1] = true

	stack := []span{{first, last}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.last-s.first < 2 {
			continue
		}

		a, b := pts[s.first].Pos(), pts[s.last].Pos()
		maxDist := -1.0
		maxIdx := -1
		for i := s.first + 1; i < s.last; i++ {
			d := PerpendicularDistance(pts[i].Pos(), a, b)
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}
		if maxDist > epsilon {
			buf[maxIdx-first] = true
			stack = append(stack, span{s.first, maxIdx}, span{maxIdx, s.last})
		}
	}
	return buf
}

func countTrue(mask []bool) int {
	n := 0
	for _, k := range mask {
		if k {
			n++
		}
	}
	return n
}

// AverageSpacing returns the mean distance between consecutive points among
// the last window points of pts. It returns 0 for fewer than two points.
func AverageSpacing[P Positioner](pts []P, window int) float64 {
	if window < 2 {
		window = 2
	}
	start := max(0, len(pts)-window)
	recent := pts[start:]
	if len(recent) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(recent); i++ {
		total += recent[i].Pos().Sub(recent[i-1].Pos()).Length()
	}
	return total / float64(len(recent)-1)
}

// LiveTolerance returns the adaptive tolerance for live simplification,
// based on the spacing of the most recent points.
func (o Options) LiveTolerance(spacing float64) float64 {
	return max(o.LiveFactor*spacing, o.MinLiveTolerance)
}

// Batched simplifies pts like [RDP], but partitions inputs longer than
// o.BatchSize into overlapping batches that are simplified independently.
// Each batch after the first drops the part of its result that lies in the
// region shared with its predecessor. The segment spanning each seam is
// checked against the original points and refined if needed, so the
// tolerance guarantee of RDP still holds for every chord of the result.
func Batched[P Positioner](pts []P, epsilon float64, o Options) []P {
	if o.BatchSize < 4 || len(pts) <= o.BatchSize {
		return RDP(pts, epsilon)
	}

	ov := o.overlap()
	step := o.BatchSize - ov
	kept := make([]int, 0, len(pts)/4)
	var mask []bool

	prevEnd := -1 // index of the last point of the previous batch
	for start := 0; prevEnd < len(pts)-1; start += step {
		end := min(start+o.BatchSize, len(pts)) - 1
		mask = keepMask(pts, start, end, epsilon, mask)
		for i, k := range mask {
			idx := start + i
			if k && idx > prevEnd {
				kept = append(kept, idx)
			}
		}
		prevEnd = end
	}

	// verify the chords across seams
	out := make([]P, 0, len(kept))
	out = append(out, pts[kept[0]])
	for j := 1; j < len(kept); j++ {
		a, b := kept[j-1], kept[j]
		if b-a >= 2 && maxDeviation(pts, a, b) > epsilon {
			mask = keepMask(pts, a, b, epsilon, mask)
			for i := 1; i < len(mask)-1; i++ {
				if mask[i] {
					out = append(out, pts[a+i])
				}
			}
		}
		out = append(out, pts[b])
	}
	return out
}

// maxDeviation returns the largest distance of pts[first+1:last] from the
// chord pts[first]-pts[last].
func maxDeviation[P Positioner](pts []P, first, last int) float64 {
	a, b := pts[first].Pos(), pts[last].Pos()
	m := 0.0
	for i := first + 1; i < last; i++ {
		m = max(m, PerpendicularDistance(pts[i].Pos(), a, b))
	}
	return m
}

// Default tuning.
const (
	defaultLiveFactor       = 0.5
	defaultMinLiveTolerance = 0.2
	defaultWindow           = 50
	defaultFinalTolerance   = 0.35
	defaultBatchSize        = 100
	defaultOverlapFraction  = 0.1
	defaultMinOverlap       = 10
)

// distanceEpsilon is the denominator floor for distance computations.
const distanceEpsilon = 1e-4
