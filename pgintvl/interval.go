// Package pgintvl implements half-open integer intervals and sorted,
// disjoint interval sets (spec §4.1). Interval carries the segment and
// alignment spans of the CIGAR partitioner (cigarx), block.Combine and
// pgalign; no other package uses Set.
package pgintvl

import "sort"

// Interval is the half-open range [Lo, Hi).
type Interval struct {
	Lo, Hi int
}

// New returns the interval [lo, hi). It does not validate lo < hi —
// an empty or inverted interval is a legitimate zero-length value.
func New(lo, hi int) Interval {
	return Interval{Lo: lo, Hi: hi}
}

// Len returns Hi-Lo, or 0 if the interval is inverted.
func (iv Interval) Len() int {
	if iv.Hi <= iv.Lo {
		return 0
	}
	return iv.Hi - iv.Lo
}

// Empty reports whether the interval contains no points.
func (iv Interval) Empty() bool {
	return iv.Hi <= iv.Lo
}

// Contains reports whether x falls in [Lo, Hi).
func (iv Interval) Contains(x int) bool {
	return x >= iv.Lo && x < iv.Hi
}

// Overlaps reports whether iv and other share any point.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Lo < other.Hi && other.Lo < iv.Hi
}

// Union returns the smallest interval covering both iv and other.
// Callers that need "merge only if overlapping/adjacent" should check
// Overlaps (or adjacency) first; Union always bridges any gap.
func (iv Interval) Union(other Interval) Interval {
	lo := iv.Lo
	if other.Lo < lo {
		lo = other.Lo
	}
	hi := iv.Hi
	if other.Hi > hi {
		hi = other.Hi
	}
	return Interval{Lo: lo, Hi: hi}
}

// Intersect returns the overlap of iv and other; the result is empty
// (Hi<=Lo) if they do not overlap.
func (iv Interval) Intersect(other Interval) Interval {
	lo := iv.Lo
	if other.Lo > lo {
		lo = other.Lo
	}
	hi := iv.Hi
	if other.Hi < hi {
		hi = other.Hi
	}
	return Interval{Lo: lo, Hi: hi}
}

// Shift translates the interval by delta.
func (iv Interval) Shift(delta int) Interval {
	return Interval{Lo: iv.Lo + delta, Hi: iv.Hi + delta}
}

// Set is a sorted list of disjoint, non-adjacent intervals.
type Set struct {
	ivs []Interval
}

// NewSet builds a Set from arbitrary (possibly overlapping, unsorted)
// intervals, merging overlaps and touching intervals on construction.
func NewSet(ivs ...Interval) *Set {
	s := &Set{}
	s.Add(ivs...)
	return s
}

// Add merges more intervals into the set.
func (s *Set) Add(ivs ...Interval) {
	for _, iv := range ivs {
		if !iv.Empty() {
			s.ivs = append(s.ivs, iv)
		}
	}
	s.normalize()
}

func (s *Set) normalize() {
	if len(s.ivs) == 0 {
		return
	}
	sort.Slice(s.ivs, func(i, j int) bool { return s.ivs[i].Lo < s.ivs[j].Lo })
	merged := s.ivs[:1]
	for _, iv := range s.ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.Lo <= last.Hi { // overlap or exactly adjacent
			if iv.Hi > last.Hi {
				last.Hi = iv.Hi
			}
			continue
		}
		merged = append(merged, iv)
	}
	s.ivs = merged
}

// Intervals returns the set's disjoint intervals in ascending order.
// The returned slice must not be mutated by the caller.
func (s *Set) Intervals() []Interval {
	return s.ivs
}

// Contains reports whether x falls in any stored interval.
func (s *Set) Contains(x int) bool {
	i := sort.Search(len(s.ivs), func(i int) bool { return s.ivs[i].Hi > x })
	return i < len(s.ivs) && s.ivs[i].Lo <= x
}

// Enclosing returns the stored interval containing x, if any.
func (s *Set) Enclosing(x int) (Interval, bool) {
	i := sort.Search(len(s.ivs), func(i int) bool { return s.ivs[i].Hi > x })
	if i < len(s.ivs) && s.ivs[i].Lo <= x {
		return s.ivs[i], true
	}
	return Interval{}, false
}

// DisjointFrom reports whether iv shares no point with any stored
// interval.
func (s *Set) DisjointFrom(iv Interval) bool {
	for _, stored := range s.ivs {
		if stored.Overlaps(iv) {
			return false
		}
	}
	return true
}

// Difference returns the portions of iv not covered by the set, as a
// sequence of disjoint intervals in ascending order.
func (s *Set) Difference(iv Interval) []Interval {
	var out []Interval
	cursor := iv.Lo
	for _, stored := range s.ivs {
		if stored.Hi <= cursor {
			continue
		}
		if stored.Lo >= iv.Hi {
			break
		}
		if stored.Lo > cursor {
			out = append(out, Interval{Lo: cursor, Hi: min(stored.Lo, iv.Hi)})
		}
		if stored.Hi > cursor {
			cursor = stored.Hi
		}
		if cursor >= iv.Hi {
			break
		}
	}
	if cursor < iv.Hi {
		out = append(out, Interval{Lo: cursor, Hi: iv.Hi})
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
