// Package subset provides a run-length encoded multiset over positions
// in a string, used to represent deletions and insertions relative to a
// "union string" containing every character ever inserted.
//
// A Subset stores (length, count) segments. A count of zero means the
// position is absent from the subset; a nonzero count records how many
// times it is present (a character deleted twice concurrently has count
// 2, so undoing one of the deletes does not revive it).
// Coordinate transforms move subsets between narrower and wider
// coordinate spaces as text is inserted and deleted around them.
package subset

import (
	"fmt"
	"strings"

	"github.com/dshills/loom/rope"
)

// Segment is a run of equal-count positions.
type Segment struct {
	Length int
	Count  int
}

// Subset is a run-length multiset over a fixed range of positions.
// Adjacent segments always have distinct counts and positive lengths.
type Subset struct {
	segments []Segment
}

// New creates an empty subset of a string of length n: every position
// has count zero.
func New(n int) Subset {
	var b Builder
	b.PadToLen(n)
	return b.Build()
}

// CountMatcher selects segments by count when iterating or mapping.
type CountMatcher int

const (
	// MatchZero selects segments with count zero (not in the subset).
	MatchZero CountMatcher = iota

	// MatchNonZero selects segments with nonzero count.
	MatchNonZero

	// MatchAll selects every segment.
	MatchAll
)

// Matches reports whether a segment count satisfies the matcher.
func (m CountMatcher) Matches(count int) bool {
	switch m {
	case MatchZero:
		return count == 0
	case MatchNonZero:
		return count != 0
	default:
		return true
	}
}

// Builder assembles a subset from segments or ranges.
// The zero value is ready to use.
type Builder struct {
	segments []Segment
	totalLen int
}

// PushSegment appends a segment, coalescing with the previous one when
// the counts match. Zero-length segments are ignored.
func (b *Builder) PushSegment(length, count int) {
	if length <= 0 {
		return
	}
	b.totalLen += length
	if n := len(b.segments); n > 0 && b.segments[n-1].Count == count {
		b.segments[n-1].Length += length
		return
	}
	b.segments = append(b.segments, Segment{Length: length, Count: count})
}

// AddRange appends the range [start, end) with the given count, padding
// any gap since the previous range with count zero. Ranges must be
// added in non-decreasing order.
func (b *Builder) AddRange(start, end, count int) {
	if start < b.totalLen {
		panic("subset: ranges not properly sorted")
	}
	if start > b.totalLen {
		b.PushSegment(start-b.totalLen, 0)
	}
	b.PushSegment(end-start, count)
}

// PadToLen pads the builder with a zero-count segment up to the total
// length of the subset's universe.
func (b *Builder) PadToLen(totalLen int) {
	if totalLen > b.totalLen {
		b.PushSegment(totalLen-b.totalLen, 0)
	}
}

// Build returns the accumulated subset.
func (b *Builder) Build() Subset {
	return Subset{segments: b.segments}
}

// Len returns the length of the subset's universe.
func (s Subset) Len() int {
	n := 0
	for _, seg := range s.segments {
		n += seg.Length
	}
	return n
}

// Count returns the total length of segments matching m.
func (s Subset) Count(m CountMatcher) int {
	n := 0
	for _, seg := range s.segments {
		if m.Matches(seg.Count) {
			n += seg.Length
		}
	}
	return n
}

// LenAfterDelete returns the length of the string remaining after
// deleting this subset from its universe.
func (s Subset) LenAfterDelete() int {
	return s.Count(MatchZero)
}

// IsEmpty returns true when no position has a nonzero count.
func (s Subset) IsEmpty() bool {
	return len(s.segments) == 0 || (len(s.segments) == 1 && s.segments[0].Count == 0)
}

// Equals reports whether two subsets are identical: the same universe
// length with the same count at every position.
func (s Subset) Equals(other Subset) bool {
	if len(s.segments) != len(other.segments) {
		return false
	}
	for i, seg := range s.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// zipApply combines two subsets over the same universe pointwise.
// Panics if the universe lengths differ.
func (s Subset) zipApply(other Subset, combine func(a, b int) int) Subset {
	var out Builder
	ai, bi := 0, 0
	aRem, bRem := 0, 0
	for {
		if aRem == 0 {
			if ai == len(s.segments) {
				break
			}
			aRem = s.segments[ai].Length
			ai++
		}
		if bRem == 0 {
			if bi == len(other.segments) {
				break
			}
			bRem = other.segments[bi].Length
			bi++
		}
		n := min(aRem, bRem)
		out.PushSegment(n, combine(s.segments[ai-1].Count, other.segments[bi-1].Count))
		aRem -= n
		bRem -= n
	}
	if aRem != 0 || bRem != 0 || ai != len(s.segments) || bi != len(other.segments) {
		panic("subset: cannot zip subsets of different base lengths")
	}
	return out.Build()
}

// Union returns the sum of the two subsets: counts add pointwise.
func (s Subset) Union(other Subset) Subset {
	return s.zipApply(other, func(a, b int) int { return a + b })
}

// Subtract returns the difference of the two subsets. other must be a
// subset of s wherever it is nonzero.
func (s Subset) Subtract(other Subset) Subset {
	return s.zipApply(other, func(a, b int) int {
		if b > a {
			panic("subset: subtracting a set that is not a subset")
		}
		return a - b
	})
}

// Bitxor combines counts with exclusive or, yielding a reversible
// difference: a.Bitxor(b).Bitxor(b) == a.
func (s Subset) Bitxor(other Subset) Subset {
	return s.zipApply(other, func(a, b int) int { return a ^ b })
}

// Intersect returns the positions present in both subsets, with
// count 1.
func (s Subset) Intersect(other Subset) Subset {
	return s.zipApply(other, func(a, b int) int {
		if a > 0 && b > 0 {
			return 1
		}
		return 0
	})
}

// Complement returns the subset containing exactly the positions this
// one omits, with count 1.
func (s Subset) Complement() Subset {
	var b Builder
	for _, seg := range s.segments {
		if seg.Count == 0 {
			b.PushSegment(seg.Length, 1)
		} else {
			b.PushSegment(seg.Length, 0)
		}
	}
	return b.Build()
}

// transform rebases this subset onto the coordinate space described by
// other: wherever other has a nonzero segment, space is inserted into
// the result, with other's count when union is true and zero otherwise.
// The zero-count regions of other must sum to the length of s.
func (s Subset) transform(other Subset, union bool) Subset {
	var b Builder
	i := 0
	var cur Segment
	for _, oseg := range other.segments {
		if oseg.Count > 0 {
			count := 0
			if union {
				count = oseg.Count
			}
			b.PushSegment(oseg.Length, count)
			continue
		}
		// Fill the zero region with segments from s.
		toFill := oseg.Length
		for toFill > 0 {
			if cur.Length == 0 {
				if i == len(s.segments) {
					panic("subset: transform target shorter than source")
				}
				cur = s.segments[i]
				i++
			}
			n := min(cur.Length, toFill)
			b.PushSegment(n, cur.Count)
			toFill -= n
			cur.Length -= n
		}
	}
	if cur.Length != 0 || i != len(s.segments) {
		panic("subset: transform target longer than source")
	}
	return b.Build()
}

// TransformExpand widens this subset to other's universe: positions
// present in other are inserted into the result with count zero.
func (s Subset) TransformExpand(other Subset) Subset {
	return s.transform(other, false)
}

// TransformUnion widens like TransformExpand but the inserted positions
// carry other's counts, merging the two sets in other's coordinates.
func (s Subset) TransformUnion(other Subset) Subset {
	return s.transform(other, true)
}

// TransformShrink is the inverse of TransformExpand: positions present
// in other are removed. s must have count zero wherever other does not,
// or information is lost.
func (s Subset) TransformShrink(other Subset) Subset {
	var b Builder
	ai, bi := 0, 0
	aRem, bRem := 0, 0
	for {
		if aRem == 0 {
			if ai == len(s.segments) {
				break
			}
			aRem = s.segments[ai].Length
			ai++
		}
		if bRem == 0 {
			if bi == len(other.segments) {
				break
			}
			bRem = other.segments[bi].Length
			bi++
		}
		n := min(aRem, bRem)
		if other.segments[bi-1].Count == 0 {
			b.PushSegment(n, s.segments[ai-1].Count)
		}
		aRem -= n
		bRem -= n
	}
	if aRem != 0 || bRem != 0 || ai != len(s.segments) || bi != len(other.segments) {
		panic("subset: cannot zip subsets of different base lengths")
	}
	return b.Build()
}

// DeleteFrom returns a new rope omitting the regions this subset marks
// as present.
func (s Subset) DeleteFrom(r rope.Rope) rope.Rope {
	var b rope.TreeBuilder
	it := s.RangeIter(MatchZero)
	for it.Next() {
		start, end := it.Range()
		b.PushSlice(r, start, end)
	}
	return b.Build()
}

// DeleteFromString returns a new string omitting the regions this
// subset marks as present.
func (s Subset) DeleteFromString(str string) string {
	var sb strings.Builder
	it := s.RangeIter(MatchZero)
	for it.Next() {
		start, end := it.Range()
		sb.WriteString(str[start:end])
	}
	return sb.String()
}

// Segments returns a copy of the underlying run-length segments.
func (s Subset) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// String renders the subset for debugging, one character per position:
// '-' for count zero, '#' for count one, digits for higher counts.
func (s Subset) String() string {
	var sb strings.Builder
	for _, seg := range s.segments {
		ch := byte('-')
		switch {
		case seg.Count == 1:
			ch = '#'
		case seg.Count > 9:
			ch = '+'
		case seg.Count > 1:
			ch = '0' + byte(seg.Count)
		}
		for i := 0; i < seg.Length; i++ {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// GoString renders the segment list.
func (s Subset) GoString() string {
	var sb strings.Builder
	sb.WriteString("Subset{")
	for i, seg := range s.segments {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "(%d,%d)", seg.Length, seg.Count)
	}
	sb.WriteString("}")
	return sb.String()
}
