package subset

import "math"

// RangeIterator iterates over the [start, end) ranges of segments
// matching a CountMatcher, in universe coordinates.
type RangeIterator struct {
	segments   []Segment
	idx        int
	consumed   int
	matcher    CountMatcher
	start, end int
}

// RangeIter returns an iterator over the ranges of segments matching m.
func (s Subset) RangeIter(m CountMatcher) *RangeIterator {
	return &RangeIterator{segments: s.segments, matcher: m}
}

// ComplementIter returns an iterator over the zero-count ranges: the
// positions not in the subset.
func (s Subset) ComplementIter() *RangeIterator {
	return s.RangeIter(MatchZero)
}

// Next advances to the next matching range, returning false at the end.
func (it *RangeIterator) Next() bool {
	for it.idx < len(it.segments) {
		seg := it.segments[it.idx]
		it.idx++
		it.consumed += seg.Length
		if it.matcher.Matches(seg.Count) {
			it.start = it.consumed - seg.Length
			it.end = it.consumed
			return true
		}
	}
	return false
}

// Range returns the current [start, end) range.
func (it *RangeIterator) Range() (start, end int) {
	return it.start, it.end
}

// Mapper converts universe offsets into offsets within the string
// formed by the matching segments alone. Queries must be made with
// non-decreasing inputs.
type Mapper struct {
	rangeIter *RangeIterator
	lastIdx   int
	curStart  int
	curEnd    int
	consumed  int
}

// Mapper returns a stateful mapper over the segments matching m.
func (s Subset) Mapper(m CountMatcher) *Mapper {
	return &Mapper{rangeIter: s.RangeIter(m)}
}

// DocIndexToSubset maps a universe offset to the number of matching
// positions strictly before it; for offsets inside a matching range
// this is the offset of the position within the matched document.
//
// Panics when called with a smaller offset than a previous call.
func (m *Mapper) DocIndexToSubset(i int) int {
	if i < m.lastIdx {
		panic("subset: mapper method called with non-monotonic input")
	}
	m.lastIdx = i
	for i >= m.curEnd {
		m.consumed += m.curEnd - m.curStart
		if !m.rangeIter.Next() {
			// Past the end.
			m.curStart, m.curEnd = math.MaxInt, math.MaxInt
			return m.consumed
		}
		m.curStart, m.curEnd = m.rangeIter.Range()
	}
	if i >= m.curStart {
		return i - m.curStart + m.consumed
	}
	return m.consumed
}
