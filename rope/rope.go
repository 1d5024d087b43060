package rope

import "strings"

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
//
// Unchanged subtrees are shared structurally between the old and new
// rope, so most operations are O(log n).
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf("")}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	var b TreeBuilder
	b.PushString(s)
	return b.Build()
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.length
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Measure returns the total count of metric m.
func (r Rope) Measure(m Metric) int {
	if r.root == nil {
		return 0
	}
	return r.root.measure(m)
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{}
	}
	return r.root.summary
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	return r.SliceString(0, r.Len())
}

// Slice returns a new rope with the contents of the byte range
// [start, end). Sharing makes this O(log n).
func (r Rope) Slice(start, end int) Rope {
	if r.root == nil {
		return New()
	}
	start, end = r.clampRange(start, end)
	return Rope{root: r.root.subseq(start, end)}
}

// SliceString returns the text in the byte range [start, end).
func (r Rope) SliceString(start, end int) string {
	if r.root == nil {
		return ""
	}
	start, end = r.clampRange(start, end)
	var sb strings.Builder
	sb.Grow(end - start)
	it := r.IterChunks(start, end)
	for it.Next() {
		sb.WriteString(it.Chunk())
	}
	return sb.String()
}

func (r Rope) clampRange(start, end int) (int, int) {
	n := r.Len()
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concatNodes(r.root, other.root)}
}

// Edit replaces the byte range [start, end) with another rope,
// returning a new rope. Time complexity: O(log n).
func (r Rope) Edit(start, end int, repl Rope) Rope {
	start, end = r.clampRange(start, end)
	var b TreeBuilder
	b.PushSlice(r, 0, start)
	b.Push(repl)
	b.PushSlice(r, end, r.Len())
	return b.Build()
}

// EditStr replaces the byte range [start, end) with a string.
func (r Rope) EditStr(start, end int, new string) Rope {
	start, end = r.clampRange(start, end)
	var b TreeBuilder
	b.PushSlice(r, 0, start)
	b.PushString(new)
	b.PushSlice(r, end, r.Len())
	return b.Build()
}

// Insert inserts text at the given byte offset.
func (r Rope) Insert(offset int, text string) Rope {
	return r.EditStr(offset, offset, text)
}

// Delete removes text in the byte range [start, end).
func (r Rope) Delete(start, end int) Rope {
	return r.EditStr(start, end, "")
}

// Replace replaces text in the byte range [start, end) with new text.
func (r Rope) Replace(start, end int, text string) Rope {
	return r.EditStr(start, end, text)
}

// ByteAt returns the byte at the given offset.
// Returns 0 and false if offset is out of range.
func (r Rope) ByteAt(offset int) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}
	n := r.root
	for !n.isLeaf() {
		for _, child := range n.children {
			if offset < child.length {
				n = child
				break
			}
			offset -= child.length
		}
	}
	return n.leaf[offset], true
}

// ConvertMetrics returns the smallest offset in m2 units corresponding
// to x units of m1.
func (r Rope) ConvertMetrics(m1, m2 Metric, x int) int {
	if r.root == nil {
		return 0
	}
	return r.root.convertMetrics(m1, m2, x)
}

// LineOfOffset returns the 0-based line number containing the byte
// offset: the count of newlines in the text before it.
//
// Panics if offset > Len(); callers are expected to validate input.
func (r Rope) LineOfOffset(offset int) int {
	if offset < 0 || offset > r.Len() {
		panic("rope: offset out of range")
	}
	return r.ConvertMetrics(Bytes, Lines, offset)
}

// OffsetOfLine returns the byte offset of the start of the 0-based
// line. line may equal the newline count plus one (LineCount()), in
// which case the offset of the end of the rope is returned.
//
// Panics on larger arguments; callers are expected to validate input.
func (r Rope) OffsetOfLine(line int) int {
	maxLine := r.Measure(Lines) + 1
	if line > maxLine || line < 0 {
		panic("rope: line number beyond last line")
	}
	if line == maxLine {
		return r.Len()
	}
	return r.ConvertMetrics(Lines, Bytes, line)
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	return r.Measure(Lines) + 1
}

// IsCodepointBoundary determines whether offset lies on a codepoint
// boundary.
func (r Rope) IsCodepointBoundary(offset int) bool {
	c := NewCursor(r, offset)
	return c.IsBoundary(Bytes)
}

// PrevCodepointOffset returns the offset of the codepoint before
// offset, or false when at the start.
func (r Rope) PrevCodepointOffset(offset int) (int, bool) {
	c := NewCursor(r, offset)
	return c.PrevBoundary(Bytes)
}

// NextCodepointOffset returns the offset of the codepoint after
// offset, or false when at the end.
func (r Rope) NextCodepointOffset(offset int) (int, bool) {
	c := NewCursor(r, offset)
	return c.NextBoundary(Bytes)
}

// Equals returns true if two ropes contain the same text.
// This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.root == other.root {
		return true
	}
	// Chunk boundaries differ between structurally distinct ropes, so
	// compare through re-aligned windows.
	it1 := r.IterChunks(0, r.Len())
	it2 := other.IterChunks(0, other.Len())
	var s1, s2 string
	for {
		if len(s1) == 0 {
			if !it1.Next() {
				return len(s2) == 0 && !it2.Next()
			}
			s1 = it1.Chunk()
		}
		if len(s2) == 0 {
			if !it2.Next() {
				return false
			}
			s2 = it2.Chunk()
		}
		n := min(len(s1), len(s2))
		if s1[:n] != s2[:n] {
			return false
		}
		s1, s2 = s1[n:], s2[n:]
	}
}

// Height returns the height of the rope tree.
// Useful for debugging and testing balance.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height + 1
}
