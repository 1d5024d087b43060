package rope

import "strings"

// ChunkIterator iterates over the storage chunks of a rope range.
// Each chunk is a string borrowed from the rope's leaves; for large
// ropes chunks are generally in the range of 511-1024 bytes.
type ChunkIterator struct {
	cursor *Cursor
	end    int
	chunk  string
}

// IterChunks returns an iterator over the chunks covering the byte
// range [start, end).
func (r Rope) IterChunks(start, end int) *ChunkIterator {
	start, end = r.clampRange(start, end)
	rr := r
	if rr.root == nil {
		rr = New()
	}
	return &ChunkIterator{
		cursor: NewCursor(rr, start),
		end:    end,
	}
}

// Next advances to the next chunk, returning false at the end.
func (it *ChunkIterator) Next() bool {
	if it.cursor.Pos() >= it.end {
		it.chunk = ""
		return false
	}
	leaf, offset, ok := it.cursor.Leaf()
	if !ok {
		it.chunk = ""
		return false
	}
	n := min(it.end-it.cursor.Pos(), len(leaf)-offset)
	it.chunk = leaf[offset : offset+n]
	it.cursor.NextLeaf()
	return true
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() string {
	return it.chunk
}

// LinesRawIterator iterates over the raw lines of a rope range. Every
// line except possibly the last includes its terminating newline.
type LinesRawIterator struct {
	inner    *ChunkIterator
	fragment string
	line     string
}

// LinesRaw returns an iterator over the raw lines of the byte range
// [start, end).
func (r Rope) LinesRaw(start, end int) *LinesRawIterator {
	return &LinesRawIterator{inner: r.IterChunks(start, end)}
}

// Next advances to the next raw line, returning false at the end.
func (it *LinesRawIterator) Next() bool {
	var result strings.Builder
	haveResult := false
	for {
		if len(it.fragment) == 0 {
			if !it.inner.Next() {
				if !haveResult {
					it.line = ""
					return false
				}
				it.line = result.String()
				return true
			}
			it.fragment = it.inner.Chunk()
			if len(it.fragment) == 0 {
				// Can only happen on empty input.
				it.line = ""
				return false
			}
		}
		if i := strings.IndexByte(it.fragment, '\n'); i >= 0 {
			if !haveResult {
				// Whole line inside one chunk, no copy needed.
				it.line = it.fragment[:i+1]
			} else {
				result.WriteString(it.fragment[:i+1])
				it.line = result.String()
			}
			it.fragment = it.fragment[i+1:]
			return true
		}
		result.WriteString(it.fragment)
		haveResult = true
		it.fragment = ""
	}
}

// Line returns the current raw line.
func (it *LinesRawIterator) Line() string {
	return it.line
}

// LinesIterator iterates over the lines of a rope range with line
// terminators stripped. Both Unix ("\n") and MS-DOS ("\r\n") endings
// are recognized; a lone carriage return is not a terminator. The
// semantics are intended to match strings.Lines with terminators
// removed.
type LinesIterator struct {
	inner *LinesRawIterator
}

// Lines returns an iterator over the lines of the byte range
// [start, end).
func (r Rope) Lines(start, end int) *LinesIterator {
	return &LinesIterator{inner: r.LinesRaw(start, end)}
}

// Next advances to the next line, returning false at the end.
func (it *LinesIterator) Next() bool {
	return it.inner.Next()
}

// Line returns the current line without its terminator.
func (it *LinesIterator) Line() string {
	s := it.inner.Line()
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
		if strings.HasSuffix(s, "\r") {
			s = s[:len(s)-1]
		}
	}
	return s
}
