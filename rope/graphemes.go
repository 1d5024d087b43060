package rope

import "github.com/rivo/uniseg"

// graphemeContext is the number of bytes of surrounding text consulted
// when segmenting grapheme clusters. Clusters longer than the window
// split at the window edge.
const graphemeContext = 256

// NextGraphemeOffset returns the offset of the end of the grapheme
// cluster starting at or containing offset. Returns false at the end of
// the rope.
func (r Rope) NextGraphemeOffset(offset int) (int, bool) {
	n := r.Len()
	if offset >= n {
		return 0, false
	}
	for offset > 0 && !r.IsCodepointBoundary(offset) {
		offset--
	}
	window := r.SliceString(offset, min(n, offset+graphemeContext))
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(window, -1)
	if len(cluster) == 0 {
		return 0, false
	}
	return offset + len(cluster), true
}

// PrevGraphemeOffset returns the offset of the start of the grapheme
// cluster ending at or containing offset. Returns false at the start of
// the rope.
func (r Rope) PrevGraphemeOffset(offset int) (int, bool) {
	if offset <= 0 {
		return 0, false
	}
	n := r.Len()
	if offset > n {
		offset = n
	}
	for offset < n && !r.IsCodepointBoundary(offset) {
		offset++
	}
	start := max(0, offset-graphemeContext)
	for start > 0 && !r.IsCodepointBoundary(start) {
		start--
	}
	window := r.SliceString(start, offset)
	// Walk the window forward; the last boundary before offset wins.
	state := -1
	pos := start
	for len(window) > 0 {
		var cluster string
		cluster, window, _, state = uniseg.FirstGraphemeClusterInString(window, state)
		if pos+len(cluster) >= offset {
			return pos, true
		}
		pos += len(cluster)
	}
	return pos, true
}
