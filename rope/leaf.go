package rope

import "strings"

// Leaf size constants control the granularity of text storage.
const (
	// minLeaf is the minimum bytes per leaf (except for a sole leaf).
	minLeaf = 511

	// maxLeaf is the maximum bytes per leaf before splitting.
	maxLeaf = 1024
)

// leafIsOKChild reports whether a leaf satisfies the minimum size
// requirement for a non-root child.
func leafIsOKChild(s string) bool {
	return len(s) >= minLeaf
}

// pushMaybeSplit appends other[start:end] to s. If the result fits in a
// leaf it is returned with an empty right half; otherwise the result is
// split at a good boundary and both halves are returned.
//
// If either input satisfies the leaf minimum, so do both outputs.
func pushMaybeSplit(s, other string, start, end int) (string, string, bool) {
	combined := s + other[start:end]
	if len(combined) <= maxLeaf {
		return combined, "", false
	}
	splitpoint := findLeafSplitForMerge(combined)
	return combined[:splitpoint], combined[splitpoint:], true
}

func findLeafSplitForBulk(s string) int {
	return findLeafSplit(s, minLeaf)
}

func findLeafSplitForMerge(s string) int {
	return findLeafSplit(s, max(minLeaf, len(s)-maxLeaf))
}

// findLeafSplit picks a split point in [minsplit, maxsplit], preferring
// the position just after the last newline in range, falling back to the
// nearest codepoint boundary at or below the maximum.
func findLeafSplit(s string, minsplit int) int {
	splitpoint := min(maxLeaf, len(s)-minLeaf)
	if pos := strings.LastIndexByte(s[minsplit-1:splitpoint], '\n'); pos >= 0 {
		return minsplit + pos
	}
	for !isCharBoundary(s, splitpoint) {
		splitpoint--
	}
	return splitpoint
}
