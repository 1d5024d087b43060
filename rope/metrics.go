package rope

import (
	"strings"
	"unicode/utf8"
)

// Metric measures positions in a rope in units other than bytes.
// Implementations supply the count of units in a subtree summary,
// boundary searches within a single leaf, and whether a unit of the
// metric can span leaves.
//
// The byte offsets exchanged with leaf-level methods are "base units";
// measured units are whatever the metric counts.
type Metric interface {
	// Measure returns the number of boundaries of this metric summarized
	// by sum.
	Measure(sum TextSummary) int

	// ToBaseUnits returns the smallest byte offset in the leaf
	// corresponding to measured units.
	ToBaseUnits(leaf string, measured int) int

	// FromBaseUnits returns the smallest measured offset corresponding
	// to a byte offset in the leaf.
	FromBaseUnits(leaf string, offset int) int

	// IsBoundary reports whether the byte offset is a boundary of this
	// metric. A boundary at the end of a leaf must be reported; one at
	// the beginning of a leaf may be deferred to the previous leaf.
	IsBoundary(leaf string, offset int) bool

	// Prev returns the closest boundary strictly before offset, in
	// bytes, or ok == false if the leaf holds none.
	Prev(leaf string, offset int) (int, bool)

	// Next returns the closest boundary strictly after offset, in
	// bytes, or ok == false if the leaf holds none.
	Next(leaf string, offset int) (int, bool)

	// CanFragment reports whether units of this metric can span leaf
	// boundaries (true for lines, false for codepoints).
	CanFragment() bool
}

// Exported metric instances.
var (
	// Bytes measures UTF-8 bytes; boundaries are codepoint boundaries.
	Bytes Metric = BaseMetric{}

	// Lines measures newline characters; a boundary trails each '\n'.
	Lines Metric = LinesMetric{}

	// UTF16 measures UTF-16 code units.
	UTF16 Metric = UTF16Metric{}
)

// BaseMetric measures UTF-8 bytes. Boundaries are codepoint boundaries:
// an offset between the bytes of a multi-byte sequence is not valid.
type BaseMetric struct{}

func (BaseMetric) Measure(sum TextSummary) int { return sum.Bytes }

func (BaseMetric) ToBaseUnits(_ string, measured int) int { return measured }

func (BaseMetric) FromBaseUnits(_ string, offset int) int { return offset }

func (BaseMetric) IsBoundary(leaf string, offset int) bool {
	return isCharBoundary(leaf, offset)
}

func (BaseMetric) Prev(leaf string, offset int) (int, bool) {
	if offset == 0 {
		return 0, false
	}
	offset--
	for !isCharBoundary(leaf, offset) {
		offset--
	}
	return offset, true
}

func (BaseMetric) Next(leaf string, offset int) (int, bool) {
	if offset == len(leaf) {
		return 0, false
	}
	return offset + lenUTF8FromFirstByte(leaf[offset]), true
}

func (BaseMetric) CanFragment() bool { return false }

// LinesMetric counts newline characters. The boundary trails the
// newline, so a line may begin in one leaf and end in another.
type LinesMetric struct{}

func (LinesMetric) Measure(sum TextSummary) int { return sum.Lines }

func (LinesMetric) ToBaseUnits(leaf string, measured int) int {
	offset := 0
	for i := 0; i < measured; i++ {
		pos := strings.IndexByte(leaf[offset:], '\n')
		if pos < 0 {
			panic("rope: line conversion beyond leaf newline count")
		}
		offset += pos + 1
	}
	return offset
}

func (LinesMetric) FromBaseUnits(leaf string, offset int) int {
	return countNewlines(leaf[:offset])
}

func (LinesMetric) IsBoundary(leaf string, offset int) bool {
	if offset == 0 {
		return false
	}
	return leaf[offset-1] == '\n'
}

func (LinesMetric) Prev(leaf string, offset int) (int, bool) {
	pos := strings.LastIndexByte(leaf[:offset], '\n')
	if pos < 0 {
		return 0, false
	}
	return pos + 1, true
}

func (LinesMetric) Next(leaf string, offset int) (int, bool) {
	pos := strings.IndexByte(leaf[offset:], '\n')
	if pos < 0 {
		return 0, false
	}
	return offset + pos + 1, true
}

func (LinesMetric) CanFragment() bool { return true }

// UTF16Metric counts UTF-16 code units over the UTF-8 storage.
type UTF16Metric struct{}

func (UTF16Metric) Measure(sum TextSummary) int { return sum.UTF16Units }

func (UTF16Metric) ToBaseUnits(leaf string, measured int) int {
	units, offset := 0, 0
	for _, r := range leaf {
		if units >= measured {
			break
		}
		units++
		if r > 0xffff {
			units++
		}
		offset += utf8.RuneLen(r)
	}
	return offset
}

func (UTF16Metric) FromBaseUnits(leaf string, offset int) int {
	return countUTF16CodeUnits(leaf[:offset])
}

func (UTF16Metric) IsBoundary(leaf string, offset int) bool {
	return isCharBoundary(leaf, offset)
}

func (UTF16Metric) Prev(leaf string, offset int) (int, bool) {
	return BaseMetric{}.Prev(leaf, offset)
}

func (UTF16Metric) Next(leaf string, offset int) (int, bool) {
	return BaseMetric{}.Next(leaf, offset)
}

func (UTF16Metric) CanFragment() bool { return false }
