package delta

import (
	"github.com/dshills/loom/rope"
	"github.com/dshills/loom/subset"
)

// Element is one piece of a delta: either a Copy of a range of the base
// document or an Insert of new text.
type Element interface {
	isElement()
}

// Copy represents a range of text in the base document.
// Includes Start, excludes End.
type Copy struct {
	Start int
	End   int
}

// Insert represents newly inserted text.
type Insert struct {
	Text rope.Rope
}

func (Copy) isElement()   {}
func (Insert) isElement() {}

// Delta describes changes to a document as the new document built from
// sections copied from the old one interleaved with inserted text.
// Deletions are gaps in the copied ranges.
//
// For example, editing "abcd" into "acde" could be represented as:
//
//	[Copy{0,1}, Copy{2,4}, Insert{"e"}]
type Delta struct {
	Els     []Element
	BaseLen int
}

// SimpleEdit creates a delta replacing the byte range [start, end) of a
// document of length baseLen with the given rope.
func SimpleEdit(start, end int, r rope.Rope, baseLen int) Delta {
	b := NewBuilder(baseLen)
	if r.IsEmpty() {
		b.Delete(start, end)
	} else {
		b.Replace(start, end, r)
	}
	return b.Build()
}

// Identity returns the delta that copies a document of length baseLen
// unchanged.
func Identity(baseLen int) Delta {
	b := NewBuilder(baseLen)
	return b.Build()
}

// Builder assembles a Delta from a sorted sequence of edits.
// The start of each interval must be no less than the end of the
// previous one.
type Builder struct {
	delta      Delta
	lastOffset int
}

// NewBuilder creates a builder for a base document of length baseLen.
func NewBuilder(baseLen int) *Builder {
	return &Builder{delta: Delta{BaseLen: baseLen}}
}

// Delete deletes the byte range [start, end).
// Panics if intervals are not properly sorted.
func (b *Builder) Delete(start, end int) {
	if start < b.lastOffset {
		panic("delta: builder intervals not properly sorted")
	}
	if start > b.lastOffset {
		b.delta.Els = append(b.delta.Els, Copy{b.lastOffset, start})
	}
	b.lastOffset = end
}

// Replace replaces the byte range [start, end) with the given rope.
// Panics if intervals are not properly sorted.
func (b *Builder) Replace(start, end int, r rope.Rope) {
	b.Delete(start, end)
	if !r.IsEmpty() {
		b.delta.Els = append(b.delta.Els, Insert{r})
	}
}

// ReplaceString replaces the byte range [start, end) with a string.
func (b *Builder) ReplaceString(start, end int, s string) {
	b.Replace(start, end, rope.FromString(s))
}

// IsEmpty reports whether the built delta would be a no-op.
func (b *Builder) IsEmpty() bool {
	return b.lastOffset == 0 && len(b.delta.Els) == 0
}

// Build fills the tail copy and returns the Delta.
func (b *Builder) Build() Delta {
	if b.lastOffset < b.delta.BaseLen {
		b.delta.Els = append(b.delta.Els, Copy{b.lastOffset, b.delta.BaseLen})
	}
	return b.delta
}

// Apply applies the delta to the given rope, returning the new
// document. The rope must have length BaseLen.
func (d Delta) Apply(base rope.Rope) rope.Rope {
	if base.Len() != d.BaseLen {
		panic("delta: must apply to a rope of the delta's base length")
	}
	var b rope.TreeBuilder
	for _, el := range d.Els {
		switch e := el.(type) {
		case Copy:
			b.PushSlice(base, e.Start, e.End)
		case Insert:
			b.Push(e.Text)
		}
	}
	return b.Build()
}

// ApplyToString applies the delta to a string.
func (d Delta) ApplyToString(s string) string {
	return d.Apply(rope.FromString(s)).String()
}

// Factor splits the delta into an insert-only delta and a subset of the
// base representing the deletions. Applying the insert delta and then
// deleting the (expanded) subset yields the same result as applying the
// original delta.
func (d Delta) Factor() (InsertDelta, subset.Subset) {
	var ins []Element
	var sb subset.Builder
	b1, e1 := 0, 0
	for _, el := range d.Els {
		switch e := el.(type) {
		case Copy:
			sb.AddRange(e1, e.Start, 1)
			e1 = e.End
		case Insert:
			if e1 > b1 {
				ins = append(ins, Copy{b1, e1})
			}
			b1 = e1
			ins = append(ins, Insert{e.Text})
		}
	}
	if b1 < d.BaseLen {
		ins = append(ins, Copy{b1, d.BaseLen})
	}
	sb.AddRange(e1, d.BaseLen, 1)
	sb.PadToLen(d.BaseLen)
	return InsertDelta{Delta{Els: ins, BaseLen: d.BaseLen}}, sb.Build()
}

// Synthesize is the inverse of Factor: it builds a delta from the text
// described by fromDels to the text described by toDels, both subsets
// of the same union string. Since only deleted portions of the union
// are needed, the function takes the tombstones rope (the deleted
// portions in union order); fromDels must be the interleaving of
// tombstones into the union string.
func Synthesize(tombstones rope.Rope, fromDels, toDels subset.Subset) Delta {
	baseLen := fromDels.LenAfterDelete()
	var els []Element
	x := 0
	oldRanges := fromDels.ComplementIter()
	var lastOld struct {
		start, end int
		ok         bool
	}
	advanceOld := func() {
		if oldRanges.Next() {
			lastOld.start, lastOld.end = oldRanges.Range()
			lastOld.ok = true
		} else {
			lastOld.ok = false
		}
	}
	advanceOld()
	m := fromDels.Mapper(subset.MatchNonZero)
	// For each segment of the new text.
	newRanges := toDels.ComplementIter()
	for newRanges.Next() {
		rs, re := newRanges.Range()
		// Fill the whole segment.
		beg := rs
		for beg < re {
			// Skip over old ranges that end before the fill point.
			for lastOld.ok && lastOld.end <= beg {
				x += lastOld.end - lastOld.start
				advanceOld()
			}
			if lastOld.ok && lastOld.start <= beg {
				// The character at beg is in the old text: Copy.
				end := min(re, lastOld.end)
				xbeg := beg + x - lastOld.start
				xend := end + x - lastOld.start
				// Merge contiguous Copys in the output.
				merged := false
				if n := len(els); n > 0 {
					if last, ok := els[n-1].(Copy); ok && last.End == xbeg {
						els[n-1] = Copy{last.Start, xend}
						merged = true
					}
				}
				if !merged {
					els = append(els, Copy{xbeg, xend})
				}
				beg = end
			} else {
				// Insert from tombstones up to the next copyable range
				// or the end of this segment.
				end := re
				if lastOld.ok {
					end = min(end, lastOld.start)
				}
				t0 := m.DocIndexToSubset(beg)
				t1 := m.DocIndexToSubset(end)
				els = append(els, Insert{tombstones.Slice(t0, t1)})
				beg = end
			}
		}
	}
	return Delta{Els: els, BaseLen: baseLen}
}

// NewDocumentLen returns the length of the document after the delta is
// applied.
func (d Delta) NewDocumentLen() int {
	return totalElementLen(d.Els)
}

// InsertsLen returns the summed length of the delta's inserts.
func (d Delta) InsertsLen() int {
	n := 0
	for _, el := range d.Els {
		if ins, ok := el.(Insert); ok {
			n += ins.Text.Len()
		}
	}
	return n
}

func totalElementLen(els []Element) int {
	n := 0
	for _, el := range els {
		switch e := el.(type) {
		case Copy:
			n += e.End - e.Start
		case Insert:
			n += e.Text.Len()
		}
	}
	return n
}

// Summary returns the affected interval and the length of its new
// contents. Everything outside [start, end) of the base is unchanged;
// the old contents of the interval are replaced by newLen bytes.
func (d Delta) Summary() (start, end, newLen int) {
	els := d.Els
	if len(els) > 0 {
		if cp, ok := els[0].(Copy); ok && cp.Start == 0 {
			start = cp.End
			els = els[1:]
		}
	}
	end = d.BaseLen
	if n := len(els); n > 0 {
		if cp, ok := els[n-1].(Copy); ok && cp.End == end {
			end = cp.Start
			els = els[:n-1]
		}
	}
	return start, end, totalElementLen(els)
}

// IsSimpleDelete reports whether the delta is a single deletion with no
// inserts. The trivial delta and a deletion from an empty base both
// report false.
func (d Delta) IsSimpleDelete() bool {
	if len(d.Els) == 0 {
		return d.BaseLen > 0
	}
	first, ok := d.Els[0].(Copy)
	if !ok {
		return false
	}
	if first.Start == 0 {
		if len(d.Els) == 1 {
			// Deletion at end.
			return first.End < d.BaseLen
		}
		second, ok := d.Els[1].(Copy)
		if !ok {
			return false
		}
		// Deletion in middle.
		return len(d.Els) == 2 && first.End < second.Start && second.End == d.BaseLen
	}
	// Deletion at beginning.
	return first.End == d.BaseLen && len(d.Els) == 1
}

// AsSimpleInsert returns the inserted rope if the delta is a single
// insertion with no deletes.
func (d Delta) AsSimpleInsert() (rope.Rope, bool) {
	els := d.Els
	i := 0
	if len(els) > 0 {
		if cp, ok := els[0].(Copy); ok {
			if cp.Start != 0 {
				return rope.Rope{}, false
			}
			i = cp.End
			els = els[1:]
		}
	}
	if len(els) == 0 {
		return rope.Rope{}, false
	}
	ins, ok := els[0].(Insert)
	if !ok {
		return rope.Rope{}, false
	}
	els = els[1:]
	if len(els) == 0 {
		if i == d.BaseLen {
			return ins.Text, true
		}
		return rope.Rope{}, false
	}
	if cp, ok := els[0].(Copy); ok && len(els) == 1 {
		if i == cp.Start && cp.End == d.BaseLen {
			return ins.Text, true
		}
	}
	return rope.Rope{}, false
}

// IsIdentity reports whether applying the delta causes no change.
func (d Delta) IsIdentity() bool {
	if len(d.Els) == 1 {
		if cp, ok := d.Els[0].(Copy); ok {
			return cp.Start == 0 && cp.End == d.BaseLen
		}
	}
	return len(d.Els) == 0 && d.BaseLen == 0
}
