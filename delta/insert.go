package delta

import "github.com/dshills/loom/subset"

// InsertDelta is a Delta containing only insertions: it copies all of
// the old document in order. Delta methods apply to it unchanged.
type InsertDelta struct {
	Delta
}

// TransformExpand rebases an insert-only delta onto the wider
// coordinate space described by xform: positions present in xform are
// spliced into the base. The after parameter controls whether this
// delta's insertions land after the spliced-in regions when they abut.
func (d InsertDelta) TransformExpand(xform subset.Subset, after bool) InsertDelta {
	curEls := d.Els
	var els []Element
	x := 0  // coordinate within self
	y := 0  // coordinate within xform
	i := 0  // index into curEls
	b1 := 0 // start of the pending copy
	xformRanges := xform.ComplementIter()
	var lastStart, lastEnd int
	lastOK := false
	advance := func() {
		if xformRanges.Next() {
			lastStart, lastEnd = xformRanges.Range()
			lastOK = true
		} else {
			lastOK = false
		}
	}
	advance()
	l := xform.Len()
	for y < l || i < len(curEls) {
		nextIvBeg := l
		if lastOK {
			nextIvBeg = lastStart
		}
		if after && y < nextIvBeg {
			y = nextIvBeg
		}
	inner:
		for i < len(curEls) {
			switch el := curEls[i].(type) {
			case Insert:
				if y > b1 {
					els = append(els, Copy{b1, y})
				}
				b1 = y
				els = append(els, Insert{el.Text})
				i++
			case Copy:
				if y >= nextIvBeg {
					nextY := el.End + y - x
					if lastOK {
						nextY = min(nextY, lastEnd)
					}
					x += nextY - y
					y = nextY
					if x == el.End {
						i++
					}
					if lastOK && y == lastEnd {
						advance()
					}
				}
				break inner
			}
		}
		if !after && y < nextIvBeg {
			y = nextIvBeg
		}
	}
	if y > b1 {
		els = append(els, Copy{b1, y})
	}
	return InsertDelta{Delta{Els: els, BaseLen: l}}
}

// TransformShrink narrows an insert-only delta through a deletion of
// some of its copied regions. If this delta applies to a union string
// and xform is the deletions from that union, the result applies to the
// visible text.
func (d InsertDelta) TransformShrink(xform subset.Subset) InsertDelta {
	m := xform.Mapper(subset.MatchZero)
	els := make([]Element, 0, len(d.Els))
	for _, el := range d.Els {
		switch e := el.(type) {
		case Copy:
			els = append(els, Copy{m.DocIndexToSubset(e.Start), m.DocIndexToSubset(e.End)})
		case Insert:
			els = append(els, Insert{e.Text})
		}
	}
	return InsertDelta{Delta{Els: els, BaseLen: xform.LenAfterDelete()}}
}

// InsertedSubset returns the subset marking the inserted positions in
// the output coordinate space of the delta.
func (d InsertDelta) InsertedSubset() subset.Subset {
	var sb subset.Builder
	for _, el := range d.Els {
		switch e := el.(type) {
		case Copy:
			sb.PushSegment(e.End-e.Start, 0)
		case Insert:
			sb.PushSegment(e.Text.Len(), 1)
		}
	}
	return sb.Build()
}
