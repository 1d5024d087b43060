package delta

// Region describes a contiguous inserted or deleted region: its offset
// in the old document, its offset in the new document, and its length.
type Region struct {
	OldOffset int
	NewOffset int
	Length    int
}

// InsertsIterator iterates over the inserted regions of a delta.
type InsertsIterator struct {
	els     []Element
	idx     int
	pos     int
	lastEnd int
	region  Region
}

// IterInserts returns an iterator over all inserts of the delta.
func (d Delta) IterInserts() *InsertsIterator {
	return &InsertsIterator{els: d.Els}
}

// Next advances to the next inserted region, returning false at the end.
func (it *InsertsIterator) Next() bool {
	for it.idx < len(it.els) {
		el := it.els[it.idx]
		it.idx++
		switch e := el.(type) {
		case Copy:
			it.pos += e.End - e.Start
			it.lastEnd = e.End
		case Insert:
			n := e.Text.Len()
			it.region = Region{OldOffset: it.lastEnd, NewOffset: it.pos, Length: n}
			it.pos += n
			it.lastEnd += n
			return true
		}
	}
	return false
}

// Region returns the current inserted region.
func (it *InsertsIterator) Region() Region {
	return it.region
}

// DeletionsIterator iterates over the deleted regions of a delta.
type DeletionsIterator struct {
	els     []Element
	baseLen int
	idx     int
	pos     int
	lastEnd int
	done    bool
	region  Region
}

// IterDeletions returns an iterator over all deletions of the delta.
func (d Delta) IterDeletions() *DeletionsIterator {
	return &DeletionsIterator{els: d.Els, baseLen: d.BaseLen}
}

// Next advances to the next deleted region, returning false at the end.
func (it *DeletionsIterator) Next() bool {
	for it.idx < len(it.els) {
		el := it.els[it.idx]
		it.idx++
		switch e := el.(type) {
		case Copy:
			found := false
			if e.Start > it.lastEnd {
				it.region = Region{OldOffset: it.lastEnd, NewOffset: it.pos, Length: e.Start - it.lastEnd}
				found = true
			}
			it.pos += e.End - e.Start
			it.lastEnd = e.End
			if found {
				return true
			}
		case Insert:
			n := e.Text.Len()
			it.pos += n
			it.lastEnd += n
		}
	}
	if !it.done && it.lastEnd < it.baseLen {
		it.region = Region{OldOffset: it.lastEnd, NewOffset: it.pos, Length: it.baseLen - it.lastEnd}
		it.lastEnd = it.baseLen
		it.done = true
		return true
	}
	return false
}

// Region returns the current deleted region.
func (it *DeletionsIterator) Region() Region {
	return it.region
}
