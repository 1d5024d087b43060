package delta

// Transformer maps coordinates in the source document to coordinates in
// the document after the delta is applied.
type Transformer struct {
	delta *Delta
}

// NewTransformer creates a transformer from a delta.
func NewTransformer(d *Delta) *Transformer {
	return &Transformer{delta: d}
}

// Transform maps a single coordinate through the delta. The after
// parameter indicates whether the coordinate should land before or
// after an insertion at the same position.
func (t *Transformer) Transform(ix int, after bool) int {
	if ix == 0 && !after {
		return 0
	}
	result := 0
	for _, el := range t.delta.Els {
		switch e := el.(type) {
		case Copy:
			if ix <= e.Start {
				return result
			}
			if ix < e.End || (ix == e.End && !after) {
				return result + ix - e.Start
			}
			result += e.End - e.Start
		case Insert:
			result += e.Text.Len()
		}
	}
	return result
}

// IntervalUntouched reports whether the byte range [start, end) is
// unaffected by the delta.
func (t *Transformer) IntervalUntouched(start, end int) bool {
	for _, el := range t.delta.Els {
		if e, ok := el.(Copy); ok && start >= e.Start && end <= e.End {
			return true
		}
	}
	return false
}
