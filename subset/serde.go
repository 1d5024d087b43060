package subset

import "encoding/json"

// Subsets serialize as run-length pairs: [[length, count], ...].

// MarshalJSON encodes the subset's segments.
func (s Subset) MarshalJSON() ([]byte, error) {
	pairs := make([][2]int, len(s.segments))
	for i, seg := range s.segments {
		pairs[i] = [2]int{seg.Length, seg.Count}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes run-length pairs, re-normalizing adjacent
// segments with equal counts.
func (s *Subset) UnmarshalJSON(data []byte) error {
	var pairs [][2]int
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	var b Builder
	for _, p := range pairs {
		b.PushSegment(p[0], p[1])
	}
	*s = b.Build()
	return nil
}
