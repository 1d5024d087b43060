package rope

import "encoding/json"

// Ropes serialize as plain strings on the wire.

// MarshalJSON encodes the rope as a JSON string.
func (r Rope) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a JSON string into the rope.
func (r *Rope) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = FromString(s)
	return nil
}

// MarshalText encodes the rope as its text content.
func (r Rope) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes text content into the rope.
func (r *Rope) UnmarshalText(data []byte) error {
	*r = FromString(string(data))
	return nil
}
