package delta

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/loom/rope"
)

// Deltas serialize as {"els": [...], "base_len": n} where each element
// is {"copy": [start, end]} or {"insert": "..."}.

// MarshalJSON encodes the delta in its wire form.
func (d Delta) MarshalJSON() ([]byte, error) {
	doc := `{"els":[],"base_len":0}`
	var err error
	for _, el := range d.Els {
		switch e := el.(type) {
		case Copy:
			doc, err = sjson.Set(doc, "els.-1", map[string]any{"copy": []int{e.Start, e.End}})
		case Insert:
			doc, err = sjson.Set(doc, "els.-1", map[string]any{"insert": e.Text.String()})
		}
		if err != nil {
			return nil, err
		}
	}
	doc, err = sjson.Set(doc, "base_len", d.BaseLen)
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

// UnmarshalJSON decodes the delta wire form.
func (d *Delta) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("delta: invalid json")
	}
	root := gjson.ParseBytes(data)
	baseLen := root.Get("base_len")
	if !baseLen.Exists() {
		return fmt.Errorf("delta: missing base_len")
	}
	var els []Element
	var err error
	root.Get("els").ForEach(func(_, el gjson.Result) bool {
		if cp := el.Get("copy"); cp.Exists() {
			arr := cp.Array()
			if len(arr) != 2 {
				err = fmt.Errorf("delta: copy element must hold [start, end]")
				return false
			}
			els = append(els, Copy{int(arr[0].Int()), int(arr[1].Int())})
			return true
		}
		if ins := el.Get("insert"); ins.Exists() {
			els = append(els, Insert{rope.FromString(ins.String())})
			return true
		}
		err = fmt.Errorf("delta: unknown element %s", el.Raw)
		return false
	})
	if err != nil {
		return err
	}
	d.Els = els
	d.BaseLen = int(baseLen.Int())
	return nil
}

// String renders the delta for debugging.
func (d Delta) String() string {
	out := "Delta("
	for _, el := range d.Els {
		switch e := el.(type) {
		case Copy:
			out += fmt.Sprintf("[%d,%d) ", e.Start, e.End)
		case Insert:
			out += fmt.Sprintf("<ins:%d> ", e.Text.Len())
		}
	}
	return out + fmt.Sprintf("base_len: %d)", d.BaseLen)
}
