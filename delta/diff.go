package delta

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/loom/rope"
)

// Diff computes a delta transforming old into new. Useful for turning
// whole-document changes (a reloaded file, an external formatter) into
// an edit the engine can rebase.
func Diff(old, new rope.Rope) Delta {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old.String(), new.String(), false)
	diffs = dmp.DiffCleanupEfficiency(diffs)

	var els []Element
	pos := 0
	for _, df := range diffs {
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			end := pos + len(df.Text)
			if n := len(els); n > 0 {
				if last, ok := els[n-1].(Copy); ok && last.End == pos {
					els[n-1] = Copy{last.Start, end}
					pos = end
					continue
				}
			}
			els = append(els, Copy{pos, end})
			pos = end
		case diffmatchpatch.DiffDelete:
			pos += len(df.Text)
		case diffmatchpatch.DiffInsert:
			if len(df.Text) > 0 {
				els = append(els, Insert{rope.FromString(df.Text)})
			}
		}
	}
	return Delta{Els: els, BaseLen: old.Len()}
}
