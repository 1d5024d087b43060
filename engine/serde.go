package engine

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/dshills/loom/rope"
	"github.com/dshills/loom/subset"
)

// Engines serialize to JSON for session persistence. Revisions carry
// their contents externally tagged: {"edit": {...}} or {"undo": {...}}.

type sessionJSON struct {
	High uint64 `json:"high"`
	Low  uint32 `json:"low"`
}

type revIDJSON struct {
	Session1 uint64 `json:"session1"`
	Session2 uint32 `json:"session2"`
	Num      uint32 `json:"num"`
}

type editOpJSON struct {
	Priority  int           `json:"priority"`
	UndoGroup int           `json:"undo_group"`
	Inserts   subset.Subset `json:"inserts"`
	Deletes   subset.Subset `json:"deletes"`
}

type undoOpJSON struct {
	ToggledGroups []int         `json:"toggled_groups"`
	DeletesBitxor subset.Subset `json:"deletes_bitxor"`
}

type contentsJSON struct {
	Edit *editOpJSON `json:"edit,omitempty"`
	Undo *undoOpJSON `json:"undo,omitempty"`
}

type revisionJSON struct {
	RevID        revIDJSON    `json:"rev_id"`
	MaxUndoSoFar int          `json:"max_undo_so_far"`
	Edit         contentsJSON `json:"edit"`
}

type engineJSON struct {
	Session          sessionJSON    `json:"session"`
	RevCounter       uint32         `json:"rev_counter"`
	Text             rope.Rope      `json:"text"`
	Tombstones       rope.Rope      `json:"tombstones"`
	DeletesFromUnion subset.Subset  `json:"deletes_from_union"`
	UndoneGroups     []int          `json:"undone_groups"`
	PrunedGroups     []int          `json:"pruned_groups,omitempty"`
	Revs             []revisionJSON `json:"revs"`
}

func groupSlice(s GroupSet) []int {
	out := make([]int, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

// MarshalJSON encodes the engine state.
func (e *Engine) MarshalJSON() ([]byte, error) {
	doc := engineJSON{
		Session:          sessionJSON{High: e.session.High, Low: e.session.Low},
		RevCounter:       e.revIDCounter,
		Text:             e.text,
		Tombstones:       e.tombstones,
		DeletesFromUnion: e.deletesFromUnion,
		UndoneGroups:     groupSlice(e.undoneGroups),
		PrunedGroups:     groupSlice(e.prunedGroups),
		Revs:             make([]revisionJSON, 0, len(e.revs)),
	}
	for _, r := range e.revs {
		rj := revisionJSON{
			RevID:        revIDJSON{Session1: r.ID.Session1, Session2: r.ID.Session2, Num: r.ID.Num},
			MaxUndoSoFar: r.MaxUndoSoFar,
		}
		switch ed := r.Edit.(type) {
		case EditOp:
			rj.Edit.Edit = &editOpJSON{
				Priority:  ed.Priority,
				UndoGroup: ed.UndoGroup,
				Inserts:   ed.Inserts,
				Deletes:   ed.Deletes,
			}
		case UndoOp:
			rj.Edit.Undo = &undoOpJSON{
				ToggledGroups: groupSlice(ed.ToggledGroups),
				DeletesBitxor: ed.DeletesBitxor,
			}
		}
		doc.Revs = append(doc.Revs, rj)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON restores engine state from its wire form.
func (e *Engine) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("engine: invalid json")
	}
	root := gjson.ParseBytes(data)

	restored := Empty()
	if s := root.Get("session"); s.Exists() {
		restored.session = SessionID{
			High: s.Get("high").Uint(),
			Low:  uint32(s.Get("low").Uint()),
		}
	}
	if c := root.Get("rev_counter"); c.Exists() {
		restored.revIDCounter = uint32(c.Uint())
	}

	var text, tombstones rope.Rope
	if err := text.UnmarshalJSON([]byte(root.Get("text").Raw)); err != nil {
		return err
	}
	if err := tombstones.UnmarshalJSON([]byte(root.Get("tombstones").Raw)); err != nil {
		return err
	}
	restored.text = text
	restored.tombstones = tombstones

	var dfu subset.Subset
	if err := dfu.UnmarshalJSON([]byte(root.Get("deletes_from_union").Raw)); err != nil {
		return err
	}
	restored.deletesFromUnion = dfu

	restored.undoneGroups = NewGroupSet()
	root.Get("undone_groups").ForEach(func(_, g gjson.Result) bool {
		restored.undoneGroups.Add(int(g.Int()))
		return true
	})
	restored.prunedGroups = NewGroupSet()
	root.Get("pruned_groups").ForEach(func(_, g gjson.Result) bool {
		restored.prunedGroups.Add(int(g.Int()))
		return true
	})

	var revs []Revision
	var err error
	root.Get("revs").ForEach(func(_, rj gjson.Result) bool {
		id := rj.Get("rev_id")
		rev := Revision{
			ID: RevId{
				Session1: id.Get("session1").Uint(),
				Session2: uint32(id.Get("session2").Uint()),
				Num:      uint32(id.Get("num").Uint()),
			},
			MaxUndoSoFar: int(rj.Get("max_undo_so_far").Int()),
		}
		switch {
		case rj.Get("edit.edit").Exists():
			ed := rj.Get("edit.edit")
			var inserts, deletes subset.Subset
			if err = inserts.UnmarshalJSON([]byte(ed.Get("inserts").Raw)); err != nil {
				return false
			}
			if err = deletes.UnmarshalJSON([]byte(ed.Get("deletes").Raw)); err != nil {
				return false
			}
			rev.Edit = EditOp{
				Priority:  int(ed.Get("priority").Int()),
				UndoGroup: int(ed.Get("undo_group").Int()),
				Inserts:   inserts,
				Deletes:   deletes,
			}
		case rj.Get("edit.undo").Exists():
			un := rj.Get("edit.undo")
			toggled := NewGroupSet()
			un.Get("toggled_groups").ForEach(func(_, g gjson.Result) bool {
				toggled.Add(int(g.Int()))
				return true
			})
			var bitxor subset.Subset
			if err = bitxor.UnmarshalJSON([]byte(un.Get("deletes_bitxor").Raw)); err != nil {
				return false
			}
			rev.Edit = UndoOp{ToggledGroups: toggled, DeletesBitxor: bitxor}
		default:
			err = fmt.Errorf("engine: revision %v has unknown contents", rev.ID)
			return false
		}
		revs = append(revs, rev)
		return true
	})
	if err != nil {
		return err
	}
	if len(revs) == 0 {
		return fmt.Errorf("engine: snapshot holds no revisions")
	}
	restored.revs = revs
	*e = *restored
	return nil
}
