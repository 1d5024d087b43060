package engine

import (
	"slices"

	"github.com/dshills/loom/subset"
)

// GC discards the edits of the given undo groups from the revision log,
// compacting tombstones and every surviving revision's subsets. The
// head revision and the anchor are always retained, so GetRev of the
// head and all future edits are unaffected.
//
// Undoing a collected group is no longer possible; Undo rejects it.
//
// When revisions are in flight to external observers, the request is
// deferred and runs once the last observer acknowledges.
func (e *Engine) GC(gcGroups GroupSet) {
	if len(gcGroups) == 0 {
		return
	}
	if e.revsInFlight > 0 {
		if e.pendingGC == nil {
			e.pendingGC = NewGroupSet()
		}
		for g := range gcGroups {
			e.pendingGC.Add(g)
		}
		return
	}
	e.runGC(gcGroups)
}

func (e *Engine) runGC(gcGroups GroupSet) {
	gcDels := e.emptySubsetBeforeFirstRev()
	retainRevs := make(map[RevId]struct{})
	// The head stays materializable; the anchor stays the common merge
	// root.
	retainRevs[e.revs[len(e.revs)-1].ID] = struct{}{}
	retainRevs[e.revs[0].ID] = struct{}{}

	// Accumulate the union positions whose history is being discarded.
	for _, rev := range e.revs {
		ed, ok := rev.Edit.(EditOp)
		if !ok {
			continue
		}
		_, retained := retainRevs[rev.ID]
		if !retained && gcGroups.Contains(ed.UndoGroup) {
			if e.undoneGroups.Contains(ed.UndoGroup) {
				if !ed.Inserts.IsEmpty() {
					gcDels = gcDels.TransformUnion(ed.Inserts)
				}
			} else {
				if !ed.Inserts.IsEmpty() {
					gcDels = gcDels.TransformExpand(ed.Inserts)
				}
				if !ed.Deletes.IsEmpty() {
					gcDels = gcDels.Union(ed.Deletes)
				}
			}
		} else if !ed.Inserts.IsEmpty() {
			gcDels = gcDels.TransformExpand(ed.Inserts)
		}
	}

	if !gcDels.IsEmpty() {
		notInTombstones := e.deletesFromUnion.Complement()
		delsFromTombstones := gcDels.TransformShrink(notInTombstones)
		e.tombstones = delsFromTombstones.DeleteFrom(e.tombstones)
		e.deletesFromUnion = e.deletesFromUnion.TransformShrink(gcDels)
	}

	// Rewrite the log in reverse, shrinking each surviving revision by
	// the accumulated deletions at that point.
	droppedGroups := NewGroupSet()
	retainedGroups := NewGroupSet()
	oldRevs := e.revs
	e.revs = make([]Revision, 0, len(oldRevs))
	for i := len(oldRevs) - 1; i >= 0; i-- {
		rev := oldRevs[i]
		switch ed := rev.Edit.(type) {
		case EditOp:
			var newGCDels *subset.Subset
			if !ed.Inserts.IsEmpty() {
				s := gcDels.TransformShrink(ed.Inserts)
				newGCDels = &s
			}
			_, retained := retainRevs[rev.ID]
			if retained || !gcGroups.Contains(ed.UndoGroup) {
				inserts, deletes := ed.Inserts, ed.Deletes
				if !gcDels.IsEmpty() {
					inserts = inserts.TransformShrink(gcDels)
					deletes = deletes.TransformShrink(gcDels)
				}
				e.revs = append(e.revs, Revision{
					ID:           rev.ID,
					MaxUndoSoFar: rev.MaxUndoSoFar,
					Edit: EditOp{
						Priority:  ed.Priority,
						UndoGroup: ed.UndoGroup,
						Inserts:   inserts,
						Deletes:   deletes,
					},
				})
				retainedGroups.Add(ed.UndoGroup)
			} else {
				droppedGroups.Add(ed.UndoGroup)
			}
			if newGCDels != nil {
				gcDels = *newGCDels
			}
		case UndoOp:
			// Dropped aggressively: after GC the undo lineage behind
			// deletes_from_union may be lost.
			if _, retained := retainRevs[rev.ID]; !retained {
				continue
			}
			bitxor := ed.DeletesBitxor
			if !gcDels.IsEmpty() {
				bitxor = bitxor.TransformShrink(gcDels)
			}
			e.revs = append(e.revs, Revision{
				ID:           rev.ID,
				MaxUndoSoFar: rev.MaxUndoSoFar,
				Edit: UndoOp{
					ToggledGroups: ed.ToggledGroups.Subtract(gcGroups),
					DeletesBitxor: bitxor,
				},
			})
		}
	}
	slices.Reverse(e.revs)

	// A group with every edit collected no longer exists: drop it from
	// the undone bookkeeping so whole-set Undo calls need not mention
	// it. Either way the group is recorded as pruned, so explicitly
	// toggling it is rejected from now on.
	for g := range droppedGroups {
		e.prunedGroups.Add(g)
		if !retainedGroups.Contains(g) {
			delete(e.undoneGroups, g)
		}
	}
}
