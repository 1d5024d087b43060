package engine

import "github.com/dshills/loom/subset"

// findFirstUndoCandidateIndex returns the first revision that could be
// affected by toggling a set of undo groups.
func (e *Engine) findFirstUndoCandidateIndex(toggledGroups GroupSet) int {
	lowest, ok := toggledGroups.Min()
	if !ok {
		// No toggled groups; nothing is affected.
		return len(e.revs)
	}
	for i := len(e.revs) - 1; i >= 0; i-- {
		if e.revs[i].MaxUndoSoFar < lowest {
			return i + 1
		}
	}
	return 0
}

// computeUndo replays history from the first affected revision forward,
// producing the UndoOp revision and the new deletes-from-union for an
// undone-group set.
func (e *Engine) computeUndo(groups GroupSet) (Revision, subset.Subset) {
	toggledGroups := e.undoneGroups.SymmetricDifference(groups)
	firstCandidate := e.findFirstUndoCandidateIndex(toggledGroups)
	// Don't invert undos: firstCandidate is based on the current undo
	// set, not the past.
	dfu := e.deletesFromUnionBeforeIndex(firstCandidate, false)

	for _, r := range e.revs[firstCandidate:] {
		ed, ok := r.Edit.(EditOp)
		if !ok {
			continue
		}
		if groups.Contains(ed.UndoGroup) {
			if !ed.Inserts.IsEmpty() {
				// Keep the undone inserts deleted.
				dfu = dfu.TransformUnion(ed.Inserts)
			}
		} else {
			if !ed.Inserts.IsEmpty() {
				dfu = dfu.TransformExpand(ed.Inserts)
			}
			if !ed.Deletes.IsEmpty() {
				dfu = dfu.Union(ed.Deletes)
			}
		}
	}

	deletesBitxor := e.deletesFromUnion.Bitxor(dfu)
	maxUndoSoFar := e.revs[len(e.revs)-1].MaxUndoSoFar
	rev := Revision{
		ID:           e.nextRevID(),
		MaxUndoSoFar: maxUndoSoFar,
		Edit:         UndoOp{ToggledGroups: toggledGroups, DeletesBitxor: deletesBitxor},
	}
	return rev, dfu
}

// Undo installs groups as the set of currently undone undo groups and
// appends an UndoOp revision. The whole set is installed, not a toggle:
// groups absent from the set are redone.
//
// Returns ErrGroupPruned without changing state when the request names
// a group discarded by GC, or when the toggle would touch the surviving
// edits of a partially collected group.
func (e *Engine) Undo(groups GroupSet) error {
	if e.prunedGroups.Intersects(groups) ||
		e.prunedGroups.Intersects(e.undoneGroups.SymmetricDifference(groups)) {
		return ErrGroupPruned
	}
	newRev, newDFU := e.computeUndo(groups)
	newText, newTombstones := shuffle(e.text, e.tombstones, e.deletesFromUnion, newDFU)

	e.text = newText
	e.tombstones = newTombstones
	e.deletesFromUnion = newDFU
	e.undoneGroups = groups.Clone()
	e.revs = append(e.revs, newRev)
	e.revIDCounter++
	return nil
}
