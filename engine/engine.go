package engine

import (
	"github.com/dshills/loom/delta"
	"github.com/dshills/loom/rope"
	"github.com/dshills/loom/subset"
)

// Engine represents the current state of a document and all of its
// edit history. It is a small conflict-free replicated data type: all
// operations are serialized through the engine, and edits may be based
// on a previously committed revision rather than the current head,
// which is sufficient for asynchronous plugins with one edit in flight
// each. Merge integrates the history of a second engine wholesale,
// enabling full peer-to-peer editing.
//
// Engine methods are not safe for concurrent use; the ropes and
// subsets they return are immutable and freely shareable.
type Engine struct {
	// session is used to mint RevIds for edits made on this engine.
	session SessionID

	// revIDCounter increments per local revision.
	revIDCounter uint32

	// text is the current contents as displayed on screen.
	text rope.Rope

	// tombstones stores all characters that have been deleted but could
	// return if a delete is undone or an insert redone, in union order.
	tombstones rope.Rope

	// deletesFromUnion is a subset of the union string (the conceptual
	// string of every character ever inserted, deleted or not) marking
	// the characters currently in tombstones rather than text. The
	// count records how many times a character was deleted, so that
	// undoing one of two concurrent deletes does not revive it.
	deletesFromUnion subset.Subset

	// undoneGroups is the set of currently undone undo group IDs.
	undoneGroups GroupSet

	// revs is the revision history. revs[0] is always an empty UndoOp
	// with the zero session, the common anchor for merge.
	revs []Revision

	// revsInFlight counts head revisions broadcast to external
	// observers and not yet acknowledged. GC is deferred while nonzero.
	revsInFlight int

	// pendingGC accumulates GC requests deferred by in-flight revisions.
	pendingGC GroupSet

	// prunedGroups records undo groups discarded by GC; undoing them
	// would produce incorrect state, so Undo rejects them.
	prunedGroups GroupSet
}

// Empty creates an engine with empty text and the universal anchor
// revision.
func Empty() *Engine {
	dfu := subset.New(0)
	anchor := Revision{
		ID:   RevId{Session1: 0, Session2: 0, Num: 0},
		Edit: UndoOp{ToggledGroups: NewGroupSet(), DeletesBitxor: dfu},
	}
	return &Engine{
		session:      defaultSession(),
		revIDCounter: 1,
		text:         rope.New(),
		tombstones:   rope.New(),

		deletesFromUnion: dfu,
		undoneGroups:     NewGroupSet(),
		revs:             []Revision{anchor},
		prunedGroups:     NewGroupSet(),
	}
}

// New creates an engine holding initialContents. Non-empty contents
// are committed as a first edit rather than baked into the anchor, so
// that any two engines share a common ancestor and remain mergeable.
func New(initialContents rope.Rope) *Engine {
	e := Empty()
	if !initialContents.IsEmpty() {
		firstRev := e.GetHeadRevID().Token()
		d := delta.SimpleEdit(0, 0, initialContents, 0)
		// Cannot fail: the base is the head we just created.
		if err := e.EditRev(0, 0, firstRev, d); err != nil {
			panic(err)
		}
	}
	return e
}

func (e *Engine) nextRevID() RevId {
	return RevId{Session1: e.session.High, Session2: e.session.Low, Num: e.revIDCounter}
}

func (e *Engine) findRev(id RevId) (int, bool) {
	for i := len(e.revs) - 1; i >= 0; i-- {
		if e.revs[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (e *Engine) findRevToken(token RevToken) (int, bool) {
	for i := len(e.revs) - 1; i >= 0; i-- {
		if e.revs[i].ID.Token() == token {
			return i, true
		}
	}
	return 0, false
}

// deletesFromUnionForIndex reconstructs what deletesFromUnion was just
// after the revision at revIndex was committed.
func (e *Engine) deletesFromUnionForIndex(revIndex int) subset.Subset {
	return e.deletesFromUnionBeforeIndex(revIndex+1, true)
}

// deletesFromUnionBeforeIndex inverts the changes to deletesFromUnion
// backwards from the present, giving its state before the revision at
// revIndex. With invertUndos false, undo revisions are skipped.
func (e *Engine) deletesFromUnionBeforeIndex(revIndex int, invertUndos bool) subset.Subset {
	dfu := e.deletesFromUnion
	undone := e.undoneGroups
	for i := len(e.revs) - 1; i >= revIndex; i-- {
		switch ed := e.revs[i].Edit.(type) {
		case EditOp:
			if undone.Contains(ed.UndoGroup) {
				// Undone inserts are marked deleted; just shrink them out.
				dfu = dfu.TransformShrink(ed.Inserts)
			} else {
				dfu = dfu.Subtract(ed.Deletes).TransformShrink(ed.Inserts)
			}
		case UndoOp:
			if invertUndos {
				undone = undone.SymmetricDifference(ed.ToggledGroups)
				dfu = dfu.Bitxor(ed.DeletesBitxor)
			}
		}
	}
	return dfu
}

// deletesFromCurUnionForIndex returns the subset to delete from the
// current union string to obtain the content at a past revision.
func (e *Engine) deletesFromCurUnionForIndex(revIndex int) subset.Subset {
	dfu := e.deletesFromUnionForIndex(revIndex)
	for _, r := range e.revs[revIndex+1:] {
		if ed, ok := r.Edit.(EditOp); ok && !ed.Inserts.IsEmpty() {
			dfu = dfu.TransformUnion(ed.Inserts)
		}
	}
	return dfu
}

// revContentForIndex materializes the document at a given revision.
func (e *Engine) revContentForIndex(revIndex int) rope.Rope {
	oldDFU := e.deletesFromCurUnionForIndex(revIndex)
	d := delta.Synthesize(e.tombstones, e.deletesFromUnion, oldDFU)
	return d.Apply(e.text)
}

// MaxUndoGroupID returns the largest undo group ID used so far.
func (e *Engine) MaxUndoGroupID() int {
	return e.revs[len(e.revs)-1].MaxUndoSoFar
}

// GetHead returns the text of the head revision.
func (e *Engine) GetHead() rope.Rope {
	return e.text
}

// GetHeadRevID returns the ID of the head revision.
func (e *Engine) GetHeadRevID() RevId {
	return e.revs[len(e.revs)-1].ID
}

// GetHeadRevToken returns the token of the head revision.
func (e *Engine) GetHeadRevToken() RevToken {
	return e.GetHeadRevID().Token()
}

// GetRev returns the text of a past revision, if it can be found.
func (e *Engine) GetRev(token RevToken) (rope.Rope, bool) {
	ix, ok := e.findRevToken(token)
	if !ok {
		return rope.Rope{}, false
	}
	return e.revContentForIndex(ix), true
}

// TryDeltaRevHead returns a delta that, applied to the base revision,
// results in the current head.
func (e *Engine) TryDeltaRevHead(base RevToken) (delta.Delta, error) {
	ix, ok := e.findRevToken(base)
	if !ok {
		return delta.Delta{}, &MissingRevisionError{Token: base}
	}
	prevFromUnion := e.deletesFromCurUnionForIndex(ix)
	oldTombstones := shuffleTombstones(e.text, e.tombstones, e.deletesFromUnion, prevFromUnion)
	return delta.Synthesize(oldTombstones, prevFromUnion, e.deletesFromUnion), nil
}

// mkNewRev builds the revision, text, tombstones and deletes-from-union
// resulting from an edit against base, without mutating the engine.
func (e *Engine) mkNewRev(newPriority, undoGroup int, base RevToken, d delta.Delta) (Revision, rope.Rope, rope.Rope, subset.Subset, error) {
	ix, ok := e.findRevToken(base)
	if !ok {
		return Revision{}, rope.Rope{}, rope.Rope{}, subset.Subset{}, &MissingRevisionError{Token: base}
	}

	insDelta, deletes := d.Factor()

	// Rebase the delta onto the base revision's union instead of the text.
	deletesAtRev := e.deletesFromUnionForIndex(ix)

	if insDelta.BaseLen != deletesAtRev.LenAfterDelete() {
		return Revision{}, rope.Rope{}, rope.Rope{}, subset.Subset{},
			&MalformedDeltaError{DeltaLen: insDelta.BaseLen, RevLen: deletesAtRev.LenAfterDelete()}
	}

	unionInsDelta := insDelta.TransformExpand(deletesAtRev, true)
	newDeletes := deletes.TransformExpand(deletesAtRev)

	// Rebase from the base revision's union onto the head union,
	// ordering concurrent inserts by (priority, session).
	newFullPriority := fullPriority{priority: newPriority, session: e.session}
	for _, r := range e.revs[ix+1:] {
		ed, isEdit := r.Edit.(EditOp)
		if !isEdit || ed.Inserts.IsEmpty() {
			continue
		}
		after := newFullPriority.gte(fullPriority{priority: ed.Priority, session: r.ID.SessionID()})
		unionInsDelta = unionInsDelta.TransformExpand(ed.Inserts, after)
		newDeletes = newDeletes.TransformExpand(ed.Inserts)
	}

	// Rebase the deletion to be after the inserts.
	newInserts := unionInsDelta.InsertedSubset()
	if !newInserts.IsEmpty() {
		newDeletes = newDeletes.TransformExpand(newInserts)
	}

	// Rebase insertions on the text and apply.
	textInsDelta := unionInsDelta.TransformShrink(e.deletesFromUnion)
	textWithInserts := textInsDelta.Apply(e.text)
	rebasedDFU := e.deletesFromUnion.TransformExpand(newInserts)

	// If the edit's group was already undone due to concurrency, its
	// inserts must not appear: mark them deleted immediately.
	toDelete := newDeletes
	if e.undoneGroups.Contains(undoGroup) {
		toDelete = newInserts
	}
	newDFU := rebasedDFU.Union(toDelete)

	// Move deleted or undone-inserted text into the tombstones.
	newText, newTombstones := shuffle(textWithInserts, e.tombstones, rebasedDFU, newDFU)

	head := e.revs[len(e.revs)-1]
	rev := Revision{
		ID:           e.nextRevID(),
		MaxUndoSoFar: max(undoGroup, head.MaxUndoSoFar),
		Edit: EditOp{
			Priority:  newPriority,
			UndoGroup: undoGroup,
			Inserts:   newInserts,
			Deletes:   newDeletes,
		},
	}
	return rev, newText, newTombstones, newDFU, nil
}

// EditRev applies a new edit based on the revision named by base.
// Returns MissingRevisionError when base cannot be found and
// MalformedDeltaError when the delta's base length does not match the
// base revision. The engine is unchanged on error.
func (e *Engine) EditRev(priority, undoGroup int, base RevToken, d delta.Delta) error {
	newRev, newText, newTombstones, newDFU, err := e.mkNewRev(priority, undoGroup, base, d)
	if err != nil {
		return err
	}
	e.revIDCounter++
	e.revs = append(e.revs, newRev)
	e.text = newText
	e.tombstones = newTombstones
	e.deletesFromUnion = newDFU
	return nil
}

// IsEquivalentRevision reports whether two revisions have identical
// visible content.
func (e *Engine) IsEquivalentRevision(base, other RevId) bool {
	baseIx, ok1 := e.findRev(base)
	otherIx, ok2 := e.findRev(other)
	if !ok1 || !ok2 {
		return false
	}
	baseSubset := e.deletesFromCurUnionForIndex(baseIx)
	otherSubset := e.deletesFromCurUnionForIndex(otherIx)
	return baseSubset.Equals(otherSubset)
}

// emptySubsetBeforeFirstRev returns an empty subset of the union string
// length from before the first revision; GC replays history with
// transforms starting from it.
func (e *Engine) emptySubsetBeforeFirstRev() subset.Subset {
	first := e.revs[0]
	var n int
	switch ed := first.Edit.(type) {
	case EditOp:
		// The length before the inserts are expanded in.
		n = ed.Inserts.Count(subset.MatchZero)
	case UndoOp:
		n = ed.DeletesBitxor.Count(subset.MatchAll)
	}
	return subset.New(n)
}

// IncRevsInFlight records a head revision handed to an external
// observer. GC is deferred while any are outstanding.
func (e *Engine) IncRevsInFlight() {
	e.revsInFlight++
}

// DecRevsInFlight records an acknowledgement from an external observer.
// When the last outstanding revision is acknowledged, deferred GC runs.
func (e *Engine) DecRevsInFlight() {
	e.revsInFlight--
	if e.revsInFlight > 0 {
		return
	}
	e.revsInFlight = 0
	if e.pendingGC != nil {
		groups := e.pendingGC
		e.pendingGC = nil
		e.runGC(groups)
	}
}

// shuffleTombstones moves sections between text and tombstones
// according to an old and new set of deletions, returning the new
// tombstones.
func shuffleTombstones(text, tombstones rope.Rope, oldDFU, newDFU subset.Subset) rope.Rope {
	// The complement of deletes-from-union is an interleaving valid for
	// swapped text and tombstones, so the same synthesize inserts text
	// into the tombstones.
	inverseTombstonesMap := oldDFU.Complement()
	moveDelta := delta.Synthesize(text, inverseTombstonesMap, newDFU.Complement())
	return moveDelta.Apply(tombstones)
}

// shuffle moves sections between text and tombstones according to an
// old and new set of deletions, returning the new text and tombstones.
func shuffle(text, tombstones rope.Rope, oldDFU, newDFU subset.Subset) (rope.Rope, rope.Rope) {
	delDelta := delta.Synthesize(tombstones, oldDFU, newDFU)
	newText := delDelta.Apply(text)
	return newText, shuffleTombstones(text, tombstones, oldDFU, newDFU)
}
