package engine

import (
	"slices"

	"github.com/dshills/loom/delta"
	"github.com/dshills/loom/rope"
	"github.com/dshills/loom/subset"
)

// Merge integrates the new revisions from another engine with a CRDT
// merge. After A.Merge(B) and B.Merge(A), both heads converge, provided
// the engines have distinct session IDs.
//
// Panics when either history contains an UndoOp after the common base;
// merging undos is not supported.
func (e *Engine) Merge(other *Engine) {
	baseIndex := findBaseIndex(e.revs, other.revs)
	aToMerge := e.revs[baseIndex:]
	bToMerge := other.revs[baseIndex:]

	common := findCommon(aToMerge, bToMerge)

	aNew := rearrange(aToMerge, common, e.deletesFromUnion.Len())
	bNew := rearrange(bToMerge, common, other.deletesFromUnion.Len())

	bDeltas := computeDeltas(bNew, other.text, other.tombstones, other.deletesFromUnion)
	expandBy := computeTransforms(aNew)

	newRevs, text, tombstones, dfu := rebase(expandBy, bDeltas, e.text, e.tombstones, e.deletesFromUnion, e.MaxUndoGroupID())

	e.text = text
	e.tombstones = tombstones
	e.deletesFromUnion = dfu
	e.revs = append(e.revs, newRevs...)
}

// findBaseIndex returns an index before which both histories are the
// same. Finding the maximal base is an optimization; the anchor always
// qualifies.
func findBaseIndex(a, b []Revision) int {
	if len(a) == 0 || len(b) == 0 || a[0].ID != b[0].ID {
		panic("engine: merge requires histories sharing the anchor revision")
	}
	return 1
}

// findCommon returns the set of revision IDs present in both histories.
func findCommon(a, b []Revision) map[RevId]struct{} {
	aIDs := make(map[RevId]struct{}, len(a))
	for _, r := range a {
		aIDs[r.ID] = struct{}{}
	}
	common := make(map[RevId]struct{})
	for _, r := range b {
		if _, ok := aIDs[r.ID]; ok {
			common[r.ID] = struct{}{}
		}
	}
	return common
}

// rearrange returns the revisions of revs not in base, reordered as if
// they all came after the shared base revisions, fast-forwarding each
// one past the common revisions that followed it.
//
// Conceptually, with '.' base revs and 'n' non-base revs:
// .n..n...nn.. -> ........NNNN -> returns [N,N,N,N]
func rearrange(revs []Revision, base map[RevId]struct{}, headLen int) []Revision {
	// Transform representing the characters added by common revisions
	// after a point.
	s := subset.New(headLen)

	out := make([]Revision, 0, len(revs)-len(base))
	for i := len(revs) - 1; i >= 0; i-- {
		rev := revs[i]
		ed, ok := rev.Edit.(EditOp)
		if !ok {
			panic("engine: can't merge undo yet")
		}
		if _, isBase := base[rev.ID]; isBase {
			s = ed.Inserts.TransformUnion(s)
			continue
		}
		transformedInserts := ed.Inserts.TransformExpand(s)
		transformedDeletes := ed.Deletes.TransformExpand(s)
		// New revisions before this one must not be transformed after it.
		s = s.TransformShrink(transformedInserts)
		out = append(out, Revision{
			ID:           rev.ID,
			MaxUndoSoFar: rev.MaxUndoSoFar,
			Edit: EditOp{
				Priority:  ed.Priority,
				UndoGroup: ed.UndoGroup,
				Inserts:   transformedInserts,
				Deletes:   transformedDeletes,
			},
		})
	}
	slices.Reverse(out)
	return out
}

// deltaOp carries a revision's actual content during merge: the subsets
// stored in revisions say where characters went, the InsertDelta says
// what they were.
type deltaOp struct {
	id        RevId
	priority  int
	undoGroup int
	inserts   delta.InsertDelta
	deletes   subset.Subset
}

// computeDeltas converts rearranged revisions into deltaOps by working
// backward from the text and tombstones, peeling off one revision's
// inserts at a time.
func computeDeltas(revs []Revision, text, tombstones rope.Rope, dfu subset.Subset) []deltaOp {
	out := make([]deltaOp, 0, len(revs))

	curAllInserts := subset.New(dfu.Len())
	for i := len(revs) - 1; i >= 0; i-- {
		rev := revs[i]
		ed, ok := rev.Edit.(EditOp)
		if !ok {
			panic("engine: can't merge undo yet")
		}
		olderAllInserts := ed.Inserts.TransformUnion(curAllInserts)

		tombstonesHere := shuffleTombstones(text, tombstones, dfu, olderAllInserts)
		d := delta.Synthesize(tombstonesHere, olderAllInserts, curAllInserts)
		ins, _ := d.Factor()
		out = append(out, deltaOp{
			id:        rev.ID,
			priority:  ed.Priority,
			undoGroup: ed.UndoGroup,
			inserts:   ins,
			deletes:   ed.Deletes,
		})

		curAllInserts = olderAllInserts
	}
	slices.Reverse(out)
	return out
}

// transform pairs the priority of a run of revisions with the subset of
// characters they inserted.
type transform struct {
	priority fullPriority
	inserts  subset.Subset
}

// computeTransforms produces the transforms the incoming deltas must be
// expanded by. Sequential revisions with the same priority coalesce
// into a single transform, so long runs of typing by one user cost one
// segment instead of thousands of revisions.
func computeTransforms(revs []Revision) []transform {
	var out []transform
	havePriority := false
	lastPriority := 0
	for _, r := range revs {
		ed, ok := r.Edit.(EditOp)
		if !ok || ed.Inserts.IsEmpty() {
			continue
		}
		if havePriority && ed.Priority == lastPriority {
			last := &out[len(out)-1]
			last.inserts = last.inserts.TransformUnion(ed.Inserts)
		} else {
			havePriority = true
			lastPriority = ed.Priority
			out = append(out, transform{
				priority: fullPriority{priority: ed.Priority, session: r.ID.SessionID()},
				inserts:  ed.Inserts,
			})
		}
	}
	return out
}

// rebase expands the incoming deltaOps over the local transforms and
// applies them, returning revision contents appendable on top of the
// local history along with the new text, tombstones and
// deletes-from-union.
func rebase(expandBy []transform, bNew []deltaOp, text, tombstones rope.Rope, dfu subset.Subset, maxUndoSoFar int) ([]Revision, rope.Rope, rope.Rope, subset.Subset) {
	out := make([]Revision, 0, len(bNew))

	nextExpandBy := make([]transform, 0, len(expandBy))
	for _, op := range bNew {
		opPriority := fullPriority{priority: op.priority, session: op.id.SessionID()}
		inserts, deletes := op.inserts, op.deletes
		for _, tr := range expandBy {
			// Should never compare equal with distinct sessions.
			after := opPriority.gte(tr.priority)
			inserts = inserts.TransformExpand(tr.inserts, after)
			// Trans-expand the transform by the expanded op so they
			// share a context.
			inserted := inserts.InsertedSubset()
			newTransInserts := tr.inserts.TransformExpand(inserted)
			// The deletes are already after our inserts, but must
			// include the other inserts.
			deletes = deletes.TransformExpand(newTransInserts)
			// The next op wants this op in the transforms' context.
			nextExpandBy = append(nextExpandBy, transform{priority: tr.priority, inserts: newTransInserts})
		}

		textInserts := inserts.TransformShrink(dfu)
		textWithInserts := textInserts.Apply(text)
		inserted := inserts.InsertedSubset()

		expandedDFU := dfu.TransformExpand(inserted)
		newDFU := expandedDFU.Union(deletes)
		newText, newTombstones := shuffle(textWithInserts, tombstones, expandedDFU, newDFU)

		text = newText
		tombstones = newTombstones
		dfu = newDFU

		maxUndoSoFar = max(maxUndoSoFar, op.undoGroup)
		out = append(out, Revision{
			ID:           op.id,
			MaxUndoSoFar: maxUndoSoFar,
			Edit: EditOp{
				Priority:  op.priority,
				UndoGroup: op.undoGroup,
				Inserts:   inserted,
				Deletes:   deletes,
			},
		})

		expandBy = nextExpandBy
		nextExpandBy = make([]transform, 0, len(expandBy))
	}

	return out, text, tombstones, dfu
}
