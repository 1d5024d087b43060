// Package engine handles edits (possibly from asynchronous sources),
// undo and multi-peer merge. An Engine conceptually represents the
// current text of a document together with its entire edit history.
//
// The engine is a small conflict-free replicated data type: every edit
// is recorded as a pair of subsets (inserts, deletes) over a conceptual
// "union string" holding all characters ever inserted. Edits may be
// based on a previously committed revision rather than the current
// head, which is sufficient for asynchronous plugins with one pending
// edit in flight each. Merge rebases the full history of a second
// engine, enabling peer-to-peer editing; convergence relies on every
// peer carrying a unique session ID installed with SetSessionID before
// its first edit.
//
// Edits carry an undo group tag; Undo installs a set of undone groups
// and is itself a revision, so concurrent edits rebase over it. GC
// compacts the history of finished undo groups; collected groups can no
// longer be undone.
//
// Typical single-peer use:
//
//	e := engine.New(rope.FromString("hello world"))
//	head := e.GetHeadRevToken()
//	d := delta.SimpleEdit(1, 9, rope.FromString("era"), 11)
//	if err := e.EditRev(0, 1, head, d); err != nil {
//	    // base revision unknown or delta malformed
//	}
//	e.GetHead().String() // "herald"
//	e.Undo(engine.NewGroupSet(1))
package engine
