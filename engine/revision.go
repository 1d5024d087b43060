package engine

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/dshills/loom/subset"
)

// SessionID identifies an engine instance. Concurrent inserts at the
// same position with equal priority are ordered by session, so any two
// engines that will ever merge must have distinct session IDs.
//
// The zero session is reserved for the anchor revision shared by all
// engines.
type SessionID struct {
	High uint64
	Low  uint32
}

// defaultSession is used by single-user engines that never merge.
func defaultSession() SessionID {
	return SessionID{High: 1, Low: 0}
}

// less orders sessions lexicographically.
func (s SessionID) less(other SessionID) bool {
	if s.High != other.High {
		return s.High < other.High
	}
	return s.Low < other.Low
}

// RevId uniquely identifies a revision. It stays the same even when the
// revision is rebased or merged between devices.
type RevId struct {
	// 96 bits of session has a negligible collision chance across any
	// realistic peer set. Session (0, 0) is reserved for the anchor
	// revision, identical on every engine.
	Session1 uint64
	Session2 uint32

	// Num increments per revision within a session.
	Num uint32
}

// RevToken is a hash of a RevId, usable where session identity is not
// needed. Valid within a session: if tokens collide the most recent
// matching revision wins, so only colliding concurrent edits could
// misbehave.
type RevToken uint64

// Token returns a value equal for equivalent revision IDs and as
// unlikely to collide as two random 64-bit values.
func (r RevId) Token() RevToken {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], r.Session1)
	binary.LittleEndian.PutUint32(buf[8:12], r.Session2)
	binary.LittleEndian.PutUint32(buf[12:16], r.Num)
	h := fnv.New64a()
	h.Write(buf[:])
	return RevToken(h.Sum64())
}

// SessionID returns the session component of the revision ID.
func (r RevId) SessionID() SessionID {
	return SessionID{High: r.Session1, Low: r.Session2}
}

// fullPriority orders concurrent inserts: first by edit priority, then
// by session. Equality is impossible between engines with distinct
// session IDs.
type fullPriority struct {
	priority int
	session  SessionID
}

// gte reports f >= other in (priority, session) order. A strictly
// greater pair means the edit's inserts sort after concurrent inserts
// at the same position.
func (f fullPriority) gte(other fullPriority) bool {
	if f.priority != other.priority {
		return f.priority > other.priority
	}
	return !f.session.less(other.session)
}

// Revision is a single entry in the engine's history.
type Revision struct {
	// ID uniquely represents the identity of this revision across
	// rebases and merges.
	ID RevId

	// MaxUndoSoFar is the largest undo group of any edit up to this
	// point, used to bound how far back undo has to look.
	MaxUndoSoFar int

	// Edit holds the revision contents: an EditOp or an UndoOp.
	Edit Contents
}

// Contents is the payload of a revision.
type Contents interface {
	isContents()
}

// EditOp records an edit as subsets over the union string from after
// this revision.
type EditOp struct {
	// Priority orders concurrent inserts; for example auto-indentation
	// should go before typed text.
	Priority int

	// UndoGroup ties related edits together so they undo and redo as a
	// unit.
	UndoGroup int

	// Inserts marks the characters added by this revision.
	Inserts subset.Subset

	// Deletes marks the characters deleted by this revision.
	Deletes subset.Subset
}

// UndoOp records a change to the set of undone groups.
type UndoOp struct {
	// ToggledGroups is the symmetric difference between the undone
	// group sets before and after this revision.
	ToggledGroups GroupSet

	// DeletesBitxor is a reversible difference between the old and new
	// deletes-from-union subsets.
	DeletesBitxor subset.Subset
}

func (EditOp) isContents() {}
func (UndoOp) isContents() {}
