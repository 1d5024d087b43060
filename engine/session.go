package engine

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// GenSessionID generates a random 96-bit session identifier.
// Distinct engines that will merge must each call this once, before
// any local edits, and install the result with SetSessionID.
func GenSessionID() SessionID {
	u := uuid.New()
	return SessionID{
		High: binary.BigEndian.Uint64(u[0:8]),
		Low:  binary.BigEndian.Uint32(u[8:12]),
	}
}

// SetSessionID installs the session identity used for revisions created
// on this engine. Revisions from engines with colliding session IDs
// break merge invariants, so this panics if any revisions beyond the
// anchor have already been added.
func (e *Engine) SetSessionID(session SessionID) {
	if len(e.revs) != 1 {
		panic("engine: revisions were added before SetSessionID, IDs may collide")
	}
	e.session = session
}
