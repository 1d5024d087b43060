package engine

import (
	"errors"
	"fmt"
)

// MissingRevisionError reports a revision token the engine does not
// know: either never seen or garbage collected.
type MissingRevisionError struct {
	Token RevToken
}

func (e *MissingRevisionError) Error() string {
	return fmt.Sprintf("engine: revision %x not found", uint64(e.Token))
}

// MalformedDeltaError reports a delta whose base length does not match
// the length of the revision it claims to be based on.
type MalformedDeltaError struct {
	DeltaLen int
	RevLen   int
}

func (e *MalformedDeltaError) Error() string {
	return fmt.Sprintf("engine: delta base_len %d does not match revision length %d", e.DeltaLen, e.RevLen)
}

// ErrGroupPruned is returned by Undo when a requested toggle includes
// an undo group whose edits have been garbage collected.
var ErrGroupPruned = errors.New("engine: undo group has been garbage collected")
