// Package delta represents editing operations on ropes as a sequence
// of sections copied from the old document interleaved with inserted
// text; deletions are gaps in the copied ranges.
//
// Explicitly representing edits lets them be shared across subsystems:
// applied to ropes, serialized over a wire, factored into an
// insert-only part plus a deletion subset, rebased between coordinate
// spaces, and synthesized back from subsets and a tombstones rope.
// Factor and Synthesize are inverses, and are the foundation the
// revision engine builds on.
package delta
