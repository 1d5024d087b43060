// Package rope provides an immutable rope data structure for efficient
// text storage and manipulation.
//
// A rope is a balanced tree whose leaf nodes hold short strings and
// whose internal nodes cache aggregated metrics for their subtree:
// byte count, newline count and UTF-16 code unit count. Most operations
// (slice, concat, edit) are O(log n), and unchanged subtrees are shared
// structurally between the old and new value, so snapshots are cheap.
//
// # Immutability
//
// All operations return new ropes without modifying the original:
//
//	original := rope.FromString("hello")
//	modified := original.Insert(5, " world")
//
//	fmt.Println(original.String()) // "hello" (unchanged)
//	fmt.Println(modified.String()) // "hello world"
//
// Ropes are safe for concurrent read access from multiple goroutines
// without synchronization.
//
// # Metrics
//
// Positions can be measured and converted between units via the Metric
// interface; Bytes, Lines and UTF16 are provided:
//
//	r := rope.FromString("line 1\nline 2\nline 3")
//	r.Measure(rope.Lines)        // 2
//	r.LineOfOffset(8)            // 1
//	r.OffsetOfLine(1)            // 7
//	r.ConvertMetrics(rope.Bytes, rope.UTF16, 6)
//
// # Cursor Navigation
//
// Cursor caches the path from root to leaf, making sequential boundary
// motion amortized O(1):
//
//	c := rope.NewCursor(r, 0)
//	for {
//	    pos, ok := c.NextBoundary(rope.Lines)
//	    if !ok {
//	        break
//	    }
//	    _ = pos // offset just past each newline
//	}
//
// Codepoint and grapheme-cluster navigation are available through
// PrevCodepointOffset, NextCodepointOffset, PrevGraphemeOffset and
// NextGraphemeOffset.
//
// # Building Ropes Efficiently
//
// For assembling text from many pieces, use TreeBuilder:
//
//	var b rope.TreeBuilder
//	b.PushString("hello ")
//	b.PushSlice(other, 3, 8)
//	r := b.Build()
package rope
