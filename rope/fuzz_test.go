package rope

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzEditStr cross-checks rope edits against plain string surgery.
func FuzzEditStr(f *testing.F) {
	f.Add("hello world", 1, 9, "era")
	f.Add("", 0, 0, "x")
	f.Add(strings.Repeat("ab\n", 700), 40, 2000, "replacement")
	f.Add("世界世界", 3, 6, "!")

	f.Fuzz(func(t *testing.T, initial string, start, end int, repl string) {
		if !utf8.ValidString(initial) || !utf8.ValidString(repl) {
			t.Skip()
		}
		if start < 0 || end < start || end > len(initial) {
			t.Skip()
		}
		if !isCharBoundary(initial, start) || !isCharBoundary(initial, end) {
			t.Skip()
		}
		r := FromString(initial).EditStr(start, end, repl)
		want := initial[:start] + repl + initial[end:]
		if got := r.String(); got != want {
			t.Fatalf("EditStr(%d, %d) = %q, want %q", start, end, got, want)
		}
		if r.Len() != len(want) {
			t.Fatalf("Len = %d, want %d", r.Len(), len(want))
		}
		if got, want := r.Measure(Lines), strings.Count(want, "\n"); got != want {
			t.Fatalf("Measure(Lines) = %d, want %d", got, want)
		}
		checkInvariants(t, r)
	})
}

// FuzzLineBoundaries cross-checks cursor line navigation against a
// naive scan.
func FuzzLineBoundaries(f *testing.F) {
	f.Add("a\nb\nc", 2)
	f.Add(strings.Repeat("line\n", 500), 1200)
	f.Add("\n\n\n", 0)

	f.Fuzz(func(t *testing.T, s string, pos int) {
		if !utf8.ValidString(s) || pos < 0 || pos > len(s) {
			t.Skip()
		}
		r := FromString(s)
		c := NewCursor(r, pos)
		next, ok := c.NextBoundary(Lines)
		if ok {
			if next < len(s) && s[next-1] != '\n' {
				t.Fatalf("NextBoundary(Lines) from %d = %d, not after a newline", pos, next)
			}
			if strings.ContainsRune(s[pos:max(next-1, pos)], '\n') {
				t.Fatalf("NextBoundary(Lines) from %d skipped a newline before %d", pos, next)
			}
		} else if pos < len(s) {
			t.Fatalf("NextBoundary(Lines) from %d reported none before end", pos)
		}
	})
}

// checkInvariants verifies tree structure invariants.
func checkInvariants(t *testing.T, r Rope) {
	t.Helper()
	if r.root == nil {
		return
	}
	checkNode(t, r.root, true)
}

func checkNode(t *testing.T, n *node, isRoot bool) {
	t.Helper()
	if n.isLeaf() {
		if !isRoot && !leafIsOKChild(n.leaf) {
			t.Fatalf("leaf of %d bytes below minimum", len(n.leaf))
		}
		if len(n.leaf) > maxLeaf {
			t.Fatalf("leaf of %d bytes above maximum", len(n.leaf))
		}
		return
	}
	if len(n.children) > maxChildren {
		t.Fatalf("node with %d children above maximum", len(n.children))
	}
	if !isRoot && len(n.children) < minChildren {
		t.Fatalf("node with %d children below minimum", len(n.children))
	}
	height := n.children[0].height
	length, sum := 0, TextSummary{}
	for _, child := range n.children {
		if child.height != height || child.height != n.height-1 {
			t.Fatal("uneven child heights")
		}
		length += child.length
		sum = sum.Add(child.summary)
		checkNode(t, child, false)
	}
	if length != n.length || sum != n.summary {
		t.Fatal("cached summary does not match children")
	}
}
