package rope

import "unicode/utf8"

// cursorCacheSize bounds the cached path from root to leaf. Trees
// deeper than the cache fall back to a fresh descent.
const cursorCacheSize = 4

type cacheEntry struct {
	node *node
	idx  int
}

// Cursor enables efficient traversal of a rope. It caches the path from
// the root to the current leaf so that sequential boundary motion is
// amortized O(1).
//
// A cursor holds a snapshot of the rope it was created from; edits to
// the rope do not affect it.
type Cursor struct {
	root         *node
	position     int
	cache        [cursorCacheSize]cacheEntry
	leafNode     *node // nil when the cursor is invalid
	offsetOfLeaf int
}

// NewCursor creates a cursor over r at the given byte position.
func NewCursor(r Rope, position int) *Cursor {
	root := r.root
	if root == nil {
		root = newLeaf("")
	}
	c := &Cursor{root: root, position: position}
	c.descend()
	return c
}

// Pos returns the current byte position.
func (c *Cursor) Pos() int {
	return c.position
}

// TotalLen returns the length of the underlying rope.
func (c *Cursor) TotalLen() int {
	return c.root.length
}

// Leaf returns the current leaf string and the cursor's offset within
// it. The offset is at the end of the leaf only at the end of the rope.
func (c *Cursor) Leaf() (leaf string, offset int, ok bool) {
	if c.leafNode == nil {
		return "", 0, false
	}
	return c.leafNode.leaf, c.position - c.offsetOfLeaf, true
}

// Set moves the cursor to a new position.
func (c *Cursor) Set(position int) {
	c.position = position
	if c.leafNode != nil {
		if position >= c.offsetOfLeaf && position < c.offsetOfLeaf+c.leafNode.length {
			return
		}
	}
	c.descend()
}

// IsBoundary reports whether the current position is a boundary of
// metric m. Position 0 is always a boundary.
func (c *Cursor) IsBoundary(m Metric) bool {
	if c.leafNode == nil {
		return false
	}
	if c.position == 0 || (c.position == c.offsetOfLeaf && !m.CanFragment()) {
		return true
	}
	if c.position > c.offsetOfLeaf {
		return m.IsBoundary(c.leafNode.leaf, c.position-c.offsetOfLeaf)
	}
	// At the beginning of a leaf of a fragmenting metric the previous
	// leaf decides.
	prev, ok := c.PrevLeaf()
	if !ok {
		return false
	}
	result := m.IsBoundary(prev, len(prev))
	c.NextLeaf()
	return result
}

// PrevBoundary moves the cursor to the previous boundary of m or the
// start of the rope, returning the new position. Returns ok == false
// when no boundary precedes the position.
func (c *Cursor) PrevBoundary(m Metric) (int, bool) {
	if c.position == 0 || c.leafNode == nil {
		c.leafNode = nil
		return 0, false
	}
	origPos := c.position
	offsetInLeaf := origPos - c.offsetOfLeaf
	if offsetInLeaf > 0 {
		if off, ok := m.Prev(c.leafNode.leaf, offsetInLeaf); ok {
			c.position = c.offsetOfLeaf + off
			return c.position, true
		}
	}
	// Boundary is not in this leaf, scan backwards.
	for {
		if c.offsetOfLeaf == 0 {
			c.position = 0
			return 0, true
		}
		prev, ok := c.PrevLeaf()
		if !ok {
			return 0, false
		}
		if m.Measure(computeSummary(prev)) == 0 {
			// Leaf doesn't contain a boundary, keep scanning.
			continue
		}
		if c.offsetOfLeaf+len(prev) < origPos && m.IsBoundary(prev, len(prev)) {
			c.NextLeaf()
			return c.position, true
		}
		if off, ok := m.Prev(prev, len(prev)); ok {
			c.position = c.offsetOfLeaf + off
			return c.position, true
		}
		panic("rope: metric is inconsistent, measure > 0 but no boundary")
	}
}

// NextBoundary moves the cursor to the next boundary of m or the end of
// the rope, returning the new position. Returns ok == false when no
// boundary follows the position.
func (c *Cursor) NextBoundary(m Metric) (int, bool) {
	if c.leafNode == nil || c.position >= c.root.length {
		c.leafNode = nil
		return 0, false
	}
	if pos, ok := c.nextInsideLeaf(m); ok {
		return pos, true
	}
	c.position = c.offsetOfLeaf + c.leafNode.length
	for i := 0; i < cursorCacheSize; i++ {
		if c.cache[i].node == nil {
			// The cached path covers the whole tree and holds no
			// further boundary.
			c.position = c.root.length
			return c.position, true
		}
		n, j := c.cache[i].node, c.cache[i].idx
		nextJ, skipped, ok := n.nextPositiveMeasureChild(m, j+1)
		c.position += skipped
		if !ok {
			continue
		}
		c.cache[i] = cacheEntry{n, nextJ}
		nodeDown := n.children[nextJ]
		for k := i - 1; k >= 0; k-- {
			pmChild, skip, ok := nodeDown.nextPositiveMeasureChild(m, 0)
			if !ok {
				panic("rope: metric is inconsistent, measure > 0 but no boundary")
			}
			c.position += skip
			c.cache[k] = cacheEntry{nodeDown, pmChild}
			nodeDown = nodeDown.children[pmChild]
		}
		c.leafNode = nodeDown
		c.offsetOfLeaf = c.position
		return c.nextInsideLeaf(m)
	}
	// The next boundary is outside the cached subtree; the position is
	// at the first leaf past it.
	c.descend()
	return c.NextBoundary(m)
}

// nextInsideLeaf finds the next boundary within the current leaf.
func (c *Cursor) nextInsideLeaf(m Metric) (int, bool) {
	l := c.leafNode.leaf
	offsetInLeaf := c.position - c.offsetOfLeaf
	if off, ok := m.Next(l, offsetInLeaf); ok {
		if off == len(l) && c.offsetOfLeaf+off != c.root.length {
			c.NextLeaf()
		} else {
			c.position = c.offsetOfLeaf + off
		}
		return c.position, true
	}
	if c.offsetOfLeaf+len(l) == c.root.length {
		c.position = c.root.length
		return c.position, true
	}
	return 0, false
}

// NextLeaf moves to the beginning of the next leaf, returning it.
func (c *Cursor) NextLeaf() (string, bool) {
	if c.leafNode == nil {
		return "", false
	}
	c.position = c.offsetOfLeaf + c.leafNode.length
	for i := 0; i < cursorCacheSize; i++ {
		if c.cache[i].node == nil {
			c.leafNode = nil
			return "", false
		}
		n, j := c.cache[i].node, c.cache[i].idx
		if j+1 >= len(n.children) {
			continue
		}
		c.cache[i] = cacheEntry{n, j + 1}
		nodeDown := n.children[j+1]
		for k := i - 1; k >= 0; k-- {
			c.cache[k] = cacheEntry{nodeDown, 0}
			nodeDown = nodeDown.children[0]
		}
		c.leafNode = nodeDown
		c.offsetOfLeaf = c.position
		return nodeDown.leaf, true
	}
	if c.offsetOfLeaf+c.leafNode.length == c.root.length {
		c.leafNode = nil
		return "", false
	}
	c.descend()
	if c.leafNode == nil {
		return "", false
	}
	return c.leafNode.leaf, true
}

// PrevLeaf moves to the beginning of the previous leaf, returning it.
func (c *Cursor) PrevLeaf() (string, bool) {
	if c.offsetOfLeaf == 0 || c.leafNode == nil {
		c.leafNode = nil
		return "", false
	}
	for i := 0; i < cursorCacheSize; i++ {
		if c.cache[i].node == nil {
			c.leafNode = nil
			return "", false
		}
		n, j := c.cache[i].node, c.cache[i].idx
		if j == 0 {
			continue
		}
		c.cache[i] = cacheEntry{n, j - 1}
		nodeDown := n.children[j-1]
		for k := i - 1; k >= 0; k-- {
			lastIdx := len(nodeDown.children) - 1
			c.cache[k] = cacheEntry{nodeDown, lastIdx}
			nodeDown = nodeDown.children[lastIdx]
		}
		c.leafNode = nodeDown
		c.offsetOfLeaf -= nodeDown.length
		c.position = c.offsetOfLeaf
		return nodeDown.leaf, true
	}
	c.position = c.offsetOfLeaf - 1
	c.descend()
	c.position = c.offsetOfLeaf
	return c.leafNode.leaf, true
}

// descend rebuilds the cached path for the current position.
func (c *Cursor) descend() {
	n := c.root
	offset := 0
	for n.height > 0 {
		children := n.children
		i := 0
		for i+1 < len(children) {
			nextOff := offset + children[i].length
			if nextOff > c.position {
				break
			}
			offset = nextOff
			i++
		}
		if cacheIdx := n.height - 1; cacheIdx < cursorCacheSize {
			c.cache[cacheIdx] = cacheEntry{n, i}
		}
		n = children[i]
	}
	c.leafNode = n
	c.offsetOfLeaf = offset
}

// PrevCodepoint moves the cursor back one codepoint and returns it.
func (c *Cursor) PrevCodepoint() (rune, bool) {
	if _, ok := c.PrevBoundary(Bytes); !ok {
		return 0, false
	}
	l, offset, ok := c.Leaf()
	if !ok || offset >= len(l) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l[offset:])
	return r, true
}

// NextCodepoint returns the codepoint at the cursor and advances past it.
func (c *Cursor) NextCodepoint() (rune, bool) {
	l, offset, ok := c.Leaf()
	if !ok || offset >= len(l) {
		return 0, false
	}
	c.NextBoundary(Bytes)
	r, _ := utf8.DecodeRuneInString(l[offset:])
	return r, true
}
