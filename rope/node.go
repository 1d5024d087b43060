package rope

// Tree structure constants.
const (
	// minChildren is the minimum children per internal node (except root).
	minChildren = 4

	// maxChildren is the maximum children per internal node before splitting.
	maxChildren = 8
)

// node is a node in the rope b-tree. Leaf nodes (height == 0) hold a
// string; internal nodes hold child references. Nodes are immutable
// once built and freely shared between ropes; edits create new nodes
// along the mutation path only.
type node struct {
	height  int
	length  int
	summary TextSummary

	// Internal node fields (height > 0)
	children []*node

	// Leaf node field (height == 0)
	leaf string
}

// newLeaf creates a leaf node from a string.
func newLeaf(s string) *node {
	return &node{
		height:  0,
		length:  len(s),
		summary: computeSummary(s),
		leaf:    s,
	}
}

// newInternal creates an internal node from a non-empty child list.
// All children must have equal height.
func newInternal(children []*node) *node {
	height := children[0].height + 1
	length := 0
	var sum TextSummary
	for _, child := range children {
		length += child.length
		sum = sum.Add(child.summary)
	}
	return &node{
		height:   height,
		length:   length,
		summary:  sum,
		children: children,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

func (n *node) isOKChild() bool {
	if n.isLeaf() {
		return leafIsOKChild(n.leaf)
	}
	return len(n.children) >= minChildren
}

// measure returns the total count of metric m in this subtree.
func (n *node) measure(m Metric) int {
	return m.Measure(n.summary)
}

// mergeChildLists combines two sibling child lists into a single node,
// splitting into two parents under a new root when the combined count
// exceeds the branching maximum.
func mergeChildLists(c1, c2 []*node) *node {
	total := len(c1) + len(c2)
	combined := make([]*node, 0, total)
	combined = append(combined, c1...)
	combined = append(combined, c2...)
	if total <= maxChildren {
		return newInternal(combined)
	}
	// Leans left; both halves satisfy the child minimum.
	splitpoint := min(maxChildren, total-minChildren)
	left := newInternal(combined[:splitpoint])
	right := newInternal(combined[splitpoint:])
	return newInternal([]*node{left, right})
}

// mergeLeaves concatenates two leaf nodes, merging their strings when
// either fails the leaf minimum.
func mergeLeaves(n1, n2 *node) *node {
	if leafIsOKChild(n1.leaf) && leafIsOKChild(n2.leaf) {
		return newInternal([]*node{n1, n2})
	}
	left, right, split := pushMaybeSplit(n1.leaf, n2.leaf, 0, len(n2.leaf))
	if !split {
		return newLeaf(left)
	}
	return newInternal([]*node{newLeaf(left), newLeaf(right)})
}

// concatNodes concatenates two subtrees, rebalancing so that the result
// satisfies all tree invariants.
func concatNodes(n1, n2 *node) *node {
	h1, h2 := n1.height, n2.height
	switch {
	case h1 < h2:
		if h1 == h2-1 && n1.isOKChild() {
			return mergeChildLists([]*node{n1}, n2.children)
		}
		newNode := concatNodes(n1, n2.children[0])
		if newNode.height == h2-1 {
			return mergeChildLists([]*node{newNode}, n2.children[1:])
		}
		return mergeChildLists(newNode.children, n2.children[1:])
	case h1 == h2:
		if n1.isOKChild() && n2.isOKChild() {
			return newInternal([]*node{n1, n2})
		}
		if h1 == 0 {
			return mergeLeaves(n1, n2)
		}
		return mergeChildLists(n1.children, n2.children)
	default:
		if h2 == h1-1 && n2.isOKChild() {
			return mergeChildLists(n1.children, []*node{n2})
		}
		lastIdx := len(n1.children) - 1
		newNode := concatNodes(n1.children[lastIdx], n2)
		if newNode.height == h1-1 {
			return mergeChildLists(n1.children[:lastIdx], []*node{newNode})
		}
		return mergeChildLists(n1.children[:lastIdx], newNode.children)
	}
}

// pushSubseq pushes the byte range [start, end) of this subtree onto the
// builder, sharing whole subtrees where possible.
func (n *node) pushSubseq(b *TreeBuilder, start, end int) {
	if start >= end {
		return
	}
	if start == 0 && end == n.length {
		b.push(n)
		return
	}
	if n.isLeaf() {
		b.pushLeaf(n.leaf[start:end])
		return
	}
	offset := 0
	for _, child := range n.children {
		if end <= offset {
			break
		}
		childStart := max(start-offset, 0)
		childEnd := min(end-offset, child.length)
		if childStart < childEnd {
			child.pushSubseq(b, childStart, childEnd)
		}
		offset += child.length
	}
}

// subseq returns the subtree for the byte range [start, end).
func (n *node) subseq(start, end int) *node {
	var b TreeBuilder
	n.pushSubseq(&b, start, end)
	return b.buildNode()
}

// nextPositiveMeasureChild returns the index of the first child with a
// positive measure in m, starting from child j, along with the byte
// length skipped over. ok is false when no such child exists.
func (n *node) nextPositiveMeasureChild(m Metric, j int) (idx, skipped int, ok bool) {
	for i := j; i < len(n.children); i++ {
		if n.children[i].measure(m) > 0 {
			return i, skipped, true
		}
		skipped += n.children[i].length
	}
	return 0, skipped, false
}

// convertMetrics returns the smallest offset in m2 units corresponding
// to x units of m1. If m1 can fragment (units may span leaves) the
// descent lands in the leaf containing the boundary; otherwise it may
// land at the start of the following leaf.
func (n *node) convertMetrics(m1, m2 Metric, x int) int {
	if x == 0 {
		return 0
	}
	fudge := 0
	if m1.CanFragment() {
		fudge = 1
	}
	acc := 0
	for !n.isLeaf() {
		for _, child := range n.children {
			childM1 := child.measure(m1)
			if x < childM1+fudge {
				n = child
				break
			}
			acc += child.measure(m2)
			x -= childM1
		}
	}
	base := m1.ToBaseUnits(n.leaf, x)
	return acc + m2.FromBaseUnits(n.leaf, base)
}
