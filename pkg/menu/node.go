package menu

import "math"

// BaseAngle is the direction, in degrees, of the first child of every node.
// Screen coordinates are used (y grows downwards) so -90 points straight up
// and increasing angles sweep clockwise.
const BaseAngle = -90.0

// Node is a node of an immutable menu tree.
// The parent pointer is a lookup back-reference only; the tree is owned by
// whoever holds the root.
type Node struct {
	label    string
	children []*Node
	angle    float64
	parent   *Node
	index    int
	id       string
}

// Label returns the display identifier of the node (empty for the root).
func (n *Node) Label() string { return n.label }

// Children returns the children of the node in insertion order.
// The returned slice is a copy and can be modified freely.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Angle returns the direction of the node within its parent's children, in
// degrees. The root has no direction and returns NaN.
func (n *Node) Angle() float64 {
	if n.parent == nil {
		return math.NaN()
	}
	return n.angle
}

// Parent returns the owning node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Index returns the position of the node in its parent's children (-1 for the root).
func (n *Node) Index() int { return n.index }

// ID returns the dotted index path of the node ("" for the root, "1.0" for
// the first child of the second top-level item).
func (n *Node) ID() string { return n.id }

// IsRoot reports whether n is the root of its tree.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Path returns the labels from the top-level item down to n.
func (n *Node) Path() []string {
	var labels []string
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		labels = append(labels, cur.label)
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}

// Root returns the root of the tree n belongs to.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// String returns the node's label path joined by "/".
func (n *Node) String() string {
	if n == nil {
		return "<none>"
	}
	if n.parent == nil {
		return "<root>"
	}
	p := n.Path()
	s := p[0]
	for _, l := range p[1:] {
		s += "/" + l
	}
	return s
}
