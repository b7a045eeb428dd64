package menu

import "math"

// IsLeaf reports whether node has no children. A nil node is not a leaf.
func IsLeaf(node *Node) bool {
	return node != nil && node.IsLeaf()
}

// NormalizeAngle maps an angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// AngularDistance returns the length of the smaller arc between two angles,
// in degrees, in [0, 180].
func AngularDistance(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ChildAt returns the child of node whose angle is closest to angle (in
// degrees) along the circle. It returns nil when node has no children.
// Exact ties, which only happen on sector boundaries, go to the child that
// comes first.
func ChildAt(node *Node, angle float64) *Node {
	if node == nil || len(node.children) == 0 || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return nil
	}
	var best *Node
	bestDist := math.Inf(1)
	for _, c := range node.children {
		if d := AngularDistance(c.angle, angle); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Find walks down from node following children labels. It returns nil if a
// label is not found at some level.
func Find(node *Node, labels ...string) *Node {
	cur := node
	for _, l := range labels {
		if cur == nil {
			return nil
		}
		var next *Node
		for _, c := range cur.children {
			if c.label == l {
				next = c
				break
			}
		}
		cur = next
	}
	return cur
}

// Lookup returns the node with the given ID (see Node.ID) under root.
func Lookup(root *Node, id string) *Node {
	var found *Node
	root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found
}
