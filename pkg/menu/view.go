package menu

// View is a serializable snapshot of a node and its descendants.
type View struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Angle    *float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	Children []View   `json:"children,omitempty" yaml:"children,omitempty"`
}

// ViewOf returns the serializable view of n.
func ViewOf(n *Node) View {
	v := View{ID: n.id, Label: n.label}
	if n.parent != nil {
		a := n.angle
		v.Angle = &a
	}
	for _, c := range n.children {
		v.Children = append(v.Children, ViewOf(c))
	}
	return v
}

// Describe converts a tree back into the nested list accepted by Build.
func Describe(n *Node) []any {
	out := make([]any, 0, len(n.children))
	for _, c := range n.children {
		if c.IsLeaf() {
			out = append(out, c.label)
			continue
		}
		out = append(out, map[string]any{
			"name":     c.label,
			"children": Describe(c),
		})
	}
	return out
}
