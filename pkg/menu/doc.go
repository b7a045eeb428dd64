/*
Package menu implements the hierarchical, angularly indexed menu model used by
the marking menu navigation engine.

A menu is built once from a nested list description and is immutable
afterwards, so a single tree can be shared by any number of concurrently
running navigators.

# Item Shapes

Each element of the description is either a plain label (a leaf) or a node
with a name and a non-empty list of children:

	root, err := menu.Build([]any{
		"Copy",
		menu.Item{Name: "Paste", Children: []any{"Plain", "Formatted"}},
		map[string]any{"name": "Share", "children": []any{"Mail", "Chat"}},
	})

# Angles

Children of a node evenly partition the circle. The first child points
straight up (-90 degrees in screen coordinates, where y grows downwards) and
the following ones sweep clockwise.
*/
package menu
