package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
)

// GraphOverlay contains gesture state to visualize on the menu tree.
type GraphOverlay struct {
	// Opened lists the IDs of the menu levels revealed during the gesture.
	Opened []string
	// Current is the ID of the active or selected item.
	Current string
}

// OverlayOf builds an overlay from a notification stream.
func OverlayOf(ns []domain.Notification) *GraphOverlay {
	o := &GraphOverlay{}
	for _, n := range ns {
		switch n.Type {
		case domain.NotifyOpen:
			o.Opened = append(o.Opened, n.Menu.ID())
		case domain.NotifyActive, domain.NotifySelect:
			o.Current = ""
			if n.Selection != nil {
				o.Current = n.Selection.ID()
			}
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the menu tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Branch: [[Subroutine]]
// - Leaf: [Rectangle]
// Edges are labelled with the direction of the child in degrees.
func GenerateMermaid(root *menu.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root.Walk(func(n *menu.Node) bool {
		safeID := sanitizeMermaidID(n.ID())

		opener, closer := "[", "]"
		switch {
		case n.IsRoot():
			opener, closer = "((", "))"
		case !n.IsLeaf():
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label(n)), closer))

		for _, c := range n.Children() {
			sb.WriteString(fmt.Sprintf("    %s -- \"%g°\" --> %s\n", safeID, c.Angle(), sanitizeMermaidID(c.ID())))
		}
		return true
	})

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills for both themes.
		sb.WriteString("    classDef opened fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Opened {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s opened;\n", safeID))
			}
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func label(n *menu.Node) string {
	if n.IsRoot() {
		return "menu"
	}
	return n.Label()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// sanitizeMermaidID turns a node ID ("1.0") into a Mermaid identifier ("m1_0").
func sanitizeMermaidID(id string) string {
	if id == "" {
		return "m"
	}
	return "m" + strings.ReplaceAll(id, ".", "_")
}
