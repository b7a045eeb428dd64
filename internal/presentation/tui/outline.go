package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
)

// MenuMarkdown describes a menu and its navigation options as markdown.
func MenuMarkdown(root *menu.Node, cfg domain.Config) string {
	var sb strings.Builder
	sb.WriteString("# Menu\n\n")

	leaves, branches := 0, 0
	root.Walk(func(n *menu.Node) bool {
		if n.IsRoot() {
			return true
		}
		if n.IsLeaf() {
			leaves++
		} else {
			branches++
		}
		fmt.Fprintf(&sb, "%s- **%s** `%g°`", strings.Repeat("  ", n.Depth()-1), n.Label(), n.Angle())
		if !n.IsLeaf() {
			fmt.Fprintf(&sb, " (%d items)", n.Len())
		}
		sb.WriteString("\n")
		return true
	})
	if leaves+branches == 0 {
		sb.WriteString("_empty menu_\n")
	}

	fmt.Fprintf(&sb, "\n%d items, %d sub-menus.\n\n", leaves, branches)
	sb.WriteString("## Options\n\n| Option | Value |\n| --- | --- |\n")
	for _, o := range []struct {
		name  string
		value any
	}{
		{"minSelectionDist", cfg.MinSelectionDist},
		{"minMenuSelectionDist", cfg.MinMenuSelectionDist},
		{"subMenuOpeningDelay", cfg.SubMenuOpeningDelay},
		{"movementsThreshold", cfg.MovementsThreshold},
		{"noviceDwellingTime", cfg.NoviceDwellingTime},
		{"backNavigation", cfg.BackNavigation},
	} {
		fmt.Fprintf(&sb, "| %s | %v |\n", o.name, o.value)
	}
	return sb.String()
}
