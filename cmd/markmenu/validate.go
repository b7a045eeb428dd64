package main

import (
	"fmt"

	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the menu description and options",
	Long:  `Builds the menu tree and validates the navigation options, reporting the first problem found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := loadMenu(cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		leaves, branches := 0, 0
		m.Root().Walk(func(n *menu.Node) bool {
			switch {
			case n.IsRoot():
			case n.IsLeaf():
				leaves++
			default:
				branches++
			}
			return true
		})
		fmt.Fprintf(cmd.OutOrStdout(), "Menu is valid! ✅ (%d items, %d sub-menus)\n", leaves, branches)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
