package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/markmenu/internal/presentation/graph"
	"github.com/aretw0/markmenu/internal/presentation/tui"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe the menu",
	Long: `Prints the menu tree with the direction of every item.

Formats:
- markdown (default): an outline, rendered with colours on a terminal.
- mermaid: a flowchart (graph TD) of the tree.
- json: the tree as data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := loadMenu(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()

		switch format {
		case "markdown", "md":
			md := tui.MenuMarkdown(m.Root(), m.Config())
			if !isTerminal(os.Stdout) {
				fmt.Fprint(out, md)
				return nil
			}
			render, err := tui.NewRenderer("", 0)
			if err != nil {
				return err
			}
			rendered, err := render(md)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
		case "mermaid":
			fmt.Fprint(out, graph.GenerateMermaid(m.Root(), nil))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(menu.ViewOf(m.Root()))
		default:
			return fmt.Errorf("unknown format %q (want markdown, mermaid or json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, mermaid or json")
}
