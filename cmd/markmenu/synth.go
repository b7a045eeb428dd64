package main

import (
	"os"
	"strings"

	"github.com/aretw0/markmenu/pkg/trace"
	"github.com/spf13/cobra"
)

var synthCmd = &cobra.Command{
	Use:   "synth PATH",
	Short: "Synthesize the gesture that selects an item",
	Long: `Writes a trace that draws the mark selecting PATH (labels separated by '/',
e.g. Edit/Undo). The trace embeds the menu and options so it can be replayed
on its own.`,
	Example: `  markmenu synth Edit/Undo --style novice -o undo.yaml
  markmenu replay undo.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := loadMenu(cmd)
		if err != nil {
			return err
		}
		styleName, _ := cmd.Flags().GetString("style")
		style, err := trace.ParseStyle(styleName)
		if err != nil {
			return err
		}

		var labels []string
		for _, arg := range args {
			labels = append(labels, strings.Split(strings.Trim(arg, "/"), "/")...)
		}
		t, err := trace.Synthesize(m.Root(), m.Config(), style, labels...)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			return trace.Write(cmd.OutOrStdout(), t, "yaml")
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := trace.Write(f, t, trace.FormatFor(path)); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().String("style", "expert", "Gesture style: expert or novice")
	synthCmd.Flags().StringP("out", "o", "", "Write the trace to a file (format from the extension)")
}
