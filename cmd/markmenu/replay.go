package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/markmenu"
	"github.com/aretw0/markmenu/internal/presentation/graph"
	"github.com/aretw0/markmenu/internal/presentation/tui"
	"github.com/aretw0/markmenu/internal/render"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/trace"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay TRACE",
	Short: "Replay a recorded gesture trace",
	Long: `Runs the samples of a trace file through the navigation engine in virtual
time and prints the notifications. A menu embedded in the trace is used
unless --menu is given explicitly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := trace.Read(args[0])
		if err != nil {
			return err
		}
		m, err := menuForTrace(cmd, t)
		if err != nil {
			return err
		}

		ns, err := m.ReplayTrace(cmd.Context(), t)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		switch {
		case asJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(domain.Views(ns)); err != nil {
				return err
			}
		case mermaid:
			bound, err := m.ForTrace(t)
			if err != nil {
				return err
			}
			fmt.Fprint(out, graph.GenerateMermaid(bound.Root(), graph.OverlayOf(ns)))
		default:
			p := tui.NewNotificationPrinter(out)
			for _, n := range ns {
				p.Print(n)
			}
		}

		if path, _ := cmd.Flags().GetString("png"); path != "" {
			return writeSnapshot(path, m, t, ns)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("json", false, "Print notifications as JSON")
	replayCmd.Flags().Bool("mermaid", false, "Print the menu graph with the gesture highlighted")
	replayCmd.Flags().String("png", "", "Also render the final scene to this PNG file")
}

// menuForTrace prefers the menu embedded in t unless --menu was set.
func menuForTrace(cmd *cobra.Command, t *domain.Trace) (*markmenu.Menu, error) {
	if len(t.Menu) == 0 || cmd.Flags().Changed("menu") {
		t.Menu = nil
		m, _, err := loadMenu(cmd)
		return m, err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return markmenu.New(t.Menu, markmenu.WithConfig(cfg), markmenu.WithLogger(logger))
}

func writeSnapshot(path string, m *markmenu.Menu, t *domain.Trace, ns []domain.Notification) error {
	bound, err := m.ForTrace(t)
	if err != nil {
		return err
	}
	points := make([]domain.Point, 0, len(t.Samples))
	for _, s := range t.Samples {
		points = append(points, domain.Pt(s.X, s.Y))
	}
	canvas, err := render.Snapshot(bound.Config(), render.SceneOf(ns, points))
	if err != nil {
		return err
	}
	defer canvas.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := canvas.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return f.Close()
}
