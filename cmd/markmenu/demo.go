package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/markmenu"
	"github.com/aretw0/markmenu/pkg/adapters/terminal"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Try the menu in the terminal with the mouse",
	Long: `Opens a full screen session: press the left button and wait for the menu,
or drag straight away to mark. Press q or Escape to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cellW, _ := cmd.Flags().GetFloat64("cell-width")
		cellH, _ := cmd.Flags().GetFloat64("cell-height")

		var view *terminal.View
		m, logger, err := loadMenu(cmd, markmenu.WithEventHook(func(n domain.Notification) {
			if view != nil {
				view.Apply(n)
			}
		}))
		if err != nil {
			return err
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		fini := sync.OnceFunc(screen.Fini)
		defer fini()
		screen.EnableMouse()

		src := terminal.NewSource(screen,
			terminal.WithCellSize(cellW, cellH),
			terminal.WithLogger(logger),
			terminal.WithObserver(func(s domain.Sample) {
				view.Record(s)
				view.Draw()
			}),
		)
		view = terminal.NewView(src, m.Config())
		view.Draw()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		samples := make(chan domain.Sample)
		ns, err := m.Navigate(ctx, samples)
		if err != nil {
			return err
		}

		var selected []string
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			defer cancel()
			return src.Pump(ctx, samples)
		})
		g.Go(func() error {
			for n := range ns {
				view.Draw()
				if n.Type == domain.NotifySelect {
					selected = append(selected, n.Selection.String())
				}
			}
			return nil
		})
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		fini()
		for _, s := range selected {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Float64("cell-width", terminal.DefaultCellWidth, "Width of a terminal cell in pixels")
	demoCmd.Flags().Float64("cell-height", terminal.DefaultCellHeight, "Height of a terminal cell in pixels")
}
