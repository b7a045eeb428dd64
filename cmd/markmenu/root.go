package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/markmenu"
	"github.com/aretw0/markmenu/internal/logging"
	"github.com/aretw0/markmenu/pkg/config"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "markmenu",
	Short: "markmenu is a marking menu navigation engine",
	Long: `markmenu turns pointer gestures into menu selections. Novices press and
wait for the menu to appear; experts draw the mark straight away.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("menu", "m", "menu.yaml", "Menu description (YAML or JSON)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Navigation options file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// newLogger builds the stderr logger from the persistent flags.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, level, format), nil
}

// loadConfig reads the options file, or returns the defaults.
func loadConfig(cmd *cobra.Command) (domain.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return domain.DefaultConfig(), nil
	}
	return config.Load(path)
}

// loadMenu reads the menu and options named by the persistent flags.
func loadMenu(cmd *cobra.Command, opts ...markmenu.Option) (*markmenu.Menu, *slog.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	path, _ := cmd.Flags().GetString("menu")
	root, err := menu.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]markmenu.Option{markmenu.WithConfig(cfg), markmenu.WithLogger(logger)}, opts...)
	m, err := markmenu.FromRoot(root, opts...)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("menu loaded", "path", path, "items", root.Len())
	return m, logger, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
