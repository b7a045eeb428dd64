package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/markmenu"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of markmenu",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "markmenu version %s\n", strings.TrimSpace(markmenu.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
