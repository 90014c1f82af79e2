package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/batchqc/internal/infrastructure/build"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of batchqc",
	Run: func(cmd *cobra.Command, _ []string) {
		info := build.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "batchqc version %s\n", info.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
