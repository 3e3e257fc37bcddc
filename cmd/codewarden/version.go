package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped via -ldflags "-X main.version=..." at release time.
var version = "dev"

func init() {
	rootCmd.AddCommand(cmdVersion)
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the codewarden version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "codewarden %s\n", version)
		return nil
	},
}
