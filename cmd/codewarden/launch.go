package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var launchAttach bool

func init() {
	rootCmd.AddCommand(cmdLaunch)
	cmdLaunch.Flags().BoolVarP(&launchAttach, "attach", "a", false, "Keep the target's stdout/stderr attached to this terminal")
}

var cmdLaunch = &cobra.Command{
	Use:   "launch [-- <target args...>]",
	Short: "Start the target with GPU-crash mitigation flags",
	Long:  "Launches the configured editor binary with the mitigation flags and environment overrides, forwarding any arguments after -- verbatim. The child keeps running after this command exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := controller().Launch(args, launchAttach)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Launched pid=%d\n", pid)
		return nil
	},
}
