package main

import (
	"fmt"

	"codewarden/internal/runfile"

	"github.com/spf13/cobra"
)

var stopForce bool

func init() {
	rootCmd.AddCommand(cmdStop)
	cmdStop.Flags().BoolVarP(&stopForce, "force", "f", false, "SIGKILL the watcher if it ignores SIGTERM")
}

var cmdStop = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background watcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !runfile.IsRunning() {
			fmt.Fprintln(cmd.OutOrStdout(), "No watcher is running")
			return nil
		}
		if err := controller().StopWatcher(stopForce); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Watcher stopped")
		return nil
	},
}
