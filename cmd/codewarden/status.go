package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdStatus)
}

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Report whether a background watcher is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := controller().Status()
		if err != nil {
			return err
		}
		if !st.Running {
			fmt.Fprintln(cmd.OutOrStdout(), "Watcher is not running")
			return nil
		}
		if st.PID > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Watcher is running (pid %d)\n", st.PID)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Watcher is running")
		}
		return nil
	},
}
