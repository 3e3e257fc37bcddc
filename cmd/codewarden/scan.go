package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdScan)
}

var cmdScan = &cobra.Command{
	Use:   "scan",
	Short: "List the target's processes with their roles",
	Long:  "Snapshots the process table, classifies every matching process by role, and prints the result sorted by CPU usage. No process is signalled.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := controller().Scan(cmd.Context())
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching processes found")
			return nil
		}

		for _, row := range rows {
			mark := " "
			if row.Protected {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s pid=%-7d role=%-16s cpu=%5.1f%% mem=%4.1f%% %s\n",
				mark, row.Sample.PID, row.Role, row.Sample.CPUPercent, row.Sample.MemPercent, row.Sample.Command)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\n* protected by policy")
		return nil
	},
}
