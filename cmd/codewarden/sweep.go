package main

import (
	"fmt"

	"codewarden/internal/watch"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdSweep)
}

var cmdSweep = &cobra.Command{
	Use:   "sweep",
	Short: "Run one watchdog cycle and exit",
	Long:  "Evaluates every matching process once: unprotected roles above the CPU threshold are signalled, everything else is left alone. Verdicts are printed and journaled.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := controller().Sweep(cmd.Context())
		if err != nil {
			return err
		}

		for _, v := range res.Verdicts {
			switch v.Action {
			case watch.ActionKilled:
				fmt.Fprintf(cmd.OutOrStdout(), "Killed pid=%d role=%s cpu=%.1f%%\n", v.Sample.PID, v.Role, v.Sample.CPUPercent)
			case watch.ActionKillFailed:
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to kill pid=%d role=%s: %v\n", v.Sample.PID, v.Role, v.Err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sweep done: killed=%d protected=%d below_threshold=%d failed=%d\n",
			res.Killed, res.Protected, res.Below, res.Failed)
		return nil
	},
}
