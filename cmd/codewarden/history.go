package main

import (
	"fmt"
	"strings"
	"time"

	"codewarden/internal/history"

	"github.com/spf13/cobra"
)

var (
	historyRoles   []string
	historyRunID   string
	historySinceH  int
	historySearch  string
	historyConfirm string
)

func init() {
	rootCmd.AddCommand(cmdHistory)
	cmdHistory.Flags().StringSliceVar(&historyRoles, "role", nil, "Filter by role (repeatable)")
	cmdHistory.Flags().StringVar(&historyRunID, "run", "", "Filter by watchdog run id")
	cmdHistory.Flags().IntVar(&historySinceH, "since", 0, "Only records from the last N hours")
	cmdHistory.Flags().StringVar(&historySearch, "search", "", "Substring match on the command line")

	cmdHistory.AddCommand(cmdHistoryReset)
	cmdHistoryReset.Flags().StringVar(&historyConfirm, "confirm", "", `Type "RESET" to acknowledge history wipe`)
}

var cmdHistory = &cobra.Command{
	Use:   "history",
	Short: "Show terminated processes",
	Long:  "Lists every process the watchdog (or an operator) has killed, newest last. Filters combine with AND.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := history.Filter{
			Roles:      historyRoles,
			RunID:      historyRunID,
			TextSearch: historySearch,
		}
		if historySinceH > 0 {
			f.Since = time.Now().UTC().Add(-time.Duration(historySinceH) * time.Hour)
		}

		records, err := controller().History(f)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No termination records")
			return nil
		}

		for _, r := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "[id=%d] %s pid=%d role=%s cpu=%.1f%% sig=%s run=%s\n    %s\n",
				r.ID, r.At.Local().Format(time.RFC3339), r.PID, r.Role, r.CPUPercent, r.Signal, r.RunID, r.Command)
		}
		return nil
	},
}

var cmdHistoryReset = &cobra.Command{
	Use:   "reset",
	Short: "Erase the termination history",
	Long:  "Removes every termination record, resets ID counters, and rewrites the snapshot. Requires --confirm RESET.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(historyConfirm) != "RESET" {
			return fmt.Errorf("refusing to wipe history without --confirm RESET")
		}
		if err := controller().ResetHistory(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
		return nil
	},
}
