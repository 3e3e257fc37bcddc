package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdClean)
}

var cmdClean = &cobra.Command{
	Use:   "clean",
	Short: "Delete the target's cache directories",
	Long:  "Removes the configured cache directories under the target's config root. Directories that are already gone are skipped; per-path failures are reported and do not abort the pass.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cleanSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
		cleanSpin.Suffix = " Reclaiming caches..."
		cleanSpin.Start()

		res, err := controller().Clean(cmd.Context())
		cleanSpin.Stop()
		if err != nil {
			return err
		}

		for _, o := range res.Outcomes {
			switch {
			case o.Err != nil:
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to remove %s: %v\n", o.Path, o.Err)
			case o.Cleared:
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", o.Path)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d of %d cache dirs\n", res.Cleared, len(res.Outcomes))
		return nil
	},
}
