package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdConfig)
	cmdConfig.AddCommand(cmdConfigShow)
}

var cmdConfig = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var cmdConfigShow = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long:  "Prints the configuration after defaults, the config file, and CODEWARDEN_* environment overrides have been merged.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := controller().Config()
		if err != nil {
			return err
		}
		out, err := cfg.Render()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
