package main

import (
	"context"
	"log"

	"codewarden/internal/app"
	"codewarden/internal/config"
	"codewarden/internal/history"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "codewarden [command]",
	Short: "codewarden: watchdog and launcher for a runaway desktop editor",
	Long: `codewarden watches an Electron-based editor's process tree, kills helper
processes that pin a CPU core, reclaims its cache directories, and launches
the editor with GPU-crash mitigation flags.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

// controllerAPI is the slice of app.App the commands use; tests swap in
// stubs via controllerFactory.
type controllerAPI interface {
	Scan(context.Context) ([]app.Row, error)
	Sweep(context.Context) (app.SweepResult, error)
	Watch(context.Context) error
	Clean(context.Context) (app.CleanResult, error)
	Launch(extraArgs []string, attach bool) (int, error)
	KillRow(app.Row) error
	History(history.Filter) ([]history.Record, error)
	ResetHistory() error
	Status() (app.WatcherStatus, error)
	StopWatcher(force bool) error
	Config() (*config.Config, error)
}

var controllerFactory = func() controllerAPI {
	return app.New(app.Options{ConfigPath: configPath})
}

func controller() controllerAPI {
	return controllerFactory()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
