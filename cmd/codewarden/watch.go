package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"codewarden/internal/runfile"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	watchDetach       bool
	watchForceRestart bool
)

func init() {
	rootCmd.AddCommand(cmdWatch)
	cmdWatch.Flags().BoolVarP(&watchDetach, "detach", "d", false, "Run the watcher in the background")
	cmdWatch.Flags().BoolVarP(&watchForceRestart, "force", "f", false, "Restart the watcher if one is already running")
}

var cmdWatch = &cobra.Command{
	Use:   "watch",
	Short: "Run the watchdog loop",
	Long:  "Sweeps the process table on the configured interval until interrupted. With --detach the loop runs in a background process tracked by a pidfile.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runfile.IsRunning() {
			if !watchForceRestart {
				pid, err := runfile.RunningPID()
				if err != nil {
					return fmt.Errorf("check running watcher: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Watcher is already running (pid %d). Stop it with `codewarden stop` or re-run with --force.\n", pid)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stopping existing watcher...")
			if err := runfile.StopRunning(true); err != nil {
				return err
			}
		}

		if watchDetach {
			return detachWatcher(cmd)
		}

		if err := runfile.WritePID(os.Getpid()); err != nil {
			return err
		}
		defer runfile.RemovePID()

		runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
		runSpin.Suffix = " Watching..."
		runSpin.Start()
		defer runSpin.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return controller().Watch(ctx)
	},
}

// detachWatcher re-execs this binary as a foreground watcher in its own
// session and records the child's pid.
func detachWatcher(cmd *cobra.Command) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve own executable: %w", err)
	}

	childArgs := []string{"watch"}
	if configPath != "" {
		childArgs = append(childArgs, "--config", configPath)
	}
	child := exec.Command(exe, childArgs...)
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	child.Stdout = nil
	child.Stderr = nil

	if err := child.Start(); err != nil {
		return fmt.Errorf("start background watcher: %w", err)
	}
	pid := child.Process.Pid
	if err := child.Process.Release(); err != nil {
		return fmt.Errorf("release background watcher: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watcher running in background (pid %d)\n", pid)
	return nil
}
