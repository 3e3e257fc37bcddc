package app

import (
	"errors"
	"fmt"
	"syscall"

	"codewarden/internal/history"
	"codewarden/internal/watch"
)

// KillRow signals a single scanned process on operator request. The
// protection policy still applies: protected roles are refused.
func (a *App) KillRow(r Row) error {
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	if policy.Protected(r.Role) {
		return fmt.Errorf("role %s is protected and cannot be killed", r.Role)
	}

	if err := killProcess(r.Sample.PID, policy.Signal); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return fmt.Errorf("pid %d already exited", r.Sample.PID)
		}
		return fmt.Errorf("kill pid %d: %w", r.Sample.PID, err)
	}

	if store, err := history.New(cfg.HistoryPath()); err == nil {
		store.Add(history.Record{
			PID:        r.Sample.PID,
			Role:       string(r.Role),
			Command:    r.Sample.Command,
			CPUPercent: r.Sample.CPUPercent,
			Signal:     watch.SignalName(policy.Signal),
			RunID:      "manual",
		})
	}
	return nil
}
