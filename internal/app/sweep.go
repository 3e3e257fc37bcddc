package app

import (
	"context"
	"fmt"
	"log"

	"codewarden/internal/history"
	"codewarden/internal/journal"
	"codewarden/internal/watch"
)

// SweepResult aggregates one cycle's outcome.
type SweepResult struct {
	Verdicts  []watch.Verdict
	Killed    int
	Protected int
	Below     int
	Failed    int
}

// Sweep runs exactly one watchdog cycle and returns the verdicts.
func (a *App) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	w, closeFn, err := a.newWatchdog(false)
	if err != nil {
		return result, err
	}
	defer closeFn()

	verdicts, err := w.RunCycle(ctx)
	if err != nil {
		return result, fmt.Errorf("process table snapshot failed: %w", err)
	}
	result.Verdicts = verdicts
	for _, v := range verdicts {
		switch v.Action {
		case watch.ActionKilled:
			result.Killed++
		case watch.ActionSkipProtected:
			result.Protected++
		case watch.ActionSkipBelow:
			result.Below++
		case watch.ActionKillFailed:
			result.Failed++
		}
	}
	return result, nil
}

// Watch runs watchdog cycles on the configured interval until ctx is
// cancelled. Every verdict is journaled and echoed; kills are recorded in
// the history store.
func (a *App) Watch(ctx context.Context) error {
	w, closeFn, err := a.newWatchdog(true)
	if err != nil {
		return err
	}
	defer closeFn()

	return w.Run(ctx, func(err error) {
		log.Printf("watch cycle failed: %v", err)
	})
}

// newWatchdog wires a watchdog to the journal and history store. The
// returned close function flushes both.
func (a *App) newWatchdog(echo bool) (*watch.Watchdog, func(), error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, nil, err
	}

	jw, err := journal.Open(cfg.JournalPath(), echo)
	if err != nil {
		return nil, nil, err
	}
	hist, err := history.New(cfg.HistoryPath())
	if err != nil {
		jw.Close()
		return nil, nil, err
	}

	notify := func(v watch.Verdict) {
		entry := journal.Entry{
			PID:        v.Sample.PID,
			Role:       string(v.Role),
			CPUPercent: v.Sample.CPUPercent,
			Action:     string(v.Action),
		}
		if v.Err != nil {
			entry.Detail = v.Err.Error()
		}
		if err := jw.Record(entry); err != nil {
			log.Printf("journal append failed: %v", err)
		}
		if v.Action == watch.ActionKilled {
			hist.Add(history.Record{
				PID:        v.Sample.PID,
				Role:       string(v.Role),
				Command:    v.Sample.Command,
				CPUPercent: v.Sample.CPUPercent,
				Signal:     watch.SignalName(policy.Signal),
				RunID:      jw.RunID(),
			})
		}
	}

	w := watch.New(policy, cfg.Target.Match, notify)
	w.Snapshot = snapshotTable
	w.Kill = killProcess
	return w, func() { jw.Close() }, nil
}
