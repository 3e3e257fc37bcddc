package watch

import (
	"context"
	"errors"
	"os"
	"syscall"
	"time"

	"codewarden/internal/procsnap"
)

// Action records what the watchdog did with one sample.
type Action string

const (
	ActionKilled        Action = "killed"
	ActionSkipProtected Action = "skipped_protected"
	ActionSkipBelow     Action = "skipped_below_threshold"
	ActionKillFailed    Action = "kill_failed"
)

// Verdict is the evaluated outcome for one sample in one cycle.
type Verdict struct {
	Sample procsnap.Sample
	Role   Role
	Action Action
	Err    error
}

// Watchdog enforces the protection policy against the target process tree.
// Cycles are serialized: Run drives RunCycle from a single goroutine and a
// new cycle never starts before the previous one returns.
type Watchdog struct {
	policy Policy
	match  string

	// Snapshot and Kill are seams for the facade and tests; New installs
	// the real implementations.
	Snapshot func(match string) ([]procsnap.Sample, error)
	Kill     func(pid int, sig syscall.Signal) error
	SelfPID  int

	// notify receives every verdict, from the loop goroutine only.
	notify func(Verdict)
}

// New builds a watchdog for command lines containing match.
func New(policy Policy, match string, notify func(Verdict)) *Watchdog {
	if notify == nil {
		notify = func(Verdict) {}
	}
	return &Watchdog{
		policy:   policy,
		match:    match,
		Snapshot: procsnap.Snapshot,
		Kill:     syscall.Kill,
		SelfPID:  os.Getpid(),
		notify:   notify,
	}
}

// Policy returns the active policy.
func (w *Watchdog) Policy() Policy { return w.policy }

// RunCycle snapshots the process table once and applies the decision rule
// to every sample. Per-sample failures never abort the cycle; the only
// error returned is a failed snapshot.
func (w *Watchdog) RunCycle(ctx context.Context) ([]Verdict, error) {
	samples, err := w.Snapshot(w.match)
	if err != nil {
		return nil, err
	}

	verdicts := make([]Verdict, 0, len(samples))
	for _, s := range samples {
		if s.PID == w.SelfPID {
			continue
		}
		if err := ctx.Err(); err != nil {
			return verdicts, err
		}
		v, ok := w.evaluate(s)
		if !ok {
			continue
		}
		w.notify(v)
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// evaluate applies the decision rule in order: protected role, threshold,
// then termination. The threshold comparison is inclusive: a sample at
// exactly the threshold is a termination candidate.
func (w *Watchdog) evaluate(s procsnap.Sample) (Verdict, bool) {
	v := Verdict{Sample: s, Role: Classify(s.Command)}

	if w.policy.Protected(v.Role) {
		v.Action = ActionSkipProtected
		return v, true
	}
	if s.CPUPercent < w.policy.CPUThreshold {
		v.Action = ActionSkipBelow
		return v, true
	}

	if err := w.Kill(s.PID, w.policy.Signal); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			// Exited between snapshot and signal; skip silently.
			return Verdict{}, false
		}
		v.Action = ActionKillFailed
		v.Err = err
		return v, true
	}
	v.Action = ActionKilled
	return v, true
}

// Run executes cycles on the policy interval until ctx is cancelled. The
// first cycle runs immediately. Cycle errors are surfaced through errFn
// and do not stop the loop.
func (w *Watchdog) Run(ctx context.Context, errFn func(error)) error {
	if errFn == nil {
		errFn = func(error) {}
	}
	if err := w.policy.Validate(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.policy.CheckInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errFn(err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
