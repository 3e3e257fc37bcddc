package watch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"syscall"
	"testing"
	"time"

	"codewarden/internal/procsnap"
)

type killRecorder struct {
	pids []int
	errs map[int]error
}

func (k *killRecorder) kill(pid int, sig syscall.Signal) error {
	if err, ok := k.errs[pid]; ok {
		return err
	}
	k.pids = append(k.pids, pid)
	return nil
}

func newTestWatchdog(t *testing.T, policy Policy, table []procsnap.Sample) (*Watchdog, *killRecorder) {
	t.Helper()
	rec := &killRecorder{errs: make(map[int]error)}
	w := New(policy, "code", nil)
	w.Snapshot = func(string) ([]procsnap.Sample, error) {
		return append([]procsnap.Sample(nil), table...), nil
	}
	w.Kill = rec.kill
	w.SelfPID = -1
	return w, rec
}

func sample(pid int, role Role, cpu float64) procsnap.Sample {
	var command string
	switch role {
	case RoleMain:
		command = "/usr/share/code/code --unity-launch"
	case RoleRenderer:
		command = "/usr/share/code/code --type=renderer"
	case RoleUtility:
		command = "/usr/share/code/code --type=utility"
	case RoleGPU:
		command = "/usr/share/code/code --type=gpu-process"
	case RoleTerminalHost:
		command = "/usr/share/code/code --type=utility --utility-sub-type=ptyHost"
	case RoleLanguageServer:
		command = "/usr/share/code/code/node tsserver.js"
	default:
		command = "/usr/share/code/code --type=broker"
	}
	return procsnap.Sample{PID: pid, Command: command, CPUPercent: cpu}
}

func TestProtectedRolesNeverKilled(t *testing.T) {
	policy := DefaultPolicy()
	for _, cpu := range []float64{0, 19.9, 20, 99, 999} {
		table := []procsnap.Sample{
			sample(1, RoleMain, cpu),
			sample(2, RoleRenderer, cpu),
		}
		w, rec := newTestWatchdog(t, policy, table)
		verdicts, err := w.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("cycle error: %v", err)
		}
		if len(rec.pids) != 0 {
			t.Fatalf("cpu=%g: protected pids were signalled: %v", cpu, rec.pids)
		}
		for _, v := range verdicts {
			if v.Action != ActionSkipProtected {
				t.Fatalf("cpu=%g: expected skipped_protected, got %s for pid %d", cpu, v.Action, v.Sample.PID)
			}
		}
	}
}

func TestUnknownRoleProtectedByDefault(t *testing.T) {
	table := []procsnap.Sample{sample(7, RoleUnknown, 999)}

	w, rec := newTestWatchdog(t, DefaultPolicy(), table)
	verdicts, _ := w.RunCycle(context.Background())
	if len(rec.pids) != 0 || verdicts[0].Action != ActionSkipProtected {
		t.Fatalf("unknown role must be protected by default: %+v", verdicts)
	}

	policy := DefaultPolicy()
	policy.KillUnknown = true
	w, rec = newTestWatchdog(t, policy, table)
	verdicts, _ = w.RunCycle(context.Background())
	if len(rec.pids) != 1 || verdicts[0].Action != ActionKilled {
		t.Fatalf("kill_unknown=true must make unknown roles killable: %+v", verdicts)
	}
}

func TestThresholdBoundaryInclusive(t *testing.T) {
	const threshold = 20.0
	policy := DefaultPolicy()
	policy.CPUThreshold = threshold

	cases := []struct {
		cpu  float64
		want Action
	}{
		{threshold - 0.001, ActionSkipBelow},
		{threshold, ActionKilled},
		{threshold + 0.001, ActionKilled},
	}
	for _, tc := range cases {
		w, _ := newTestWatchdog(t, policy, []procsnap.Sample{sample(10, RoleUtility, tc.cpu)})
		verdicts, err := w.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("cycle error: %v", err)
		}
		if len(verdicts) != 1 || verdicts[0].Action != tc.want {
			t.Fatalf("cpu=%v: expected %s, got %+v", tc.cpu, tc.want, verdicts)
		}
	}
}

func TestExactlyOneSignalPerPIDPerCycle(t *testing.T) {
	table := []procsnap.Sample{
		sample(20, RoleUtility, 50),
		sample(21, RoleGPU, 50),
		sample(22, RoleTerminalHost, 50),
	}
	w, rec := newTestWatchdog(t, DefaultPolicy(), table)
	if _, err := w.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle error: %v", err)
	}
	seen := make(map[int]int)
	for _, pid := range rec.pids {
		seen[pid]++
	}
	for _, pid := range []int{20, 21, 22} {
		if seen[pid] != 1 {
			t.Fatalf("pid %d signalled %d times, want 1", pid, seen[pid])
		}
	}
}

func TestCycleDeterministicUnderIterationOrder(t *testing.T) {
	base := []procsnap.Sample{
		sample(1, RoleMain, 95),
		sample(2, RoleUtility, 40),
		sample(3, RoleGPU, 5),
		sample(4, RoleUnknown, 80),
		sample(5, RoleTerminalHost, 33),
	}

	actionSet := func(verdicts []Verdict) map[string]int {
		set := make(map[string]int)
		for _, v := range verdicts {
			set[fmt.Sprintf("%d/%s", v.Sample.PID, v.Action)]++
		}
		return set
	}

	w, _ := newTestWatchdog(t, DefaultPolicy(), base)
	want, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle error: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]procsnap.Sample(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		w, _ := newTestWatchdog(t, DefaultPolicy(), shuffled)
		got, err := w.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("cycle error: %v", err)
		}
		wantSet, gotSet := actionSet(want), actionSet(got)
		if len(wantSet) != len(gotSet) {
			t.Fatalf("action multisets differ: want %v, got %v", wantSet, gotSet)
		}
		for k, n := range wantSet {
			if gotSet[k] != n {
				t.Fatalf("action multisets differ at %s: want %d, got %d", k, n, gotSet[k])
			}
		}
	}
}

func TestScenarioFromProtectionPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.ProtectedRoles = []Role{RoleMain}
	policy.CPUThreshold = 20

	table := []procsnap.Sample{
		sample(1, RoleMain, 95),
		sample(2, RoleUtility, 40),
		sample(3, RoleGPU, 5),
	}
	w, rec := newTestWatchdog(t, policy, table)
	verdicts, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle error: %v", err)
	}

	want := map[int]Action{
		1: ActionSkipProtected,
		2: ActionKilled,
		3: ActionSkipBelow,
	}
	for _, v := range verdicts {
		if want[v.Sample.PID] != v.Action {
			t.Fatalf("pid %d: expected %s, got %s", v.Sample.PID, want[v.Sample.PID], v.Action)
		}
	}
	if len(rec.pids) != 1 || rec.pids[0] != 2 {
		t.Fatalf("expected exactly pid 2 signalled, got %v", rec.pids)
	}
}

func TestKillFailureDoesNotAbortCycle(t *testing.T) {
	table := []procsnap.Sample{
		sample(30, RoleUtility, 50),
		sample(31, RoleUtility, 50),
	}
	w, rec := newTestWatchdog(t, DefaultPolicy(), table)
	rec.errs[30] = syscall.EPERM

	verdicts, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle error: %v", err)
	}
	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if verdicts[0].Action != ActionKillFailed || !errors.Is(verdicts[0].Err, syscall.EPERM) {
		t.Fatalf("expected kill_failed with EPERM, got %+v", verdicts[0])
	}
	if verdicts[1].Action != ActionKilled {
		t.Fatalf("second target must still be processed, got %+v", verdicts[1])
	}
}

func TestVanishedProcessSkippedSilently(t *testing.T) {
	table := []procsnap.Sample{
		sample(40, RoleUtility, 50),
		sample(41, RoleUtility, 50),
	}
	w, rec := newTestWatchdog(t, DefaultPolicy(), table)
	rec.errs[40] = syscall.ESRCH

	verdicts, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle error: %v", err)
	}
	if len(verdicts) != 1 || verdicts[0].Sample.PID != 41 {
		t.Fatalf("vanished pid must not produce a verdict: %+v", verdicts)
	}
}

func TestWatchdogSkipsOwnPID(t *testing.T) {
	table := []procsnap.Sample{sample(50, RoleUtility, 99)}
	w, rec := newTestWatchdog(t, DefaultPolicy(), table)
	w.SelfPID = 50

	verdicts, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle error: %v", err)
	}
	if len(verdicts) != 0 || len(rec.pids) != 0 {
		t.Fatalf("watchdog evaluated itself: %+v", verdicts)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	policy := DefaultPolicy()
	policy.CheckInterval = time.Second

	w, _ := newTestWatchdog(t, policy, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, nil) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not stop on cancellation")
	}
}

func TestRunRejectsInvalidPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.CheckInterval = 0
	w, _ := newTestWatchdog(t, policy, nil)
	if err := w.Run(context.Background(), nil); err == nil {
		t.Fatal("expected validation error before the loop starts")
	}
}
