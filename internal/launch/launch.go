// Package launch starts the target application with the mitigation flag
// and environment tables, detached from the launching terminal.
package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
)

// ErrTargetNotFound means the application binary could not be resolved.
var ErrTargetNotFound = errors.New("target executable not found")

// Options describes one launch.
type Options struct {
	// Command is the binary name or path of the target application.
	Command string
	// Flags are prepended to ExtraArgs on the command line.
	Flags []string
	// Env entries override inherited variables of the same name.
	Env map[string]string
	// ExtraArgs are caller-supplied arguments forwarded verbatim.
	ExtraArgs []string
	// Attach keeps the child's stdio connected to ours for debugging.
	// The parent still does not wait on the child either way.
	Attach bool
}

// Start spawns the target application in its own session and returns the
// child PID. The child keeps running after this process exits.
func Start(opts Options) (int, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return 0, fmt.Errorf("%w: no command configured", ErrTargetNotFound)
	}
	bin, err := exec.LookPath(opts.Command)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not installed or not on PATH; install it or set target.command to its full path", ErrTargetNotFound, opts.Command)
	}

	args := append(append([]string(nil), opts.Flags...), opts.ExtraArgs...)
	child := exec.Command(bin, args...)
	child.Env = ComposeEnv(os.Environ(), opts.Env)
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if opts.Attach {
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
	}

	if err := child.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", bin, err)
	}
	pid := child.Process.Pid
	// Fire and forget: release the handle so the parent can exit without
	// leaving the child attached to it.
	_ = child.Process.Release()
	return pid, nil
}

// ComposeEnv merges overrides into a base environment. Overridden names
// are replaced in place; new names are appended in sorted order so the
// result is deterministic.
func ComposeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return append([]string(nil), base...)
	}

	remaining := make(map[string]string, len(overrides))
	for k, v := range overrides {
		remaining[k] = v
	}

	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			out = append(out, kv)
			continue
		}
		if v, hit := remaining[name]; hit {
			out = append(out, name+"="+v)
			delete(remaining, name)
			continue
		}
		out = append(out, kv)
	}

	extra := make([]string, 0, len(remaining))
	for k, v := range remaining {
		extra = append(extra, k+"="+v)
	}
	sort.Strings(extra)
	return append(out, extra...)
}
