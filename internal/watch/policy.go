package watch

import (
	"fmt"
	"syscall"
	"time"
)

const (
	minCheckInterval = time.Second
	maxCheckInterval = time.Hour
	maxCPUThreshold  = 1600 // 100% x 16 cores; anything above is a typo
)

// Policy is the immutable protection configuration. Constructed once at
// startup, validated before any cycle runs, then passed by value.
type Policy struct {
	ProtectedRoles []Role
	CPUThreshold   float64
	CheckInterval  time.Duration
	Signal         syscall.Signal
	// KillUnknown opts in to terminating unclassified processes. Off by
	// default: an unrecognized marker is treated like a protected role.
	KillUnknown bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		ProtectedRoles: []Role{RoleMain, RoleRenderer},
		CPUThreshold:   20,
		CheckInterval:  30 * time.Second,
		Signal:         syscall.SIGTERM,
	}
}

// Protected reports whether the role must never be a termination target.
func (p Policy) Protected(r Role) bool {
	for _, pr := range p.ProtectedRoles {
		if pr == r {
			return true
		}
	}
	return r == RoleUnknown && !p.KillUnknown
}

// Validate rejects configurations that would produce a runaway kill loop
// or a watchdog that can never act. Called before the loop starts.
func (p Policy) Validate() error {
	if p.CPUThreshold <= 0 {
		return fmt.Errorf("cpu_threshold must be > 0, got %g", p.CPUThreshold)
	}
	if p.CPUThreshold > maxCPUThreshold {
		return fmt.Errorf("cpu_threshold %g exceeds the sane maximum %d", p.CPUThreshold, maxCPUThreshold)
	}
	if p.CheckInterval < minCheckInterval || p.CheckInterval > maxCheckInterval {
		return fmt.Errorf("check_interval must be between %s and %s, got %s", minCheckInterval, maxCheckInterval, p.CheckInterval)
	}
	if p.Signal != syscall.SIGTERM && p.Signal != syscall.SIGKILL {
		return fmt.Errorf("signal must be SIGTERM or SIGKILL, got %d", p.Signal)
	}
	return nil
}

// ParseSignal maps a config token to the termination signal.
func ParseSignal(s string) (syscall.Signal, error) {
	switch s {
	case "", "term", "sigterm", "SIGTERM":
		return syscall.SIGTERM, nil
	case "kill", "sigkill", "SIGKILL":
		return syscall.SIGKILL, nil
	default:
		return 0, fmt.Errorf("unrecognized signal %q (want term or kill)", s)
	}
}

// SignalName renders a signal for logs and history records.
func SignalName(sig syscall.Signal) string {
	if sig == syscall.SIGKILL {
		return "SIGKILL"
	}
	return "SIGTERM"
}
