// Package runfile tracks the detached watcher process through a pidfile
// in the per-user runtime directory.
package runfile

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const pidFileName = "codewarden.pid"

// RuntimeDir returns the directory holding the pidfile.
// Order of precedence (first wins):
// 1) CODEWARDEN_RUNTIME_DIR
// 2) if runtime=linux: $XDG_RUNTIME_DIR, else /run/user/<UID>
// 3) other unix: /tmp/codewarden-<UID>
func RuntimeDir() string {
	if rd := os.Getenv("CODEWARDEN_RUNTIME_DIR"); rd != "" {
		return rd
	}

	uid := currentUID()
	if runtime.GOOS == "linux" {
		if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
			return filepath.Join(v, "codewarden")
		}
		return filepath.Join("/run/user", uid, "codewarden")
	}
	return filepath.Join("/tmp", "codewarden-"+uid)
}

// EnsureRuntimeDir creates the runtime directory if needed.
func EnsureRuntimeDir() error {
	return os.MkdirAll(RuntimeDir(), 0o700)
}

// PIDPath returns the full path to the pidfile.
func PIDPath() string {
	return filepath.Join(RuntimeDir(), pidFileName)
}

// WritePID stores the provided pid into the pidfile.
func WritePID(pid int) error {
	if err := EnsureRuntimeDir(); err != nil {
		return err
	}
	return os.WriteFile(PIDPath(), []byte(fmt.Sprintf("%d\n", pid)), 0o600)
}

// RemovePID removes the pidfile if it exists.
func RemovePID() error {
	if err := os.Remove(PIDPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// RunningPID returns the pid stored in the pidfile if any.
func RunningPID() (int, error) {
	data, err := os.ReadFile(PIDPath())
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, err
	}
	return pid, nil
}

// IsRunning reports whether the pidfile points at a live process.
func IsRunning() bool {
	pid, err := RunningPID()
	if err != nil {
		return false
	}
	return alive(pid)
}

// alive probes a pid with signal 0. EPERM still means the process exists.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// StopRunning sends SIGTERM to the recorded watcher, waits for it to
// exit, and escalates to SIGKILL when force is set.
func StopRunning(force bool) error {
	pid, err := RunningPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("unable to read watcher PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	if !alive(pid) {
		return RemovePID()
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := sendSignal(proc, syscall.SIGTERM); err != nil {
		return err
	}
	if waitForExit(pid, 3*time.Second) {
		return nil
	}
	if !force {
		return fmt.Errorf("watcher process %d did not exit after SIGTERM", pid)
	}
	if err := sendSignal(proc, syscall.SIGKILL); err != nil {
		return err
	}
	if waitForExit(pid, 2*time.Second) {
		return nil
	}
	return fmt.Errorf("watcher process %d did not exit after SIGKILL", pid)
}

func sendSignal(proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = RemovePID()
			return nil
		}
		return err
	}
	return nil
}

func waitForExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !alive(pid) {
			_ = RemovePID()
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func currentUID() string {
	u, err := user.Current()
	if err == nil && u != nil && u.Uid != "" {
		return u.Uid
	}
	return "0"
}
