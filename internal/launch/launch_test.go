package launch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestComposeEnvOverridesAndAppends(t *testing.T) {
	base := []string{"HOME=/home/u", "LIBGL_ALWAYS_SOFTWARE=0", "PATH=/usr/bin"}
	got := ComposeEnv(base, map[string]string{
		"LIBGL_ALWAYS_SOFTWARE":        "1",
		"ELECTRON_OZONE_PLATFORM_HINT": "x11",
	})

	want := []string{
		"HOME=/home/u",
		"LIBGL_ALWAYS_SOFTWARE=1",
		"PATH=/usr/bin",
		"ELECTRON_OZONE_PLATFORM_HINT=x11",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestComposeEnvNoOverridesCopies(t *testing.T) {
	base := []string{"A=1"}
	got := ComposeEnv(base, nil)
	if len(got) != 1 || got[0] != "A=1" {
		t.Fatalf("unexpected env: %v", got)
	}
	got[0] = "A=2"
	if base[0] != "A=1" {
		t.Fatal("ComposeEnv must not alias the base slice")
	}
}

func TestComposeEnvDeterministicAppendOrder(t *testing.T) {
	overrides := map[string]string{"Z_VAR": "z", "A_VAR": "a", "M_VAR": "m"}
	got := ComposeEnv(nil, overrides)
	want := []string{"A_VAR=a", "M_VAR=m", "Z_VAR=z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("appended vars not sorted: %v", got)
		}
	}
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(Options{Command: "definitely-not-an-ide-binary-xyz"})
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
	if _, err := Start(Options{Command: "  "}); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound for blank command, got %v", err)
	}
}

func TestStartDetachedChild(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "launched")
	script := filepath.Join(t.TempDir(), "fake-ide.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" > "+marker+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	pid, err := Start(Options{
		Command:   script,
		Flags:     []string{"--disable-gpu"},
		ExtraArgs: []string{"README.md"},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if pid <= 0 {
		t.Fatalf("expected a positive pid, got %d", pid)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		data, err := os.ReadFile(marker)
		if err == nil {
			if string(data) != "--disable-gpu README.md\n" {
				t.Fatalf("unexpected argv: %q", data)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("child never ran")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
