package watch

import (
	"syscall"
	"testing"
	"time"
)

func TestPolicyValidate(t *testing.T) {
	valid := DefaultPolicy()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default policy must validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"zero threshold", func(p *Policy) { p.CPUThreshold = 0 }},
		{"negative threshold", func(p *Policy) { p.CPUThreshold = -5 }},
		{"absurd threshold", func(p *Policy) { p.CPUThreshold = 5000 }},
		{"interval too short", func(p *Policy) { p.CheckInterval = 100 * time.Millisecond }},
		{"interval too long", func(p *Policy) { p.CheckInterval = 2 * time.Hour }},
		{"bad signal", func(p *Policy) { p.Signal = syscall.SIGHUP }},
	}
	for _, tc := range cases {
		p := DefaultPolicy()
		tc.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestParseSignal(t *testing.T) {
	if sig, err := ParseSignal("term"); err != nil || sig != syscall.SIGTERM {
		t.Fatalf("ParseSignal(term) = %v, %v", sig, err)
	}
	if sig, err := ParseSignal("kill"); err != nil || sig != syscall.SIGKILL {
		t.Fatalf("ParseSignal(kill) = %v, %v", sig, err)
	}
	if sig, err := ParseSignal(""); err != nil || sig != syscall.SIGTERM {
		t.Fatalf("ParseSignal default = %v, %v", sig, err)
	}
	if _, err := ParseSignal("hup"); err == nil {
		t.Fatal("expected error for unsupported signal")
	}
}

func TestProtectedFallsBackToUnknownGuard(t *testing.T) {
	p := Policy{ProtectedRoles: []Role{RoleMain}}
	if !p.Protected(RoleUnknown) {
		t.Fatal("unknown must be protected when KillUnknown is false")
	}
	p.KillUnknown = true
	if p.Protected(RoleUnknown) {
		t.Fatal("unknown must be killable when KillUnknown is true")
	}
	if p.Protected(RoleGPU) {
		t.Fatal("gpu is not in the protected set")
	}
}
