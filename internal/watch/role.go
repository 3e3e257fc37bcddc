// Package watch implements the protection policy and the periodic
// sample-classify-act cycle over the target application's process tree.
package watch

import (
	"fmt"
	"strings"
)

// Role is a coarse classification of a process spawned by the target
// multi-process application.
type Role string

const (
	RoleMain           Role = "main"
	RoleRenderer       Role = "renderer"
	RoleUtility        Role = "utility"
	RoleGPU            Role = "gpu"
	RoleLanguageServer Role = "language_server"
	RoleTerminalHost   Role = "terminal_host"
	RoleUnknown        Role = "unknown"
)

// ParseRole validates a role name from configuration.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(strings.ToLower(s))); r {
	case RoleMain, RoleRenderer, RoleUtility, RoleGPU, RoleLanguageServer, RoleTerminalHost, RoleUnknown:
		return r, nil
	default:
		return "", fmt.Errorf("unrecognized role %q", s)
	}
}

// marker maps one command-line fragment to a role. The table is ordered:
// subtype markers come before the generic --type= ones so that e.g. a
// utility process hosting the pty service classifies as terminal_host.
type marker struct {
	fragment string
	role     Role
}

var markers = []marker{
	{"ptyHost", RoleTerminalHost},
	{"terminalProcess", RoleTerminalHost},
	{"tsserver", RoleLanguageServer},
	{"languageserver", RoleLanguageServer},
	{"--type=renderer", RoleRenderer},
	{"--type=gpu-process", RoleGPU},
	{"--type=utility", RoleUtility},
	{"--type=zygote", RoleUtility},
}

// Classify maps a full command line to a role. A command line without any
// recognized marker and without a --type= flag is the main process; an
// unrecognized --type= maps to unknown.
func Classify(command string) Role {
	for _, m := range markers {
		if strings.Contains(command, m.fragment) {
			return m.role
		}
	}
	if !strings.Contains(command, "--type=") {
		return RoleMain
	}
	return RoleUnknown
}
