// Package config provides configuration management for codewarden.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codewarden/internal/watch"
)

// Config holds all configuration, loaded once at startup and treated as
// immutable afterwards.
type Config struct {
	Target   TargetConfig   `mapstructure:"target" yaml:"target"`
	Watchdog WatchdogConfig `mapstructure:"watchdog" yaml:"watchdog"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Launch   LaunchConfig   `mapstructure:"launch" yaml:"launch"`
	State    StateConfig    `mapstructure:"state" yaml:"state"`
}

// TargetConfig identifies the watched application.
type TargetConfig struct {
	// Match is the substring that identifies the application's processes
	// in the process table.
	Match string `mapstructure:"match" yaml:"match"`
	// Command is the binary launched by `codewarden launch`.
	Command string `mapstructure:"command" yaml:"command"`
}

// WatchdogConfig holds the protection policy knobs.
type WatchdogConfig struct {
	CPUThreshold   float64       `mapstructure:"cpu_threshold" yaml:"cpu_threshold"`
	CheckInterval  time.Duration `mapstructure:"check_interval" yaml:"check_interval"`
	ProtectedRoles []string      `mapstructure:"protected_roles" yaml:"protected_roles"`
	KillUnknown    bool          `mapstructure:"kill_unknown" yaml:"kill_unknown"`
	Signal         string        `mapstructure:"signal" yaml:"signal"` // "term" or "kill"
}

// CacheConfig enumerates the application's rebuildable cache directories.
type CacheConfig struct {
	// Root is the application configuration root; Dirs are relative to it.
	Root string   `mapstructure:"root" yaml:"root"`
	Dirs []string `mapstructure:"dirs" yaml:"dirs"`
}

// LaunchConfig holds the mitigation flag and environment tables.
type LaunchConfig struct {
	Flags []string          `mapstructure:"flags" yaml:"flags"`
	Env   map[string]string `mapstructure:"env" yaml:"env"`
}

// StateConfig locates the action journal and kill history.
type StateConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Load reads configuration from an optional file plus environment
// variables (prefix CODEWARDEN_, dots replaced with underscores).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("target.match", "/usr/share/code/code")
	v.SetDefault("target.command", "code")

	v.SetDefault("watchdog.cpu_threshold", 20.0)
	v.SetDefault("watchdog.check_interval", 30*time.Second)
	v.SetDefault("watchdog.protected_roles", []string{"main", "renderer"})
	v.SetDefault("watchdog.kill_unknown", false)
	v.SetDefault("watchdog.signal", "term")

	v.SetDefault("cache.root", "~/.config/Code")
	v.SetDefault("cache.dirs", []string{
		"Cache",
		"CachedData",
		"Code Cache",
		"GPUCache",
		"Service Worker/CacheStorage",
	})

	// GPU compositing is the usual crash culprit on the hardware this
	// tool targets; software GL keeps the IDE usable.
	v.SetDefault("launch.flags", []string{
		"--disable-gpu",
		"--disable-gpu-compositing",
		"--disable-gpu-sandbox",
	})
	v.SetDefault("launch.env", map[string]string{
		"LIBGL_ALWAYS_SOFTWARE": "1",
	})

	v.SetDefault("state.dir", "~/.local/state/codewarden")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/codewarden")
		v.AddConfigPath("/etc/codewarden")
	}

	v.SetEnvPrefix("CODEWARDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on misconfiguration, before any watch loop starts.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target.Match) == "" {
		return fmt.Errorf("target.match must not be empty")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy materializes the watchdog protection policy.
func (c *Config) Policy() (watch.Policy, error) {
	roles := make([]watch.Role, 0, len(c.Watchdog.ProtectedRoles))
	for _, raw := range c.Watchdog.ProtectedRoles {
		role, err := watch.ParseRole(raw)
		if err != nil {
			return watch.Policy{}, fmt.Errorf("watchdog.protected_roles: %w", err)
		}
		roles = append(roles, role)
	}

	sig, err := watch.ParseSignal(c.Watchdog.Signal)
	if err != nil {
		return watch.Policy{}, fmt.Errorf("watchdog.signal: %w", err)
	}

	p := watch.Policy{
		ProtectedRoles: roles,
		CPUThreshold:   c.Watchdog.CPUThreshold,
		CheckInterval:  c.Watchdog.CheckInterval,
		Signal:         sig,
		KillUnknown:    c.Watchdog.KillUnknown,
	}
	if err := p.Validate(); err != nil {
		return watch.Policy{}, err
	}
	return p, nil
}

// CachePaths resolves the configured cache directories to absolute paths.
func (c *Config) CachePaths() []string {
	root := ExpandHome(c.Cache.Root)
	paths := make([]string, 0, len(c.Cache.Dirs))
	for _, d := range c.Cache.Dirs {
		if filepath.IsAbs(d) {
			paths = append(paths, d)
			continue
		}
		paths = append(paths, filepath.Join(root, d))
	}
	return paths
}

// JournalPath returns the action journal location under the state dir.
func (c *Config) JournalPath() string {
	return filepath.Join(ExpandHome(c.State.Dir), "actions.jsonl")
}

// HistoryPath returns the kill-history snapshot location.
func (c *Config) HistoryPath() string {
	return filepath.Join(ExpandHome(c.State.Dir), "history.json")
}

// ExpandHome resolves a leading ~/ against the current user's home dir.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
