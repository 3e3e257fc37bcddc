package config

import "gopkg.in/yaml.v3"

// renderView mirrors Config with durations as strings so the rendered
// document can be pasted back into a config file verbatim.
type renderView struct {
	Target   TargetConfig `yaml:"target"`
	Watchdog struct {
		CPUThreshold   float64  `yaml:"cpu_threshold"`
		CheckInterval  string   `yaml:"check_interval"`
		ProtectedRoles []string `yaml:"protected_roles"`
		KillUnknown    bool     `yaml:"kill_unknown"`
		Signal         string   `yaml:"signal"`
	} `yaml:"watchdog"`
	Cache  CacheConfig  `yaml:"cache"`
	Launch LaunchConfig `yaml:"launch"`
	State  StateConfig  `yaml:"state"`
}

// Render returns the effective configuration as YAML.
func (c *Config) Render() (string, error) {
	var view renderView
	view.Target = c.Target
	view.Watchdog.CPUThreshold = c.Watchdog.CPUThreshold
	view.Watchdog.CheckInterval = c.Watchdog.CheckInterval.String()
	view.Watchdog.ProtectedRoles = c.Watchdog.ProtectedRoles
	view.Watchdog.KillUnknown = c.Watchdog.KillUnknown
	view.Watchdog.Signal = c.Watchdog.Signal
	view.Cache = c.Cache
	view.Launch = c.Launch
	view.State = c.State

	out, err := yaml.Marshal(view)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
