// Package app exposes high-level operations that the CLI and TUI reuse.
package app

import (
	"sync"

	"codewarden/internal/config"
)

// Options configures the top-level controller.
type Options struct {
	// ConfigPath points to the optional config file.
	ConfigPath string
}

// App is the shared controller facade. Configuration is loaded once, on
// first use, and treated as immutable afterwards.
type App struct {
	cfgPath string

	loadOnce sync.Once
	cfg      *config.Config
	cfgErr   error
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	return &App{cfgPath: opts.ConfigPath}
}

// ConfigPath returns the configured config file path (if any).
func (a *App) ConfigPath() string {
	return a.cfgPath
}

// Config loads and caches the effective configuration.
func (a *App) Config() (*config.Config, error) {
	a.loadOnce.Do(func() {
		a.cfg, a.cfgErr = loadConfig(a.cfgPath)
	})
	return a.cfg, a.cfgErr
}
