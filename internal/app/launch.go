package app

import "codewarden/internal/launch"

// Launch starts the target application with the configured mitigation
// flags and environment, forwarding extraArgs verbatim. Returns the
// child PID; the child outlives this process.
func (a *App) Launch(extraArgs []string, attach bool) (int, error) {
	cfg, err := a.Config()
	if err != nil {
		return 0, err
	}
	return startTarget(launch.Options{
		Command:   cfg.Target.Command,
		Flags:     cfg.Launch.Flags,
		Env:       cfg.Launch.Env,
		ExtraArgs: extraArgs,
		Attach:    attach,
	})
}
