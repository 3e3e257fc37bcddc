package app

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"codewarden/internal/config"
	"codewarden/internal/procsnap"
)

// testConfig returns a config rooted in a temp dir so journal/history
// writes never touch the real state directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Target: config.TargetConfig{Match: "/usr/share/code/code", Command: "code"},
		Watchdog: config.WatchdogConfig{
			CPUThreshold:   20,
			CheckInterval:  30 * time.Second,
			ProtectedRoles: []string{"main", "renderer"},
			Signal:         "term",
		},
		Cache: config.CacheConfig{Root: filepath.Join(dir, "Code"), Dirs: []string{"Cache", "GPUCache"}},
		State: config.StateConfig{Dir: filepath.Join(dir, "state")},
	}
}

func stubApp(t *testing.T, cfg *config.Config, table []procsnap.Sample) *App {
	t.Helper()
	resetAppDeps()
	loadConfig = func(string) (*config.Config, error) { return cfg, nil }
	snapshotTable = func(match string) ([]procsnap.Sample, error) {
		return append([]procsnap.Sample(nil), table...), nil
	}
	killProcess = func(int, syscall.Signal) error { return nil }
	t.Cleanup(resetAppDeps)
	return New(Options{})
}
