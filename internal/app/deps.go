package app

import (
	"syscall"

	"codewarden/internal/config"
	"codewarden/internal/launch"
	"codewarden/internal/procsnap"
	"codewarden/internal/runfile"
)

// Seams for tests; production values are restored by resetAppDeps.
var (
	loadConfig     = config.Load
	snapshotTable  = procsnap.Snapshot
	killProcess    = syscall.Kill
	startTarget    = launch.Start
	watcherRunning = runfile.IsRunning
	watcherPID     = runfile.RunningPID
	stopWatcher    = runfile.StopRunning
)

func resetAppDeps() {
	loadConfig = config.Load
	snapshotTable = procsnap.Snapshot
	killProcess = syscall.Kill
	startTarget = launch.Start
	watcherRunning = runfile.IsRunning
	watcherPID = runfile.RunningPID
	stopWatcher = runfile.StopRunning
}
