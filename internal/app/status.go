package app

// WatcherStatus represents current information about the detached watcher.
type WatcherStatus struct {
	Running bool
	PID     int
}

// Status reports whether a detached watcher is running and its PID.
func (a *App) Status() (WatcherStatus, error) {
	if !watcherRunning() {
		return WatcherStatus{Running: false}, nil
	}
	pid, err := watcherPID()
	if err != nil {
		return WatcherStatus{Running: true}, err
	}
	return WatcherStatus{Running: true, PID: pid}, nil
}

// StopWatcher attempts to stop the detached watcher.
func (a *App) StopWatcher(force bool) error {
	return stopWatcher(force)
}
