// Package procsnap takes point-in-time snapshots of the OS process table,
// narrowed to processes whose command line contains a target substring.
package procsnap

import "sort"

// Sample is one process observed during a snapshot. Samples are rebuilt on
// every snapshot and never persisted.
type Sample struct {
	PID        int
	Command    string
	CPUPercent float64
	MemPercent float64
}

// Snapshot returns all matching processes, sorted by PID asc so downstream
// consumers see a stable order regardless of how the table was walked.
func Snapshot(match string) ([]Sample, error) {
	samples, err := snapshotOS(match)
	if err != nil {
		return nil, err
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].PID < samples[j].PID })
	return samples, nil
}

// SortByCPU orders samples by CPU desc, PID asc as tiebreak. Used by the
// scan/tui views; the watchdog itself keeps PID order.
func SortByCPU(samples []Sample) {
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].CPUPercent != samples[j].CPUPercent {
			return samples[i].CPUPercent > samples[j].CPUPercent
		}
		return samples[i].PID < samples[j].PID
	})
}
