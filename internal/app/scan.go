package app

import (
	"context"

	"codewarden/internal/procsnap"
	"codewarden/internal/watch"
)

// Row is one classified process in a scan.
type Row struct {
	Sample    procsnap.Sample
	Role      watch.Role
	Protected bool
}

// Scan snapshots the target's process tree and classifies every process
// without taking any action. Rows come back sorted by CPU desc.
func (a *App) Scan(ctx context.Context) ([]Row, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples, err := snapshotTable(cfg.Target.Match)
	if err != nil {
		return nil, err
	}
	procsnap.SortByCPU(samples)

	rows := make([]Row, 0, len(samples))
	for _, s := range samples {
		role := watch.Classify(s.Command)
		rows = append(rows, Row{
			Sample:    s,
			Role:      role,
			Protected: policy.Protected(role),
		})
	}
	return rows, nil
}
