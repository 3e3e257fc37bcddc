package app

import (
	"context"
	"log"

	"codewarden/internal/reclaim"
)

// CleanResult reports one cache reclaim pass.
type CleanResult struct {
	Cleared  int
	Outcomes []reclaim.Outcome
}

// Clean deletes the configured cache directories. Failures are logged
// per path and never abort the pass.
func (a *App) Clean(ctx context.Context) (CleanResult, error) {
	cfg, err := a.Config()
	if err != nil {
		return CleanResult{}, err
	}

	cleared, outcomes := reclaim.Reclaim(ctx, cfg.CachePaths())
	for _, o := range outcomes {
		if o.Err != nil {
			log.Printf("reclaim %s failed: %v", o.Path, o.Err)
		}
	}
	return CleanResult{Cleared: cleared, Outcomes: outcomes}, nil
}
