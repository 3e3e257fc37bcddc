// Package reclaim deletes the target application's rebuildable on-disk
// caches. Deleting them is always safe: the application recreates the
// directories on next launch.
package reclaim

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"
)

// Outcome reports the result for one path.
type Outcome struct {
	Path    string
	Cleared bool // existed and was removed
	Err     error
}

// Reclaim recursively deletes each path. A missing path is not an error;
// a failed deletion (typically permissions) is reported in its Outcome
// and never aborts the other paths. Returns the number of directories
// actually cleared; running it twice in a row is a no-op the second time.
func Reclaim(ctx context.Context, paths []string) (int, []Outcome) {
	outcomes := make([]Outcome, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = reclaimOne(ctx, path)
			return nil
		})
	}
	// Workers never return errors; failures live in the outcomes.
	_ = g.Wait()

	cleared := 0
	for _, o := range outcomes {
		if o.Cleared {
			cleared++
		}
	}
	return cleared, outcomes
}

func reclaimOne(ctx context.Context, path string) Outcome {
	o := Outcome{Path: path}
	if err := ctx.Err(); err != nil {
		o.Err = err
		return o
	}
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return o
		}
		o.Err = err
		return o
	}
	if err := os.RemoveAll(path); err != nil {
		o.Err = err
		return o
	}
	o.Cleared = true
	return o
}
