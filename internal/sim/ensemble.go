package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs the same setup over consecutive seeds in parallel. Each run
// gets its own World, so runs share nothing.
type Ensemble struct {
	build     func(seed int64) (*Runner, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func(seed int64) (*Runner, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			r, err := e.build(e.seedStart + int64(i))
			if err != nil {
				return err
			}
			results[i], err = r.Run(ctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
