package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Ensemble runs the same configuration under consecutive seeds in parallel.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
	logger    *slog.Logger
}

// NewEnsemble prepares numRuns runs seeded seedStart, seedStart+1, ...
// newMetrics is called once per run since metrics hold per-run state.
func NewEnsemble(base Config, numRuns int, seedStart int64, newMetrics func() []Metric, logger *slog.Logger) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart, metrics: newMetrics, logger: logger}
}

func (e *Ensemble) Run(ctx context.Context, frames int, interval time.Duration) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.base
			cfg.Seed = e.seedStart + int64(idx)

			s, err := New(cfg, e.logger)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			s.Start(ctx)
			results[idx], errs[idx] = s.Run(ctx, frames, interval)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
