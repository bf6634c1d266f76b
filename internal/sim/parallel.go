package sim

import (
	"context"

	"github.com/san-kum/dpend/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Member is one independently configured simulation in an Ensemble.
type Member struct {
	Params   dynamo.Params
	Initial  InitialConditions
	StepSize float64
}

// Ensemble runs members concurrently, each on its own Simulator.
type Ensemble struct {
	members []Member
	workers int
	newStep func() dynamo.Stepper
	metrics func(idx int) []Metric
}

func NewEnsemble(members []Member, workers int, newStepper func() dynamo.Stepper) *Ensemble {
	return &Ensemble{members: members, workers: workers, newStep: newStepper}
}

// WithMetrics sets a factory for per-member metrics.
func (e *Ensemble) WithMetrics(fn func(idx int) []Metric) *Ensemble {
	e.metrics = fn
	return e
}

// Run returns one result per member, in member order. The first failing
// member cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	if err := validateRun(cfg); err != nil {
		return nil, err
	}

	results := make([]*Result, len(e.members))
	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	for i, m := range e.members {
		g.Go(func() error {
			s, err := New(m.Params, e.newStep())
			if err != nil {
				return err
			}
			if m.StepSize > 0 {
				if err := s.SetStepSize(m.StepSize); err != nil {
					return err
				}
			}
			if err := s.apply(m.Initial); err != nil {
				return err
			}
			if e.metrics != nil {
				for _, metric := range e.metrics(i) {
					s.AddMetric(metric)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
