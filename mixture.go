// Package mixture trains diagonal Gaussian mixture models by growing them
// one split at a time: fit, split the heaviest component, refit, until the
// requested number of components is reached.
package mixture

import (
	"context"
	"fmt"
	"math"

	"github.com/ieee0824/mixture/gmm"
)

// Round records one fit of the schedule.
type Round struct {
	Components int       // component count during the round
	LogProbs   []float64 // mean log-likelihood per EM iteration
}

// FinalLogProb returns the last mean log-likelihood of the round, or -Inf if
// the round ran no iteration.
func (r Round) FinalLogProb() float64 {
	if len(r.LogProbs) == 0 {
		return math.Inf(-1)
	}
	return r.LogProbs[len(r.LogProbs)-1]
}

// Result is the outcome of Train.
type Result struct {
	Model  *gmm.Model
	Rounds []Round
}

// Trainer runs the grow-and-refit schedule.
type Trainer struct {
	cfg    gmm.Config
	target int // final number of components
	step   int // components added per round
	logger *Logger
	rng    gmm.Rand
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger. Per-iteration records are emitted at Debug.
func WithLogger(l *Logger) Option {
	return func(t *Trainer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithRand sets the random source used when splitting components.
func WithRand(r gmm.Rand) Option {
	return func(t *Trainer) {
		t.rng = r
	}
}

// WithSchedule grows the model to target components, adding at most step
// components per round.
func WithSchedule(target, step int) Option {
	return func(t *Trainer) {
		t.target = target
		t.step = step
	}
}

// NewTrainer creates a Trainer. cfg.NIter bounds the EM passes of every
// round. Without WithSchedule the model keeps cfg.NComponents components.
func NewTrainer(cfg gmm.Config, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Trainer{
		cfg:    cfg,
		target: cfg.NComponents,
		step:   1,
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.step <= 0 {
		return nil, fmt.Errorf("%w: schedule step must be positive, got %d", gmm.ErrInvalidConfiguration, t.step)
	}
	if t.target < cfg.NComponents {
		return nil, fmt.Errorf("%w: target of %d components is below the initial %d", gmm.ErrInvalidConfiguration, t.target, cfg.NComponents)
	}
	return t, nil
}

// Train creates a model from the trainer's config and runs the schedule.
func (t *Trainer) Train(ctx context.Context, ds gmm.Dataset) (*Result, error) {
	opts := []gmm.Option{gmm.WithLogger(t.logger.Logger)}
	if t.rng != nil {
		opts = append(opts, gmm.WithRand(t.rng))
	}
	m, err := gmm.New(t.cfg, opts...)
	if err != nil {
		return nil, err
	}
	return t.Grow(ctx, m, ds)
}

// Grow fits m, then alternates Mixup and Fit until m has the target number
// of components. m keeps its own NIter. The context is checked between
// rounds only; a running Fit is never interrupted.
func (t *Trainer) Grow(ctx context.Context, m *gmm.Model, ds gmm.Dataset) (*Result, error) {
	if t.rng != nil {
		m.SetRand(t.rng)
	}
	res := &Result{Model: m}

	fit := func() error {
		round := Round{Components: m.NComponents()}
		err := m.Fit(ds)
		round.LogProbs = m.LogProbs()
		t.logger.WithComponents(m.NComponents()).LogRound(ctx, len(res.Rounds), round, err)
		if err != nil {
			return err
		}
		res.Rounds = append(res.Rounds, round)
		return nil
	}

	if err := fit(); err != nil {
		return nil, err
	}
	for m.NComponents() < t.target {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := m.Mixup(min(t.step, t.target-m.NComponents())); err != nil {
			return nil, err
		}
		if err := fit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
