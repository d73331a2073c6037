package gmm

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/hashicorp/go-multierror"
)

// Config holds the construction and training parameters of a Model.
type Config struct {
	NFeatures   int     // dimensionality of every feature vector
	NComponents int     // initial number of mixture components
	Thresh      float64 // convergence threshold on the mean per-sample log-likelihood
	MinCovar    float64 // variance floor added to every re-estimated variance
	NIter       int     // maximum EM passes per Fit
}

// DefaultConfig returns the default model parameters.
func DefaultConfig() Config {
	return Config{
		NFeatures:   1,
		NComponents: 1,
		Thresh:      1e-3,
		MinCovar:    1e-3,
		NIter:       1,
	}
}

// Validate reports every out-of-range field. The returned error wraps
// ErrInvalidConfiguration.
func (c Config) Validate() error {
	var merr *multierror.Error
	if c.NFeatures <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("n_features must be positive, got %d", c.NFeatures))
	}
	if c.NComponents <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("n_components must be positive, got %d", c.NComponents))
	}
	if c.NIter <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("n_iter must be positive, got %d", c.NIter))
	}
	if !(c.Thresh > 0) {
		merr = multierror.Append(merr, fmt.Errorf("thresh must be positive, got %g", c.Thresh))
	}
	if !(c.MinCovar > 0) {
		merr = multierror.Append(merr, fmt.Errorf("min_covar must be positive, got %g", c.MinCovar))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

// Rand is the source of standard normal draws used by Mixup.
// *math/rand.Rand and *math/rand/v2.Rand both satisfy it.
type Rand interface {
	NormFloat64() float64
}

func newDefaultRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used by Fit. A nil logger disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		m.logger = l
	}
}

// WithRand sets the random source used to perturb means in Mixup.
func WithRand(r Rand) Option {
	return func(m *Model) {
		if r != nil {
			m.rng = r
		}
	}
}
