package mc

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

var (
	ErrInvalidConfig   = errors.New("invalid simulation config")
	ErrInvalidInterval = errors.New("sample interval must be positive")
)

// Model interface to be satisfied by price process types.
type Model interface {
	// Compute one price path under the model, drawing noise from src only.
	Path(src rand.Source) Path
	// Simulation grid and initial state of the model.
	Config() Config
}

// Config holds the initial state and time grid of a simulation.
type Config struct {
	Spot     float64 `json:"spot" yaml:"spot"`
	Sigma    float64 `json:"sigma" yaml:"sigma"`
	Drift    float64 `json:"drift" yaml:"drift"`
	Start    float64 `json:"start" yaml:"start"`
	Maturity float64 `json:"maturity" yaml:"maturity"`
	Steps    int     `json:"steps" yaml:"steps"`
}

// Dt is the length of one simulation step.
func (c Config) Dt() float64 {
	return (c.Maturity - c.Start) / float64(c.Steps)
}

// Validate rejects configurations the simulator cannot integrate.
func (c Config) Validate() error {
	for _, v := range []float64{c.Spot, c.Sigma, c.Drift, c.Start, c.Maturity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite parameter", ErrInvalidConfig)
		}
	}
	switch {
	case c.Spot <= 0:
		return fmt.Errorf("%w: spot %v must be positive", ErrInvalidConfig, c.Spot)
	case c.Sigma < 0:
		return fmt.Errorf("%w: sigma %v must not be negative", ErrInvalidConfig, c.Sigma)
	case c.Steps < 1:
		return fmt.Errorf("%w: steps %d must be at least 1", ErrInvalidConfig, c.Steps)
	case !(c.Dt() > 0):
		return fmt.Errorf("%w: maturity %v must be after start %v", ErrInvalidConfig, c.Maturity, c.Start)
	}
	return nil
}

// Grid returns the n+1 sample times from start to maturity inclusive.
func (c Config) Grid() []float64 {
	dt := c.Dt()
	t := make([]float64, c.Steps+1)
	for i := range t {
		t[i] = c.Start + float64(i)*dt
	}
	t[c.Steps] = c.Maturity
	return t
}
