package mc

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// GBM is geometric Brownian motion integrated with the Euler-Maruyama scheme.
type GBM struct {
	cfg  Config
	grid []float64
}

// Constructor for GBM. The config is validated here so Path never fails.
func NewGBM(cfg Config) (*GBM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GBM{cfg: cfg, grid: cfg.Grid()}, nil
}

func (m *GBM) Config() Config {
	return m.cfg
}

// Simulate a price path. Each step applies S(t+dt) = S(t) * (1 + mu*dt + sigma*sqrt(dt)*Z)
// with Z standard normal drawn from src.
func (m *GBM) Path(src rand.Source) Path {
	n := m.cfg.Steps
	dt := m.cfg.Dt()
	// Pre compute the constant part of each step
	a := 1.0 + m.cfg.Drift*dt
	b := m.cfg.Sigma * math.Sqrt(dt)

	d := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: src}
	s := make([]float64, n+1)
	s[0] = m.cfg.Spot
	for i := 0; i < n; i++ {
		s[i+1] = s[i] * (a + b*d.Rand())
	}
	return Path{Time: m.grid, Price: s}
}
