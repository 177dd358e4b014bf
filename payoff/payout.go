package payoff

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats are the path statistics every payoff is a function of.
type Stats struct {
	Terminal float64
	Min      float64
	Max      float64
	Mean     float64
}

// StatsOf computes the statistics of a sampled price sequence.
func StatsOf(prices []float64) Stats {
	return Stats{
		Terminal: prices[len(prices)-1],
		Min:      floats.Min(prices),
		Max:      floats.Max(prices),
		Mean:     stat.Mean(prices, nil),
	}
}

// Payout of the contract for a completed path.
func (c Contract) Payout(s Stats) float64 {
	switch c.Kind {
	case Vanilla:
		return c.intrinsic(s.Terminal)
	case Binary:
		if (c.Side == Call && s.Terminal > c.Strike) || (c.Side == Put && s.Terminal < c.Strike) {
			return c.Amount
		}
		return 0
	case FixedLookback:
		if c.Side == Call {
			return math.Max(s.Max-c.Strike, 0)
		}
		return math.Max(c.Strike-s.Min, 0)
	case FloatingLookback:
		if c.Side == Call {
			return math.Max(s.Terminal-s.Min, 0)
		}
		return math.Max(s.Max-s.Terminal, 0)
	case Barrier:
		if c.Touched(s) == (c.Knock == KnockIn) {
			return c.intrinsic(s.Terminal)
		}
		return 0
	case Asian:
		return c.intrinsic(s.Mean)
	}
	return math.NaN()
}

// Touched reports whether the sampled path reached the barrier. Crossings between
// samples are not seen.
func (c Contract) Touched(s Stats) bool {
	if c.Direction == Up {
		return s.Max >= c.Barrier
	}
	return s.Min <= c.Barrier
}

func (c Contract) intrinsic(x float64) float64 {
	if c.Side == Call {
		return math.Max(x-c.Strike, 0)
	}
	return math.Max(c.Strike-x, 0)
}
