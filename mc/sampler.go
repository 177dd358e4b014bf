package mc

import (
	"fmt"
	"math"
)

// Resample reduces a path to the samples seen by an observer who looks every
// interval time units. A virtual clock starts at the first sample time; sample i
// is kept when the clock lies in [t_i, t_i+1), after which the clock moves on by
// whole intervals until it passes t_i+1. The final sample is always kept.
// No values are interpolated, and an interval finer than the path's own spacing
// keeps every sample.
func Resample(p Path, interval float64) (Path, error) {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return Path{}, fmt.Errorf("%w: got %v", ErrInvalidInterval, interval)
	}
	n := p.Len()
	if n == 0 {
		return p, nil
	}

	t0 := p.Time[0]
	k := 0
	clock := t0
	var ts, ps []float64
	for i := 0; i < n-1; i++ {
		if clock < p.Time[i] || clock >= p.Time[i+1] {
			continue
		}
		ts = append(ts, p.Time[i])
		ps = append(ps, p.Price[i])
		for clock < p.Time[i+1] {
			k++
			// multiply instead of accumulating to keep the clock on its lattice
			clock = t0 + float64(k)*interval
		}
	}
	ts = append(ts, p.Time[n-1])
	ps = append(ps, p.Price[n-1])
	return Path{Time: ts, Price: ps}, nil
}
