package payoff

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

var ErrNoConvergence = errors.New("implied volatility did not converge")

// ImpliedVol finds the volatility at which the contract's closed form matches price.
// The search runs on log volatility so the solver never leaves sigma > 0.
func ImpliedVol(c Contract, m Market, price float64) (float64, error) {
	if !(price > 0) || math.IsInf(price, 0) {
		return math.NaN(), fmt.Errorf("%w: target price %v must be positive", ErrInvalidMarket, price)
	}
	// fail early on contracts or markets that can never be priced
	probe := m
	probe.Sigma = 0.2
	if _, err := c.Price(probe); err != nil {
		return math.NaN(), err
	}

	loss := func(par []float64) float64 {
		mm := m
		mm.Sigma = math.Exp(par[0])
		p, err := c.Price(mm)
		if err != nil {
			return math.Inf(1)
		}
		return (p - price) * (p - price)
	}
	problem := optimize.Problem{Func: loss}
	res, err := optimize.Minimize(problem, []float64{math.Log(0.2)}, nil, &optimize.NelderMead{})
	if res == nil {
		return math.NaN(), fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	sigma := math.Exp(res.X[0])
	if math.Sqrt(loss(res.X)) > 1e-4*math.Max(price, 1) {
		return math.NaN(), fmt.Errorf("%w: best sigma %.6f misses target %v", ErrNoConvergence, sigma, price)
	}
	return sigma, nil
}
