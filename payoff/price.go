package payoff

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidMarket = errors.New("invalid market parameters")
	// ErrDegenerate marks inputs for which the closed form is undefined under the model.
	ErrDegenerate   = errors.New("closed form undefined under this model")
	ErrNoClosedForm = errors.New("no closed form for contract")
)

// Market holds the model parameters a closed form is evaluated at.
// RunningMin and RunningMax are the extremes observed so far for lookback
// contracts; zero means no history, i.e. the spot.
type Market struct {
	Spot       float64 `json:"spot"`
	Sigma      float64 `json:"sigma"`
	Rate       float64 `json:"rate"`
	Dividend   float64 `json:"dividend"`
	Tau        float64 `json:"time_to_maturity"`
	RunningMin float64 `json:"running_min,omitempty"`
	RunningMax float64 `json:"running_max,omitempty"`
}

func (m Market) min() float64 {
	if m.RunningMin == 0 {
		return m.Spot
	}
	return m.RunningMin
}

func (m Market) max() float64 {
	if m.RunningMax == 0 {
		return m.Spot
	}
	return m.RunningMax
}

func (m Market) validate() error {
	for _, v := range []float64{m.Spot, m.Sigma, m.Rate, m.Dividend, m.Tau, m.RunningMin, m.RunningMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite parameter", ErrInvalidMarket)
		}
	}
	switch {
	case m.Spot <= 0:
		return fmt.Errorf("%w: spot %v must be positive", ErrInvalidMarket, m.Spot)
	case m.Sigma < 0:
		return fmt.Errorf("%w: sigma %v must not be negative", ErrInvalidMarket, m.Sigma)
	case m.Tau < 0:
		return fmt.Errorf("%w: time to maturity %v must not be negative", ErrInvalidMarket, m.Tau)
	case m.min() <= 0 || m.min() > m.Spot:
		return fmt.Errorf("%w: running min %v must be in (0, spot]", ErrInvalidMarket, m.min())
	case m.max() < m.Spot:
		return fmt.Errorf("%w: running max %v must be at least spot", ErrInvalidMarket, m.max())
	}
	return nil
}

// Price computes the closed-form value of the contract under geometric Brownian
// motion. Barrier and Asian contracts have no closed form here and return
// ErrNoClosedForm. Whenever an error is returned the price is NaN.
func (c Contract) Price(m Market) (float64, error) {
	if err := c.Validate(); err != nil {
		return math.NaN(), err
	}
	if err := m.validate(); err != nil {
		return math.NaN(), err
	}
	if c.Kind == Barrier || c.Kind == Asian {
		return math.NaN(), fmt.Errorf("%w: %s", ErrNoClosedForm, c.Kind)
	}
	if m.Sigma*math.Sqrt(m.Tau) == 0 {
		return math.NaN(), fmt.Errorf("%w: sigma*sqrt(tau) is zero", ErrDegenerate)
	}

	switch c.Kind {
	case Vanilla:
		return bs(c.Side, m.Spot, c.Strike, m.Sigma, m.Tau, m.Dividend, m.Rate), nil
	case Binary:
		return c.Amount * digital(c.Side, m.Spot, c.Strike, m.Sigma, m.Tau, m.Dividend, m.Rate), nil
	case FixedLookback, FloatingLookback:
		if m.Rate-m.Dividend == 0 {
			return math.NaN(), fmt.Errorf("%w: lookback formula needs rate != dividend", ErrDegenerate)
		}
		if c.Kind == FixedLookback {
			return fixedLookback(c.Side, m.Spot, c.Strike, m.min(), m.max(), m.Sigma, m.Tau, m.Dividend, m.Rate), nil
		}
		return floatingLookback(c.Side, m.Spot, m.min(), m.max(), m.Sigma, m.Tau, m.Dividend, m.Rate), nil
	}
	return math.NaN(), fmt.Errorf("%w: %s", ErrNoClosedForm, c.Kind)
}

var norm = distuv.Normal{Mu: 0.0, Sigma: 1.0}

// black-scholes model
func bs(side Side, s, k, sigma, T, dy, r float64) float64 {
	x := sigma * math.Sqrt(T)
	d1 := (math.Log(s/k) + (r-dy+0.5*sigma*sigma)*T) / x
	d2 := d1 - x

	if side == Put {
		return -s*math.Exp(-dy*T)*norm.CDF(-d1) + k*math.Exp(-r*T)*norm.CDF(-d2)
	}
	return s*math.Exp(-dy*T)*norm.CDF(d1) - k*math.Exp(-r*T)*norm.CDF(d2)
}

// Discounted risk-neutral probability of finishing in the money, the value of a
// cash-or-nothing digital paying 1.
func digital(side Side, s, k, sigma, T, dy, r float64) float64 {
	d2 := (math.Log(s/k) + (r-dy-0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	if side == Put {
		return math.Exp(-r*T) * norm.CDF(-d2)
	}
	return math.Exp(-r*T) * norm.CDF(d2)
}
