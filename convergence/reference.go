package convergence

import (
	"context"
	"errors"
	"fmt"

	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"
)

// Reference returns the price errors are measured against: the closed form when
// the contract has one, otherwise a continuous-sampling Monte Carlo price over
// paths paths. analytic reports which of the two was used.
func Reference(ctx context.Context, m mc.Model, c payoff.Contract, mkt payoff.Market, paths int, seed uint64, workers int) (price float64, analytic bool, err error) {
	price, err = c.Price(mkt)
	if err == nil {
		return price, true, nil
	}
	if !errors.Is(err, payoff.ErrNoClosedForm) {
		return price, false, err
	}

	res, err := pricer.Price(ctx, m, pricer.Request{
		Contract:       c,
		Paths:          paths,
		Mode:           pricer.Continuous,
		Rate:           mkt.Rate,
		TimeToMaturity: mkt.Tau,
		Seed:           seed,
		Workers:        workers,
	})
	if err != nil {
		return res.Price, false, fmt.Errorf("reference price: %w", err)
	}
	return res.Price, false, nil
}
