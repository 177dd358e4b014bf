package pricer

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// fixedModel returns the same path whatever the source.
type fixedModel struct {
	cfg   mc.Config
	price []float64
}

func (f fixedModel) Config() mc.Config { return f.cfg }

func (f fixedModel) Path(src rand.Source) mc.Path {
	return mc.Path{Time: f.cfg.Grid(), Price: f.price}
}

func newGBM(t *testing.T, steps int) *mc.GBM {
	t.Helper()
	m, err := mc.NewGBM(mc.Config{Spot: 100, Sigma: 0.2, Drift: 0.05, Start: 0, Maturity: 1, Steps: steps})
	require.NoError(t, err)
	return m
}

func contract(t *testing.T) func(payoff.Contract, error) payoff.Contract {
	return func(c payoff.Contract, err error) payoff.Contract {
		t.Helper()
		require.NoError(t, err)
		return c
	}
}

func TestPriceFixedPath(t *testing.T) {
	cfg := mc.Config{Spot: 100, Sigma: 0.2, Start: 0, Maturity: 1, Steps: 4}
	m := fixedModel{cfg: cfg, price: []float64{100, 140, 90, 110, 130}}

	type testCases struct {
		name     string
		c        payoff.Contract
		mode     Mode
		interval float64
		want     float64
	}

	for _, test := range []testCases{
		{name: "VANILLA", c: contract(t)(payoff.NewVanilla(payoff.Call, 120)), want: 10},
		{name: "FLOATING_CONT", c: contract(t)(payoff.NewFloatingLookback(payoff.Put)), want: 10},
		// observed at t=0, 0.5, 1 only: 100, 90, 130
		{name: "FLOATING_DISC", c: contract(t)(payoff.NewFloatingLookback(payoff.Put)), mode: Discrete, interval: 0.5, want: 0},
		{name: "FIXED_CALL_DISC", c: contract(t)(payoff.NewFixedLookback(payoff.Call, 120)), mode: Discrete, interval: 0.5, want: 10},
		{name: "FIXED_CALL_CONT", c: contract(t)(payoff.NewFixedLookback(payoff.Call, 120)), want: 20},
		{name: "BARRIER_CONT", c: contract(t)(payoff.NewBarrier(payoff.Call, 100, 135, payoff.Up, payoff.KnockOut)), want: 0},
		{name: "BARRIER_DISC", c: contract(t)(payoff.NewBarrier(payoff.Call, 100, 135, payoff.Up, payoff.KnockOut)), mode: Discrete, interval: 0.5, want: 30},
		{name: "ASIAN", c: contract(t)(payoff.NewAsian(payoff.Call, 100)), want: 14},
	} {
		t.Run(test.name, func(t *testing.T) {
			req := Request{Contract: test.c, Paths: 10, Mode: test.mode, SampleInterval: test.interval, Rate: 0.05, TimeToMaturity: 2}
			res, err := Price(context.Background(), m, req)
			require.NoError(t, err)
			require.Equal(t, 10, res.Paths)
			require.InDelta(t, test.want*math.Exp(-0.1), res.Price, 1e-12)
		})
	}
}

func TestPriceVanillaMatchesBlackScholes(t *testing.T) {
	c := contract(t)(payoff.NewVanilla(payoff.Call, 120))
	bs, err := c.Price(payoff.Market{Spot: 100, Sigma: 0.2, Rate: 0.05, Tau: 1})
	require.NoError(t, err)
	require.InDelta(t, 3.2475, bs, 1e-3)

	m := newGBM(t, 50)
	for seed := uint64(1); seed <= 3; seed++ {
		res, err := Price(context.Background(), m, Request{Contract: c, Paths: 100000, Rate: 0.05, TimeToMaturity: 1, Seed: seed})
		require.NoError(t, err)
		require.InDelta(t, bs, res.Price, 0.5)
	}
}

func TestPriceLookbackMatchesClosedForm(t *testing.T) {
	m := newGBM(t, 500)
	mkt := payoff.Market{Spot: 100, Sigma: 0.2, Rate: 0.05, Tau: 1}

	for _, c := range []payoff.Contract{
		contract(t)(payoff.NewFixedLookback(payoff.Call, 120)),
		contract(t)(payoff.NewFixedLookback(payoff.Put, 120)),
		contract(t)(payoff.NewFloatingLookback(payoff.Call)),
		contract(t)(payoff.NewFloatingLookback(payoff.Put)),
	} {
		t.Run(c.String(), func(t *testing.T) {
			want, err := c.Price(mkt)
			require.NoError(t, err)
			res, err := Price(context.Background(), m, Request{Contract: c, Paths: 20000, Rate: 0.05, TimeToMaturity: 1, Seed: 99})
			require.NoError(t, err)
			// sampled extremes are less extreme than continuous ones, so the estimate sits below
			require.Less(t, res.Price, want+0.3)
			require.Greater(t, res.Price, want-1.0)
		})
	}
}

func TestPriceDeterministic(t *testing.T) {
	m := newGBM(t, 100)
	c := contract(t)(payoff.NewFloatingLookback(payoff.Call))
	req := Request{Contract: c, Paths: 2000, Rate: 0.05, TimeToMaturity: 1, Seed: 7}

	var prices []float64
	for _, w := range []int{1, 3, 16} {
		req.Workers = w
		res, err := Price(context.Background(), m, req)
		require.NoError(t, err)
		prices = append(prices, res.Price)
	}
	require.Equal(t, prices[0], prices[1])
	require.Equal(t, prices[0], prices[2])

	req.Seed = 8
	res, err := Price(context.Background(), m, req)
	require.NoError(t, err)
	require.NotEqual(t, prices[0], res.Price)
}

func TestPriceSamplingModes(t *testing.T) {
	m := newGBM(t, 100)
	req := Request{Paths: 500, Rate: 0.05, TimeToMaturity: 1, Seed: 3}

	// terminal price is always kept, so a vanilla does not see the sampling
	req.Contract = contract(t)(payoff.NewVanilla(payoff.Put, 110))
	cont, err := Price(context.Background(), m, req)
	require.NoError(t, err)
	req.Mode, req.SampleInterval = Discrete, 0.1
	disc, err := Price(context.Background(), m, req)
	require.NoError(t, err)
	require.Equal(t, cont.Price, disc.Price)

	// an interval finer than the grid keeps every sample
	req.Contract = contract(t)(payoff.NewFixedLookback(payoff.Call, 100))
	req.Mode = Continuous
	cont, err = Price(context.Background(), m, req)
	require.NoError(t, err)
	req.Mode, req.SampleInterval = Discrete, 0.001
	fine, err := Price(context.Background(), m, req)
	require.NoError(t, err)
	require.Equal(t, cont.Price, fine.Price)

	// coarser monitoring can only lower a fixed lookback call
	req.SampleInterval = 0.1
	coarse, err := Price(context.Background(), m, req)
	require.NoError(t, err)
	require.LessOrEqual(t, coarse.Price, cont.Price)
}

func TestPriceErrors(t *testing.T) {
	m := newGBM(t, 10)
	c := contract(t)(payoff.NewVanilla(payoff.Call, 100))

	_, err := Price(context.Background(), m, Request{Contract: c, Paths: 0})
	require.ErrorIs(t, err, ErrInvalidPathCount)

	_, err = Price(context.Background(), m, Request{Contract: c, Paths: 10, Mode: Discrete})
	require.ErrorIs(t, err, mc.ErrInvalidInterval)

	_, err = Price(context.Background(), m, Request{Contract: payoff.Contract{Kind: payoff.Vanilla}, Paths: 10})
	require.ErrorIs(t, err, payoff.ErrInvalidContract)

	bad := fixedModel{cfg: mc.Config{Spot: 100, Start: 0, Maturity: 1, Steps: 2}, price: []float64{100, -5, 10}}
	res, err := Price(context.Background(), bad, Request{Contract: c, Paths: 10})
	require.ErrorIs(t, err, ErrDegeneratePath)
	require.True(t, math.IsNaN(res.Price))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Price(ctx, m, Request{Contract: c, Paths: 100000})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateBatch(t *testing.T) {
	m := newGBM(t, 100)
	req := Request{Contract: contract(t)(payoff.NewFixedLookback(payoff.Put, 100)), Paths: 300, Rate: 0.05, TimeToMaturity: 1, Seed: 21}

	b, err := Simulate(context.Background(), m, "batch", req)
	require.NoError(t, err)
	require.Equal(t, 300, b.Len())

	streamed, err := Price(context.Background(), m, req)
	require.NoError(t, err)
	reused, err := Evaluate(b, req)
	require.NoError(t, err)
	require.Equal(t, streamed, reused)

	req.Mode, req.SampleInterval = Discrete, 0.25
	disc, err := Evaluate(b, req)
	require.NoError(t, err)
	require.LessOrEqual(t, disc.Price, reused.Price)

	req.SampleInterval = 0
	_, err = Evaluate(b, req)
	require.ErrorIs(t, err, mc.ErrInvalidInterval)
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"cont": Continuous, "continuous": Continuous, "disc": Discrete, "discrete": Discrete} {
		got, err := ParseMode(s)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.NotEmpty(t, got.String())
	}
	_, err := ParseMode("weekly")
	require.ErrorIs(t, err, ErrInvalidRequest)

	var m Mode
	require.NoError(t, json.Unmarshal([]byte(`"DISC"`), &m))
	require.Equal(t, Discrete, m)
	b, err := json.Marshal(struct {
		Mode Mode `json:"mode"`
	}{Continuous})
	require.NoError(t, err)
	require.JSONEq(t, `{"mode":"cont"}`, string(b))
}
