package payoff

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustContract(t *testing.T) func(Contract, error) Contract {
	return func(c Contract, err error) Contract {
		t.Helper()
		require.NoError(t, err)
		return c
	}
}

func TestNewContract(t *testing.T) {
	type testCases struct {
		name  string
		build func() (Contract, error)
		ok    bool
	}

	for _, test := range []testCases{
		{name: "VANILLA", build: func() (Contract, error) { return NewVanilla(Call, 120) }, ok: true},
		{name: "VANILLA_ZERO_STRIKE", build: func() (Contract, error) { return NewVanilla(Put, 0) }},
		{name: "BINARY", build: func() (Contract, error) { return NewBinary(Call, 120, 100) }, ok: true},
		{name: "BINARY_NO_AMOUNT", build: func() (Contract, error) { return NewBinary(Call, 120, 0) }},
		{name: "FLOATING_NO_STRIKE", build: func() (Contract, error) { return NewFloatingLookback(Put) }, ok: true},
		{name: "FIXED_NAN_STRIKE", build: func() (Contract, error) { return NewFixedLookback(Call, math.NaN()) }},
		{name: "BARRIER", build: func() (Contract, error) { return NewBarrier(Call, 100, 130, Up, KnockOut) }, ok: true},
		{name: "BARRIER_NO_LEVEL", build: func() (Contract, error) { return NewBarrier(Call, 100, 0, Up, KnockOut) }},
		{name: "BARRIER_BAD_KNOCK", build: func() (Contract, error) { return NewBarrier(Call, 100, 130, Up, Knock(5)) }},
		{name: "ASIAN", build: func() (Contract, error) { return NewAsian(Put, 100) }, ok: true},
		{name: "BAD_SIDE", build: func() (Contract, error) { return NewAsian(Side(2), 100) }},
	} {
		t.Run(test.name, func(t *testing.T) {
			c, err := test.build()
			if test.ok {
				require.NoError(t, err)
				require.NotEmpty(t, c.String())
			} else {
				require.ErrorIs(t, err, ErrInvalidContract)
			}
		})
	}
}

func TestStatsOf(t *testing.T) {
	s := StatsOf([]float64{100, 90, 120, 110})
	require.Equal(t, Stats{Terminal: 110, Min: 90, Max: 120, Mean: 105}, s)
}

func TestVanillaPutCallParity(t *testing.T) {
	call := mustContract(t)(NewVanilla(Call, 120))
	put := mustContract(t)(NewVanilla(Put, 120))

	for s := 0.0; s <= 250; s += 2.5 {
		st := Stats{Terminal: s, Min: s, Max: s, Mean: s}
		c, p := call.Payout(st), put.Payout(st)
		require.GreaterOrEqual(t, c, 0.0)
		require.GreaterOrEqual(t, p, 0.0)
		require.InDelta(t, s-120, c-p, 1e-12)
	}
}

func TestBinaryPayout(t *testing.T) {
	call := mustContract(t)(NewBinary(Call, 120, 100))
	put := mustContract(t)(NewBinary(Put, 120, 100))

	for s := 50.0; s <= 200; s += 0.5 {
		st := Stats{Terminal: s}
		for _, c := range []Contract{call, put} {
			x := c.Payout(st)
			require.True(t, x == 0 || x == 100, "payout %v at %v", x, s)
		}
	}
	require.Equal(t, 0.0, call.Payout(Stats{Terminal: 120}))
	require.Equal(t, 0.0, put.Payout(Stats{Terminal: 120}))
	require.Equal(t, 100.0, call.Payout(Stats{Terminal: 120.01}))
	require.Equal(t, 100.0, put.Payout(Stats{Terminal: 119.99}))
}

func TestLookbackAndAsianPayout(t *testing.T) {
	st := Stats{Terminal: 105, Min: 80, Max: 130, Mean: 102}

	type testCases struct {
		name string
		c    Contract
		want float64
	}

	for _, test := range []testCases{
		{name: "FIXED_CALL", c: mustContract(t)(NewFixedLookback(Call, 120)), want: 10},
		{name: "FIXED_PUT", c: mustContract(t)(NewFixedLookback(Put, 120)), want: 40},
		{name: "FIXED_CALL_OTM", c: mustContract(t)(NewFixedLookback(Call, 140)), want: 0},
		{name: "FLOATING_CALL", c: mustContract(t)(NewFloatingLookback(Call)), want: 25},
		{name: "FLOATING_PUT", c: mustContract(t)(NewFloatingLookback(Put)), want: 25},
		{name: "ASIAN_CALL", c: mustContract(t)(NewAsian(Call, 100)), want: 2},
		{name: "ASIAN_PUT", c: mustContract(t)(NewAsian(Put, 100)), want: 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, test.c.Payout(st))
		})
	}
}

func TestBarrierPayout(t *testing.T) {
	type testCases struct {
		name string
		c    Contract
		st   Stats
		want float64
	}

	upOut := mustContract(t)(NewBarrier(Call, 100, 130, Up, KnockOut))
	upIn := mustContract(t)(NewBarrier(Call, 100, 130, Up, KnockIn))
	downOut := mustContract(t)(NewBarrier(Put, 100, 80, Down, KnockOut))
	downIn := mustContract(t)(NewBarrier(Put, 100, 80, Down, KnockIn))

	for _, test := range []testCases{
		{name: "UP_OUT_ALIVE", c: upOut, st: Stats{Terminal: 120, Min: 95, Max: 129}, want: 20},
		{name: "UP_OUT_KNOCKED", c: upOut, st: Stats{Terminal: 120, Min: 95, Max: 131}, want: 0},
		{name: "UP_OUT_TOUCH", c: upOut, st: Stats{Terminal: 120, Min: 95, Max: 130}, want: 0},
		{name: "UP_IN_NOT_TOUCHED", c: upIn, st: Stats{Terminal: 120, Min: 95, Max: 129}, want: 0},
		{name: "UP_IN_TOUCHED", c: upIn, st: Stats{Terminal: 120, Min: 95, Max: 130}, want: 20},
		{name: "DOWN_OUT_ALIVE", c: downOut, st: Stats{Terminal: 90, Min: 81, Max: 110}, want: 10},
		{name: "DOWN_OUT_KNOCKED", c: downOut, st: Stats{Terminal: 90, Min: 79, Max: 110}, want: 0},
		{name: "DOWN_IN_TOUCHED", c: downIn, st: Stats{Terminal: 90, Min: 80, Max: 110}, want: 10},
		{name: "DOWN_IN_OTM", c: downIn, st: Stats{Terminal: 105, Min: 70, Max: 110}, want: 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, test.c.Payout(test.st))
		})
	}
}

func TestBarrierKnockedOutAboveBarrier(t *testing.T) {
	c := mustContract(t)(NewBarrier(Call, 100, 130, Up, KnockOut))
	for s := 0.0; s < 300; s += 5 {
		require.Equal(t, 0.0, c.Payout(Stats{Terminal: s, Min: math.Min(s, 90), Max: 130.5}))
	}
}

func TestBarrierInOutParity(t *testing.T) {
	vanilla := mustContract(t)(NewVanilla(Call, 100))
	for _, dir := range []Direction{Up, Down} {
		in := mustContract(t)(NewBarrier(Call, 100, 110, dir, KnockIn))
		out := mustContract(t)(NewBarrier(Call, 100, 110, dir, KnockOut))
		for _, st := range []Stats{
			{Terminal: 120, Min: 95, Max: 125},
			{Terminal: 105, Min: 100, Max: 108},
			{Terminal: 90, Min: 85, Max: 115},
		} {
			require.Equal(t, vanilla.Payout(st), in.Payout(st)+out.Payout(st))
		}
	}
}

func TestContractJSON(t *testing.T) {
	c, err := NewBarrier(Put, 120, 80, Down, KnockIn)
	require.NoError(t, err)
	require.Equal(t, "barrier down-and-in put K=120 B=80", c.String())

	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"barrier","side":"put","strike":120,"barrier":80,"direction":"down","knock":"in"}`, string(b))

	var got Contract
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, c, got)

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"floating_lookback","side":"CALL"}`), &got))
	require.Equal(t, Contract{Kind: FloatingLookback, Side: Call}, got)

	for _, body := range []string{
		`{"kind":"bermudan","side":"call"}`,
		`{"kind":"vanilla","side":"straddle"}`,
		`{"kind":"barrier","side":"call","direction":"sideways"}`,
		`{"kind":"barrier","side":"call","knock":"maybe"}`,
	} {
		require.ErrorIs(t, json.Unmarshal([]byte(body), &got), ErrInvalidContract, body)
	}
}
