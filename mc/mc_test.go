package mc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testConfig() Config {
	return Config{Spot: 100, Sigma: 0.2, Drift: 0.05, Start: 0, Maturity: 1, Steps: 100}
}

func TestConfigValidate(t *testing.T) {
	type testCases struct {
		name   string
		modify func(c *Config)
		ok     bool
	}

	for _, test := range []testCases{
		{name: "VALID", modify: func(c *Config) {}, ok: true},
		{name: "ZERO_SIGMA", modify: func(c *Config) { c.Sigma = 0 }, ok: true},
		{name: "NEGATIVE_SIGMA", modify: func(c *Config) { c.Sigma = -0.1 }},
		{name: "ZERO_SPOT", modify: func(c *Config) { c.Spot = 0 }},
		{name: "NO_STEPS", modify: func(c *Config) { c.Steps = 0 }},
		{name: "MATURITY_BEFORE_START", modify: func(c *Config) { c.Start = 2 }},
		{name: "MATURITY_EQUALS_START", modify: func(c *Config) { c.Start = 1 }},
		{name: "NAN_DRIFT", modify: func(c *Config) { c.Drift = math.NaN() }},
	} {
		t.Run(test.name, func(t *testing.T) {
			c := testConfig()
			test.modify(&c)
			_, err := NewGBM(c)
			if test.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestGBMPath(t *testing.T) {
	cfg := testConfig()
	cfg.Start = 0.5
	cfg.Maturity = 1.5
	m, err := NewGBM(cfg)
	require.NoError(t, err)

	for seed := uint64(0); seed < 20; seed++ {
		p := m.Path(rand.NewSource(seed))
		require.Equal(t, cfg.Steps+1, p.Len())
		require.Len(t, p.Time, cfg.Steps+1)
		require.Equal(t, 0.5, p.Time[0])
		require.Equal(t, 100.0, p.Price[0])
		require.Equal(t, 1.5, p.Time[cfg.Steps])
		for i := 1; i < p.Len(); i++ {
			require.Greater(t, p.Time[i], p.Time[i-1])
		}
	}
}

func TestPathStats(t *testing.T) {
	p := Path{Time: []float64{0, 0.25, 0.5, 0.75, 1}, Price: []float64{100, 90, 120, 110, 105}}
	require.Equal(t, 5, p.Len())
	require.Equal(t, 105.0, p.Terminal())
	require.Equal(t, 90.0, p.Min())
	require.Equal(t, 120.0, p.Max())
	require.InDelta(t, 105.0, p.Mean(), 1e-12)

	flat := Path{Time: []float64{0}, Price: []float64{100}}
	require.Equal(t, 100.0, flat.Mean())
}

func TestGBMPathReproducible(t *testing.T) {
	m, err := NewGBM(testConfig())
	require.NoError(t, err)

	p1 := m.Path(rand.NewSource(11))
	p2 := m.Path(rand.NewSource(11))
	p3 := m.Path(rand.NewSource(12))
	require.Equal(t, p1.Price, p2.Price)
	require.NotEqual(t, p1.Price, p3.Price)
}

func TestGBMNoiseFree(t *testing.T) {
	cfg := testConfig()
	cfg.Sigma = 0
	cfg.Steps = 10
	m, err := NewGBM(cfg)
	require.NoError(t, err)

	p := m.Path(rand.NewSource(1))
	want := 100 * math.Pow(1+0.05*0.1, 10)
	require.InDelta(t, want, p.Terminal(), 1e-9)
	for i := 1; i < p.Len(); i++ {
		require.Greater(t, p.Price[i], p.Price[i-1])
	}
}

func TestGBMTerminalMean(t *testing.T) {
	m, err := NewGBM(testConfig())
	require.NoError(t, err)

	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += m.Path(rand.NewSource(uint64(i) + 1)).Terminal()
	}
	// E[S_T] = S0 * (1 + mu*dt)^n under the Euler scheme
	want := 100 * math.Pow(1+0.05*0.01, 100)
	require.InDelta(t, want, sum/float64(n), 0.6)
}

func TestResample(t *testing.T) {
	cfg := Config{Spot: 100, Sigma: 0.2, Start: 0, Maturity: 1, Steps: 8}
	m, err := NewGBM(cfg)
	require.NoError(t, err)
	p := m.Path(rand.NewSource(3))

	type testCases struct {
		name     string
		interval float64
		want     []float64
	}

	for _, test := range []testCases{
		{name: "NATIVE", interval: 0.125, want: p.Time},
		{name: "FINER", interval: 0.01, want: p.Time},
		{name: "DOUBLE", interval: 0.25, want: []float64{0, 0.25, 0.5, 0.75, 1}},
		{name: "OFF_GRID", interval: 0.3, want: []float64{0, 0.25, 0.5, 0.875, 1}},
		{name: "LONGER_THAN_PATH", interval: 5, want: []float64{0, 1}},
	} {
		t.Run(test.name, func(t *testing.T) {
			r, err := Resample(p, test.interval)
			require.NoError(t, err)
			require.Equal(t, test.want, r.Time)
			require.Equal(t, p.Price[0], r.Price[0])
			require.Equal(t, p.Terminal(), r.Terminal())
			// every kept value is an original sample at the same time
			for i, ti := range r.Time {
				j := int(math.Round(ti / 0.125))
				require.Equal(t, p.Price[j], r.Price[i])
			}
		})
	}
}

func TestResampleFinerIsIdentity(t *testing.T) {
	m, err := NewGBM(testConfig())
	require.NoError(t, err)
	p := m.Path(rand.NewSource(5))

	r, err := Resample(p, 1e-4)
	require.NoError(t, err)
	require.Equal(t, p.Price, r.Price)
	require.Equal(t, p.Time, r.Time)
}

func TestResampleInvalidInterval(t *testing.T) {
	m, err := NewGBM(testConfig())
	require.NoError(t, err)
	p := m.Path(rand.NewSource(5))

	for _, v := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		_, err := Resample(p, v)
		require.ErrorIs(t, err, ErrInvalidInterval)
	}
}

func TestSimulateBatch(t *testing.T) {
	m, err := NewGBM(testConfig())
	require.NoError(t, err)

	seed := func(i int) uint64 { return uint64(i) * 7 }
	b, err := Simulate(context.Background(), m, "test", 10, seed)
	require.NoError(t, err)
	require.Equal(t, 10, b.Len())
	require.Equal(t, "test", b.Name)
	for i, p := range b.Paths() {
		require.Equal(t, m.Path(rand.NewSource(seed(i))).Price, p.Price)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Simulate(ctx, m, "cancelled", 10, seed)
	require.ErrorIs(t, err, context.Canceled)
}
