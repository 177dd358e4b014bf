package pricer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/util"

	"golang.org/x/exp/rand"
)

var (
	ErrInvalidPathCount = errors.New("path count must be positive")
	// ErrDegeneratePath is returned when a simulated price reaches zero or below,
	// where the model no longer describes a price.
	ErrDegeneratePath = errors.New("simulated price is not positive")
	ErrInvalidRequest = errors.New("invalid pricing request")
)

// Mode selects how a path is observed by the payoff.
type Mode int

const (
	// Continuous uses every simulated sample.
	Continuous Mode = iota
	// Discrete resamples the path every SampleInterval first.
	Discrete
)

func (m Mode) String() string {
	if m == Discrete {
		return "disc"
	}
	return "cont"
}

// ParseMode accepts the short names used in reports and config files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cont", "continuous":
		return Continuous, nil
	case "disc", "discrete":
		return Discrete, nil
	}
	return 0, fmt.Errorf("%w: unknown sampling mode %q", ErrInvalidRequest, s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Request describes one Monte Carlo pricing call.
type Request struct {
	Contract       payoff.Contract
	Paths          int
	Mode           Mode
	Rate           float64
	TimeToMaturity float64
	SampleInterval float64
	// Seed of the run. Path i draws from its own source seeded by util.Seed(Seed, i).
	Seed uint64
	// Workers bounds the number of goroutines; zero means GOMAXPROCS.
	Workers int
}

func (r Request) validate() error {
	if r.Paths <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPathCount, r.Paths)
	}
	if err := r.Contract.Validate(); err != nil {
		return err
	}
	if r.Mode != Continuous && r.Mode != Discrete {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidRequest, int(r.Mode))
	}
	if r.Mode == Discrete && (!(r.SampleInterval > 0) || math.IsInf(r.SampleInterval, 0)) {
		return fmt.Errorf("%w: got %v", mc.ErrInvalidInterval, r.SampleInterval)
	}
	if math.IsNaN(r.Rate) || math.IsInf(r.Rate, 0) || math.IsNaN(r.TimeToMaturity) || math.IsInf(r.TimeToMaturity, 0) {
		return fmt.Errorf("%w: non-finite rate or time to maturity", ErrInvalidRequest)
	}
	return nil
}

// Result of a pricing call.
type Result struct {
	Price float64 `json:"price"`
	Paths int     `json:"paths"`
}

// Evaluate the payoff of one path in the requested mode.
func payout(req Request, p mc.Path) (float64, error) {
	if p.Min() <= 0 {
		return math.NaN(), fmt.Errorf("%w: min price %v", ErrDegeneratePath, p.Min())
	}
	if req.Mode == Discrete {
		var err error
		p, err = mc.Resample(p, req.SampleInterval)
		if err != nil {
			return math.NaN(), err
		}
	}
	return req.Contract.Payout(payoff.StatsOf(p.Price)), nil
}

// Discounted mean of the payoffs, summed in path order.
func discount(req Request, x []float64) Result {
	out := 0.0
	for _, v := range x {
		out += v
	}
	price := out / float64(len(x)) / math.Exp(req.Rate*req.TimeToMaturity)
	return Result{Price: price, Paths: len(x)}
}

// Price runs req.Paths independent paths of model m, evaluates the contract on each
// and returns the discounted mean payoff. Paths are simulated concurrently; the
// result depends only on the model, the request and its seed, not on the number
// of workers.
func Price(ctx context.Context, m mc.Model, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{Price: math.NaN()}, err
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > req.Paths {
		workers = req.Paths
	}

	x := make([]float64, req.Paths)
	jobs := make(chan int, workers)
	errCh := make(chan error, workers)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(workers)
	// Compute path payouts concurrently
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := m.Path(rand.NewSource(util.Seed(req.Seed, i)))
				v, err := payout(req, path)
				if err != nil {
					errCh <- fmt.Errorf("path %d: %w", i, err)
					cancel()
					return
				}
				x[i] = v
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < req.Paths; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return Result{Price: math.NaN()}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{Price: math.NaN()}, err
	}
	return discount(req, x), nil
}

// Simulate a reusable batch of req.Paths paths with the same per-path seeds Price uses.
func Simulate(ctx context.Context, m mc.Model, name string, req Request) (*mc.Batch, error) {
	if req.Paths <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPathCount, req.Paths)
	}
	return mc.Simulate(ctx, m, name, req.Paths, func(i int) uint64 { return util.Seed(req.Seed, i) })
}

// Evaluate prices the contract on an existing batch. req.Paths and req.Seed are
// ignored; every path of the batch is used.
func Evaluate(b *mc.Batch, req Request) (Result, error) {
	req.Paths = b.Len()
	if err := req.validate(); err != nil {
		return Result{Price: math.NaN()}, err
	}
	x := make([]float64, b.Len())
	for i, p := range b.Paths() {
		v, err := payout(req, p)
		if err != nil {
			return Result{Price: math.NaN()}, fmt.Errorf("path %d: %w", i, err)
		}
		x[i] = v
	}
	return discount(req, x), nil
}
