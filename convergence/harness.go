package convergence

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"
	"github.com/banachtech/optionmc/util"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoReference = errors.New("reference price is not a number")
	ErrInvalidPlan = errors.New("invalid convergence plan")
)

// Plan describes one harness invocation.
type Plan struct {
	Name           string
	Contract       payoff.Contract
	Runs           int
	Simulations    []int
	Modes          []pricer.Mode
	Interval       float64
	Reference      float64
	Rate           float64
	TimeToMaturity float64
	Seed           uint64
	Workers        int
}

func (p Plan) validate() error {
	if math.IsNaN(p.Reference) || math.IsInf(p.Reference, 0) {
		return ErrNoReference
	}
	if p.Runs < 1 {
		return fmt.Errorf("%w: runs %d must be at least 1", ErrInvalidPlan, p.Runs)
	}
	if len(p.Simulations) == 0 || len(p.Modes) == 0 {
		return fmt.Errorf("%w: no simulation counts or sampling modes", ErrInvalidPlan)
	}
	for _, n := range p.Simulations {
		if n <= 0 {
			return fmt.Errorf("%w: %d", pricer.ErrInvalidPathCount, n)
		}
	}
	for _, m := range p.Modes {
		if m == pricer.Discrete && (!(p.Interval > 0) || math.IsInf(p.Interval, 0)) {
			return fmt.Errorf("%w: got %v", mc.ErrInvalidInterval, p.Interval)
		}
	}
	return p.Contract.Validate()
}

type options struct {
	log      *log.Entry
	progress func(done, total int)
}

type Option func(*options)

// WithLogger sets the entry run progress is logged to.
func WithLogger(l *log.Entry) Option {
	return func(o *options) { o.log = l }
}

// WithProgress registers a callback invoked after every pricing run.
func WithProgress(f func(done, total int)) Option {
	return func(o *options) { o.progress = f }
}

// Run prices the plan's contract Runs times for every simulation count and
// sampling mode and records each price against the reference. Runs of a group use
// seeds derived from (Seed, count index, mode, run) and are otherwise independent.
// If ctx is cancelled no further runs are started and the partial report is
// returned with the context error.
func Run(ctx context.Context, m mc.Model, plan Plan, opts ...Option) (*Report, error) {
	o := options{log: log.NewEntry(log.StandardLogger())}
	for _, opt := range opts {
		opt(&o)
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}

	rep := &Report{ID: uuid.New(), Name: plan.Name, Contract: plan.Contract, Reference: plan.Reference}
	total := plan.Runs * len(plan.Simulations) * len(plan.Modes)
	done := 0

	for si, n := range plan.Simulations {
		for _, mode := range plan.Modes {
			interval := 0.0
			if mode == pricer.Discrete {
				interval = plan.Interval
			}
			entry := o.log.WithFields(log.Fields{
				"contract": plan.Name,
				"paths":    n,
				"mode":     mode.String(),
			})
			entry.Info("running simulations")

			start := len(rep.Records)
			for run := 0; run < plan.Runs; run++ {
				if err := ctx.Err(); err != nil {
					rep.Summaries = summarise(rep.Records)
					return rep, err
				}
				req := pricer.Request{
					Contract:       plan.Contract,
					Paths:          n,
					Mode:           mode,
					Rate:           plan.Rate,
					TimeToMaturity: plan.TimeToMaturity,
					SampleInterval: interval,
					Seed:           util.Seed(plan.Seed, si, int(mode), run),
					Workers:        plan.Workers,
				}
				res, err := pricer.Price(ctx, m, req)
				if err != nil {
					rep.Summaries = summarise(rep.Records)
					return rep, fmt.Errorf("%s N=%d %s run %d: %w", plan.Name, n, mode, run, err)
				}
				rep.Records = append(rep.Records, Record{
					Run:         run,
					Simulations: n,
					Mode:        mode,
					Interval:    interval,
					Price:       res.Price,
					Reference:   plan.Reference,
					Error:       res.Price - plan.Reference,
				})
				done++
				if o.progress != nil {
					o.progress(done, total)
				}
				entry.Debugf("step %d/%d price %.4f", run+1, plan.Runs, res.Price)
			}

			s := summary(rep.Records[start:])
			entry.WithFields(log.Fields{
				"price":  s.PriceMean,
				"stddev": s.ErrorStdDev,
			}).Info("simulations done")
		}
	}
	rep.Summaries = summarise(rep.Records)
	return rep, nil
}
