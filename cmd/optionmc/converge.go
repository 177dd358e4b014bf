package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banachtech/optionmc/config"
	"github.com/banachtech/optionmc/convergence"
	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/report"
	"github.com/banachtech/optionmc/util"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func convergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Run the convergence study and write CSV reports",
		Long: `converge prices every selected option runs times for every simulation count
and sampling mode, and records the error against the closed-form price (or a
high-path Monte Carlo price for options without one). Results are appended to
<output>/<code>.csv; error histograms go to <output>/<code>-<runs>-<N>-<mode>.csv.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)
			applySimulationFlags(cmd, cfg)
			flags := cmd.Flags()
			if flags.Changed("runs") {
				cfg.Simulation.Runs, _ = flags.GetInt("runs")
			}
			if flags.Changed("simulations") {
				v, _ := flags.GetString("simulations")
				sims, err := util.ParseInts(v)
				if err != nil {
					log.Fatalf("error parsing simulations: %v", err)
				}
				cfg.Simulation.Simulations = sims
			}
			if flags.Changed("output") {
				cfg.Output.Dir, _ = flags.GetString("output")
			}
			if flags.Changed("no-histogram") {
				noHist, _ := flags.GetBool("no-histogram")
				cfg.Output.Histogram = !noHist
			}
			if err := cfg.Validate(); err != nil {
				log.Fatalf("error validating flags: %v", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			if err := converge(ctx, cfg); err != nil {
				log.Fatalf("error running convergence: %v", err)
			}
		},
	}
	simulationFlags(cmd)
	cmd.Flags().IntP("runs", "r", 0, "Simulation runs per simulation count and sampling mode.")
	cmd.Flags().StringP("simulations", "n", "", "Comma separated simulation counts, e.g. 100,1000,10000.")
	cmd.Flags().String("output", "", "Directory the CSV files are written to.")
	cmd.Flags().Bool("no-histogram", false, "Skip writing error histograms.")
	return cmd
}

func converge(ctx context.Context, cfg *config.Config) error {
	products, err := cfg.Products(cfg.Simulation.Codes)
	if err != nil {
		return err
	}
	modes, err := cfg.SamplingModes()
	if err != nil {
		return err
	}
	model, err := mc.NewGBM(cfg.Model())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	seed := seedOf(cfg)
	mkt := cfg.PricingMarket()
	sim := cfg.Simulation

	for i, p := range products {
		entry := log.WithFields(log.Fields{"contract": p.Name, "code": p.Code})

		ref, analytic, err := convergence.Reference(ctx, model, p.Contract, mkt, sim.ReferencePaths, util.Seed(seed, i, -1), sim.Workers)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		entry.WithFields(log.Fields{"reference": ref, "analytic": analytic}).Info("reference price")

		plan := convergence.Plan{
			Name:           p.Name,
			Contract:       p.Contract,
			Runs:           sim.Runs,
			Simulations:    sim.Simulations,
			Modes:          modes,
			Interval:       sim.Interval,
			Reference:      ref,
			Rate:           mkt.Rate,
			TimeToMaturity: mkt.Tau,
			Seed:           util.Seed(seed, i),
			Workers:        sim.Workers,
		}

		bar := progressBar(sim.Runs * len(sim.Simulations) * len(modes))
		bar.Describe(p.Code)
		rep, runErr := convergence.Run(ctx, model, plan,
			convergence.WithLogger(entry),
			convergence.WithProgress(func(done, total int) { _ = bar.Set(done) }))
		_ = bar.Finish()
		if rep == nil {
			return runErr
		}

		// partial reports are still written when the run was interrupted
		if err := write(cfg, p, rep); err != nil {
			return err
		}
		if runErr != nil {
			return runErr
		}
	}
	return nil
}

func write(cfg *config.Config, p config.Product, rep *convergence.Report) error {
	csvPath := filepath.Join(cfg.Output.Dir, p.Code+".csv")
	if err := report.AppendFile(csvPath, p.Name, report.Rows(rep, cfg.Simulation.Steps)); err != nil {
		return err
	}
	log.WithFields(log.Fields{"file": csvPath, "report": rep.ID}).Info("results written")

	report.Table(os.Stdout, rep)

	if !cfg.Output.Histogram {
		return nil
	}
	for _, s := range rep.Summaries {
		if s.Runs < 2 {
			continue
		}
		path := filepath.Join(cfg.Output.Dir, report.HistogramName(p.Code, s))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		err = report.WriteHistogram(f, rep, s)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
