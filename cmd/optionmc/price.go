package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"
	"github.com/banachtech/optionmc/util"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func priceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price the selected options once and compare with the closed form",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig(cmd)
			applySimulationFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				log.Fatalf("error validating flags: %v", err)
			}

			paths, err := cmd.Flags().GetInt("paths")
			if err != nil {
				log.Fatalf("error getting paths: %v", err)
			}
			products, err := cfg.Products(cfg.Simulation.Codes)
			if err != nil {
				log.Fatalf("error selecting options: %v", err)
			}
			modes, err := cfg.SamplingModes()
			if err != nil {
				log.Fatalf("error parsing modes: %v", err)
			}
			model, err := mc.NewGBM(cfg.Model())
			if err != nil {
				log.Fatalf("error building model: %v", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			seed := seedOf(cfg)
			mkt := cfg.PricingMarket()

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Code", "Option", "Sampling", "Paths", "Monte Carlo", "Closed form", "Error"})
			table.SetAlignment(tablewriter.ALIGN_RIGHT)

			for i, p := range products {
				analytic, aerr := p.Contract.Price(mkt)
				if aerr != nil && !errors.Is(aerr, payoff.ErrNoClosedForm) {
					log.WithField("contract", p.Name).Warnf("no closed form price: %v", aerr)
				}
				// Both sampling modes see the same paths.
				batch, err := pricer.Simulate(ctx, model, p.Code, pricer.Request{Paths: paths, Seed: util.Seed(seed, i)})
				if err != nil {
					log.Fatalf("error simulating %s: %v", p.Name, err)
				}
				for _, mode := range modes {
					interval := 0.0
					if mode == pricer.Discrete {
						interval = cfg.Simulation.Interval
					}
					res, err := pricer.Evaluate(batch, pricer.Request{
						Contract:       p.Contract,
						Mode:           mode,
						Rate:           mkt.Rate,
						TimeToMaturity: mkt.Tau,
						SampleInterval: interval,
					})
					if err != nil {
						log.Fatalf("error pricing %s: %v", p.Name, err)
					}

					closed, diff := "n/a", "n/a"
					if aerr == nil {
						closed = fmt.Sprintf("%.4f", analytic)
						diff = fmt.Sprintf("%.4f", res.Price-analytic)
					}
					table.Append([]string{p.Code, p.Name, mode.String(), fmt.Sprintf("%d", res.Paths), fmt.Sprintf("%.4f", res.Price), closed, diff})
				}
			}
			table.Render()
		},
	}
	simulationFlags(cmd)
	cmd.Flags().IntP("paths", "n", 10000, "Number of simulated paths.")
	return cmd
}
