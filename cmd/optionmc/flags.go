package main

import (
	"github.com/banachtech/optionmc/config"
	"github.com/banachtech/optionmc/util"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// simulationFlags registers the flags shared by price and converge.
func simulationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("codes", "o", "", "Option codes, e.g. CO,PO,XLPO. Known: CO, PO, FLCO, FLPO, XLCO, XLPO, BCO, BPO, ACO, APO, UOCO, UICO, DOPO, DIPO.")
	cmd.Flags().Int("steps", 0, "Number of price movements within each simulated path.")
	cmd.Flags().Float64("interval", 0, "Sample interval for discrete sampling.")
	cmd.Flags().Uint64("seed", 0, "Base seed. Zero draws one from the clock.")
	cmd.Flags().Int("workers", 0, "Goroutines pricing paths. Zero uses every CPU.")
}

// applySimulationFlags overrides cfg with the flags the user set.
func applySimulationFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("codes") {
		v, _ := flags.GetString("codes")
		cfg.Simulation.Codes = util.SplitList(v)
	}
	if flags.Changed("steps") {
		cfg.Simulation.Steps, _ = flags.GetInt("steps")
	}
	if flags.Changed("interval") {
		cfg.Simulation.Interval, _ = flags.GetFloat64("interval")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers, _ = flags.GetInt("workers")
	}
}

func seedOf(cfg *config.Config) uint64 {
	if cfg.Simulation.Seed != 0 {
		return cfg.Simulation.Seed
	}
	seed := util.RandomSeed()
	log.WithField("seed", seed).Info("no seed configured, drew one from the clock")
	return seed
}
