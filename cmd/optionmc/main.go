package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/banachtech/optionmc/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "optionmc",
	Short: "Monte Carlo pricing of exotic options under geometric Brownian motion",
	Long: `optionmc prices vanilla, binary, lookback, barrier and Asian options by
Monte Carlo simulation and studies how the simulated price converges to the
closed-form price as the number of paths grows.`,
	SilenceUsage: true,
}

// loadConfig reads the config named by --config and applies --log-level.
func loadConfig(cmd *cobra.Command) *config.Config {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		log.Fatalf("error getting config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("error parsing log level: %v", err)
	}
	log.SetLevel(level)
	return cfg
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().String("config", "", "Path of a YAML config file. Defaults and OPTIONMC_* environment variables apply without one.")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error.")

	rootCmd.AddCommand(priceCmd(), convergeCmd(), serveCmd(), keysCmd())

	cobra.CheckErr(rootCmd.Execute())
}
