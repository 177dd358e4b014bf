package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"
	"github.com/banachtech/optionmc/util"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. OPTIONMC_SIGMA.
const EnvPrefix = "OPTIONMC_"

var ErrInvalidConfig = errors.New("invalid configuration")

type MarketConfig struct {
	Rate     float64 `yaml:"rate"`
	Spot     float64 `yaml:"spot"`
	Sigma    float64 `yaml:"sigma"`
	Dividend float64 `yaml:"dividend"`
}

type ContractConfig struct {
	Strike       float64 `yaml:"strike"`
	BinaryPayoff float64 `yaml:"binary_payoff"`
	UpBarrier    float64 `yaml:"up_barrier"`
	DownBarrier  float64 `yaml:"down_barrier"`
}

type SimulationConfig struct {
	Start          float64  `yaml:"start"`
	Maturity       float64  `yaml:"maturity"`
	Steps          int      `yaml:"steps"`
	Runs           int      `yaml:"runs"`
	Simulations    []int    `yaml:"simulations"`
	Modes          []string `yaml:"modes"`
	Interval       float64  `yaml:"interval"`
	Codes          []string `yaml:"codes"`
	ReferencePaths int      `yaml:"reference_paths"`
	// Seed 0 draws a seed from the clock.
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"`
}

type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Histogram bool   `yaml:"histogram"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
	// Auth requires a bearer API key on every /v1 route.
	Auth bool `yaml:"auth"`
	// KeyTTL is the lifetime of newly created API keys.
	KeyTTL time.Duration `yaml:"key_ttl"`
	// MaxPaths caps the work a single request may ask for.
	MaxPaths int `yaml:"max_paths"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Config struct {
	Market     MarketConfig     `yaml:"market"`
	Contract   ContractConfig   `yaml:"contract"`
	Simulation SimulationConfig `yaml:"simulation"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Market:   MarketConfig{Rate: 0.05, Spot: 100, Sigma: 0.2},
		Contract: ContractConfig{Strike: 120, BinaryPayoff: 100, UpBarrier: 140, DownBarrier: 80},
		Simulation: SimulationConfig{
			Start:          0,
			Maturity:       1,
			Steps:          100,
			Runs:           50,
			Simulations:    []int{100, 1000, 10000},
			Modes:          []string{"cont", "disc"},
			Interval:       0.1,
			Codes:          []string{"CO", "PO", "FLCO", "FLPO", "XLCO", "XLPO", "BCO", "BPO"},
			ReferencePaths: 200000,
		},
		Output:  OutputConfig{Dir: ".", Histogram: true},
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Address: ":8080", KeyTTL: 180 * 24 * time.Hour, MaxPaths: 1000000},
		Store:   StoreConfig{Driver: "memory"},
	}
}

// Load reads defaults, then the YAML file at path (skipped when path is empty),
// then a .env file in the working directory if present, then OPTIONMC_*
// environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	setFloat("RATE", &c.Market.Rate)
	setFloat("SPOT", &c.Market.Spot)
	setFloat("SIGMA", &c.Market.Sigma)
	setFloat("DIVIDEND", &c.Market.Dividend)
	setFloat("STRIKE", &c.Contract.Strike)
	setFloat("BINARY_PAYOFF", &c.Contract.BinaryPayoff)
	setFloat("UP_BARRIER", &c.Contract.UpBarrier)
	setFloat("DOWN_BARRIER", &c.Contract.DownBarrier)
	setFloat("START", &c.Simulation.Start)
	setFloat("MATURITY", &c.Simulation.Maturity)
	setInt("STEPS", &c.Simulation.Steps)
	setInt("RUNS", &c.Simulation.Runs)
	setFloat("INTERVAL", &c.Simulation.Interval)
	setInt("REFERENCE_PATHS", &c.Simulation.ReferencePaths)
	setInt("WORKERS", &c.Simulation.Workers)
	setString("OUTPUT_DIR", &c.Output.Dir)
	setString("LOG_LEVEL", &c.Logging.Level)
	setString("ADDRESS", &c.Server.Address)
	setInt("MAX_PATHS", &c.Server.MaxPaths)
	setString("STORE_DRIVER", &c.Store.Driver)
	setString("STORE_DSN", &c.Store.DSN)
	if v := os.Getenv(EnvPrefix + "AUTH"); v != "" {
		auth, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sAUTH: %w", EnvPrefix, err))
		} else {
			c.Server.Auth = auth
		}
	}

	if v := os.Getenv(EnvPrefix + "SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Simulation.Seed = seed
		}
	}
	if v := os.Getenv(EnvPrefix + "SIMULATIONS"); v != "" {
		sims, err := util.ParseInts(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSIMULATIONS: %w", EnvPrefix, err))
		} else {
			c.Simulation.Simulations = sims
		}
	}
	if v := os.Getenv(EnvPrefix + "CODES"); v != "" {
		c.Simulation.Codes = util.SplitList(v)
	}
	if v := os.Getenv(EnvPrefix + "MODES"); v != "" {
		c.Simulation.Modes = util.SplitList(strings.ToLower(v))
	}
	return errors.Join(errs...)
}

// Model is the GBM configuration: drift is the risk-free rate net of dividends.
func (c *Config) Model() mc.Config {
	return mc.Config{
		Spot:     c.Market.Spot,
		Sigma:    c.Market.Sigma,
		Drift:    c.Market.Rate - c.Market.Dividend,
		Start:    c.Simulation.Start,
		Maturity: c.Simulation.Maturity,
		Steps:    c.Simulation.Steps,
	}
}

func (c *Config) TimeToMaturity() float64 {
	return c.Simulation.Maturity - c.Simulation.Start
}

// PricingMarket is the market the closed forms are evaluated in at the start time.
func (c *Config) PricingMarket() payoff.Market {
	return payoff.Market{
		Spot:     c.Market.Spot,
		Sigma:    c.Market.Sigma,
		Rate:     c.Market.Rate,
		Dividend: c.Market.Dividend,
		Tau:      c.TimeToMaturity(),
	}
}

func (c *Config) SamplingModes() ([]pricer.Mode, error) {
	modes := make([]pricer.Mode, 0, len(c.Simulation.Modes))
	for _, s := range c.Simulation.Modes {
		m, err := pricer.ParseMode(s)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

func (c *Config) Validate() error {
	if err := c.Model().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	s := c.Simulation
	if s.Runs < 1 {
		return fmt.Errorf("%w: runs must be at least 1, got %d", ErrInvalidConfig, s.Runs)
	}
	if len(s.Simulations) == 0 {
		return fmt.Errorf("%w: no simulation counts", ErrInvalidConfig)
	}
	for _, n := range s.Simulations {
		if n <= 0 {
			return fmt.Errorf("%w: simulation count must be positive, got %d", ErrInvalidConfig, n)
		}
	}
	if !(s.Interval > 0) {
		return fmt.Errorf("%w: sample interval must be positive, got %v", ErrInvalidConfig, s.Interval)
	}
	if s.ReferencePaths < 1 {
		return fmt.Errorf("%w: reference paths must be positive, got %d", ErrInvalidConfig, s.ReferencePaths)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, s.Workers)
	}
	if _, err := c.Products(s.Codes); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Server.MaxPaths < 1 {
		return fmt.Errorf("%w: max paths must be positive, got %d", ErrInvalidConfig, c.Server.MaxPaths)
	}
	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: postgres store needs a dsn", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	modes, err := c.SamplingModes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(modes) == 0 {
		return fmt.Errorf("%w: no sampling modes", ErrInvalidConfig)
	}
	return nil
}
