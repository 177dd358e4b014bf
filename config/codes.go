package config

import (
	"fmt"

	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/util"
)

// Product is a named contract selected by its short code.
type Product struct {
	Code     string
	Name     string
	Contract payoff.Contract
}

var codes = []struct {
	code, name string
	build      func(c ContractConfig) (payoff.Contract, error)
}{
	{"CO", "Plain Vanilla Call Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewVanilla(payoff.Call, c.Strike)
	}},
	{"PO", "Plain Vanilla Put Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewVanilla(payoff.Put, c.Strike)
	}},
	{"FLCO", "Floating Lookback Call Option", func(ContractConfig) (payoff.Contract, error) {
		return payoff.NewFloatingLookback(payoff.Call)
	}},
	{"FLPO", "Floating Lookback Put Option", func(ContractConfig) (payoff.Contract, error) {
		return payoff.NewFloatingLookback(payoff.Put)
	}},
	{"XLCO", "Fixed Lookback Call Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewFixedLookback(payoff.Call, c.Strike)
	}},
	{"XLPO", "Fixed Lookback Put Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewFixedLookback(payoff.Put, c.Strike)
	}},
	{"BCO", "Binary Call Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewBinary(payoff.Call, c.Strike, c.BinaryPayoff)
	}},
	{"BPO", "Binary Put Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewBinary(payoff.Put, c.Strike, c.BinaryPayoff)
	}},
	{"ACO", "Asian Call Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewAsian(payoff.Call, c.Strike)
	}},
	{"APO", "Asian Put Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewAsian(payoff.Put, c.Strike)
	}},
	{"UOCO", "Up-and-Out Barrier Call Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewBarrier(payoff.Call, c.Strike, c.UpBarrier, payoff.Up, payoff.KnockOut)
	}},
	{"UICO", "Up-and-In Barrier Call Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewBarrier(payoff.Call, c.Strike, c.UpBarrier, payoff.Up, payoff.KnockIn)
	}},
	{"DOPO", "Down-and-Out Barrier Put Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewBarrier(payoff.Put, c.Strike, c.DownBarrier, payoff.Down, payoff.KnockOut)
	}},
	{"DIPO", "Down-and-In Barrier Put Option", func(c ContractConfig) (payoff.Contract, error) {
		return payoff.NewBarrier(payoff.Put, c.Strike, c.DownBarrier, payoff.Down, payoff.KnockIn)
	}},
}

// KnownCodes lists every option code in display order.
func KnownCodes() []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.code
	}
	return out
}

// Products builds the contracts for the given codes with the configured terms.
func (c *Config) Products(selected []string) ([]Product, error) {
	selected, err := util.Filter(selected, KnownCodes())
	if err != nil {
		return nil, err
	}
	var out []Product
	for _, code := range selected {
		for _, def := range codes {
			if def.code != code {
				continue
			}
			contract, err := def.build(c.Contract)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", code, err)
			}
			out = append(out, Product{Code: code, Name: def.name, Contract: contract})
		}
	}
	return out, nil
}
