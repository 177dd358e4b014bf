package payoff

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidContract = errors.New("invalid contract")

// Side of a one-sided claim.
type Side int

const (
	Call Side = iota
	Put
)

func (s Side) String() string {
	if s == Put {
		return "put"
	}
	return "call"
}

// Kind tags the contract variant.
type Kind int

const (
	Vanilla Kind = iota
	Binary
	FixedLookback
	FloatingLookback
	Barrier
	Asian
)

var kindNames = [...]string{"vanilla", "binary", "fixed_lookback", "floating_lookback", "barrier", "asian"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

type Direction int

const (
	Up Direction = iota
	Down
)

type Knock int

const (
	KnockOut Knock = iota
	KnockIn
)

// Contract is an option on a single asset. Kind selects which of the remaining
// fields are meaningful: Strike for every kind except FloatingLookback, Amount for
// Binary, Barrier/Direction/Knock for Barrier. Build contracts with the New*
// constructors.
type Contract struct {
	Kind      Kind      `json:"kind"`
	Side      Side      `json:"side"`
	Strike    float64   `json:"strike,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Barrier   float64   `json:"barrier,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	Knock     Knock     `json:"knock,omitempty"`
}

func NewVanilla(side Side, strike float64) (Contract, error) {
	return Contract{Kind: Vanilla, Side: side, Strike: strike}.validated()
}

func NewBinary(side Side, strike, amount float64) (Contract, error) {
	return Contract{Kind: Binary, Side: side, Strike: strike, Amount: amount}.validated()
}

func NewFixedLookback(side Side, strike float64) (Contract, error) {
	return Contract{Kind: FixedLookback, Side: side, Strike: strike}.validated()
}

func NewFloatingLookback(side Side) (Contract, error) {
	return Contract{Kind: FloatingLookback, Side: side}.validated()
}

func NewBarrier(side Side, strike, barrier float64, dir Direction, knock Knock) (Contract, error) {
	return Contract{Kind: Barrier, Side: side, Strike: strike, Barrier: barrier, Direction: dir, Knock: knock}.validated()
}

func NewAsian(side Side, strike float64) (Contract, error) {
	return Contract{Kind: Asian, Side: side, Strike: strike}.validated()
}

// Validate checks that the fields used by the contract's kind are usable.
func (c Contract) Validate() error {
	_, err := c.validated()
	return err
}

func (c Contract) validated() (Contract, error) {
	bad := func(format string, a ...interface{}) (Contract, error) {
		return Contract{}, fmt.Errorf("%w: %s", ErrInvalidContract, fmt.Sprintf(format, a...))
	}
	if c.Side != Call && c.Side != Put {
		return bad("unknown side %d", int(c.Side))
	}
	if c.Kind < Vanilla || c.Kind > Asian {
		return bad("unknown kind %d", int(c.Kind))
	}
	if c.Kind != FloatingLookback && !(c.Strike > 0 && !math.IsInf(c.Strike, 0)) {
		return bad("%s strike %v must be positive", c.Kind, c.Strike)
	}
	switch c.Kind {
	case Binary:
		if !(c.Amount > 0) || math.IsInf(c.Amount, 0) {
			return bad("binary payoff amount %v must be positive", c.Amount)
		}
	case Barrier:
		if !(c.Barrier > 0) || math.IsInf(c.Barrier, 0) {
			return bad("barrier level %v must be positive", c.Barrier)
		}
		if c.Direction != Up && c.Direction != Down {
			return bad("unknown barrier direction %d", int(c.Direction))
		}
		if c.Knock != KnockOut && c.Knock != KnockIn {
			return bad("unknown knock type %d", int(c.Knock))
		}
	}
	return c, nil
}

func (c Contract) String() string {
	switch c.Kind {
	case FloatingLookback:
		return fmt.Sprintf("%s %s", c.Kind, c.Side)
	case Binary:
		return fmt.Sprintf("%s %s K=%g amount=%g", c.Kind, c.Side, c.Strike, c.Amount)
	case Barrier:
		return fmt.Sprintf("%s %s-and-%s %s K=%g B=%g", c.Kind, c.Direction, c.Knock, c.Side, c.Strike, c.Barrier)
	}
	return fmt.Sprintf("%s %s K=%g", c.Kind, c.Side, c.Strike)
}
