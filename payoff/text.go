package payoff

import (
	"fmt"
	"strings"
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

func (k Knock) String() string {
	if k == KnockIn {
		return "in"
	}
	return "out"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "call":
		*s = Call
	case "put":
		*s = Put
	default:
		return fmt.Errorf("%w: unknown side %q", ErrInvalidContract, b)
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	name := strings.ToLower(string(b))
	for i, v := range kindNames {
		if v == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidContract, b)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "up":
		*d = Up
	case "down":
		*d = Down
	default:
		return fmt.Errorf("%w: unknown barrier direction %q", ErrInvalidContract, b)
	}
	return nil
}

func (k Knock) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Knock) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "out":
		*k = KnockOut
	case "in":
		*k = KnockIn
	default:
		return fmt.Errorf("%w: unknown knock type %q", ErrInvalidContract, b)
	}
	return nil
}
