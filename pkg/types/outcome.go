package types

import (
	"fmt"
	"strings"
)

// Outcome is the side of a market a position commits to, and the final
// result of a resolved market. It is stored as a small ordinal; unknown
// ordinals are rejected on read rather than carried forward.
type Outcome uint8

const (
	OutcomeUnset Outcome = 0
	OutcomeYes   Outcome = 1
	OutcomeNo    Outcome = 2
	// OutcomeVoid marks a market resolved with an empty side; every
	// position is refunded its net stake.
	OutcomeVoid Outcome = 3
)

// OutcomeFromOrdinal maps a stored ordinal back to an Outcome. Ordinals
// outside the known set are an error, never silently accepted.
func OutcomeFromOrdinal(v uint8) (Outcome, error) {
	o := Outcome(v)
	switch o {
	case OutcomeUnset, OutcomeYes, OutcomeNo, OutcomeVoid:
		return o, nil
	}

	return OutcomeUnset, fmt.Errorf("unknown outcome ordinal %d: %w", v, ErrInvalidOutcome)
}

// ParseOutcome parses a textual outcome ("yes", "no", "void").
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return OutcomeYes, nil
	case "no":
		return OutcomeNo, nil
	case "void":
		return OutcomeVoid, nil
	}

	return OutcomeUnset, fmt.Errorf("parse outcome %q: %w", s, ErrInvalidOutcome)
}

// Bettable reports whether a bet may be placed on this outcome.
func (o Outcome) Bettable() bool {
	return o == OutcomeYes || o == OutcomeNo
}

func (o Outcome) String() string {
	switch o {
	case OutcomeUnset:
		return "unset"
	case OutcomeYes:
		return "yes"
	case OutcomeNo:
		return "no"
	case OutcomeVoid:
		return "void"
	}

	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// MarshalText implements encoding.TextMarshaler so outcomes serialize as
// their names in JSON payloads.
func (o Outcome) MarshalText() ([]byte, error) {
	switch o {
	case OutcomeUnset, OutcomeYes, OutcomeNo, OutcomeVoid:
		return []byte(o.String()), nil
	}

	return nil, fmt.Errorf("marshal outcome %d: %w", uint8(o), ErrInvalidOutcome)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	if string(b) == "unset" {
		*o = OutcomeUnset
		return nil
	}

	parsed, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}

	*o = parsed

	return nil
}
