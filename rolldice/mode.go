package rolldice

import (
	"fmt"
	"strings"

	"github.com/rlindsey28/diceroller/dice"
)

// Mode selects how a request is rolled.
type Mode string

const (
	ModeNormal       Mode = "normal"
	ModeAdvantage    Mode = "advantage"
	ModeDisadvantage Mode = "disadvantage"
)

// ParseMode accepts a mode name case-insensitively. Empty means ModeNormal.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModeAdvantage, ModeDisadvantage:
		return m, nil
	default:
		return "", fmt.Errorf("unknown roll mode %q", s)
	}
}

// NewRollerFunc returns a per-request roller constructor for the named
// source: "pcg" (default) or "crypto".
func NewRollerFunc(source string) (func() *dice.Roller, error) {
	switch strings.ToLower(source) {
	case "", "pcg":
		return func() *dice.Roller { return dice.NewRoller(dice.NewSource()) }, nil
	case "crypto":
		src := dice.NewCryptoSource()
		return func() *dice.Roller { return dice.NewRoller(src) }, nil
	default:
		return nil, fmt.Errorf("unknown dice source %q", source)
	}
}
