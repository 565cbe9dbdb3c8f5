// Package dice rolls dice against an injected random source.
package dice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSides is returned when a die is asked to have fewer than one face.
	ErrInvalidSides = errors.New("dice: sides must be at least 1")
	// ErrInvalidCount is returned when a negative number of dice is requested.
	ErrInvalidCount = errors.New("dice: dice count must not be negative")
)

// RollResult describes one roll of DiceCount dice with a flat modifier.
//
// Total is always sum(Rolls) + Modifier and len(Rolls) == DiceCount.
type RollResult struct {
	DiceCount int   `json:"dice_count"`
	Sides     int   `json:"sides"`
	Modifier  int   `json:"modifier"`
	Rolls     []int `json:"rolls"`
	Total     int   `json:"total"`
}

// String renders the result as "2d6+3: [4, 6] = 13".
func (r RollResult) String() string {
	faces := make([]string, len(r.Rolls))
	for i, v := range r.Rolls {
		faces[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%dd%d%+d: [%s] = %d",
		r.DiceCount, r.Sides, r.Modifier, strings.Join(faces, ", "), r.Total)
}

func validateSides(sides int) error {
	if sides < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSides, sides)
	}
	return nil
}

func validateCount(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	return nil
}
