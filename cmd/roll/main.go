// Command roll rolls dice from the command line.
//
//	roll --dice 2 --sides 6 --modifier 3
//	roll --sides 20 --advantage
package main

import (
	"fmt"
	"os"

	"github.com/rlindsey28/diceroller/dice"

	"github.com/spf13/cobra"
)

type rollOptions struct {
	dice         int
	sides        int
	modifier     int
	advantage    bool
	disadvantage bool
	crypto       bool
}

func newRootCmd(newSource func(crypto bool) dice.Source) *cobra.Command {
	opts := &rollOptions{}

	cmd := &cobra.Command{
		Use:           "roll",
		Short:         "Roll dice",
		Long:          `Rolls a number of dice with a flat modifier, or a single die with advantage or disadvantage.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roller := dice.NewRoller(newSource(opts.crypto))
			out := cmd.OutOrStdout()

			switch {
			case opts.advantage:
				v, err := roller.RollWithAdvantage(opts.sides)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "d%d with advantage: %d\n", opts.sides, v)
			case opts.disadvantage:
				v, err := roller.RollWithDisadvantage(opts.sides)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "d%d with disadvantage: %d\n", opts.sides, v)
			default:
				result, err := roller.RollWithModifier(opts.dice, opts.sides, opts.modifier)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, result)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.dice, "dice", "n", 1, "number of dice to roll")
	flags.IntVarP(&opts.sides, "sides", "s", 6, "faces per die")
	flags.IntVarP(&opts.modifier, "modifier", "m", 0, "flat modifier added to the total")
	flags.BoolVar(&opts.advantage, "advantage", false, "roll one die twice and keep the higher")
	flags.BoolVar(&opts.disadvantage, "disadvantage", false, "roll one die twice and keep the lower")
	flags.BoolVar(&opts.crypto, "crypto", false, "draw from crypto/rand")
	cmd.MarkFlagsMutuallyExclusive("advantage", "disadvantage")

	return cmd
}

func defaultSource(crypto bool) dice.Source {
	if crypto {
		return dice.NewCryptoSource()
	}
	return dice.NewSource()
}

func main() {
	if err := newRootCmd(defaultSource).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "roll:", err)
		os.Exit(1)
	}
}
