package dice_test

import (
	"fmt"

	"github.com/rlindsey28/diceroller/dice"
)

// fixedSource returns the given faces in order.
type fixedSource []int

func (f *fixedSource) IntN(int) int {
	face := (*f)[0]
	*f = (*f)[1:]
	return face - 1
}

func ExampleRoller_RollWithModifier() {
	src := fixedSource{4, 6}
	result, err := dice.NewRoller(&src).RollWithModifier(2, 6, 3)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result)
	// Output: 2d6+3: [4, 6] = 13
}

func ExampleRoller_RollWithAdvantage() {
	src := fixedSource{12, 18}
	v, _ := dice.NewRoller(&src).RollWithAdvantage(20)
	fmt.Println(v)
	// Output: 18
}

func ExampleRoller_RollSingle() {
	_, err := dice.NewRoller(nil).RollSingle(0)
	fmt.Println(err)
	// Output: dice: sides must be at least 1: got 0
}
