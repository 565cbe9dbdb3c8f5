package dice

// Roller draws dice from a Source. A Roller does no locking of its own;
// share one across goroutines only if its Source is safe for concurrent use.
type Roller struct {
	src Source
}

// NewRoller returns a Roller drawing from src. A nil src gets NewSource().
func NewRoller(src Source) *Roller {
	if src == nil {
		src = NewSource()
	}
	return &Roller{src: src}
}

// RollWithModifier rolls diceCount dice with the given number of sides and
// adds modifier once to their sum. Parameters are validated before any draw.
func (r *Roller) RollWithModifier(diceCount, sides, modifier int) (RollResult, error) {
	if err := validateCount(diceCount); err != nil {
		return RollResult{}, err
	}
	if err := validateSides(sides); err != nil {
		return RollResult{}, err
	}

	rolls := make([]int, diceCount)
	total := modifier
	for i := range rolls {
		rolls[i] = r.die(sides)
		total += rolls[i]
	}

	return RollResult{
		DiceCount: diceCount,
		Sides:     sides,
		Modifier:  modifier,
		Rolls:     rolls,
		Total:     total,
	}, nil
}

// RollSingle rolls one die and returns a value in [1, sides].
func (r *Roller) RollSingle(sides int) (int, error) {
	if err := validateSides(sides); err != nil {
		return 0, err
	}
	return r.die(sides), nil
}

// RollWithAdvantage rolls two independent dice and keeps the higher.
func (r *Roller) RollWithAdvantage(sides int) (int, error) {
	a, b, err := r.pair(sides)
	if err != nil {
		return 0, err
	}
	return max(a, b), nil
}

// RollWithDisadvantage rolls two independent dice and keeps the lower.
func (r *Roller) RollWithDisadvantage(sides int) (int, error) {
	a, b, err := r.pair(sides)
	if err != nil {
		return 0, err
	}
	return min(a, b), nil
}

func (r *Roller) pair(sides int) (int, int, error) {
	a, err := r.RollSingle(sides)
	if err != nil {
		return 0, 0, err
	}
	b, err := r.RollSingle(sides)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (r *Roller) die(sides int) int {
	return r.src.IntN(sides) + 1
}
