package main

import (
	"bytes"
	"testing"

	"github.com/rlindsey28/diceroller/dice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type faces []int

func (f *faces) IntN(int) int {
	v := (*f)[0]
	*f = (*f)[1:]
	return v - 1
}

func run(t *testing.T, seq []int, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(func(bool) dice.Source {
		f := faces(seq)
		return &f
	})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRollCommand(t *testing.T) {
	tests := []struct {
		name  string
		faces []int
		args  []string
		want  string
	}{
		{name: "modifier", faces: []int{4, 6}, args: []string{"-n", "2", "-s", "6", "-m", "3"}, want: "2d6+3: [4, 6] = 13\n"},
		{name: "negative modifier", faces: []int{1}, args: []string{"--sides", "20", "--modifier=-2"}, want: "1d20-2: [1] = -1\n"},
		{name: "no dice", args: []string{"--dice", "0", "--modifier", "7"}, want: "0d6+7: [] = 7\n"},
		{name: "advantage", faces: []int{12, 18}, args: []string{"-s", "20", "--advantage"}, want: "d20 with advantage: 18\n"},
		{name: "disadvantage", faces: []int{12, 18}, args: []string{"-s", "20", "--disadvantage"}, want: "d20 with disadvantage: 12\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.faces, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRollCommandErrors(t *testing.T) {
	_, err := run(t, nil, "--sides", "0")
	assert.ErrorIs(t, err, dice.ErrInvalidSides)

	_, err = run(t, nil, "--dice", "-3")
	assert.ErrorIs(t, err, dice.ErrInvalidCount)

	_, err = run(t, nil, "--advantage", "--disadvantage")
	assert.Error(t, err)

	_, err = run(t, nil, "2d6")
	assert.Error(t, err, "positional dice notation is not accepted")
}

func TestDefaultSource(t *testing.T) {
	for _, crypto := range []bool{false, true} {
		v := defaultSource(crypto).IntN(6)
		assert.True(t, v >= 0 && v < 6)
	}
}
