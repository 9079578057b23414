package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func TestParseMoves(t *testing.T) {
	tests := []struct {
		line string
		want mines.Move
	}{
		{"r 1 2", mines.Move{Point: mines.Point{Row: 1, Col: 2}, Action: mines.Reveal}},
		{"  REVEAL 0 8 ", mines.Move{Point: mines.Point{Row: 0, Col: 8}, Action: mines.Reveal}},
		{"f 3,4", mines.Move{Point: mines.Point{Row: 3, Col: 4}, Action: mines.Flag}},
		{"flag 8 8", mines.Move{Point: mines.Point{Row: 8, Col: 8}, Action: mines.Flag}},
		{"u 0,0", mines.Move{Point: mines.Point{Row: 0, Col: 0}, Action: mines.Unflag}},
	}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			cmd, err := Parse(test.line, 9)
			require.NoError(t, err)
			assert.Equal(t, KindMove, cmd.Kind)
			assert.Equal(t, test.want, cmd.Move)
		})
	}
}

func TestParseOther(t *testing.T) {
	cmd, err := Parse("s gogo", 9)
	require.NoError(t, err)
	assert.Equal(t, Command{Kind: KindSave, Name: "gogo"}, cmd)

	cmd, err = Parse("Q", 9)
	require.NoError(t, err)
	assert.Equal(t, KindQuit, cmd.Kind)

	cmd, err = Parse("help", 9)
	require.NoError(t, err)
	assert.Equal(t, KindHelp, cmd.Kind)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		err  error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"x 1 1", ErrUnknownCommand},
		{"chord 1 1", ErrUnknownCommand},
		{"r 1", ErrArguments},
		{"r 1 2 3", ErrArguments},
		{"s", ErrArguments},
		{"q now", ErrArguments},
		{"r 9 0", mines.ErrInvalidCoordinate},
		{"f 0 9", mines.ErrInvalidCoordinate},
		{"u -1,0", mines.ErrInvalidCoordinate},
	}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			_, err := Parse(test.line, 9)
			assert.ErrorIs(t, err, test.err)
		})
	}

	_, err := Parse("r a 1", 9)
	assert.EqualError(t, err, "row must be an int")
	_, err = Parse("r 1 b", 9)
	assert.EqualError(t, err, "column must be an int")
}

func TestLines(t *testing.T) {
	testCases := []struct {
		input string
		lines []string
	}{
		{"r 0 0", []string{"r 0 0"}},
		{"r 0 0\nf 1 1\r\n\nq", []string{"r 0 0", "f 1 1", "", "q"}},
		{"", []string{""}},
	}
	for _, test := range testCases {
		var got []string
		for line := range Lines(test.input) {
			got = append(got, line)
		}
		assert.Equal(t, test.lines, got, test.input)
	}

	var first []string
	for line := range Lines("a\nb\nc") {
		first = append(first, line)
		break
	}
	assert.Equal(t, []string{"a"}, first)
}
