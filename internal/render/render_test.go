package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/sweeper/internal/mines"
)

func centerMineGame(t *testing.T) *mines.Game {
	b, err := mines.NewBoardWithMines(3, []mines.Point{{Row: 1, Col: 1}})
	require.NoError(t, err)
	return mines.NewGameFromBoard(b)
}

func TestSecret(t *testing.T) {
	g := centerMineGame(t)
	want := "   00 01 02\n" +
		"00 1  1  1\n" +
		"01 1  *  1\n" +
		"02 1  1  1\n"
	assert.Equal(t, want, SecretString(g.Board()))
}

func TestPlayer(t *testing.T) {
	g := centerMineGame(t)
	assert.Equal(t,
		"   00 01 02\n00 ~  ~  ~\n01 ~  ~  ~\n02 ~  ~  ~\n",
		PlayerString(g.Board()),
	)

	_, err := g.Apply(mines.Move{Point: mines.Point{Row: 0, Col: 0}, Action: mines.Reveal})
	require.NoError(t, err)
	_, err = g.Apply(mines.Move{Point: mines.Point{Row: 2, Col: 2}, Action: mines.Flag})
	require.NoError(t, err)
	assert.Equal(t,
		"   00 01 02\n00 1  ~  ~\n01 ~  ~  ~\n02 ~  ~  F\n",
		PlayerString(g.Board()),
	)

	_, err = g.Apply(mines.Move{Point: mines.Point{Row: 1, Col: 1}, Action: mines.Reveal})
	require.NoError(t, err)
	assert.Equal(t, Exploded, PlayerSymbol(g.Board().Cell(1, 1)))
}

func TestPlayerHidesMines(t *testing.T) {
	g := centerMineGame(t)
	for _, row := range Grid(g.Board(), PlayerSymbol) {
		for _, sym := range row {
			assert.NotEqual(t, Mine, sym)
			assert.NotEqual(t, Exploded, sym)
		}
	}
}

func TestEmptyCells(t *testing.T) {
	b, err := mines.NewBoardWithMines(2, nil)
	require.NoError(t, err)
	g := mines.NewGameFromBoard(b)
	_, err = g.Apply(mines.Move{Point: mines.Point{Row: 0, Col: 0}, Action: mines.Reveal})
	require.NoError(t, err)
	assert.Equal(t, "   00 01\n00 -  -\n01 -  -\n", PlayerString(g.Board()))
}
