// Package render draws boards as text.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

const (
	Hidden   = "~"
	Flag     = "F"
	Mine     = "*"
	Empty    = "-"
	Exploded = "X"
)

// PlayerSymbol is what the player is allowed to see of c.
func PlayerSymbol(c mines.Cell) string {
	switch {
	case c.Flagged():
		return Flag
	case !c.Revealed():
		return Hidden
	case c.HasMine():
		return Exploded
	case c.AdjacentMines() == 0:
		return Empty
	default:
		return strconv.Itoa(c.AdjacentMines())
	}
}

// SecretSymbol shows the solution regardless of player state.
func SecretSymbol(c mines.Cell) string {
	switch {
	case c.HasMine():
		return Mine
	case c.AdjacentMines() == 0:
		return Empty
	default:
		return strconv.Itoa(c.AdjacentMines())
	}
}

// Grid returns one symbol per cell, row by row.
func Grid(b *mines.Board, symbol func(mines.Cell) string) [][]string {
	n := b.Size()
	grid := make([][]string, n)
	for row := range n {
		grid[row] = make([]string, n)
		for col := range n {
			grid[row][col] = symbol(b.Cell(row, col))
		}
	}
	return grid
}

func header(n int) string {
	var s strings.Builder
	s.WriteString("   ")
	for col := range n {
		fmt.Fprintf(&s, "%02d ", col)
	}
	return strings.TrimRight(s.String(), " ")
}

func write(w io.Writer, b *mines.Board, symbol func(mines.Cell) string) error {
	var s strings.Builder
	s.WriteString(header(b.Size()))
	s.WriteByte('\n')
	for row, cells := range Grid(b, symbol) {
		line := fmt.Sprintf("%02d", row)
		for _, sym := range cells {
			line += " " + sym + " "
		}
		s.WriteString(strings.TrimRight(line, " "))
		s.WriteByte('\n')
	}
	_, err := io.WriteString(w, s.String())
	return err
}

// Player writes the board as the player sees it.
func Player(w io.Writer, b *mines.Board) error {
	return write(w, b, PlayerSymbol)
}

// Secret writes the board with every mine and count visible.
func Secret(w io.Writer, b *mines.Board) error {
	return write(w, b, SecretSymbol)
}

func PlayerString(b *mines.Board) string {
	var s strings.Builder
	Player(&s, b)
	return s.String()
}

func SecretString(b *mines.Board) string {
	var s strings.Builder
	Secret(&s, b)
	return s.String()
}
