package mines

import "fmt"

// Point addresses a cell on a square board.
type Point struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

// Cell is a single square of the board. Its position is fixed at creation.
// State changes go through the board so that the transition rules hold.
type Cell struct {
	row, col int

	mine     bool
	flagged  bool
	revealed bool

	adjacent    int
	adjacentSet bool
}

func newCell(row, col int) Cell {
	return Cell{row: row, col: col}
}

func (c Cell) Row() int { return c.row }
func (c Cell) Col() int { return c.col }
func (c Cell) Point() Point { return Point{c.row, c.col} }
func (c Cell) HasMine() bool { return c.mine }
func (c Cell) Flagged() bool { return c.flagged }
func (c Cell) Revealed() bool { return c.revealed }
func (c Cell) AdjacentMines() int { return c.adjacent }

// Hidden reports whether the cell is neither revealed nor flagged.
func (c Cell) Hidden() bool {
	return !c.revealed && !c.flagged
}

// setMine is only meaningful before play starts. Setting a mine on an already
// mined cell leaves it unchanged.
func (c *Cell) setMine(v bool) {
	c.mine = v
}

func (c *Cell) setFlag(v bool) error {
	if c.revealed {
		return fmt.Errorf("cell %s is revealed: %w", c.Point(), ErrIllegalTransition)
	}
	c.flagged = v
	return nil
}

func (c *Cell) reveal() error {
	if c.flagged {
		return fmt.Errorf("cell %s is flagged: %w", c.Point(), ErrIllegalTransition)
	}
	c.revealed = true
	return nil
}

// setAdjacentMines may be called once per game.
func (c *Cell) setAdjacentMines(n int) {
	if c.adjacentSet {
		panic(AssertionError{fmt.Sprintf("adjacent mine count of %s set twice", c.Point())})
	}
	c.adjacent = n
	c.adjacentSet = true
}
