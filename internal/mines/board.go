package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

const (
	MinSize     = 1
	MaxSize     = 99
	DefaultSize = 9
)

// MineCount returns the number of mines on a board of size n.
func MineCount(n int) int {
	return n * n / 8
}

func ValidSize(n int) bool {
	return MinSize <= n && n <= MaxSize
}

// Board is a square grid of cells stored row-major. It exclusively owns its
// cells.
type Board struct {
	size  int
	cells []Cell
}

func newEmptyBoard(n int) (*Board, error) {
	if !ValidSize(n) {
		return nil, fmt.Errorf("%w: %d (must be %d..%d)", ErrInvalidSize, n, MinSize, MaxSize)
	}
	b := &Board{
		size:  n,
		cells: make([]Cell, n*n),
	}
	for row := range n {
		for col := range n {
			b.cells[row*n+col] = newCell(row, col)
		}
	}
	return b, nil
}

// NewBoard allocates an n×n board and places MineCount(n) mines using r.
func NewBoard(n int, r *rand.Rand) (*Board, error) {
	b, err := newEmptyBoard(n)
	if err != nil {
		return nil, err
	}
	b.placeMines(MineCount(n), r)
	b.computeAdjacent()
	return b, nil
}

// NewBoardWithMines builds a board with mines at exactly the given points.
// The number of distinct points must equal MineCount(n).
func NewBoardWithMines(n int, mines []Point) (*Board, error) {
	b, err := newEmptyBoard(n)
	if err != nil {
		return nil, err
	}
	for _, p := range mines {
		if !b.InBounds(p.Row, p.Col) {
			return nil, fmt.Errorf("mine at %s: %w", p, ErrInvalidCoordinate)
		}
		c := b.cell(p.Row, p.Col)
		if c.mine {
			return nil, fmt.Errorf("duplicate mine at %s", p)
		}
		c.setMine(true)
	}
	if want := MineCount(n); len(mines) != want {
		return nil, fmt.Errorf("board of size %d needs %d mines, got %d", n, want, len(mines))
	}
	b.computeAdjacent()
	return b, nil
}

/*
 * Rejection sampling: pick uniformly random squares until one without a
 * mine turns up. With at most one mine per eight squares the expected
 * number of draws stays close to the mine count.
 */
func (b *Board) placeMines(count int, r *rand.Rand) {
	remaining := count
	draws := 0
	for remaining > 0 {
		draws++
		c := b.cell(r.IntN(b.size), r.IntN(b.size))
		if c.mine {
			continue
		}
		c.setMine(true)
		remaining--
	}
	Log.WithFields(logrus.Fields{
		"size":  b.size,
		"mines": count,
		"draws": draws,
	}).Debug("placed mines")
}

func (b *Board) computeAdjacent() {
	for i := range b.cells {
		c := &b.cells[i]
		if c.mine {
			c.setAdjacentMines(0)
			continue
		}
		n := 0
		for _, nb := range b.Neighbors(c.row, c.col) {
			if b.cells[nb].mine {
				n++
			}
		}
		c.setAdjacentMines(n)
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) MineCount() int {
	n := 0
	for _, c := range b.cells {
		if c.mine {
			n++
		}
	}
	return n
}

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.size && 0 <= col && col < b.size
}

func (b *Board) index(row, col int) int {
	return row*b.size + col
}

func (b *Board) cell(row, col int) *Cell {
	return &b.cells[b.index(row, col)]
}

// Cell returns a copy of the cell at row, col. Coordinates must be in bounds.
func (b *Board) Cell(row, col int) Cell {
	return *b.cell(row, col)
}

// Cells returns a copy of all cells in row-major order.
func (b *Board) Cells() []Cell {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return cells
}

// Neighbors returns the arena indices of the Moore neighbourhood of row, col
// clipped to the board.
func (b *Board) Neighbors(row, col int) []int {
	idx := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if b.InBounds(r, c) {
				idx = append(idx, b.index(r, c))
			}
		}
	}
	return idx
}
