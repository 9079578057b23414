package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Status uint8

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Game applies moves to a single board. It is not safe for concurrent use;
// callers serialise access.
type Game struct {
	board     *Board
	status    Status
	forfeited bool
}

func NewGame(n int, r *rand.Rand) (*Game, error) {
	board, err := NewBoard(n, r)
	if err != nil {
		return nil, err
	}
	return NewGameFromBoard(board), nil
}

func NewGameFromBoard(b *Board) *Game {
	g := &Game{board: b}
	g.status = g.deriveStatus()
	return g
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) Size() int {
	return g.board.size
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Forfeited() bool {
	return g.forfeited
}

func (g *Game) Over() bool {
	return g.status != Playing
}

// Validate checks that a move addresses the board and names a known action.
func (g *Game) Validate(m Move) error {
	if !g.board.InBounds(m.Row, m.Col) {
		return fmt.Errorf("%s on %dx%d board: %w", m.Point, g.board.size, g.board.size, ErrInvalidCoordinate)
	}
	if !m.Action.Valid() {
		return ErrBadAction
	}
	return nil
}

// Apply performs one move and evaluates the game afterwards. A move that
// changes nothing returns an error wrapping [ErrIllegalTransition] and leaves
// the outcome at [Continue]. Coordinates are assumed to be validated.
func (g *Game) Apply(m Move) (Outcome, error) {
	if g.Over() {
		return g.outcome(), ErrGameOver
	}

	c := g.board.cell(m.Row, m.Col)
	var err error
	switch m.Action {
	case Flag:
		if c.flagged {
			err = fmt.Errorf("cell %s already flagged: %w", m.Point, ErrIllegalTransition)
		} else {
			err = c.setFlag(true)
		}
	case Unflag:
		if !c.flagged {
			err = fmt.Errorf("cell %s is not flagged: %w", m.Point, ErrIllegalTransition)
		} else {
			err = c.setFlag(false)
		}
	case Reveal:
		switch {
		case c.flagged:
			err = fmt.Errorf("cell %s is flagged: %w", m.Point, ErrIllegalTransition)
		case c.revealed:
			err = fmt.Errorf("cell %s already revealed: %w", m.Point, ErrIllegalTransition)
		case c.mine:
			/*
			 * Only the mine that was hit is uncovered; the rest of the
			 * board is left as the player had it.
			 */
			_ = c.reveal()
			g.status = Lost
			Log.WithField("cell", m.Point.String()).Debug("explosion")
			return Explosion, nil
		default:
			n := g.floodReveal(m.Row, m.Col)
			Log.WithFields(logrus.Fields{
				"cell":     m.Point.String(),
				"revealed": n,
			}).Debug("flood reveal")
		}
	default:
		err = ErrBadAction
	}
	if err != nil {
		return Continue, err
	}

	if g.IsVictory() {
		g.status = Won
		return Victory, nil
	}
	return Continue, nil
}

func (g *Game) outcome() Outcome {
	switch g.status {
	case Won:
		return Victory
	case Lost:
		return Explosion
	default:
		return Continue
	}
}

// floodReveal uncovers the cell at row, col and, breadth first, every cell
// reachable through cells with no adjacent mines. It returns the number of
// cells revealed. The starting cell must not be a mine.
func (g *Game) floodReveal(row, col int) int {
	b := g.board
	queued := make([]bool, len(b.cells))
	start := b.index(row, col)
	var queue deque.Deque[int]
	queue.PushBack(start)
	queued[start] = true

	revealed := 0
	for queue.Len() > 0 {
		i := queue.PopFront()

		c := &b.cells[i]
		if c.mine || c.revealed {
			continue
		}
		if err := c.reveal(); err != nil {
			continue
		}
		revealed++

		if c.adjacent != 0 {
			continue
		}
		for _, j := range b.Neighbors(c.row, c.col) {
			n := &b.cells[j]
			// mines are never queued, whatever the counts say
			if queued[j] || n.revealed || n.flagged || n.mine {
				continue
			}
			queued[j] = true
			queue.PushBack(j)
		}
	}
	return revealed
}

// IsVictory reports whether every mine is flagged and every other cell is
// revealed.
func (g *Game) IsVictory() bool {
	for _, c := range g.board.cells {
		if c.mine && !c.flagged {
			return false
		}
		if !c.mine && !c.revealed {
			return false
		}
	}
	return true
}

func (g *Game) deriveStatus() Status {
	for _, c := range g.board.cells {
		if c.mine && c.revealed {
			return Lost
		}
	}
	if g.IsVictory() {
		return Won
	}
	return Playing
}

// Forfeit ends a game in progress as lost. Finished games are left as is.
func (g *Game) Forfeit() {
	if g.status == Playing {
		g.status = Lost
		g.forfeited = true
	}
}

func (g *Game) FlagsPlaced() int {
	n := 0
	for _, c := range g.board.cells {
		if c.flagged {
			n++
		}
	}
	return n
}

// MinesRemaining is the mine count minus placed flags. It goes negative when
// the player over-flags.
func (g *Game) MinesRemaining() int {
	return MineCount(g.board.size) - g.FlagsPlaced()
}

func (g *Game) HiddenCount() int {
	n := 0
	for _, c := range g.board.cells {
		if !c.revealed {
			n++
		}
	}
	return n
}
