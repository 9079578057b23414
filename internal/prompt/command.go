package prompt

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

type Kind uint8

const (
	KindMove Kind = iota + 1
	KindSave
	KindQuit
	KindHelp
)

type Command struct {
	Kind Kind
	Move mines.Move
	Name string
}

var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrArguments      = errors.New("invalid number of arguments")
)

const Help = `commands:
  r ROW COL   reveal a cell     (also: reveal, o)
  f ROW COL   flag a cell       (also: flag)
  u ROW COL   remove a flag     (also: unflag)
  s NAME      save the game     (also: save)
  q           quit              (also: quit)
  h           show this help    (also: help)
coordinates may also be written ROW,COL`

func parseCoord(s, what string, size int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an int", what)
	}
	if v < 0 || v >= size {
		return 0, fmt.Errorf("%s %d not in 0..%d: %w", what, v, size-1, mines.ErrInvalidCoordinate)
	}
	return v, nil
}

func parsePoint(args []string, size int) (p mines.Point, err error) {
	if len(args) == 1 {
		var ok bool
		var row, col string
		if row, col, ok = strings.Cut(args[0], ","); !ok {
			return p, ErrArguments
		}
		args = []string{row, col}
	}
	if len(args) != 2 {
		return p, ErrArguments
	}
	if p.Row, err = parseCoord(strings.TrimSpace(args[0]), "row", size); err != nil {
		return
	}
	p.Col, err = parseCoord(strings.TrimSpace(args[1]), "column", size)
	return
}

// Parse reads one line of player input for a board of the given size. Moves
// with coordinates outside the board are rejected here.
func Parse(line string, size int) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}
	word, args := strings.ToLower(fields[0]), fields[1:]

	switch word {
	case "q", "quit", "exit":
		if len(args) != 0 {
			return Command{}, ErrArguments
		}
		return Command{Kind: KindQuit}, nil
	case "h", "help", "?":
		return Command{Kind: KindHelp}, nil
	case "s", "save":
		if len(args) != 1 {
			return Command{}, ErrArguments
		}
		return Command{Kind: KindSave, Name: args[0]}, nil
	}

	action, err := mines.ParseAction(word)
	if err != nil {
		return Command{}, ErrUnknownCommand
	}
	p, err := parsePoint(args, size)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindMove, Move: mines.Move{Point: p, Action: action}}, nil
}

// Lines yields the newline-separated pieces of s, empty ones included.
func Lines(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		found := true
		var line string
		for found {
			line, s, found = strings.Cut(s, "\n")
			if !yield(strings.TrimSuffix(line, "\r")) {
				return
			}
		}
	}
}
