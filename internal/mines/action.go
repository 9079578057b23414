package mines

import (
	"fmt"
	"strings"
)

type Action uint8

const (
	Reveal Action = iota + 1
	Flag
	Unflag
	lastAction
)

func (a Action) String() string {
	switch a {
	case Reveal:
		return "reveal"
	case Flag:
		return "flag"
	case Unflag:
		return "unflag"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

func (a Action) Valid() bool {
	return Reveal <= a && a < lastAction
}

var ErrBadAction error

func init() {
	var allowed []string
	for a := Reveal; a < lastAction; a++ {
		allowed = append(allowed, "'"+a.String()+"'")
	}
	ErrBadAction = fmt.Errorf("action must be one of %s", strings.Join(allowed, ", "))
}

// ParseAction accepts full action names and their one-letter shorthands.
func ParseAction(s string) (a Action, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reveal", "r", "open", "o":
		a = Reveal
	case "flag", "f":
		a = Flag
	case "unflag", "u":
		a = Unflag
	default:
		err = ErrBadAction
	}
	return
}

// MarshalText lets actions appear by name in JSON and query strings.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, ErrBadAction
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Move is a single player action on one cell.
type Move struct {
	Point
	Action Action `json:"action"`
}

func (m Move) String() string {
	return m.Action.String() + " " + m.Point.String()
}

type Outcome uint8

const (
	Continue Outcome = iota
	Victory
	Explosion
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Victory:
		return "victory"
	case Explosion:
		return "explosion"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Terminal reports whether the game ends with this outcome.
func (o Outcome) Terminal() bool {
	return o != Continue
}
