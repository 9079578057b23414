package mines

import "errors"

var (
	ErrInvalidSize       = errors.New("invalid board size")
	ErrInvalidCoordinate = errors.New("coordinates out of range")
	ErrIllegalTransition = errors.New("move had no effect")
	ErrGameOver          = errors.New("game is over")
	ErrMalformedSave     = errors.New("malformed saved game")
)

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
