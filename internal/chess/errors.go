package chess

import "errors"

var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrMalformedNotation  = errors.New("malformed notation")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrGameOver           = errors.New("game is over")
)
