package chess

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type StatusKind string

const (
	InProgress StatusKind = "inProgress"
	Checkmate  StatusKind = "checkmate"
	Stalemate  StatusKind = "stalemate"
)

// Result is the outcome recorded for a game.
type Result string

const (
	ResultInProgress    Result = "in-progress"
	ResultWhiteWins     Result = "white-wins"
	ResultBlackWins     Result = "black-wins"
	ResultDrawStalemate Result = "draw-stalemate"
)

// Status is the terminal classification of a position. ToMove is set while
// in progress, Winner on checkmate.
type Status struct {
	Kind    StatusKind `json:"kind"`
	ToMove  Color      `json:"toMove,omitempty"`
	Winner  Color      `json:"winner,omitempty"`
	InCheck bool       `json:"inCheck"`
}

func (s Status) IsTerminal() bool {
	return s.Kind != InProgress
}

func (s Status) Result() Result {
	switch s.Kind {
	case Checkmate:
		if s.Winner == White {
			return ResultWhiteWins
		}
		return ResultBlackWins
	case Stalemate:
		return ResultDrawStalemate
	}
	return ResultInProgress
}

// Evaluate classifies pos for its side to move.
func Evaluate(pos Position) Status {
	side := pos.SideToMove()
	inCheck := IsKingInCheck(pos, side)
	if HasAnyLegalMove(pos, side) {
		return Status{Kind: InProgress, ToMove: side, InCheck: inCheck}
	}
	if inCheck {
		return Status{Kind: Checkmate, Winner: side.Opponent(), InCheck: true}
	}
	return Status{Kind: Stalemate}
}

// ApplyMove validates m against the legal moves of pos and returns the
// resulting position and its status. Legality and the terminal check are
// both computed from positions passed in or produced here, never from
// anything cached.
func ApplyMove(pos Position, m Move) (Position, Status, error) {
	piece, ok := pos.PieceAt(m.From)
	if !ok {
		return pos, Status{}, fmt.Errorf("%w: %s: no piece on %s", ErrIllegalMove, m, m.From)
	}
	if piece.Color != pos.SideToMove() {
		return pos, Status{}, fmt.Errorf("%w: %s: %s to move", ErrIllegalMove, m, pos.SideToMove())
	}
	if slices.Index(LegalMoves(pos, m.From), m) < 0 {
		return pos, Status{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	next := pos.play(m)
	if err := next.Validate(); err != nil {
		return pos, Status{}, fmt.Errorf("apply %s: %w", m, err)
	}
	return next, Evaluate(next), nil
}
