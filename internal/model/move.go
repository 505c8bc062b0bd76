package model

import "github.com/benbeisheim/chessrules-backend/internal/chess"

// WSMove is a move request from a client in UCI notation.
type WSMove struct {
	Move string `json:"move"`
}

type CastleRookMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

type Ply struct {
	chess.Ply
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
}

// Move pairs white's and black's plies of one full move.
type Move struct {
	Number   int  `json:"number"`
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

func newPly(p chess.Ply) *Ply {
	ply := &Ply{Ply: p}
	switch p.Move.Kind {
	case chess.CastleKingside:
		row := p.Move.From.Y
		ply.CastleRookMove = &CastleRookMove{From: chess.Square{X: 7, Y: row}, To: chess.Square{X: 5, Y: row}}
	case chess.CastleQueenside:
		row := p.Move.From.Y
		ply.CastleRookMove = &CastleRookMove{From: chess.Square{X: 0, Y: row}, To: chess.Square{X: 3, Y: row}}
	}
	return ply
}

// historyFrom groups plies into numbered full moves starting at the given
// move number.
func historyFrom(plies []chess.Ply, firstMove int) []Move {
	history := make([]Move, 0, len(plies)/2+1)
	for _, p := range plies {
		ply := newPly(p)
		if p.Piece.Color == chess.White || len(history) == 0 {
			history = append(history, Move{Number: firstMove + len(history)})
		}
		last := &history[len(history)-1]
		if p.Piece.Color == chess.White {
			last.WhitePly = ply
		} else {
			last.BlackPly = ply
		}
	}
	return history
}
