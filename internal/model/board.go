package model

import "github.com/benbeisheim/chessrules-backend/internal/chess"

// BoardState is the board as clients draw it: Board[y][x], row 0 = rank 8,
// nil for an empty square.
type BoardState struct {
	Board             [][]*Piece   `json:"board"`
	BlackKingPosition chess.Square `json:"blackKingPosition"`
	WhiteKingPosition chess.Square `json:"whiteKingPosition"`
}

type Piece struct {
	Type     chess.PieceType `json:"type"`
	Color    chess.Color     `json:"color"`
	Position chess.Square    `json:"position"`
}

func newBoardState(pos chess.Position) *BoardState {
	board := &BoardState{}
	for i := 0; i < 8; i++ {
		board.Board = append(board.Board, make([]*Piece, 8))
	}
	pos.Pieces(func(sq chess.Square, pc chess.Piece) {
		board.Board[sq.Y][sq.X] = &Piece{Type: pc.Type, Color: pc.Color, Position: sq}
		if pc.Type == chess.King {
			switch pc.Color {
			case chess.White:
				board.WhiteKingPosition = sq
			case chess.Black:
				board.BlackKingPosition = sq
			}
		}
	})
	return board
}

type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

// capturedFrom lists pieces taken by each side, in the order they fell.
func capturedFrom(plies []chess.Ply) CapturedPieces {
	captured := CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
	for _, ply := range plies {
		if ply.Captured == nil {
			continue
		}
		switch ply.Piece.Color {
		case chess.White:
			captured.White = append(captured.White, *ply.Captured)
		case chess.Black:
			captured.Black = append(captured.Black, *ply.Captured)
		}
	}
	return captured
}
