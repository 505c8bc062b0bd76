package chess

import (
	"fmt"
)

// CastlingRights records which castles have not been permanently forfeited.
type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func (c CastlingRights) kingside(color Color) bool {
	if color == White {
		return c.WhiteKingside
	}
	return c.BlackKingside
}

func (c CastlingRights) queenside(color Color) bool {
	if color == White {
		return c.WhiteQueenside
	}
	return c.BlackQueenside
}

func (c *CastlingRights) forfeit(color Color) {
	if color == White {
		c.WhiteKingside, c.WhiteQueenside = false, false
	} else {
		c.BlackKingside, c.BlackQueenside = false, false
	}
}

// forfeitRook clears the right tied to a rook home square, if sq is one.
func (c *CastlingRights) forfeitRook(sq Square) {
	switch sq {
	case Square{X: 7, Y: 7}:
		c.WhiteKingside = false
	case Square{X: 0, Y: 7}:
		c.WhiteQueenside = false
	case Square{X: 7, Y: 0}:
		c.BlackKingside = false
	case Square{X: 0, Y: 0}:
		c.BlackQueenside = false
	}
}

// Position is a snapshot of the board after some ply. It is a value: every
// move produces a new Position and the old one is never touched.
type Position struct {
	board      [8][8]Piece
	sideToMove Color
	castling   CastlingRights
	enPassant  *Square
	halfmove   int
	fullmove   int
}

// NewPosition returns the standard initial arrangement with white to move.
func NewPosition() Position {
	var pos Position
	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, t := range back {
		pos.board[0][x] = Piece{Type: t, Color: Black}
		pos.board[7][x] = Piece{Type: t, Color: White}
		pos.board[1][x] = Piece{Type: Pawn, Color: Black}
		pos.board[6][x] = Piece{Type: Pawn, Color: White}
	}
	pos.sideToMove = White
	pos.castling = CastlingRights{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true}
	pos.fullmove = 1
	return pos
}

// PieceAt returns the piece on sq and whether the square is occupied.
func (p Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.onBoard() {
		return Piece{}, false
	}
	pc := p.board[sq.Y][sq.X]
	return pc, !pc.IsEmpty()
}

func (p Position) at(sq Square) Piece {
	return p.board[sq.Y][sq.X]
}

func (p *Position) set(sq Square, pc Piece) {
	p.board[sq.Y][sq.X] = pc
}

func (p Position) SideToMove() Color { return p.sideToMove }

func (p Position) Castling() CastlingRights { return p.castling }

// EnPassantTarget returns the square jumped over by the previous ply's double
// pawn advance, if there was one.
func (p Position) EnPassantTarget() (Square, bool) {
	if p.enPassant == nil {
		return Square{}, false
	}
	return *p.enPassant, true
}

func (p Position) HalfmoveClock() int { return p.halfmove }

func (p Position) FullmoveNumber() int { return p.fullmove }

// Pieces calls fn for every occupied square, rank 8 first.
func (p Position) Pieces(fn func(Square, Piece)) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := p.board[y][x]; !pc.IsEmpty() {
				fn(Square{X: x, Y: y}, pc)
			}
		}
	}
}

// Board returns the rows of the board, row 0 being rank 8.
func (p Position) Board() [8][8]Piece {
	return p.board
}

func (p Position) kingSquare(color Color) (Square, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := p.board[y][x]; pc.Type == King && pc.Color == color {
				return Square{X: x, Y: y}, true
			}
		}
	}
	return Square{}, false
}

// Validate checks that exactly one king of each color is on the board.
func (p Position) Validate() error {
	kings := map[Color]int{}
	p.Pieces(func(_ Square, pc Piece) {
		if pc.Type == King {
			kings[pc.Color]++
		}
	})
	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			return fmt.Errorf("%w: %d %s kings on the board", ErrInvariantViolation, kings[c], c)
		}
	}
	return nil
}

func (p Position) String() string {
	return p.FEN()
}
