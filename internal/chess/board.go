package chess

import (
	"fmt"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the row delta a pawn of this color advances by. Row 0 is rank 8.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) pawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

type PieceType string

const (
	NoPiece PieceType = ""
	King    PieceType = "king"
	Queen   PieceType = "queen"
	Rook    PieceType = "rook"
	Bishop  PieceType = "bishop"
	Knight  PieceType = "knight"
	Pawn    PieceType = "pawn"
)

// promotionKinds lists what a pawn may become, queen first.
var promotionKinds = []PieceType{Queen, Rook, Bishop, Knight}

func (p PieceType) notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (p PieceType) uciSuffix() string {
	switch p {
	case Queen:
		return "q"
	case Rook:
		return "r"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	}
	return ""
}

func pieceTypeFromLetter(c byte) (PieceType, bool) {
	switch c {
	case 'k', 'K':
		return King, true
	case 'q', 'Q':
		return Queen, true
	case 'r', 'R':
		return Rook, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	case 'p', 'P':
		return Pawn, true
	}
	return NoPiece, false
}

// Piece is a kind and a color. The zero value is an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPiece
}

// fenLetter renders the piece the way FEN does: uppercase for white.
func (p Piece) fenLetter() byte {
	var c byte
	switch p.Type {
	case King:
		c = 'k'
	case Queen:
		c = 'q'
	case Rook:
		c = 'r'
	case Bishop:
		c = 'b'
	case Knight:
		c = 'n'
	case Pawn:
		c = 'p'
	default:
		return '.'
	}
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return c
}

// Square addresses the board by column X (file a..h) and row Y, where row 0
// is rank 8 and row 7 is rank 1.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s Square) File() int { return s.X }

func (s Square) Rank() int { return 8 - s.Y }

func (s Square) String() string {
	if !s.onBoard() {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'a'+s.X, 8-s.Y)
}

func (s Square) fileNotation() string {
	return fmt.Sprintf("%c", 'a'+s.X)
}

func (s Square) rankNotation() string {
	return fmt.Sprintf("%d", 8-s.Y)
}

func (s Square) onBoard() bool {
	return s.X >= 0 && s.X < 8 && s.Y >= 0 && s.Y < 8
}

func (s Square) offset(d direction) Square {
	return Square{X: s.X + d.X, Y: s.Y + d.Y}
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("%w: square %q", ErrMalformedNotation, s)
	}
	return Square{X: int(s[0] - 'a'), Y: 8 - int(s[1]-'0')}, nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

type direction struct {
	X, Y int
}

var (
	rookDirs   = []direction{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []direction{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []direction{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []direction{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)
