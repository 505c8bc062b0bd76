package chess

// MoveKind tags the special effect a move carries beyond relocating a piece.
type MoveKind string

const (
	Normal          MoveKind = "normal"
	CastleKingside  MoveKind = "castleKingside"
	CastleQueenside MoveKind = "castleQueenside"
	EnPassant       MoveKind = "enPassant"
	Promotion       MoveKind = "promotion"
)

// Move is fully self-describing: applying it needs nothing beyond the
// Position it was generated against. Promotion is set only for Kind
// Promotion.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Kind      MoveKind  `json:"kind"`
	Promotion PieceType `json:"promotion,omitempty"`
}

func (m Move) String() string {
	return ToUCI(m)
}

func (m Move) IsCastle() bool {
	return m.Kind == CastleKingside || m.Kind == CastleQueenside
}

// castleRook returns where the rook starts and lands for a castling move.
func (m Move) castleRook() (from, to Square) {
	row := m.From.Y
	if m.Kind == CastleKingside {
		return Square{X: 7, Y: row}, Square{X: 5, Y: row}
	}
	return Square{X: 0, Y: row}, Square{X: 3, Y: row}
}

// enPassantVictim is the square of the pawn removed by an en passant capture:
// beside the capturer, not on the destination.
func (m Move) enPassantVictim() Square {
	return Square{X: m.To.X, Y: m.From.Y}
}

// Ply is one applied move together with what it did, kept in game history.
type Ply struct {
	Move     Move   `json:"move"`
	Piece    Piece  `json:"piece"`
	Captured *Piece `json:"capturedPiece"`
	UCI      string `json:"uci"`
	SAN      string `json:"notation"`
	FEN      string `json:"fen"`
}
