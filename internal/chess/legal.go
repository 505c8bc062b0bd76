package chess

// play returns the position after m with every side effect applied: rook
// relocation on castling, removal of the passed pawn on en passant, piece
// replacement on promotion, and the auxiliary state (side to move, castling
// rights, en passant target, clocks). It does not check legality.
func (p Position) play(m Move) Position {
	next := p
	piece := next.at(m.From)
	captured := next.at(m.To)

	next.set(m.From, Piece{})
	next.set(m.To, piece)

	switch m.Kind {
	case CastleKingside, CastleQueenside:
		rookFrom, rookTo := m.castleRook()
		next.set(rookTo, next.at(rookFrom))
		next.set(rookFrom, Piece{})
	case EnPassant:
		victim := m.enPassantVictim()
		captured = next.at(victim)
		next.set(victim, Piece{})
	case Promotion:
		next.set(m.To, Piece{Type: m.Promotion, Color: piece.Color})
	}

	if piece.Type == King {
		next.castling.forfeit(piece.Color)
	}
	next.castling.forfeitRook(m.From)
	next.castling.forfeitRook(m.To)

	next.enPassant = nil
	if piece.Type == Pawn && abs(m.To.Y-m.From.Y) == 2 {
		next.enPassant = &Square{X: m.From.X, Y: (m.From.Y + m.To.Y) / 2}
	}

	if piece.Type == Pawn || !captured.IsEmpty() {
		next.halfmove = 0
	} else {
		next.halfmove++
	}
	if piece.Color == Black {
		next.fullmove++
	}
	next.sideToMove = piece.Color.Opponent()
	return next
}

// LegalMoves returns the pseudo-legal moves of the piece on sq that do not
// leave its own king in check. Castling additionally requires that the king
// is not in check and that none of the squares it stands on, crosses or
// lands on is attacked.
func LegalMoves(pos Position, sq Square) []Move {
	piece, ok := pos.PieceAt(sq)
	if !ok {
		return nil
	}
	legalMoves := []Move{}
	for _, move := range PseudoLegalMoves(pos, sq) {
		if move.IsCastle() && !castlePathSafe(pos, move, piece.Color) {
			continue
		}
		if !IsKingInCheck(pos.play(move), piece.Color) {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

func castlePathSafe(pos Position, m Move, color Color) bool {
	step := 1
	if m.Kind == CastleQueenside {
		step = -1
	}
	for x := m.From.X; x != m.To.X+step; x += step {
		if IsSquareAttacked(pos, Square{X: x, Y: m.From.Y}, color.Opponent()) {
			return false
		}
	}
	return true
}

// AllLegalMoves returns the legal moves of the side to move.
func AllLegalMoves(pos Position) []Move {
	moves := []Move{}
	pos.Pieces(func(sq Square, pc Piece) {
		if pc.Color == pos.sideToMove {
			moves = append(moves, LegalMoves(pos, sq)...)
		}
	})
	return moves
}

// HasAnyLegalMove reports whether color has at least one legal move in pos,
// stopping at the first one found.
func HasAnyLegalMove(pos Position, color Color) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sq := Square{X: x, Y: y}
			if pc := pos.at(sq); !pc.IsEmpty() && pc.Color == color && len(LegalMoves(pos, sq)) > 0 {
				return true
			}
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
