package chess

// PseudoLegalMoves returns every move the piece on sq could make by its
// movement pattern and the board occupancy, without asking whether the
// mover's king is left in check. An empty square yields no moves.
func PseudoLegalMoves(pos Position, sq Square) []Move {
	piece, ok := pos.PieceAt(sq)
	if !ok {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return pseudoPawnMoves(pos, sq, piece)
	case Knight:
		return pseudoStepMoves(pos, sq, piece, knightDirs)
	case Bishop:
		return pseudoSlideMoves(pos, sq, piece, bishopDirs)
	case Rook:
		return pseudoSlideMoves(pos, sq, piece, rookDirs)
	case Queen:
		return append(pseudoSlideMoves(pos, sq, piece, bishopDirs), pseudoSlideMoves(pos, sq, piece, rookDirs)...)
	case King:
		return append(pseudoStepMoves(pos, sq, piece, kingDirs), pseudoCastleMoves(pos, sq, piece)...)
	default:
		return nil
	}
}

func pseudoPawnMoves(pos Position, from Square, piece Piece) []Move {
	pawnMoves := []Move{}
	fwd := piece.Color.forward()
	lastRow := piece.Color.Opponent().homeRow()

	add := func(to Square) {
		if to.Y == lastRow {
			for _, kind := range promotionKinds {
				pawnMoves = append(pawnMoves, Move{From: from, To: to, Kind: Promotion, Promotion: kind})
			}
			return
		}
		pawnMoves = append(pawnMoves, Move{From: from, To: to, Kind: Normal})
	}

	// Check move forward 1
	one := from.offset(direction{X: 0, Y: fwd})
	if one.onBoard() && pos.at(one).IsEmpty() {
		add(one)
		// Check move forward 2 from the home rank
		two := one.offset(direction{X: 0, Y: fwd})
		if from.Y == piece.Color.pawnRow() && pos.at(two).IsEmpty() {
			pawnMoves = append(pawnMoves, Move{From: from, To: two, Kind: Normal})
		}
	}
	// Check captures, en passant included
	ep, hasEP := pos.EnPassantTarget()
	for _, dx := range []int{-1, 1} {
		to := from.offset(direction{X: dx, Y: fwd})
		if !to.onBoard() {
			continue
		}
		if target := pos.at(to); !target.IsEmpty() && target.Color != piece.Color {
			add(to)
		} else if hasEP && to == ep {
			pawnMoves = append(pawnMoves, Move{From: from, To: to, Kind: EnPassant})
		}
	}
	return pawnMoves
}

func pseudoStepMoves(pos Position, from Square, piece Piece, dirs []direction) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		to := from.offset(dir)
		if !to.onBoard() {
			continue
		}
		if target := pos.at(to); target.IsEmpty() || target.Color != piece.Color {
			moves = append(moves, Move{From: from, To: to, Kind: Normal})
		}
	}
	return moves
}

func pseudoSlideMoves(pos Position, from Square, piece Piece, dirs []direction) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		to := from.offset(dir)
		for to.onBoard() {
			target := pos.at(to)
			if target.IsEmpty() {
				moves = append(moves, Move{From: from, To: to, Kind: Normal})
			} else if target.Color != piece.Color {
				moves = append(moves, Move{From: from, To: to, Kind: Normal})
				break
			} else {
				break
			}
			to = to.offset(dir)
		}
	}
	return moves
}

// pseudoCastleMoves checks rights and the emptiness of the squares between
// king and rook. Safety of the king's path is left to the legality filter.
func pseudoCastleMoves(pos Position, from Square, piece Piece) []Move {
	row := piece.Color.homeRow()
	if from != (Square{X: 4, Y: row}) {
		return nil
	}
	moves := []Move{}
	rights := pos.Castling()
	rook := Piece{Type: Rook, Color: piece.Color}
	if rights.kingside(piece.Color) && pos.board[row][7] == rook &&
		pos.board[row][5].IsEmpty() && pos.board[row][6].IsEmpty() {
		moves = append(moves, Move{From: from, To: Square{X: 6, Y: row}, Kind: CastleKingside})
	}
	if rights.queenside(piece.Color) && pos.board[row][0] == rook &&
		pos.board[row][1].IsEmpty() && pos.board[row][2].IsEmpty() && pos.board[row][3].IsEmpty() {
		moves = append(moves, Move{From: from, To: Square{X: 2, Y: row}, Kind: CastleQueenside})
	}
	return moves
}
