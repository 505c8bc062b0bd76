package chess

// IsSquareAttacked reports whether any piece of color by attacks sq. Rays are
// walked outward from sq so the first piece met on each ray decides; pawns
// attack only their two forward diagonals. Every check or castling-safety
// question in this package goes through here.
func IsSquareAttacked(pos Position, sq Square, by Color) bool {
	isAttacker := func(at Square, types ...PieceType) bool {
		pc := pos.at(at)
		if pc.Color != by {
			return false
		}
		for _, t := range types {
			if pc.Type == t {
				return true
			}
		}
		return false
	}

	if rayAttacked(pos, sq, rookDirs, func(at Square) bool { return isAttacker(at, Rook, Queen) }) {
		return true
	}
	if rayAttacked(pos, sq, bishopDirs, func(at Square) bool { return isAttacker(at, Bishop, Queen) }) {
		return true
	}
	for _, dir := range knightDirs {
		if at := sq.offset(dir); at.onBoard() && isAttacker(at, Knight) {
			return true
		}
	}
	for _, dir := range kingDirs {
		if at := sq.offset(dir); at.onBoard() && isAttacker(at, King) {
			return true
		}
	}
	// An attacking pawn stands one row behind sq from its own point of view.
	back := -by.forward()
	for _, dx := range []int{-1, 1} {
		if at := sq.offset(direction{X: dx, Y: back}); at.onBoard() && isAttacker(at, Pawn) {
			return true
		}
	}
	return false
}

func rayAttacked(pos Position, sq Square, dirs []direction, isSlider func(Square) bool) bool {
	for _, dir := range dirs {
		at := sq.offset(dir)
		for at.onBoard() {
			if !pos.at(at).IsEmpty() {
				if isSlider(at) {
					return true
				}
				break
			}
			at = at.offset(dir)
		}
	}
	return false
}

// IsKingInCheck reports whether color's king is attacked by the opponent. A
// position without that king is never reported in check; Validate catches it.
func IsKingInCheck(pos Position, color Color) bool {
	king, ok := pos.kingSquare(color)
	if !ok {
		return false
	}
	return IsSquareAttacked(pos, king, color.Opponent())
}
