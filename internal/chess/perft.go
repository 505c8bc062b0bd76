package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(pos Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := AllLegalMoves(pos)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nodes += Perft(pos.play(m), depth-1)
	}
	return nodes
}

// Divide is Perft split by root move, keyed by UCI text.
func Divide(pos Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range AllLegalMoves(pos) {
		out[ToUCI(m)] = Perft(pos.play(m), depth-1)
	}
	return out
}
