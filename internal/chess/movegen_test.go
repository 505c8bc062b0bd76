package chess

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []uint64
	}{
		{name: "start", fen: StartFEN, nodes: []uint64{20, 400, 8902}},
		{name: "kiwipete", fen: "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", nodes: []uint64{48, 2039}},
		{name: "rook endgame", fen: "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", nodes: []uint64{14, 191, 2812}},
		{name: "promotions", fen: "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", nodes: []uint64{6, 264}},
		{name: "discovered checks", fen: "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", nodes: []uint64{44, 1486}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			for depth, want := range tt.nodes {
				if testing.Short() && depth >= 2 {
					break
				}
				if got := Perft(pos, depth+1); got != want {
					t.Fatalf("perft(%d): got %d, want %d", depth+1, got, want)
				}
			}
		})
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos := NewPosition()
	var total uint64
	for _, n := range Divide(pos, 2) {
		total += n
	}
	if total != 400 {
		t.Fatalf("divide(2) total: got %d, want 400", total)
	}
}

func uciSet(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = ToUCI(m)
	}
	sort.Strings(out)
	return out
}

func oracleSet(fen string) []string {
	board := dragontoothmg.ParseFen(fen)
	moves := board.GenerateLegalMoves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

// TestLegalMovesMatchOracle walks random games and compares every position's
// legal move list with dragontoothmg's.
func TestLegalMovesMatchOracle(t *testing.T) {
	starts := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for seed, start := range starts {
		rng := rand.New(rand.NewSource(int64(seed + 1)))
		for game := 0; game < 8; game++ {
			pos := mustFEN(t, start)
			for ply := 0; ply < 60; ply++ {
				fen := pos.FEN()
				got, want := uciSet(AllLegalMoves(pos)), oracleSet(fen)
				if len(got) != len(want) {
					t.Fatalf("%s: got %d moves %v, want %d %v", fen, len(got), got, len(want), want)
				}
				for i := range got {
					if got[i] != want[i] {
						t.Fatalf("%s: got %v, want %v", fen, got, want)
					}
				}
				moves := AllLegalMoves(pos)
				if len(moves) == 0 {
					break
				}
				next, _, err := ApplyMove(pos, moves[rng.Intn(len(moves))])
				if err != nil {
					t.Fatalf("%s: %v", fen, err)
				}
				pos = next
			}
		}
	}
}

// TestLegalMovesKeepKingSafe checks the legality and one-king invariants on
// every position of random games.
func TestLegalMovesKeepKingSafe(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 20; game++ {
		pos := NewPosition()
		for ply := 0; ply < 120; ply++ {
			if err := pos.Validate(); err != nil {
				t.Fatalf("%s: %v", pos.FEN(), err)
			}
			mover := pos.SideToMove()
			moves := AllLegalMoves(pos)
			for _, m := range moves {
				if IsKingInCheck(pos.play(m), mover) {
					t.Fatalf("%s: %s leaves %s in check", pos.FEN(), m, mover)
				}
			}
			if len(moves) == 0 {
				if Evaluate(pos).Kind == InProgress {
					t.Fatalf("%s: no moves but still in progress", pos.FEN())
				}
				break
			}
			pos = pos.play(moves[rng.Intn(len(moves))])
		}
	}
}

func TestPseudoLegalMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		want []string
	}{
		{name: "empty square", fen: StartFEN, from: "e4", want: []string{}},
		{name: "pawn home rank", fen: StartFEN, from: "e2", want: []string{"e2e3", "e2e4"}},
		{name: "knight", fen: StartFEN, from: "g1", want: []string{"g1f3", "g1h3"}},
		{name: "blocked bishop", fen: StartFEN, from: "c1", want: []string{}},
		{name: "pawn capture", fen: "4k3/8/8/3p1p2/4P3/8/8/4K3 w - - 0 1", from: "e4", want: []string{"e4d5", "e4e5", "e4f5"}},
		{name: "blocked pawn", fen: "4k3/8/8/8/8/4p3/4P3/4K3 w - - 0 1", from: "e2", want: []string{}},
		{name: "rook rays", fen: "4k3/8/8/8/1p1R2P1/8/8/4K3 w - - 0 1", from: "d4", want: []string{
			"d4b4", "d4c4", "d4d1", "d4d2", "d4d3", "d4d5", "d4d6", "d4d7", "d4d8", "d4e4", "d4f4",
		}},
		{name: "pinned piece is still pseudo-legal", fen: "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1", from: "e2", want: []string{
			"e2c1", "e2c3", "e2d4", "e2f4", "e2g1", "e2g3",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			got := uciSet(PseudoLegalMoves(pos, MustSquare(tt.from)))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}

	pinned := mustFEN(t, "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1")
	if moves := LegalMoves(pinned, MustSquare("e2")); len(moves) != 0 {
		t.Fatalf("pinned knight: got %v, want no legal moves", uciSet(moves))
	}
}

func TestIsSquareAttacked(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3p4/8/8/8/R3K3 w - - 0 1")
	tests := []struct {
		sq   string
		by   Color
		want bool
	}{
		{sq: "a8", by: White, want: true},
		{sq: "b1", by: White, want: true},
		{sq: "e8", by: White, want: false},
		{sq: "c4", by: Black, want: true},
		{sq: "e4", by: Black, want: true},
		{sq: "d4", by: Black, want: false},
		{sq: "d7", by: Black, want: true},
		{sq: "d2", by: White, want: true},
	}
	for _, tt := range tests {
		if got := IsSquareAttacked(pos, MustSquare(tt.sq), tt.by); got != tt.want {
			t.Errorf("%s attacked by %s: got %v, want %v", tt.sq, tt.by, got, tt.want)
		}
	}
}
