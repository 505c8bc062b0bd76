package chess

import (
	"errors"
	"math/rand"
	"testing"
)

func TestUCIRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 10; game++ {
		pos := NewPosition()
		for ply := 0; ply < 80; ply++ {
			moves := AllLegalMoves(pos)
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				s := ToUCI(m)
				back, err := FromUCI(pos, s)
				if err != nil {
					t.Fatalf("%s: FromUCI(%s): %v", pos.FEN(), s, err)
				}
				if back != m {
					t.Fatalf("%s: FromUCI(ToUCI(%+v)) = %+v", pos.FEN(), m, back)
				}
				if got := ToUCI(back); got != s {
					t.Fatalf("%s: ToUCI(FromUCI(%s)) = %s", pos.FEN(), s, got)
				}
			}
			pos = pos.play(moves[rng.Intn(len(moves))])
		}
	}
}

func TestParseUCIMalformed(t *testing.T) {
	for _, s := range []string{"", "e2", "e2e", "e2e4e5", "i2e4", "e9e4", "e7e8k", "e7e8Q", "e7e8p", "E2E4"} {
		if _, err := ParseUCI(s); !errors.Is(err, ErrMalformedNotation) {
			t.Errorf("ParseUCI(%q): got %v, want ErrMalformedNotation", s, err)
		}
	}
	m, err := ParseUCI("e7e8q")
	if err != nil {
		t.Fatalf("ParseUCI(e7e8q): %v", err)
	}
	if m.Kind != Promotion || m.Promotion != Queen {
		t.Fatalf("ParseUCI(e7e8q): got %+v", m)
	}
}

func TestToAlgebraic(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{name: "knight", fen: StartFEN, move: "g1f3", want: "Nf3"},
		{name: "pawn push", fen: StartFEN, move: "e2e4", want: "e4"},
		{name: "pawn capture", fen: "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", move: "e4d5", want: "exd5"},
		{name: "file disambiguation", fen: "1k6/8/8/8/8/8/7K/R6R w - - 0 1", move: "a1d1", want: "Rad1"},
		{name: "rank disambiguation", fen: "1k6/8/8/R7/8/8/7K/R7 w - - 0 1", move: "a1a3", want: "R1a3"},
		{name: "queenside castle", fen: "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", move: "e1c1", want: "O-O-O"},
		{name: "capture with check", fen: "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", move: "a1a8", want: "Rxa8+"},
		{name: "promotion with check", fen: "7k/P7/8/8/8/8/8/K7 w - - 0 1", move: "a7a8q", want: "a8=Q+"},
		{name: "mate", fen: "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", move: "a1a8", want: "Ra8#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			m, err := FromUCI(pos, tt.move)
			if err != nil {
				t.Fatalf("FromUCI(%s): %v", tt.move, err)
			}
			if got := ToAlgebraic(m, pos); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			back, err := FromAlgebraic(pos, tt.want)
			if err != nil {
				t.Fatalf("FromAlgebraic(%s): %v", tt.want, err)
			}
			if back != m {
				t.Fatalf("FromAlgebraic(%s): got %+v, want %+v", tt.want, back, m)
			}
		})
	}
}

func TestFromAlgebraic(t *testing.T) {
	pos := NewPosition()
	if _, err := FromAlgebraic(pos, "Zf3"); !errors.Is(err, ErrMalformedNotation) {
		t.Fatalf("Zf3: got %v, want ErrMalformedNotation", err)
	}
	if _, err := FromAlgebraic(pos, "Nf4"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Nf4: got %v, want ErrIllegalMove", err)
	}
	if _, err := FromAlgebraic(pos, "O-O"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("O-O from the start: got %v, want ErrIllegalMove", err)
	}

	twoRooks := mustFEN(t, "1k6/8/8/8/8/8/7K/R6R w - - 0 1")
	if _, err := FromAlgebraic(twoRooks, "Rd1"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("ambiguous Rd1: got %v, want ErrIllegalMove", err)
	}
	m, err := FromAlgebraic(twoRooks, "Rhd1")
	if err != nil || m.From != MustSquare("h1") {
		t.Fatalf("Rhd1: got %+v, %v", m, err)
	}

	g := NewGame()
	for _, san := range []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "0-0"} {
		if _, err := g.PlaySAN(san); err != nil {
			t.Fatalf("PlaySAN(%s): %v", san, err)
		}
	}
	if got := g.UCIMoves()[6]; got != "e1g1" {
		t.Fatalf("0-0: got %s, want e1g1", got)
	}
}

func TestFEN(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"8/8/8/8/8/8/8/k6K b - - 12 40",
	}
	for _, fen := range fens {
		if got := mustFEN(t, fen).FEN(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
	}
	if got := NewPosition().FEN(); got != StartFEN {
		t.Fatalf("initial: got %q", got)
	}

	short := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 w - -")
	if short.HalfmoveClock() != 0 || short.FullmoveNumber() != 1 {
		t.Fatalf("short fen clocks: %d %d", short.HalfmoveClock(), short.FullmoveNumber())
	}

	malformed := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e5 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbnr/ppppzppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"Pnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"4k3/8/8/3PP3/8/8/8/4K3 w - e6 0 1",
		"4k3/8/8/8/8/8/3PP3/4K3 w - e3 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e3 0 1",
		"rnbqkbnr/pppp1ppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 1",
	}
	for _, fen := range malformed {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrMalformedNotation) {
			t.Errorf("ParseFEN(%q): got %v, want ErrMalformedNotation", fen, err)
		}
	}

	invariant := []string{
		"8/8/8/8/8/8/8/K7 w - - 0 1",
		"k7/8/8/8/8/8/8/KK6 w - - 0 1",
		"k7/8/8/8/8/8/8/R6K w - - 0 1",
	}
	for _, fen := range invariant {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("ParseFEN(%q): got %v, want ErrInvariantViolation", fen, err)
		}
	}
}
