package uci

import (
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
)

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
		want Line
	}{
		{
			name: "centipawns",
			line: "info depth 18 seldepth 24 multipv 2 score cp -35 nodes 1234 nps 99 time 12 pv e7e5 g1f3 b8c6",
			ok:   true,
			want: Line{MultiPV: 2, Depth: 18, Score: Score{Centipawns: -35}, PV: []string{"e7e5", "g1f3", "b8c6"}},
		},
		{
			name: "mate without multipv",
			line: "info depth 5 score mate -2 pv d8h4",
			ok:   true,
			want: Line{MultiPV: 1, Depth: 5, Score: Score{Mate: -2, IsMate: true}, PV: []string{"d8h4"}},
		},
		{
			name: "bound marker",
			line: "info depth 9 multipv 1 score cp 15 lowerbound nodes 5 pv d2d4",
			ok:   true,
			want: Line{MultiPV: 1, Depth: 9, Score: Score{Centipawns: 15}, PV: []string{"d2d4"}},
		},
		{name: "currmove", line: "info depth 3 currmove e2e4 currmovenumber 1", ok: false},
		{name: "string", line: "info string NNUE evaluation enabled", ok: false},
		{name: "no pv", line: "info depth 1 score cp 10", ok: false},
		{name: "bad score", line: "info depth 1 score cp x pv e2e4", ok: false},
		{name: "not info", line: "bestmove e2e4", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInfo(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.MultiPV != tt.want.MultiPV || got.Depth != tt.want.Depth || got.Score != tt.want.Score {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if len(got.PV) != len(tt.want.PV) {
				t.Fatalf("pv: got %v, want %v", got.PV, tt.want.PV)
			}
			for i := range got.PV {
				if got.PV[i] != tt.want.PV[i] {
					t.Fatalf("pv: got %v, want %v", got.PV, tt.want.PV)
				}
			}
		})
	}
}

func TestParseBestMove(t *testing.T) {
	if mv, ok := ParseBestMove("bestmove e7e8q ponder a2a3"); !ok || mv != "e7e8q" {
		t.Fatalf("got %q %v", mv, ok)
	}
	if _, ok := ParseBestMove("bestmove"); ok {
		t.Fatalf("bare bestmove should not parse")
	}
}

func TestScoreForWhite(t *testing.T) {
	s := Score{Centipawns: 120}
	if got := s.ForWhite(chess.White); got != s {
		t.Fatalf("white to move: got %+v", got)
	}
	if got := s.ForWhite(chess.Black); got.Centipawns != -120 {
		t.Fatalf("black to move: got %+v", got)
	}
	mate := Score{Mate: 3, IsMate: true}
	if got := mate.ForWhite(chess.Black); got.Mate != -3 || !got.IsMate {
		t.Fatalf("mate for black: got %+v", got)
	}

	mated := Score{Mate: 0, IsMate: true}
	if got := mated.ForWhite(chess.Black); got.Winner != chess.White || !got.IsMate {
		t.Fatalf("black mated: got %+v", got)
	}
	if got := mated.ForWhite(chess.White); got.Winner != chess.Black || !got.IsMate {
		t.Fatalf("white mated: got %+v", got)
	}
	if got := s.ForWhite(chess.Black); got.Winner != "" {
		t.Fatalf("winner set on a non-terminal score: %+v", got)
	}

	a := Analysis{BestMove: "e7e5", Lines: []Line{{MultiPV: 1, Score: Score{Centipawns: 20}}}}
	flipped := a.ForWhite(chess.Black)
	if flipped.Lines[0].Score.Centipawns != -20 || a.Lines[0].Score.Centipawns != 20 {
		t.Fatalf("ForWhite should copy: %+v / %+v", flipped, a)
	}
}
