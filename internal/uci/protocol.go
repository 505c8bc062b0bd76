package uci

import (
	"strconv"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
)

// Score is an evaluation as reported by the engine: centipawns, or moves to
// mate when IsMate is set. Engines report it from the side to move. Mate 0
// means the side to move is already mated; it carries no sign, so ForWhite
// records the winner instead.
type Score struct {
	Centipawns int         `json:"cp"`
	Mate       int         `json:"mate,omitempty"`
	IsMate     bool        `json:"isMate"`
	Winner     chess.Color `json:"winner,omitempty"`
}

// ForWhite flips a side-to-move score into white's perspective.
func (s Score) ForWhite(sideToMove chess.Color) Score {
	if s.IsMate && s.Mate == 0 {
		s.Winner = sideToMove.Opponent()
		return s
	}
	if sideToMove == chess.White {
		return s
	}
	return Score{Centipawns: -s.Centipawns, Mate: -s.Mate, IsMate: s.IsMate}
}

// Line is one principal variation of a multi-PV search.
type Line struct {
	MultiPV int      `json:"multipv"`
	Depth   int      `json:"depth"`
	Score   Score    `json:"score"`
	PV      []string `json:"pv"`
}

type Analysis struct {
	BestMove string `json:"bestMove"`
	Lines    []Line `json:"lines"`
}

// ForWhite returns a copy with every score in white's perspective.
func (a Analysis) ForWhite(sideToMove chess.Color) Analysis {
	out := Analysis{BestMove: a.BestMove, Lines: make([]Line, len(a.Lines))}
	for i, l := range a.Lines {
		l.Score = l.Score.ForWhite(sideToMove)
		out.Lines[i] = l
	}
	return out
}

// ParseInfo reads an "info" line carrying a score and a pv. Other info lines
// (currmove, string, hashfull only) are reported as not ok.
func ParseInfo(line string) (Line, bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 || tokens[0] != "info" {
		return Line{}, false
	}
	info := Line{MultiPV: 1}
	hasScore := false
	for i := 1; i < len(tokens); i++ {
		switch tokens[i] {
		case "string":
			return Line{}, false
		case "depth":
			if i+1 < len(tokens) {
				info.Depth, _ = strconv.Atoi(tokens[i+1])
				i++
			}
		case "multipv":
			if i+1 < len(tokens) {
				if n, err := strconv.Atoi(tokens[i+1]); err == nil {
					info.MultiPV = n
				}
				i++
			}
		case "score":
			if i+2 >= len(tokens) {
				return Line{}, false
			}
			n, err := strconv.Atoi(tokens[i+2])
			if err != nil {
				return Line{}, false
			}
			switch tokens[i+1] {
			case "cp":
				info.Score = Score{Centipawns: n}
			case "mate":
				info.Score = Score{Mate: n, IsMate: true}
			default:
				return Line{}, false
			}
			hasScore = true
			i += 2
		case "pv":
			info.PV = append([]string(nil), tokens[i+1:]...)
			i = len(tokens)
		}
	}
	if !hasScore || len(info.PV) == 0 {
		return Line{}, false
	}
	return info, true
}

// ParseBestMove reads a "bestmove <uci> [ponder <uci>]" line.
func ParseBestMove(line string) (string, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 || tokens[0] != "bestmove" {
		return "", false
	}
	return tokens[1], true
}
