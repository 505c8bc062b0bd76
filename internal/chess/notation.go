package chess

import (
	"fmt"
	"regexp"
	"strings"
)

// ToUCI renders m in coordinate notation: e2e4, e7e8q. Castling is the
// king's two-square move (e1g1).
func ToUCI(m Move) string {
	s := m.From.String() + m.To.String()
	if m.Kind == Promotion {
		s += m.Promotion.uciSuffix()
	}
	return s
}

// ParseUCI checks the grammar of a coordinate move and returns it untagged:
// Kind is Promotion when a suffix is present and Normal otherwise. Use
// FromUCI to resolve it against a position.
func ParseUCI(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: uci move %q", ErrMalformedNotation, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: uci move %q", ErrMalformedNotation, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: uci move %q", ErrMalformedNotation, s)
	}
	m := Move{From: from, To: to, Kind: Normal}
	if len(s) == 5 {
		t, ok := pieceTypeFromLetter(s[4])
		if !ok || t == King || t == Pawn || s[4] < 'a' {
			return Move{}, fmt.Errorf("%w: uci promotion in %q", ErrMalformedNotation, s)
		}
		m.Kind, m.Promotion = Promotion, t
	}
	return m, nil
}

// FromUCI resolves a coordinate move against the legal moves of pos, filling
// in the castling, en passant or promotion tag. A promoting pawn move sent
// without a suffix becomes a queen promotion.
func FromUCI(pos Position, s string) (Move, error) {
	parsed, err := ParseUCI(s)
	if err != nil {
		return Move{}, err
	}
	if pc, ok := pos.PieceAt(parsed.From); !ok || pc.Color != pos.SideToMove() {
		return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}
	for _, m := range LegalMoves(pos, parsed.From) {
		if m.To != parsed.To {
			continue
		}
		if m.Kind == Promotion {
			want := parsed.Promotion
			if want == NoPiece {
				want = Queen
			}
			if m.Promotion != want {
				continue
			}
		} else if parsed.Kind == Promotion {
			continue
		}
		return m, nil
	}
	return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// ToAlgebraic renders m, played from pos, in SAN: piece letter, origin
// disambiguation where needed, capture marker, destination, promotion and
// a check or mate suffix computed on the resulting position.
func ToAlgebraic(m Move, pos Position) string {
	return sanBody(m, pos) + checkSuffix(m, pos)
}

func sanBody(m Move, pos Position) string {
	switch m.Kind {
	case CastleKingside:
		return "O-O"
	case CastleQueenside:
		return "O-O-O"
	}

	piece := pos.at(m.From)
	capture := m.Kind == EnPassant || !pos.at(m.To).IsEmpty()

	var sb strings.Builder
	if piece.Type == Pawn {
		if capture {
			sb.WriteString(m.From.fileNotation())
		}
	} else {
		sb.WriteString(piece.Type.notation())
		sb.WriteString(disambiguation(m, pos, piece))
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Kind == Promotion {
		sb.WriteByte('=')
		sb.WriteString(m.Promotion.notation())
	}
	return sb.String()
}

// disambiguation names the origin file, rank, or both when another piece of
// the same kind could also legally reach the destination.
func disambiguation(m Move, pos Position, piece Piece) string {
	var rivals []Square
	pos.Pieces(func(sq Square, pc Piece) {
		if sq == m.From || pc != piece {
			return
		}
		for _, other := range LegalMoves(pos, sq) {
			if other.To == m.To {
				rivals = append(rivals, sq)
				return
			}
		}
	})
	if len(rivals) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, sq := range rivals {
		sameFile = sameFile || sq.X == m.From.X
		sameRank = sameRank || sq.Y == m.From.Y
	}
	switch {
	case !sameFile:
		return m.From.fileNotation()
	case !sameRank:
		return m.From.rankNotation()
	default:
		return m.From.String()
	}
}

func checkSuffix(m Move, pos Position) string {
	mover := pos.at(m.From).Color
	next := pos.play(m)
	if !IsKingInCheck(next, mover.Opponent()) {
		return ""
	}
	if HasAnyLegalMove(next, mover.Opponent()) {
		return "+"
	}
	return "#"
}

var sanPattern = regexp.MustCompile(`^([KQRBN])?([a-h])?([1-8])?(x)?([a-h][1-8])(?:=?([QRBN]))?$`)

// FromAlgebraic resolves SAN text against the legal moves of pos. Check and
// annotation suffixes are ignored; 0-0 is accepted for O-O.
func FromAlgebraic(pos Position, san string) (Move, error) {
	body := strings.TrimRight(strings.TrimSpace(san), "+#!?")
	body = strings.ReplaceAll(body, "0", "O")

	legal := AllLegalMoves(pos)
	switch body {
	case "O-O", "O-O-O":
		kind := CastleKingside
		if body == "O-O-O" {
			kind = CastleQueenside
		}
		for _, m := range legal {
			if m.Kind == kind {
				return m, nil
			}
		}
		return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, san)
	}

	groups := sanPattern.FindStringSubmatch(body)
	if groups == nil {
		return Move{}, fmt.Errorf("%w: san move %q", ErrMalformedNotation, san)
	}
	pieceType := Pawn
	if groups[1] != "" {
		pieceType, _ = pieceTypeFromLetter(groups[1][0])
	}
	to, _ := ParseSquare(groups[5])
	promotion := NoPiece
	if groups[6] != "" {
		promotion, _ = pieceTypeFromLetter(groups[6][0])
	}

	var matches []Move
	for _, m := range legal {
		if m.To != to || pos.at(m.From).Type != pieceType {
			continue
		}
		if groups[2] != "" && m.From.fileNotation() != groups[2] {
			continue
		}
		if groups[3] != "" && m.From.rankNotation() != groups[3] {
			continue
		}
		if m.Kind == Promotion {
			want := promotion
			if want == NoPiece {
				want = Queen
			}
			if m.Promotion != want {
				continue
			}
		} else if promotion != NoPiece {
			continue
		}
		matches = append(matches, m)
	}
	switch len(matches) {
	case 0:
		return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, san)
	case 1:
		return matches[0], nil
	default:
		return Move{}, fmt.Errorf("%w: %s is ambiguous", ErrIllegalMove, san)
	}
}
