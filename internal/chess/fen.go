package chess

import (
	"fmt"
	"strconv"
	"strings"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN encodes the position. Side to move, castling and en passant fields
// come straight from the position itself.
func (p Position) FEN() string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		empty := 0
		for x := 0; x < 8; x++ {
			pc := p.board[y][x]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.fenLetter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if y < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	castling := ""
	if p.castling.WhiteKingside {
		castling += "K"
	}
	if p.castling.WhiteQueenside {
		castling += "Q"
	}
	if p.castling.BlackKingside {
		castling += "k"
	}
	if p.castling.BlackQueenside {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	if ep, ok := p.EnPassantTarget(); ok {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", p.halfmove, p.fullmove)
	return sb.String()
}

// ParseFEN decodes a FEN string. The clock fields may be omitted and default
// to 0 and 1. Besides grammar errors it rejects positions that break the
// one-king-per-side invariant or where the side not to move is in check.
func ParseFEN(fen string) (Position, error) {
	var pos Position
	fields := strings.Fields(fen)
	if len(fields) != 4 && len(fields) != 6 {
		return pos, fmt.Errorf("%w: fen needs 4 or 6 fields, got %d", ErrMalformedNotation, len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return pos, fmt.Errorf("%w: fen placement needs 8 ranks, got %d", ErrMalformedNotation, len(ranks))
	}
	for y, rank := range ranks {
		x := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				x += int(c - '0')
				continue
			}
			t, ok := pieceTypeFromLetter(c)
			if !ok || x > 7 {
				return pos, fmt.Errorf("%w: fen rank %q", ErrMalformedNotation, rank)
			}
			color := Black
			if c >= 'A' && c <= 'Z' {
				color = White
			}
			if t == Pawn && (y == 0 || y == 7) {
				return pos, fmt.Errorf("%w: pawn on back rank in %q", ErrMalformedNotation, rank)
			}
			pos.board[y][x] = Piece{Type: t, Color: color}
			x++
		}
		if x != 8 {
			return pos, fmt.Errorf("%w: fen rank %q covers %d files", ErrMalformedNotation, rank, x)
		}
	}

	switch fields[1] {
	case "w":
		pos.sideToMove = White
	case "b":
		pos.sideToMove = Black
	default:
		return pos, fmt.Errorf("%w: side to move %q", ErrMalformedNotation, fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				pos.castling.WhiteKingside = true
			case 'Q':
				pos.castling.WhiteQueenside = true
			case 'k':
				pos.castling.BlackKingside = true
			case 'q':
				pos.castling.BlackQueenside = true
			default:
				return pos, fmt.Errorf("%w: castling field %q", ErrMalformedNotation, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		ep, err := ParseSquare(fields[3])
		if err != nil {
			return pos, err
		}
		wantRank := 6
		if pos.sideToMove == Black {
			wantRank = 3
		}
		if ep.Rank() != wantRank {
			return pos, fmt.Errorf("%w: en passant square %s with %s to move", ErrMalformedNotation, ep, pos.sideToMove)
		}
		victim := Square{X: ep.X, Y: ep.Y - pos.sideToMove.forward()}
		if !pos.at(ep).IsEmpty() || pos.at(victim) != (Piece{Type: Pawn, Color: pos.sideToMove.Opponent()}) {
			return pos, fmt.Errorf("%w: en passant square %s has no pawn to capture", ErrMalformedNotation, ep)
		}
		pos.enPassant = &ep
	}

	pos.fullmove = 1
	if len(fields) == 6 {
		half, err := strconv.Atoi(fields[4])
		if err != nil || half < 0 {
			return pos, fmt.Errorf("%w: halfmove clock %q", ErrMalformedNotation, fields[4])
		}
		full, err := strconv.Atoi(fields[5])
		if err != nil || full < 1 {
			return pos, fmt.Errorf("%w: fullmove number %q", ErrMalformedNotation, fields[5])
		}
		pos.halfmove, pos.fullmove = half, full
	}

	if err := pos.Validate(); err != nil {
		return pos, err
	}
	if IsKingInCheck(pos, pos.sideToMove.Opponent()) {
		return pos, fmt.Errorf("%w: %s is in check but not to move", ErrInvariantViolation, pos.sideToMove.Opponent())
	}
	return pos, nil
}
