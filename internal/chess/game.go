package chess

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Game is the record of one game: the starting position, every ply applied
// since, and the status of the latest position. It is not safe for
// concurrent use; the owner serialises calls.
type Game struct {
	positions []Position
	plies     []Ply
	status    Status
}

func NewGame() *Game {
	return NewGameFromPosition(NewPosition())
}

func NewGameFromPosition(pos Position) *Game {
	return &Game{
		positions: []Position{pos},
		plies:     make([]Ply, 0),
		status:    Evaluate(pos),
	}
}

// Replay rebuilds a game from the start position and a UCI move history.
func Replay(moves []string) (*Game, error) {
	g := NewGame()
	for i, s := range moves {
		if _, err := g.PlayUCI(s); err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
	}
	return g, nil
}

// Position returns the current position.
func (g *Game) Position() Position {
	return g.positions[len(g.positions)-1]
}

// PositionAt returns the position after ply n, 0 being the start.
func (g *Game) PositionAt(n int) (Position, bool) {
	if n < 0 || n >= len(g.positions) {
		return Position{}, false
	}
	return g.positions[n], true
}

func (g *Game) Status() Status { return g.status }

func (g *Game) Result() Result { return g.status.Result() }

func (g *Game) Plies() []Ply {
	return slices.Clone(g.plies)
}

func (g *Game) LastPly() (Ply, bool) {
	if len(g.plies) == 0 {
		return Ply{}, false
	}
	return g.plies[len(g.plies)-1], true
}

// UCIMoves is the durable form of the game: replaying it with Replay gives
// the same game back.
func (g *Game) UCIMoves() []string {
	moves := make([]string, len(g.plies))
	for i, ply := range g.plies {
		moves[i] = ply.UCI
	}
	return moves
}

// LegalMoves returns the legal moves from sq in the current position.
func (g *Game) LegalMoves(sq Square) []Move {
	if g.status.IsTerminal() {
		return nil
	}
	return LegalMoves(g.Position(), sq)
}

// Play applies m to the current position. On error the game is unchanged.
func (g *Game) Play(m Move) (Ply, error) {
	if g.status.IsTerminal() {
		return Ply{}, fmt.Errorf("%w: %s", ErrGameOver, g.status.Result())
	}
	pos := g.Position()
	next, status, err := ApplyMove(pos, m)
	if err != nil {
		return Ply{}, err
	}

	ply := Ply{
		Move:  m,
		Piece: pos.at(m.From),
		UCI:   ToUCI(m),
		SAN:   sanBody(m, pos) + statusSuffix(status),
		FEN:   next.FEN(),
	}
	captured := pos.at(m.To)
	if m.Kind == EnPassant {
		captured = pos.at(m.enPassantVictim())
	}
	if !captured.IsEmpty() {
		ply.Captured = &captured
	}

	g.positions = append(g.positions, next)
	g.plies = append(g.plies, ply)
	g.status = status
	return ply, nil
}

// PlayUCI resolves s against the current position and plays it.
func (g *Game) PlayUCI(s string) (Ply, error) {
	if g.status.IsTerminal() {
		return Ply{}, fmt.Errorf("%w: %s", ErrGameOver, g.status.Result())
	}
	m, err := FromUCI(g.Position(), s)
	if err != nil {
		return Ply{}, err
	}
	return g.Play(m)
}

// PlaySAN resolves s against the current position and plays it.
func (g *Game) PlaySAN(s string) (Ply, error) {
	if g.status.IsTerminal() {
		return Ply{}, fmt.Errorf("%w: %s", ErrGameOver, g.status.Result())
	}
	m, err := FromAlgebraic(g.Position(), s)
	if err != nil {
		return Ply{}, err
	}
	return g.Play(m)
}

// Undo drops the last ply. It reports false when there is nothing to undo.
func (g *Game) Undo() bool {
	if len(g.plies) == 0 {
		return false
	}
	g.positions = g.positions[:len(g.positions)-1]
	g.plies = g.plies[:len(g.plies)-1]
	g.status = Evaluate(g.Position())
	return true
}

// Reset returns the game to its starting position.
func (g *Game) Reset() {
	g.positions = g.positions[:1]
	g.plies = make([]Ply, 0)
	g.status = Evaluate(g.positions[0])
}

// statusSuffix is the SAN check marker for the position a move produced.
func statusSuffix(s Status) string {
	switch {
	case s.Kind == Checkmate:
		return "#"
	case s.InCheck:
		return "+"
	}
	return ""
}
