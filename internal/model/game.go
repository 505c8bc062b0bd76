package model

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

const (
	ReasonCheckmate   = "checkmate"
	ReasonStalemate   = "stalemate"
	ReasonResignation = "resignation"
	ReasonTimeout     = "timeout"
)

// Subscriber receives game state pushes. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Subscriber // playerID -> connection
	mu          sync.RWMutex
}

type Resolution struct {
	Result chess.Result `json:"result"`
	Reason string       `json:"reason"`
}

// Game is one hosted game: the rules record plus players, clocks and the
// connections watching it. All access to the record goes through mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	record      *chess.Game
	players     Players
	connections *GameConnections
	timeControl time.Duration
	whiteClock  *Clock
	blackClock  *Clock
	sound       string
	resolution  *Resolution
}

type GameState struct {
	Sound          string              `json:"sound"`
	Board          *BoardState         `json:"boardState"`
	FEN            string              `json:"fen"`
	ToMove         chess.Color         `json:"toMove"`
	MoveHistory    []Move              `json:"moveHistory"`
	CapturedPieces CapturedPieces      `json:"capturedPieces"`
	IsCheck        bool                `json:"isCheck"`
	Status         chess.StatusKind    `json:"status"`
	Result         chess.Result        `json:"result"`
	Resolve        *string             `json:"resolve"`
	Players        Players             `json:"players"`
	LastMove       *SimpleMove         `json:"lastMove"`
	LegalMoves     map[string][]string `json:"legalMoves"`
	Plies          int                 `json:"plies"`
}

func NewGame(id string, timeControl time.Duration) *Game {
	return newGameWithRecord(id, timeControl, chess.NewGame())
}

// NewGameFromHistory hosts a game rebuilt from a UCI move history.
func NewGameFromHistory(id string, timeControl time.Duration, moves []string) (*Game, error) {
	record, err := chess.Replay(moves)
	if err != nil {
		return nil, err
	}
	g := newGameWithRecord(id, timeControl, record)
	g.resolveFromStatus(record.Status())
	return g, nil
}

func newGameWithRecord(id string, timeControl time.Duration, record *chess.Game) *Game {
	return &Game{
		ID:          id,
		record:      record,
		players:     newPlayers(timeControl),
		connections: NewGameConnections(),
		timeControl: timeControl,
		whiteClock:  NewClock(timeControl),
		blackClock:  NewClock(timeControl),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Subscriber),
	}
}

func newPlayers(timeControl time.Duration) Players {
	return Players{
		White: ClientPlayer{Color: chess.White, TimeLeft: deciseconds(timeControl)},
		Black: ClientPlayer{Color: chess.Black, TimeLeft: deciseconds(timeControl)},
	}
}

// AddPlayer seats a player, white first. Rejoining returns the same color.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugf("adding player %s to game %s", playerID, g.ID)

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	if g.players.White.ID == "" {
		g.players.White.ID = playerID
		return chess.White, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black.ID = playerID
		return chess.Black, nil
	}
	return "", ErrGameFull
}

func (g *Game) colorOf(playerID string) (chess.Color, bool) {
	if playerID == "" {
		return "", false
	}
	if g.players.White.ID == playerID {
		return chess.White, true
	}
	if g.players.Black.ID == playerID {
		return chess.Black, true
	}
	return "", false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

// UCIMoves returns the durable move history.
func (g *Game) UCIMoves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.record.UCIMoves()
}

// LegalMoves lists the UCI moves available from an algebraic square.
func (g *Game) LegalMoves(square string) ([]string, error) {
	sq, err := chess.ParseSquare(square)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolution != nil {
		return []string{}, nil
	}
	moves := g.record.LegalMoves(sq)
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = chess.ToUCI(m)
	}
	return out, nil
}

// MakeMove plays a UCI move for playerID. A rejected move leaves the game
// untouched.
func (g *Game) MakeMove(playerID string, uci string) (chess.Ply, error) {
	g.mu.Lock()
	color, ok := g.colorOf(playerID)
	if !ok {
		g.mu.Unlock()
		return chess.Ply{}, ErrNotInGame
	}
	if g.record.Position().SideToMove() != color {
		g.mu.Unlock()
		return chess.Ply{}, ErrNotYourTurn
	}
	ply, err := g.playLocked(func(pos chess.Position) (chess.Move, error) {
		return chess.FromUCI(pos, uci)
	})
	state := g.snapshot()
	g.mu.Unlock()

	if err == nil || errors.Is(err, chess.ErrGameOver) {
		g.broadcastState(state)
	}
	return ply, err
}

// PlaySuggested plays a move for the side to move on behalf of an engine.
// playerID must own the side to move, unless that seat is empty and the
// engine is standing in for a missing opponent. The suggestion is
// re-validated against the current position; if it is not legal there a
// random legal move is played instead. expectedPlies guards against the game
// having moved on while the suggestion was computed.
func (g *Game) PlaySuggested(playerID string, expectedPlies int, suggestion string, rng *rand.Rand) (chess.Ply, bool, error) {
	g.mu.Lock()
	color, ok := g.colorOf(playerID)
	if !ok {
		g.mu.Unlock()
		return chess.Ply{}, false, ErrNotInGame
	}
	if toMove := g.record.Position().SideToMove(); toMove != color && g.seat(toMove).ID != "" {
		g.mu.Unlock()
		return chess.Ply{}, false, ErrNotYourTurn
	}
	if n := len(g.record.UCIMoves()); n != expectedPlies {
		g.mu.Unlock()
		return chess.Ply{}, false, fmt.Errorf("%w: expected %d plies, have %d", ErrStalePosition, expectedPlies, n)
	}
	fallback := false
	ply, err := g.playLocked(func(pos chess.Position) (chess.Move, error) {
		m, err := chess.FromUCI(pos, suggestion)
		if err == nil {
			return m, nil
		}
		if suggestion != "" {
			log.Warnw("engine suggestion rejected, playing a random legal move", "game", g.ID, "suggestion", suggestion, "error", err)
		}
		moves := chess.AllLegalMoves(pos)
		if len(moves) == 0 {
			return chess.Move{}, err
		}
		fallback = true
		return moves[rng.Intn(len(moves))], nil
	})
	state := g.snapshot()
	g.mu.Unlock()

	if err == nil || errors.Is(err, chess.ErrGameOver) {
		g.broadcastState(state)
	}
	return ply, fallback, err
}

func (g *Game) seat(color chess.Color) ClientPlayer {
	if color == chess.White {
		return g.players.White
	}
	return g.players.Black
}

// playLocked resolves and applies a move for the side to move, then runs the
// clocks and records the outcome. g.mu must be held.
func (g *Game) playLocked(resolve func(chess.Position) (chess.Move, error)) (chess.Ply, error) {
	if g.resolution != nil {
		return chess.Ply{}, fmt.Errorf("%w: %s", chess.ErrGameOver, g.resolution.Reason)
	}
	pos := g.record.Position()
	mover := pos.SideToMove()
	moverClock, otherClock := g.clocks(mover)

	if moverClock.GetTimeLeft() <= 0 {
		moverClock.Stop()
		g.resolve(winnerResult(mover.Opponent()), ReasonTimeout)
		g.sound = "gameEnd"
		return chess.Ply{}, fmt.Errorf("%w: %s ran out of time", chess.ErrGameOver, mover)
	}

	m, err := resolve(pos)
	if err != nil {
		return chess.Ply{}, err
	}
	ply, err := g.record.Play(m)
	if err != nil {
		if errors.Is(err, chess.ErrInvariantViolation) {
			log.Errorw("rules invariant broken", "game", g.ID, "fen", pos.FEN(), "move", chess.ToUCI(m), "error", err)
		}
		return chess.Ply{}, err
	}

	// Stop current player's clock and start the opponent's
	moverClock.Stop()
	status := g.record.Status()
	if status.IsTerminal() {
		g.resolveFromStatus(status)
	} else {
		otherClock.Start()
	}
	g.sound = soundFor(ply, status)
	return ply, nil
}

// Resign ends the game in the opponent's favour.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	color, ok := g.colorOf(playerID)
	if !ok {
		g.mu.Unlock()
		return ErrNotInGame
	}
	if g.resolution != nil {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", chess.ErrGameOver, g.resolution.Reason)
	}
	g.resolve(winnerResult(color.Opponent()), ReasonResignation)
	g.sound = "gameEnd"
	g.whiteClock.Stop()
	g.blackClock.Stop()
	state := g.snapshot()
	g.mu.Unlock()

	g.broadcastState(state)
	return nil
}

// Reset puts the board back to the initial position with fresh clocks. The
// seated players stay.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	if _, ok := g.colorOf(playerID); !ok {
		g.mu.Unlock()
		return ErrNotInGame
	}
	g.record.Reset()
	g.resolution = nil
	g.sound = ""
	g.whiteClock = NewClock(g.timeControl)
	g.blackClock = NewClock(g.timeControl)
	state := g.snapshot()
	g.mu.Unlock()

	g.broadcastState(state)
	return nil
}

func (g *Game) clocks(color chess.Color) (mine, theirs *Clock) {
	if color == chess.White {
		return g.whiteClock, g.blackClock
	}
	return g.blackClock, g.whiteClock
}

func (g *Game) resolve(result chess.Result, reason string) {
	g.resolution = &Resolution{Result: result, Reason: reason}
}

func (g *Game) resolveFromStatus(status chess.Status) {
	switch status.Kind {
	case chess.Checkmate:
		g.resolve(status.Result(), ReasonCheckmate)
	case chess.Stalemate:
		g.resolve(status.Result(), ReasonStalemate)
	}
}

func winnerResult(c chess.Color) chess.Result {
	if c == chess.White {
		return chess.ResultWhiteWins
	}
	return chess.ResultBlackWins
}

func soundFor(ply chess.Ply, status chess.Status) string {
	switch {
	case status.IsTerminal():
		return "gameEnd"
	case status.InCheck:
		return "check"
	case ply.Move.IsCastle():
		return "castle"
	case ply.Move.Kind == chess.Promotion:
		return "promote"
	case ply.Captured != nil:
		return "capture"
	}
	return "move"
}

// snapshot builds the client view. g.mu must be held.
func (g *Game) snapshot() GameState {
	pos := g.record.Position()
	status := g.record.Status()
	start, _ := g.record.PositionAt(0)
	plies := g.record.Plies()

	state := GameState{
		Sound:          g.sound,
		Board:          newBoardState(pos),
		FEN:            pos.FEN(),
		ToMove:         pos.SideToMove(),
		MoveHistory:    historyFrom(plies, start.FullmoveNumber()),
		CapturedPieces: capturedFrom(plies),
		IsCheck:        status.InCheck,
		Status:         status.Kind,
		Result:         status.Result(),
		Players:        g.players,
		LegalMoves:     make(map[string][]string),
		Plies:          len(plies),
	}
	state.Players.White.TimeLeft = deciseconds(g.whiteClock.GetTimeLeft())
	state.Players.Black.TimeLeft = deciseconds(g.blackClock.GetTimeLeft())

	if g.resolution != nil {
		reason := g.resolution.Reason
		state.Resolve = &reason
		state.Result = g.resolution.Result
	} else {
		for _, m := range chess.AllLegalMoves(pos) {
			from := m.From.String()
			state.LegalMoves[from] = append(state.LegalMoves[from], chess.ToUCI(m))
		}
	}
	if len(plies) > 0 {
		last := plies[len(plies)-1].Move
		state.LastMove = &SimpleMove{From: last.From, To: last.To}
	}
	return state
}

func (g *Game) RegisterConnection(playerID string, conn Subscriber) error {
	connID := fmt.Sprintf("%p", conn)
	log.Debugf("registering connection %s for player %s in game %s", connID, playerID, g.ID)

	g.mu.Lock()
	_, inGame := g.colorOf(playerID)
	isAuthorized := inGame || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the existing connection and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("registered connection %s for player %s in game %s", connID, playerID, g.ID)

	g.send(playerID, conn, state)
	return nil
}

// UnregisterConnection drops playerID's subscriber if it is still conn.
func (g *Game) UnregisterConnection(playerID string, conn Subscriber) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Debugf("unregistering connection %p for player %s", conn, playerID)
		delete(g.connections.connections, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// broadcastState pushes state to every subscriber, dropping those that fail.
func (g *Game) broadcastState(state GameState) {
	g.connections.mu.RLock()
	activeConnections := make(map[string]Subscriber, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		g.send(playerID, conn, state)
	}
}

func (g *Game) send(playerID string, conn Subscriber, state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorf("failed to marshal state for game %s: %v", g.ID, err)
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Warnf("failed to send state to player %s: %v", playerID, err)
		g.UnregisterConnection(playerID, conn)
	}
}
