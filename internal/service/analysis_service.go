package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/openings"
	"github.com/benbeisheim/chessrules-backend/internal/uci"
	"github.com/gofiber/fiber/v2/log"
)

var ErrNoEngine = errors.New("no engine configured")

// Searcher is an engine able to analyse a FEN position. *uci.Engine
// satisfies it.
type Searcher interface {
	Analyse(ctx context.Context, fen string, depth, multiPV int) (uci.Analysis, error)
}

// OpeningBook looks up statistics for a move sequence. *openings.Client
// satisfies it.
type OpeningBook interface {
	Lookup(ctx context.Context, moves []string) (openings.Stats, error)
}

type AnalysisConfig struct {
	Depth   int
	MultiPV int
	Timeout time.Duration
}

type AnalysisReport struct {
	FEN      string       `json:"fen"`
	ToMove   chess.Color  `json:"toMove"`
	Analysis uci.Analysis `json:"analysis"`
}

type EngineMoveResult struct {
	Move     string          `json:"move"`
	SAN      string          `json:"notation"`
	Fallback bool            `json:"fallback"`
	State    model.GameState `json:"state"`
}

type OpeningsReport struct {
	Available bool            `json:"available"`
	Stats     *openings.Stats `json:"stats,omitempty"`
}

// AnalysisService runs the engine and the opening book against hosted games.
// Either may be nil: analysis then reports ErrNoEngine, engine moves fall back
// to a random legal move and opening lookups report unavailability.
type AnalysisService struct {
	games  *GameManager
	engine Searcher
	book   OpeningBook
	cfg    AnalysisConfig

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewAnalysisService(games *GameManager, engine Searcher, book OpeningBook, cfg AnalysisConfig) *AnalysisService {
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	if cfg.MultiPV < 1 {
		cfg.MultiPV = 1
	}
	return &AnalysisService{
		games:  games,
		engine: engine,
		book:   book,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (a *AnalysisService) HasEngine() bool {
	return a.engine != nil
}

func (a *AnalysisService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// Analyse asks the engine about the game's current position. Scores are
// reported from white's point of view.
func (a *AnalysisService) Analyse(ctx context.Context, gameID string) (AnalysisReport, error) {
	if a.engine == nil {
		return AnalysisReport{}, ErrNoEngine
	}
	game, err := a.games.GetGame(gameID)
	if err != nil {
		return AnalysisReport{}, err
	}
	state := game.GetState()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	analysis, err := a.engine.Analyse(ctx, state.FEN, a.cfg.Depth, a.cfg.MultiPV)
	if err != nil {
		return AnalysisReport{}, fmt.Errorf("analyse game %s: %w", gameID, err)
	}
	return AnalysisReport{
		FEN:      state.FEN,
		ToMove:   state.ToMove,
		Analysis: analysis.ForWhite(state.ToMove),
	}, nil
}

// EngineMove plays the engine's choice for the side to move. The suggestion
// is checked against the position as it stands once the engine answers; an
// unusable suggestion, or no engine at all, yields a random legal move.
func (a *AnalysisService) EngineMove(ctx context.Context, gameID string, playerID string) (EngineMoveResult, error) {
	game, err := a.games.GetGame(gameID)
	if err != nil {
		return EngineMoveResult{}, err
	}
	if !game.IsPlayerInGame(playerID) {
		return EngineMoveResult{}, model.ErrNotInGame
	}
	state := game.GetState()
	if state.Resolve != nil {
		return EngineMoveResult{}, fmt.Errorf("%w: %s", chess.ErrGameOver, *state.Resolve)
	}
	seat := state.Players.White
	if state.ToMove == chess.Black {
		seat = state.Players.Black
	}
	if seat.ID != "" && seat.ID != playerID {
		return EngineMoveResult{}, model.ErrNotYourTurn
	}

	var suggestion string
	if a.engine != nil {
		searchCtx, cancel := a.withTimeout(ctx)
		analysis, err := a.engine.Analyse(searchCtx, state.FEN, a.cfg.Depth, 1)
		cancel()
		if err != nil {
			log.Warnw("engine search failed", "game", gameID, "error", err)
		} else {
			suggestion = analysis.BestMove
		}
	}

	ply, fallback, err := game.PlaySuggested(playerID, state.Plies, suggestion, a.newRand())
	if err != nil {
		return EngineMoveResult{}, err
	}
	return EngineMoveResult{
		Move:     ply.UCI,
		SAN:      ply.SAN,
		Fallback: fallback,
		State:    game.GetState(),
	}, nil
}

// newRand derives a generator for one call; *rand.Rand is not safe for
// concurrent use.
func (a *AnalysisService) newRand() *rand.Rand {
	a.rngMu.Lock()
	defer a.rngMu.Unlock()
	return rand.New(rand.NewSource(a.rng.Int63()))
}

// Openings reports opening statistics for the game so far. Lookup failures
// are logged and reported as unavailable rather than as errors.
func (a *AnalysisService) Openings(ctx context.Context, gameID string) (OpeningsReport, error) {
	game, err := a.games.GetGame(gameID)
	if err != nil {
		return OpeningsReport{}, err
	}
	if a.book == nil {
		return OpeningsReport{Available: false}, nil
	}
	stats, err := a.book.Lookup(ctx, game.UCIMoves())
	if err != nil {
		log.Warnw("opening lookup failed", "game", gameID, "error", err)
		return OpeningsReport{Available: false}, nil
	}
	return OpeningsReport{Available: true, Stats: &stats}, nil
}
