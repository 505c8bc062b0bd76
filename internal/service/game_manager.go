package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

// GameManager owns every hosted room and the matchmaking queue.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan ws.Message
	timeControl      time.Duration
	mu               sync.RWMutex
}

func NewGameManager(timeControl time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan ws.Message),
		timeControl:      timeControl,
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchOnce() {
			}
		}
	}
}

// matchOnce seats the two longest-waiting players in a new game and notifies
// them. It reports whether a pair was found.
func (gm *GameManager) matchOnce() bool {
	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}

	game := model.NewGame(uuid.New().String(), gm.timeControl)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("seating %s in matched game: %v", player1.ID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("seating %s in matched game: %v", player2.ID, err)
		return true
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[game.ID] = game
	log.Infof("matched %s (%s) and %s (%s) in game %s", player1.ID, p1Color, player2.ID, p2Color, game.ID)

	gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: game.ID, Color: p1Color})
	gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: game.ID, Color: p2Color})
	return true
}

// notifyMatch hands the event to the player's matchmaking channel, if any, and
// retires the channel. gm.mu must be held.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnf("player %s matched without a listening channel", playerID)
		return
	}
	msg, err := ws.NewMessage(ws.MessageTypeMatchFound, event)
	if err != nil {
		log.Errorf("marshal match event: %v", err)
		return
	}
	select {
	case ch <- msg:
	default:
		log.Warnf("match event for player %s dropped: channel full", playerID)
	}
	delete(gm.matchingChannels, playerID)
	close(ch)
}

// RegisterMatchmakingChannel subscribes playerID to match events, replacing
// and closing an earlier channel.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, ok := gm.matchingChannels[playerID]; ok {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel removes ch if it is still the player's
// channel. The channel is not closed here.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return fmt.Errorf("join matchmaking: %w", err)
	}
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) CreateGame() *model.Game {
	game := model.NewGame(uuid.New().String(), gm.timeControl)

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[game.ID] = game
	return game
}

// ImportGame hosts a new room replayed from a UCI history.
func (gm *GameManager) ImportGame(moves []string) (*model.Game, error) {
	game, err := model.NewGameFromHistory(uuid.New().String(), gm.timeControl, moves)
	if err != nil {
		return nil, fmt.Errorf("import game: %w", err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[game.ID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
