package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/repository/postgres"
	"github.com/iamasit07/reversi/backend/internal/service/bot"
	"github.com/iamasit07/reversi/backend/pkg/uid"
)

const (
	ReasonCompleted = "completed"
	ReasonResigned  = "resigned"
	ReasonTimeout   = "timeout"

	saveTimeout = 5 * time.Second
)

const (
	ErrSessionNotFound   domain.Error = "game not found"
	ErrInvalidDifficulty domain.Error = "difficulty must be easy, medium or hard"
)

// MoveSelector picks the bot's reply; *bot.Bot implements it.
type MoveSelector interface {
	CalculateBestMove(board domain.Board, botPlayer domain.PlayerID, difficulty string) (domain.Move, bool)
	Rules() domain.Rules
}

type GameRepository interface {
	SaveGame(ctx context.Context, rec postgres.GameRecord) error
}

// MoveEvent is one placement made during a single request.
type MoveEvent struct {
	Player  domain.PlayerID `json:"player"`
	Move    domain.Move     `json:"move"`
	Flipped []domain.Move   `json:"flipped"`
}

// Snapshot is what clients see after every action.
type Snapshot struct {
	GameID       string            `json:"gameId"`
	Board        [][]int           `json:"board"`
	ToMove       domain.PlayerID   `json:"toMove"`
	Status       domain.GameStatus `json:"status"`
	Winner       domain.PlayerID   `json:"winner"`
	Reason       string            `json:"reason,omitempty"`
	Player1Discs int               `json:"player1Discs"`
	Player2Discs int               `json:"player2Discs"`
	HumanColor   domain.PlayerID   `json:"humanColor"`
	Difficulty   string            `json:"difficulty"`
	BotName      string            `json:"botName"`
	LegalMoves   []domain.Move     `json:"legalMoves"`
	Moves        []MoveEvent       `json:"moves"`
}

type GameSession struct {
	GameID       string
	PlayerName   string
	HumanColor   domain.PlayerID
	BotColor     domain.PlayerID
	Difficulty   string
	Game         *domain.Game
	Reason       string
	CreatedAt    time.Time
	FinishedAt   time.Time
	LastActivity time.Time
	saved        bool
	mu           sync.Mutex
	manager      *SessionManager
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession // gameID → GameSession
	mu       sync.RWMutex
	bot      MoveSelector
	repo     GameRepository
	now      func() time.Time
}

// NewSessionManager wires the bot and an optional repository; with a nil
// repository finished games are only kept in memory until cleanup.
func NewSessionManager(selector MoveSelector, repo GameRepository) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		bot:      selector,
		repo:     repo,
		now:      time.Now,
	}
}

// CreateSession starts a game for a human playing humanColor. When the bot
// holds the first move it is played before returning.
func (sm *SessionManager) CreateSession(playerName string, humanColor domain.PlayerID, difficulty string) (*GameSession, Snapshot, error) {
	if !humanColor.Valid() {
		return nil, Snapshot{}, domain.ErrInvalidPlayer
	}
	if !bot.IsValidDifficulty(difficulty) {
		return nil, Snapshot{}, ErrInvalidDifficulty
	}
	if playerName == "" {
		playerName = "guest"
	}

	now := sm.now()
	session := &GameSession{
		GameID:       uid.GenerateGameID(),
		PlayerName:   playerName,
		HumanColor:   humanColor,
		BotColor:     humanColor.Opponent(),
		Difficulty:   difficulty,
		Game:         domain.NewGame(sm.bot.Rules()),
		CreatedAt:    now,
		LastActivity: now,
		manager:      sm,
	}

	sm.mu.Lock()
	sm.sessions[session.GameID] = session
	sm.mu.Unlock()

	log.Printf("[SESSION] Created session %s: %s (%s) vs %s (%s)",
		session.GameID, playerName, humanColor, domain.GetBotName(difficulty), difficulty)

	session.mu.Lock()
	defer session.mu.Unlock()
	events := session.playBotLocked()
	session.finishIfOverLocked()
	return session, session.snapshotLocked(events), nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return ErrSessionNotFound
	}
	log.Printf("[SESSION] Removing session %s", gameID)
	delete(sm.sessions, gameID)
	return nil
}

// Abandon resigns the human side of gameID.
func (sm *SessionManager) Abandon(gameID string) (Snapshot, error) {
	session, ok := sm.GetSession(gameID)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	return session.Resign()
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupIdle drops sessions untouched for longer than maxIdle. Unfinished
// ones are closed as timeouts and saved first. It returns how many were
// removed.
func (sm *SessionManager) CleanupIdle(maxIdle time.Duration) int {
	cutoff := sm.now().Add(-maxIdle)

	sm.mu.RLock()
	all := make([]*GameSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		all = append(all, s)
	}
	sm.mu.RUnlock()

	removed := 0
	for _, s := range all {
		s.mu.Lock()
		idle := s.LastActivity.Before(cutoff)
		if idle && !s.Game.IsFinished() {
			// The absent human forfeits.
			_ = s.Game.Resign(s.HumanColor)
			s.finishLocked(ReasonTimeout)
		}
		s.mu.Unlock()

		if idle && sm.RemoveSession(s.GameID) == nil {
			removed++
		}
	}
	return removed
}

// HandleMove plays the human's move and then lets the bot answer for as
// long as it holds the turn (the human may have to pass).
func (gs *GameSession) HandleMove(move domain.Move) (Snapshot, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.LastActivity = gs.manager.now()

	flipped, err := gs.Game.MakeMove(gs.HumanColor, move)
	if err != nil {
		return Snapshot{}, err
	}
	events := []MoveEvent{{Player: gs.HumanColor, Move: move, Flipped: flipped}}
	events = append(events, gs.playBotLocked()...)

	gs.finishIfOverLocked()
	return gs.snapshotLocked(events), nil
}

// Resign ends the game as a loss for the human.
func (gs *GameSession) Resign() (Snapshot, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.LastActivity = gs.manager.now()
	if err := gs.Game.Resign(gs.HumanColor); err != nil {
		return Snapshot{}, err
	}
	gs.finishLocked(ReasonResigned)
	return gs.snapshotLocked(nil), nil
}

func (gs *GameSession) Snapshot() Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked(nil)
}

func (gs *GameSession) playBotLocked() []MoveEvent {
	var events []MoveEvent
	for !gs.Game.IsFinished() && gs.Game.CurrentPlayer == gs.BotColor {
		move, ok := gs.manager.bot.CalculateBestMove(gs.Game.Board, gs.BotColor, gs.Difficulty)
		if !ok {
			// Game.advance never hands the turn to a side without moves.
			panic("game: bot to move without a legal move")
		}
		flipped, err := gs.Game.MakeMove(gs.BotColor, move)
		if err != nil {
			panic(err)
		}
		events = append(events, MoveEvent{Player: gs.BotColor, Move: move, Flipped: flipped})
	}
	return events
}

func (gs *GameSession) finishIfOverLocked() {
	if gs.Game.IsFinished() && gs.FinishedAt.IsZero() {
		gs.finishLocked(ReasonCompleted)
	}
}

func (gs *GameSession) finishLocked(reason string) {
	gs.Reason = reason
	gs.FinishedAt = gs.manager.now()
	p1, p2 := gs.Game.Score()
	log.Printf("[SESSION] Game %s finished (%s): winner=%s score %d-%d",
		gs.GameID, reason, gs.Game.Winner, p1, p2)
	gs.saveLocked()
}

func (gs *GameSession) saveLocked() {
	repo := gs.manager.repo
	if repo == nil || gs.saved {
		return
	}

	p1, p2 := gs.Game.Score()
	rec := postgres.GameRecord{
		GameID:          gs.GameID,
		PlayerName:      gs.PlayerName,
		HumanColor:      gs.HumanColor,
		Difficulty:      gs.Difficulty,
		Winner:          gs.Game.Winner,
		Reason:          gs.Reason,
		Player1Discs:    p1,
		Player2Discs:    p2,
		TotalMoves:      gs.Game.MoveCount,
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
		Board:           gs.Game.Board.Grid(),
		History:         gs.Game.History,
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := repo.SaveGame(ctx, rec); err != nil {
		log.Printf("[SESSION] Failed to save game %s: %v", gs.GameID, err)
		return
	}
	gs.saved = true
}

func (gs *GameSession) snapshotLocked(events []MoveEvent) Snapshot {
	p1, p2 := gs.Game.Score()
	legal := []domain.Move{}
	if !gs.Game.IsFinished() && gs.Game.CurrentPlayer == gs.HumanColor {
		legal = gs.Game.LegalMoves()
	}
	if events == nil {
		events = []MoveEvent{}
	}
	toMove := gs.Game.CurrentPlayer
	if gs.Game.IsFinished() {
		toMove = domain.Empty
	}
	return Snapshot{
		GameID:       gs.GameID,
		Board:        gs.Game.Board.Grid(),
		ToMove:       toMove,
		Status:       gs.Game.Status,
		Winner:       gs.Game.Winner,
		Reason:       gs.Reason,
		Player1Discs: p1,
		Player2Discs: p2,
		HumanColor:   gs.HumanColor,
		Difficulty:   gs.Difficulty,
		BotName:      domain.GetBotName(gs.Difficulty),
		LegalMoves:   legal,
		Moves:        events,
	}
}
