package game

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/repository/postgres"
	"github.com/iamasit07/reversi/backend/internal/service/bot"
)

type fakeRepo struct {
	mu    sync.Mutex
	saved []postgres.GameRecord
	err   error
}

func (f *fakeRepo) SaveGame(_ context.Context, rec postgres.GameRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

func newManager(repo GameRepository) *SessionManager {
	b := bot.NewBot(bot.Config{MaxDepth: 2, Rules: domain.Standard}, rand.New(rand.NewSource(1)))
	return NewSessionManager(b, repo)
}

func TestCreateSessionHumanFirst(t *testing.T) {
	sm := newManager(nil)

	session, snap, err := sm.CreateSession("ada", domain.Player1, bot.DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, domain.Player1, snap.ToMove)
	assert.Len(t, snap.LegalMoves, 4)
	assert.Empty(t, snap.Moves)
	assert.Equal(t, "Bob", snap.BotName)
	assert.Equal(t, domain.NewBoard().Grid(), snap.Board)

	got, ok := sm.GetSession(session.GameID)
	require.True(t, ok)
	assert.Same(t, session, got)
	assert.Equal(t, 1, sm.Count())
}

func TestCreateSessionBotFirst(t *testing.T) {
	sm := newManager(nil)

	_, snap, err := sm.CreateSession("ada", domain.Player2, bot.DifficultyHard)
	require.NoError(t, err)
	require.Len(t, snap.Moves, 1)
	assert.Equal(t, domain.Player1, snap.Moves[0].Player)
	assert.Equal(t, domain.Player2, snap.ToMove)
	assert.Equal(t, 4, snap.Player1Discs)
	assert.Equal(t, 1, snap.Player2Discs)
	assert.NotEmpty(t, snap.LegalMoves)
}

func TestCreateSessionValidates(t *testing.T) {
	sm := newManager(nil)

	_, _, err := sm.CreateSession("ada", domain.Empty, bot.DifficultyEasy)
	assert.Equal(t, domain.ErrInvalidPlayer, err)

	_, _, err = sm.CreateSession("ada", domain.Player1, "nightmare")
	assert.Equal(t, ErrInvalidDifficulty, err)
	assert.Zero(t, sm.Count())
}

func TestHandleMoveBotReplies(t *testing.T) {
	sm := newManager(nil)
	session, _, err := sm.CreateSession("", domain.Player1, bot.DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, "guest", session.PlayerName)

	_, err = session.HandleMove(domain.Move{Row: 0, Col: 0})
	assert.Equal(t, domain.ErrInvalidMove, err)

	snap, err := session.HandleMove(domain.Move{Row: 2, Col: 3})
	require.NoError(t, err)
	require.Len(t, snap.Moves, 2)
	assert.Equal(t, domain.Player1, snap.Moves[0].Player)
	assert.Equal(t, []domain.Move{{Row: 3, Col: 3}}, snap.Moves[0].Flipped)
	assert.Equal(t, domain.Player2, snap.Moves[1].Player)
	assert.Equal(t, domain.Player1, snap.ToMove)
}

func TestFullGameIsSavedOnce(t *testing.T) {
	repo := &fakeRepo{}
	sm := newManager(repo)
	session, snap, err := sm.CreateSession("ada", domain.Player1, bot.DifficultyEasy)
	require.NoError(t, err)

	for snap.Status == domain.StatusActive {
		require.NotEmpty(t, snap.LegalMoves)
		snap, err = session.HandleMove(snap.LegalMoves[0])
		require.NoError(t, err)
	}

	assert.Equal(t, domain.Empty, snap.ToMove)
	assert.Equal(t, ReasonCompleted, snap.Reason)
	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.Equal(t, session.GameID, rec.GameID)
	assert.Equal(t, ReasonCompleted, rec.Reason)
	assert.Equal(t, snap.Player1Discs, rec.Player1Discs)
	assert.Equal(t, snap.Player2Discs, rec.Player2Discs)
	assert.Equal(t, snap.Winner, rec.Winner)
	assert.Equal(t, snap.Board, rec.Board)

	_, err = session.HandleMove(domain.Move{Row: 0, Col: 0})
	assert.Equal(t, domain.ErrGameOver, err)
	_, err = session.Resign()
	assert.Equal(t, domain.ErrGameOver, err)
	assert.Len(t, repo.saved, 1)
}

func TestResign(t *testing.T) {
	repo := &fakeRepo{}
	sm := newManager(repo)
	session, _, err := sm.CreateSession("ada", domain.Player1, bot.DifficultyEasy)
	require.NoError(t, err)

	snap, err := session.Resign()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWon, snap.Status)
	assert.Equal(t, domain.Player2, snap.Winner)
	assert.Equal(t, ReasonResigned, snap.Reason)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, ReasonResigned, repo.saved[0].Reason)
}

func TestAbandon(t *testing.T) {
	sm := newManager(nil)
	session, _, err := sm.CreateSession("ada", domain.Player2, bot.DifficultyMedium)
	require.NoError(t, err)

	snap, err := sm.Abandon(session.GameID)
	require.NoError(t, err)
	assert.Equal(t, domain.Player1, snap.Winner)

	_, err = sm.Abandon(session.GameID)
	assert.ErrorIs(t, err, domain.ErrGameOver)

	_, err = sm.Abandon("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSaveFailureIsLogged(t *testing.T) {
	repo := &fakeRepo{err: assert.AnError}
	sm := newManager(repo)
	session, _, err := sm.CreateSession("ada", domain.Player1, bot.DifficultyEasy)
	require.NoError(t, err)

	_, err = session.Resign()
	require.NoError(t, err)
	assert.Empty(t, repo.saved)
}

func TestCleanupIdle(t *testing.T) {
	repo := &fakeRepo{}
	sm := newManager(repo)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return clock }

	idle, _, err := sm.CreateSession("idle", domain.Player1, bot.DifficultyEasy)
	require.NoError(t, err)

	clock = clock.Add(20 * time.Minute)
	fresh, _, err := sm.CreateSession("fresh", domain.Player1, bot.DifficultyEasy)
	require.NoError(t, err)

	clock = clock.Add(15 * time.Minute)
	removed := sm.CleanupIdle(30 * time.Minute)
	assert.Equal(t, 1, removed)

	_, ok := sm.GetSession(idle.GameID)
	assert.False(t, ok)
	_, ok = sm.GetSession(fresh.GameID)
	assert.True(t, ok)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, ReasonTimeout, repo.saved[0].Reason)
	assert.Equal(t, domain.Player2, repo.saved[0].Winner)
	assert.Equal(t, 35*60, repo.saved[0].DurationSeconds)

	assert.Equal(t, ErrSessionNotFound, sm.RemoveSession(idle.GameID))
}
