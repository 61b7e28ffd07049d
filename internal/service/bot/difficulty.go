package bot

import (
	"math/rand"
	"sync"

	"github.com/iamasit07/reversi/backend/internal/domain"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	MEDIUM_DEPTH = 2
)

func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Bot serves the three difficulty levels: easy plays randomly, medium
// searches two plies and hard searches the configured depth.
type Bot struct {
	hard   *Engine
	medium *Engine

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewBot(cfg Config, rng *rand.Rand) *Bot {
	hard := NewEngine(cfg)
	mediumCfg := cfg
	mediumCfg.MaxDepth = min(MEDIUM_DEPTH, hard.Depth())
	return &Bot{
		hard:   hard,
		medium: NewEngine(mediumCfg),
		rng:    rng,
	}
}

func (b *Bot) Engine() *Engine {
	return b.hard
}

func (b *Bot) Rules() domain.Rules {
	return b.hard.Rules()
}

// CalculateBestMove selects the best move based on difficulty
func (b *Bot) CalculateBestMove(board domain.Board, botPlayer domain.PlayerID, difficulty string) (domain.Move, bool) {
	switch difficulty {
	case DifficultyEasy:
		b.rngMu.Lock()
		defer b.rngMu.Unlock()
		return CalculateBestMoveEasy(b.hard.Rules(), board, botPlayer, b.rng)
	case DifficultyHard:
		return b.hard.NextMove(board, botPlayer)
	default:
		return b.medium.NextMove(board, botPlayer)
	}
}
