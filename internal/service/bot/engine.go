package bot

import (
	"fmt"

	"github.com/iamasit07/reversi/backend/internal/domain"
)

const (
	DEFAULT_DEPTH = 6
	// MAX_DEPTH bounds the recursion: the call stack never grows deeper
	// than this many frames of minimax.
	MAX_DEPTH = 12
)

// Config is fixed when the engine is built and never changes afterwards.
type Config struct {
	MaxDepth int
	Rules    domain.Rules
	Weights  Weights
}

func DefaultConfig() Config {
	return Config{
		MaxDepth: DEFAULT_DEPTH,
		Rules:    domain.Standard,
		Weights:  DefaultWeights(),
	}
}

// Engine picks moves with a depth-limited minimax search. It holds no
// mutable state, so one Engine can serve any number of goroutines.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine. A zero MaxDepth or zero Weights fall back to
// the defaults; a depth outside [1, MAX_DEPTH] panics.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DEFAULT_DEPTH
	}
	if cfg.MaxDepth < 1 || cfg.MaxDepth > MAX_DEPTH {
		panic(fmt.Sprintf("bot: search depth %d outside [1, %d]", cfg.MaxDepth, MAX_DEPTH))
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Depth() int {
	return e.cfg.MaxDepth
}

func (e *Engine) Rules() domain.Rules {
	return e.cfg.Rules
}

// ScoredMove is a root candidate with the minimax value found for it.
type ScoredMove struct {
	Move  domain.Move `json:"move"`
	Score int         `json:"score"`
}

// SearchStats reports how much work one root search did.
type SearchStats struct {
	Nodes int
}

// NextMove returns the best move for player, or false when player has no
// legal move and must pass.
func (e *Engine) NextMove(board domain.Board, player domain.PlayerID) (domain.Move, bool) {
	move, ok, _ := e.NextMoveWithStats(board, player)
	return move, ok
}

func (e *Engine) NextMoveWithStats(board domain.Board, player domain.PlayerID) (domain.Move, bool, SearchStats) {
	candidates, stats := e.analyze(board, player)
	best, ok := PickBest(candidates)
	return best.Move, ok, stats
}

// Analyze scores every legal move of player in generation order.
func (e *Engine) Analyze(board domain.Board, player domain.PlayerID) []ScoredMove {
	candidates, _ := e.analyze(board, player)
	return candidates
}

func (e *Engine) AnalyzeWithStats(board domain.Board, player domain.PlayerID) ([]ScoredMove, SearchStats) {
	return e.analyze(board, player)
}

func (e *Engine) analyze(board domain.Board, player domain.PlayerID) ([]ScoredMove, SearchStats) {
	if !player.Valid() {
		panic(domain.ErrInvalidPlayer)
	}
	moves := e.cfg.Rules.LegalMoves(board, player)
	s := &searcher{rules: e.cfg.Rules, weights: e.cfg.Weights, root: player}

	candidates := make([]ScoredMove, 0, len(moves))
	for _, move := range moves {
		child := e.cfg.Rules.Apply(board, move, player)
		score := s.minimax(child, e.cfg.MaxDepth-1, ALPHA_START, BETA_START, player.Opponent())
		candidates = append(candidates, ScoredMove{Move: move, Score: score})
	}
	return candidates, SearchStats{Nodes: s.nodes}
}

// PickBest keeps the first candidate among equal scores, so the result only
// depends on generation order.
func PickBest(candidates []ScoredMove) (ScoredMove, bool) {
	if len(candidates) == 0 {
		return ScoredMove{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, true
}
