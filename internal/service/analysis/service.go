package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/iamasit07/reversi/backend/internal/domain"
	redisrepo "github.com/iamasit07/reversi/backend/internal/repository/redis"
	"github.com/iamasit07/reversi/backend/internal/service/bot"
)

// CacheRepository is the subset of the redis wrapper the service needs.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Result is the engine's answer for one position. Move is nil when the
// player has to pass.
type Result struct {
	Move       *domain.Move     `json:"move"`
	Pass       bool             `json:"pass"`
	Score      int              `json:"score"`
	Depth      int              `json:"depth"`
	Candidates []bot.ScoredMove `json:"candidates"`
	Cached     bool             `json:"cached"`
}

type Service struct {
	engine *bot.Engine
	cache  CacheRepository
	ttl    time.Duration
}

// NewService builds the service; cache may be nil to disable caching.
func NewService(engine *bot.Engine, cache CacheRepository, ttl time.Duration) *Service {
	return &Service{engine: engine, cache: cache, ttl: ttl}
}

// BestMove validates the external 0/1/2 encoding and returns the engine's
// choice for player, served from the cache when the same position was
// analysed before with the same engine settings.
func (s *Service) BestMove(ctx context.Context, grid [][]int, player int) (*Result, error) {
	board, p, err := parse(grid, player)
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(board, p)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	candidates, stats := s.engine.AnalyzeWithStats(board, p)
	result := &Result{Depth: s.engine.Depth(), Candidates: candidates}
	if best, ok := bot.PickBest(candidates); ok {
		move := best.Move
		result.Move = &move
		result.Score = best.Score
	} else {
		result.Pass = true
	}
	log.Printf("[ENGINE] %s to move: %d candidates, %d nodes, pass=%t", p, len(candidates), stats.Nodes, result.Pass)

	s.store(ctx, key, result)
	return result, nil
}

// LegalMoves returns the placements available to player in generation order.
func (s *Service) LegalMoves(grid [][]int, player int) ([]domain.Move, error) {
	board, p, err := parse(grid, player)
	if err != nil {
		return nil, err
	}
	moves := s.engine.Rules().LegalMoves(board, p)
	if moves == nil {
		moves = []domain.Move{}
	}
	return moves, nil
}

func parse(grid [][]int, player int) (domain.Board, domain.PlayerID, error) {
	board, err := domain.BoardFromGrid(grid)
	if err != nil {
		return board, domain.Empty, err
	}
	p := domain.PlayerID(player)
	if !p.Valid() {
		return board, domain.Empty, domain.ErrInvalidPlayer
	}
	return board, p, nil
}

func (s *Service) lookup(ctx context.Context, key string) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redisrepo.ErrCacheMiss) {
			log.Printf("[CACHE] Get %s failed: %v", key, err)
		}
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Printf("[CACHE] Dropping unreadable entry %s: %v", key, err)
		return nil, false
	}
	result.Cached = true
	return &result, true
}

func (s *Service) store(ctx context.Context, key string, result *Result) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		log.Printf("[CACHE] %v", errors.Wrap(err, "marshal result"))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		log.Printf("[CACHE] Set %s failed: %v", key, err)
	}
}

// cacheKey covers everything the answer depends on: depth, region, the side
// to move and all 64 cells.
func (s *Service) cacheKey(board domain.Board, player domain.PlayerID) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "move:d%d:%s:p%d:", s.engine.Depth(), s.engine.Rules().Region, player)
	for r := 0; r < domain.Size; r++ {
		for c := 0; c < domain.Size; c++ {
			sb.WriteByte(byte('0' + board[r][c]))
		}
	}
	return sb.String()
}
