package bot

import (
	"math"

	"github.com/iamasit07/reversi/backend/internal/domain"
)

const (
	ALPHA_START = math.MinInt32
	BETA_START  = math.MaxInt32
)

// searcher carries the per-search constants so the recursion only threads
// the values that change from node to node.
type searcher struct {
	rules   domain.Rules
	weights Weights
	root    domain.PlayerID
	nodes   int
}

// minimax implements the minimax algorithm with alpha-beta pruning. The
// root player maximizes, the other side minimizes.
func (s *searcher) minimax(board domain.Board, depth int, alpha, beta int, toMove domain.PlayerID) int {
	s.nodes++
	moves := s.rules.LegalMoves(board, toMove)

	// Terminal conditions
	if depth == 0 || len(moves) == 0 {
		if len(moves) == 0 && !s.rules.HasLegalMove(board, toMove.Opponent()) {
			return s.weights.EvaluateTerminal(board, s.root)
		}
		return s.weights.EvaluateHeuristic(s.rules, board, toMove, s.root, len(moves))
	}

	if toMove == s.root {
		maxEval := math.MinInt32
		for _, move := range moves {
			child := s.rules.Apply(board, move, toMove)
			eval := s.minimax(child, depth-1, alpha, beta, toMove.Opponent())
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)

			if beta <= alpha {
				break // Beta cutoff
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, move := range moves {
		child := s.rules.Apply(board, move, toMove)
		eval := s.minimax(child, depth-1, alpha, beta, toMove.Opponent())
		minEval = min(minEval, eval)
		beta = min(beta, eval)

		if beta <= alpha {
			break // Alpha cutoff
		}
	}
	return minEval
}
