package bot

import (
	"math/rand"

	"github.com/iamasit07/reversi/backend/internal/domain"
)

// CalculateBestMoveEasy grabs a corner when one is on offer and otherwise
// plays a random legal move.
func CalculateBestMoveEasy(rules domain.Rules, board domain.Board, botPlayer domain.PlayerID, rng *rand.Rand) (domain.Move, bool) {
	validMoves := rules.LegalMoves(board, botPlayer)
	if len(validMoves) == 0 {
		return domain.Move{}, false
	}

	for _, move := range validMoves {
		if isCorner(move.Row, move.Col) {
			return move, true
		}
	}

	return validMoves[rng.Intn(len(validMoves))], true
}
