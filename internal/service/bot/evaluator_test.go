package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iamasit07/reversi/backend/internal/domain"
)

func TestEvaluateTerminalFullBoard(t *testing.T) {
	var board domain.Board
	for i := 0; i < domain.Size*domain.Size; i++ {
		p := domain.Player2
		if i < 40 {
			p = domain.Player1
		}
		board[i/domain.Size][i%domain.Size] = p
	}

	w := DefaultWeights()
	assert.Equal(t, 1600, w.EvaluateTerminal(board, domain.Player1))
	assert.Equal(t, -1600, w.EvaluateTerminal(board, domain.Player2))
}

func TestEvaluatePositionWeights(t *testing.T) {
	board := domain.ParseBoard(`
		X..X....
		.X.O....
		........
		........
		....X...
		........
		........
		....X..O
	`)
	w := DefaultWeights()

	assert.Equal(t, 1000, w.evaluatePosition(board, 0, 0, domain.Player1), "corner")
	assert.Equal(t, 1000, w.evaluatePosition(board, 7, 7, domain.Player2), "corner")
	assert.Equal(t, -300, w.evaluatePosition(board, 1, 1, domain.Player1), "x-square")
	assert.Equal(t, 5, w.evaluatePosition(board, 0, 3, domain.Player1), "edge next to an opponent")
	assert.Equal(t, 30, w.evaluatePosition(board, 7, 4, domain.Player1), "edge with no opponent around")
	assert.Equal(t, 1, w.evaluatePosition(board, 4, 4, domain.Player1), "interior")
	assert.Equal(t, 1, w.evaluatePosition(board, 1, 3, domain.Player2), "interior")
}

func TestIsStableDisc(t *testing.T) {
	board := domain.ParseBoard(`
		XXO.....
		........
		........
		X.......
		O.......
		........
		........
		.......X
	`)
	assert.True(t, isStableDisc(board, 0, 0, domain.Player1))
	assert.False(t, isStableDisc(board, 0, 1, domain.Player1))
	assert.False(t, isStableDisc(board, 3, 0, domain.Player1))
	assert.False(t, isStableDisc(board, 4, 0, domain.Player2))
	assert.True(t, isStableDisc(board, 7, 7, domain.Player1))
	assert.False(t, isStableDisc(board, 7, 7, domain.Player2), "not owned")
}

func TestEvaluateHeuristicMobilitySign(t *testing.T) {
	// Opening after black d3: black has 4 interior discs, white 1, and
	// each side has 3 replies.
	board := domain.Standard.Apply(domain.NewBoard(), domain.Move{Row: 2, Col: 3}, domain.Player1)
	w := DefaultWeights()
	rules := domain.Standard

	assert.Equal(t, 3, w.EvaluateHeuristic(rules, board, domain.Player2, domain.Player1, 3))
	assert.Equal(t, 3, w.EvaluateHeuristic(rules, board, domain.Player1, domain.Player1, 3))

	// Extra mobility for the mover counts for root only when mover is root.
	assert.Equal(t, 43, w.EvaluateHeuristic(rules, board, domain.Player1, domain.Player1, 5))
	assert.Equal(t, -37, w.EvaluateHeuristic(rules, board, domain.Player2, domain.Player1, 5))

	// From white's side the positional sum flips.
	assert.Equal(t, -3, w.EvaluateHeuristic(rules, board, domain.Player2, domain.Player2, 3))
}
