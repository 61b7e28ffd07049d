package bot

import (
	"github.com/iamasit07/reversi/backend/internal/domain"
)

const (
	TERMINAL_DISC_WEIGHT = 100 // per disc of difference at true game end
	CORNER_WEIGHT        = 1000
	X_SQUARE_WEIGHT      = -300 // diagonal neighbour of a corner
	STABLE_EDGE_WEIGHT   = 30
	EDGE_WEIGHT          = 5
	INTERIOR_WEIGHT      = 1
	MOBILITY_WEIGHT      = 20 // per legal move of difference
)

// Weights holds the positional and mobility weights used at depth cutoff.
type Weights struct {
	Corner     int
	XSquare    int
	StableEdge int
	Edge       int
	Interior   int
	Mobility   int
	Terminal   int
}

func DefaultWeights() Weights {
	return Weights{
		Corner:     CORNER_WEIGHT,
		XSquare:    X_SQUARE_WEIGHT,
		StableEdge: STABLE_EDGE_WEIGHT,
		Edge:       EDGE_WEIGHT,
		Interior:   INTERIOR_WEIGHT,
		Mobility:   MOBILITY_WEIGHT,
		Terminal:   TERMINAL_DISC_WEIGHT,
	}
}

// EvaluateTerminal scores a finished game from player's side.
func (w Weights) EvaluateTerminal(board domain.Board, player domain.PlayerID) int {
	return (board.Count(player) - board.Count(player.Opponent())) * w.Terminal
}

// EvaluateHeuristic scores a cutoff position for root. The positional sum is
// always taken from root's side; the mobility term compares mover against
// its opponent and is negated when mover is not root.
func (w Weights) EvaluateHeuristic(rules domain.Rules, board domain.Board, mover, root domain.PlayerID, moverMoves int) int {
	score := 0
	opponent := root.Opponent()

	for row := 0; row < domain.Size; row++ {
		for col := 0; col < domain.Size; col++ {
			switch board[row][col] {
			case root:
				score += w.evaluatePosition(board, row, col, root)
			case opponent:
				score -= w.evaluatePosition(board, row, col, opponent)
			}
		}
	}

	opponentMoves := len(rules.LegalMoves(board, mover.Opponent()))
	mobility := (moverMoves - opponentMoves) * w.Mobility
	if mover == root {
		score += mobility
	} else {
		score -= mobility
	}

	return score
}

// evaluatePosition weighs a single disc owned by player.
func (w Weights) evaluatePosition(board domain.Board, row, col int, player domain.PlayerID) int {
	switch {
	case isCorner(row, col):
		return w.Corner
	case isXSquare(row, col):
		return w.XSquare
	case isEdge(row, col):
		if isStableDisc(board, row, col, player) {
			return w.StableEdge
		}
		return w.Edge
	}
	return w.Interior
}

// isStableDisc is a cheap stand-in for real stability: the disc belongs to
// player and none of its on-board neighbours holds an opponent disc.
func isStableDisc(board domain.Board, row, col int, player domain.PlayerID) bool {
	if board[row][col] != player {
		return false
	}
	for dRow := -1; dRow <= 1; dRow++ {
		for dCol := -1; dCol <= 1; dCol++ {
			if dRow == 0 && dCol == 0 {
				continue
			}
			r, c := row+dRow, col+dCol
			if !domain.InBounds(r, c) {
				continue
			}
			if cell := board[r][c]; cell != player && cell != domain.Empty {
				return false
			}
		}
	}
	return true
}

func isCorner(row, col int) bool {
	last := domain.Size - 1
	return (row == 0 || row == last) && (col == 0 || col == last)
}

func isXSquare(row, col int) bool {
	inner := domain.Size - 2
	return (row == 1 || row == inner) && (col == 1 || col == inner)
}

func isEdge(row, col int) bool {
	last := domain.Size - 1
	return row == 0 || row == last || col == 0 || col == last
}
