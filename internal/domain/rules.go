package domain

// Region is the set of cells considered as placement targets.
type Region int

const (
	// RegionFull allows placement anywhere on the board (standard Othello).
	RegionFull Region = iota
	// RegionInterior only allows rows and columns 1..6. Edge cells can
	// still be flipped and are still scored, but never placed on directly.
	RegionInterior
)

func (r Region) String() string {
	if r == RegionInterior {
		return "interior"
	}
	return "full"
}

// ParseRegion maps "interior" to RegionInterior and anything else to
// RegionFull.
func ParseRegion(s string) Region {
	if s == "interior" {
		return RegionInterior
	}
	return RegionFull
}

func (r Region) bounds() (lo, hi int) {
	if r == RegionInterior {
		return 1, Size - 1
	}
	return 0, Size
}

func (r Region) Contains(row, col int) bool {
	lo, hi := r.bounds()
	return row >= lo && row < hi && col >= lo && col < hi
}

// Rules bundles the placement region with the flanking and flipping rules.
type Rules struct {
	Region Region
}

var (
	Standard = Rules{Region: RegionFull}
	Interior = Rules{Region: RegionInterior}
)

// IsLegalMove reports whether player may place on (row, col): the cell must
// be empty and inside the region, and at least one direction must hold a
// non-empty run of opponent discs closed by one of player's discs.
func (r Rules) IsLegalMove(board Board, row, col int, player PlayerID) bool {
	if !r.Region.Contains(row, col) || board[row][col] != Empty {
		return false
	}
	for _, d := range directions {
		if runLength(board, row, col, d, player) > 0 {
			return true
		}
	}
	return false
}

// LegalMoves scans the region in row-major order. A nil result means the
// player has to pass.
func (r Rules) LegalMoves(board Board, player PlayerID) []Move {
	var moves []Move
	lo, hi := r.Region.bounds()
	for row := lo; row < hi; row++ {
		for col := lo; col < hi; col++ {
			if r.IsLegalMove(board, row, col, player) {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

func (r Rules) HasLegalMove(board Board, player PlayerID) bool {
	lo, hi := r.Region.bounds()
	for row := lo; row < hi; row++ {
		for col := lo; col < hi; col++ {
			if r.IsLegalMove(board, row, col, player) {
				return true
			}
		}
	}
	return false
}

// Apply returns the board after player places on move. The move must come
// from LegalMoves; anything else is a caller bug and panics.
func (r Rules) Apply(board Board, move Move, player PlayerID) Board {
	if !r.IsLegalMove(board, move.Row, move.Col, player) {
		panic(ErrIllegalMove)
	}
	board[move.Row][move.Col] = player
	for _, d := range directions {
		n := runLength(board, move.Row, move.Col, d, player)
		for i := 1; i <= n; i++ {
			board[move.Row+i*d.dRow][move.Col+i*d.dCol] = player
		}
	}
	return board
}

// Flips lists the discs Apply would turn over, direction by direction.
func (r Rules) Flips(board Board, move Move, player PlayerID) []Move {
	var flips []Move
	for _, d := range directions {
		n := runLength(board, move.Row, move.Col, d, player)
		for i := 1; i <= n; i++ {
			flips = append(flips, Move{Row: move.Row + i*d.dRow, Col: move.Col + i*d.dCol})
		}
	}
	return flips
}

// runLength counts the opponent discs walking from (row, col) along d that
// are closed by a player disc. It returns 0 when the run is empty or ends at
// the edge or an empty cell.
func runLength(board Board, row, col int, d direction, player PlayerID) int {
	opponent := player.Opponent()
	n := 0
	r, c := row+d.dRow, col+d.dCol
	for InBounds(r, c) {
		switch board[r][c] {
		case opponent:
			n++
		case player:
			return n
		default:
			return 0
		}
		r += d.dRow
		c += d.dCol
	}
	return 0
}
