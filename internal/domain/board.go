package domain

import "strings"

// Board is an 8x8 grid indexed [row][col]. It is a value type: assigning a
// Board copies all 64 cells, so a search node never shares cells with its
// parent.
type Board [Size][Size]PlayerID

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type direction struct {
	dRow, dCol int
}

var directions = [8]direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// NewBoard returns the standard opening position.
func NewBoard() Board {
	var b Board
	mid := Size / 2
	b[mid-1][mid-1], b[mid][mid] = Player2, Player2
	b[mid-1][mid], b[mid][mid-1] = Player1, Player1
	return b
}

// BoardFromGrid converts the external row-major 0/1/2 encoding.
func BoardFromGrid(grid [][]int) (Board, error) {
	var b Board
	if len(grid) != Size {
		return b, ErrMalformedBoard
	}
	for r, row := range grid {
		if len(row) != Size {
			return b, ErrMalformedBoard
		}
		for c, v := range row {
			if v < int(Empty) || v > int(Player2) {
				return b, ErrMalformedBoard
			}
			b[r][c] = PlayerID(v)
		}
	}
	return b, nil
}

// MustBoard is BoardFromGrid for callers that already own a well-formed grid.
func MustBoard(grid [][]int) Board {
	b, err := BoardFromGrid(grid)
	if err != nil {
		panic(err)
	}
	return b
}

func (b Board) Grid() [][]int {
	grid := make([][]int, Size)
	for r := range grid {
		grid[r] = make([]int, Size)
		for c := range grid[r] {
			grid[r][c] = int(b[r][c])
		}
	}
	return grid
}

func (b Board) Count(p PlayerID) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == p {
				n++
			}
		}
	}
	return n
}

func (b Board) IsFull() bool {
	return b.Count(Empty) == 0
}

func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// String renders the board with '.', 'X' (Player1) and 'O' (Player2).
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch b[r][c] {
			case Player1:
				sb.WriteByte('X')
			case Player2:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the String format back. Whitespace between rows is
// ignored; it panics on anything else, so it is meant for fixtures.
func ParseBoard(s string) Board {
	var b Board
	i := 0
	for _, ch := range s {
		if ch == ' ' || ch == '\n' || ch == '\t' || ch == '\r' {
			continue
		}
		if i >= Size*Size {
			panic(ErrMalformedBoard)
		}
		switch ch {
		case 'X', 'x':
			b[i/Size][i%Size] = Player1
		case 'O', 'o':
			b[i/Size][i%Size] = Player2
		case '.':
		default:
			panic(ErrMalformedBoard)
		}
		i++
	}
	if i != Size*Size {
		panic(ErrMalformedBoard)
	}
	return b
}
