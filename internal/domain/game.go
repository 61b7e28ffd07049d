package domain

// Turn records one placement or pass in a finished or running game.
type Turn struct {
	Player  PlayerID `json:"player"`
	Move    *Move    `json:"move,omitempty"`
	Flipped int      `json:"flipped"`
}

// Game is the authoritative board owned by a driver: it alternates players,
// inserts passes and detects the end of the game.
type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	MoveCount     int
	PassCount     int
	History       []Turn
	rules         Rules
}

func NewGame(rules Rules) *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		Winner:        Empty,
		rules:         rules,
	}
}

func (g *Game) Rules() Rules {
	return g.rules
}

// MakeMove plays move for player and returns the flipped discs. After the
// move the turn passes to the opponent, stays with player when the opponent
// cannot move, or the game ends when neither side can.
func (g *Game) MakeMove(player PlayerID, move Move) ([]Move, error) {
	if g.IsFinished() {
		return nil, ErrGameOver
	}
	if player != g.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	if !g.rules.IsLegalMove(g.Board, move.Row, move.Col, player) {
		return nil, ErrInvalidMove
	}

	flipped := g.rules.Flips(g.Board, move, player)
	g.Board = g.rules.Apply(g.Board, move, player)
	g.MoveCount++
	m := move
	g.History = append(g.History, Turn{Player: player, Move: &m, Flipped: len(flipped)})

	g.advance()
	return flipped, nil
}

func (g *Game) advance() {
	next := g.CurrentPlayer.Opponent()
	if g.rules.HasLegalMove(g.Board, next) {
		g.CurrentPlayer = next
		return
	}
	if g.rules.HasLegalMove(g.Board, g.CurrentPlayer) {
		g.PassCount++
		g.History = append(g.History, Turn{Player: next})
		return
	}
	g.finish()
}

func (g *Game) finish() {
	p1, p2 := g.Score()
	switch {
	case p1 > p2:
		g.Status, g.Winner = StatusWon, Player1
	case p2 > p1:
		g.Status, g.Winner = StatusWon, Player2
	default:
		g.Status, g.Winner = StatusDraw, Empty
	}
}

// LegalMoves returns the moves available to the player whose turn it is.
func (g *Game) LegalMoves() []Move {
	if g.IsFinished() {
		return nil
	}
	return g.rules.LegalMoves(g.Board, g.CurrentPlayer)
}

func (g *Game) Score() (int, int) {
	return g.Board.Count(Player1), g.Board.Count(Player2)
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// Resign ends the game in favour of player's opponent.
func (g *Game) Resign(player PlayerID) error {
	if g.IsFinished() {
		return ErrGameOver
	}
	if !player.Valid() {
		return ErrInvalidPlayer
	}
	g.Status = StatusWon
	g.Winner = player.Opponent()
	return nil
}
