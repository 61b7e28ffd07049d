package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/iamasit07/reversi/backend/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// GameRecord represents the result of a finished game
type GameRecord struct {
	GameID          string          `json:"gameId"`
	PlayerName      string          `json:"playerName"`
	HumanColor      domain.PlayerID `json:"humanColor"`
	Difficulty      string          `json:"difficulty"`
	Winner          domain.PlayerID `json:"winner"`
	Reason          string          `json:"reason"`
	Player1Discs    int             `json:"player1Discs"`
	Player2Discs    int             `json:"player2Discs"`
	TotalMoves      int             `json:"totalMoves"`
	DurationSeconds int             `json:"durationSeconds"`
	CreatedAt       time.Time       `json:"createdAt"`
	FinishedAt      time.Time       `json:"finishedAt"`
	Board           [][]int         `json:"board,omitempty"`
	History         []domain.Turn   `json:"history,omitempty"`
}

// SaveGame inserts a finished game, or updates it if the id already exists.
func (r *GameRepo) SaveGame(ctx context.Context, rec GameRecord) error {
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return errors.Wrap(err, "failed to marshal board state")
	}
	historyJSON, err := json.Marshal(rec.History)
	if err != nil {
		return errors.Wrap(err, "failed to marshal history")
	}

	query := `
	INSERT INTO game (game_id, player_name, human_color, difficulty, winner, reason, player1_discs, player2_discs, total_moves, duration_seconds, created_at, finished_at, board_state, history)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		player1_discs = EXCLUDED.player1_discs,
		player2_discs = EXCLUDED.player2_discs,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state,
		history = EXCLUDED.history;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.PlayerName, int(rec.HumanColor), rec.Difficulty, int(rec.Winner), rec.Reason,
		rec.Player1Discs, rec.Player2Discs, rec.TotalMoves, rec.DurationSeconds,
		rec.CreatedAt, rec.FinishedAt, boardJSON, historyJSON)
	if err != nil {
		return errors.Wrap(err, "failed to upsert game record")
	}
	return nil
}

// GetGameByID returns nil, nil when the game does not exist.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*GameRecord, error) {
	query := `
	SELECT game_id, player_name, human_color, difficulty, winner, reason,
	       player1_discs, player2_discs, total_moves, duration_seconds,
	       created_at, finished_at, board_state, history
	FROM game
	WHERE game_id = $1;
	`

	var rec GameRecord
	var boardJSON, historyJSON []byte
	err := r.DB.QueryRowContext(ctx, query, gameID).Scan(
		&rec.GameID,
		&rec.PlayerName,
		&rec.HumanColor,
		&rec.Difficulty,
		&rec.Winner,
		&rec.Reason,
		&rec.Player1Discs,
		&rec.Player2Discs,
		&rec.TotalMoves,
		&rec.DurationSeconds,
		&rec.CreatedAt,
		&rec.FinishedAt,
		&boardJSON,
		&historyJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get game by ID")
	}

	if len(boardJSON) > 0 {
		if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal board state")
		}
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &rec.History); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal history")
		}
	}

	return &rec, nil
}

// ListRecent returns the latest finished games without board or history.
func (r *GameRepo) ListRecent(ctx context.Context, limit int) ([]GameRecord, error) {
	query := `
	SELECT game_id, player_name, human_color, difficulty, winner, reason,
	       player1_discs, player2_discs, total_moves, duration_seconds,
	       created_at, finished_at
	FROM game
	ORDER BY finished_at DESC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query recent games")
	}
	defer rows.Close()

	games := []GameRecord{}
	for rows.Next() {
		var rec GameRecord
		err := rows.Scan(
			&rec.GameID,
			&rec.PlayerName,
			&rec.HumanColor,
			&rec.Difficulty,
			&rec.Winner,
			&rec.Reason,
			&rec.Player1Discs,
			&rec.Player2Discs,
			&rec.TotalMoves,
			&rec.DurationSeconds,
			&rec.CreatedAt,
			&rec.FinishedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan game row")
		}
		games = append(games, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate game rows")
	}
	return games, nil
}
