package http

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/reversi/backend/internal/domain"
	"github.com/iamasit07/reversi/backend/internal/repository/postgres"
	"github.com/iamasit07/reversi/backend/internal/service/analysis"
	"github.com/iamasit07/reversi/backend/internal/service/bot"
	"github.com/iamasit07/reversi/backend/internal/service/game"
	"github.com/iamasit07/reversi/backend/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeReader struct {
	games map[string]postgres.GameRecord
	limit int
}

func (f *fakeReader) GetGameByID(_ context.Context, id string) (*postgres.GameRecord, error) {
	rec, ok := f.games[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeReader) ListRecent(_ context.Context, limit int) ([]postgres.GameRecord, error) {
	f.limit = limit
	out := []postgres.GameRecord{}
	for _, rec := range f.games {
		out = append(out, rec)
	}
	return out, nil
}

func newTestRouter(t *testing.T, reader GameReader, requireAuth bool) *gin.Engine {
	t.Helper()
	cfg := bot.Config{MaxDepth: 2, Rules: domain.Standard}
	engine := bot.NewEngine(cfg)
	sessions := game.NewSessionManager(bot.NewBot(cfg, rand.New(rand.NewSource(3))), nil)

	return NewRouter(RouterOptions{
		AllowedOrigins: []string{"https://reversi.example"},
		RequireAuth:    requireAuth,
		JWTSecret:      "test-secret",
		Moves:          NewMoveHandler(analysis.NewService(engine, nil, time.Minute)),
		Sessions:       NewSessionHandler(sessions, bot.DifficultyMedium),
		History:        NewHistoryHandler(reader),
	})
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBestMoveEndpoint(t *testing.T) {
	router := newTestRouter(t, nil, false)

	w := do(t, router, http.MethodPost, "/api/move", gin.H{"board": domain.NewBoard().Grid(), "player": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.Move)
	assert.Contains(t, domain.Standard.LegalMoves(domain.NewBoard(), domain.Player1), *res.Move)
	assert.False(t, res.Pass)
	assert.Equal(t, 2, res.Depth)
}

func TestBestMoveEndpointPass(t *testing.T) {
	router := newTestRouter(t, nil, false)
	board := domain.ParseBoard(`
		XO......
		........
		........
		........
		........
		........
		........
		........
	`)

	w := do(t, router, http.MethodPost, "/api/move", gin.H{"board": board.Grid(), "player": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `null`, string(mustField(t, w.Body.Bytes(), "move")))
	assert.JSONEq(t, `true`, string(mustField(t, w.Body.Bytes(), "pass")))
}

func TestBestMoveEndpointRejectsBadInput(t *testing.T) {
	router := newTestRouter(t, nil, false)

	w := do(t, router, http.MethodPost, "/api/move", gin.H{"board": [][]int{{1, 2}}, "player": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrMalformedBoard.Error())

	w = do(t, router, http.MethodPost, "/api/move", gin.H{"board": domain.NewBoard().Grid(), "player": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/move", gin.H{"player": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLegalMovesEndpoint(t *testing.T) {
	router := newTestRouter(t, nil, false)

	w := do(t, router, http.MethodPost, "/api/legal-moves", gin.H{"board": domain.NewBoard().Grid(), "player": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Moves []domain.Move `json:"moves"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, domain.Standard.LegalMoves(domain.NewBoard(), domain.Player2), res.Moves)
}

func TestSessionEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, false)

	w := do(t, router, http.MethodPost, "/api/sessions", gin.H{"name": "ada"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, domain.Player1, snap.HumanColor)
	assert.Equal(t, bot.DifficultyMedium, snap.Difficulty)

	w = do(t, router, http.MethodPost, "/api/sessions/"+snap.GameID+"/moves", domain.Move{Row: 0, Col: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/sessions/"+snap.GameID+"/moves", snap.LegalMoves[0])
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Moves, 2)

	w = do(t, router, http.MethodGet, "/api/sessions/"+snap.GameID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/api/sessions/"+snap.GameID+"/resign", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, game.ReasonResigned, snap.Reason)

	w = do(t, router, http.MethodGet, "/api/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/api/sessions", gin.H{"difficulty": "nightmare"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	w := do(t, newTestRouter(t, nil, false), http.MethodGet, "/api/games", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	reader := &fakeReader{games: map[string]postgres.GameRecord{
		"g1": {GameID: "g1", PlayerName: "ada", Winner: domain.Player1, Reason: game.ReasonCompleted},
	}}
	router := newTestRouter(t, reader, false)

	w = do(t, router, http.MethodGet, "/api/games?limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxHistoryLimit, reader.limit)
	assert.Contains(t, w.Body.String(), `"gameId":"g1"`)

	w = do(t, router, http.MethodGet, "/api/games?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/games/g1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"playerName":"ada"`)

	w = do(t, router, http.MethodGet, "/api/games/g2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t, nil, true)
	body := gin.H{"board": domain.NewBoard().Grid(), "player": 1}

	w := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/api/move", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/api/move", body, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.GenerateAccessToken("test-secret", "cli", time.Hour)
	require.NoError(t, err)
	w = do(t, router, http.MethodPost, "/api/move", body, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, nil, false)

	w := do(t, router, http.MethodGet, "/healthz", nil, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodOptions, "/api/move", nil, "Origin", "https://reversi.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "https://reversi.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func mustField(t *testing.T, body []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	v, ok := m[key]
	require.True(t, ok, "missing %q in %s", key, body)
	return v
}
