package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/reversi/backend/internal/transport/http/middleware"
)

type RouterOptions struct {
	AllowedOrigins []string
	RequireAuth    bool
	JWTSecret      string

	Moves     *MoveHandler
	Sessions  *SessionHandler
	History   *HistoryHandler
	WebSocket gin.HandlerFunc
}

// NewRouter registers every route. When RequireAuth is set the API group
// needs a bearer token; /healthz never does.
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	if opts.RequireAuth {
		api.Use(middleware.AuthMiddleware(opts.JWTSecret))
	}
	{
		api.POST("/move", opts.Moves.BestMove)
		api.POST("/legal-moves", opts.Moves.LegalMoves)

		api.POST("/sessions", opts.Sessions.Create)
		api.GET("/sessions/:id", opts.Sessions.Get)
		api.POST("/sessions/:id/moves", opts.Sessions.Move)
		api.POST("/sessions/:id/resign", opts.Sessions.Resign)

		api.GET("/games", opts.History.GetHistory)
		api.GET("/games/:id", opts.History.GetGameDetails)
	}

	// The WebSocket handler checks tokens itself; browsers may only be able
	// to send one inside the first frame.
	if opts.WebSocket != nil {
		router.GET("/ws", opts.WebSocket)
	}

	return router
}
