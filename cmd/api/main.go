package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iamasit07/reversi/backend/internal/config"
	"github.com/iamasit07/reversi/backend/internal/repository/postgres"
	"github.com/iamasit07/reversi/backend/internal/repository/redis"
	"github.com/iamasit07/reversi/backend/internal/service/analysis"
	"github.com/iamasit07/reversi/backend/internal/service/bot"
	"github.com/iamasit07/reversi/backend/internal/service/cleanup"
	"github.com/iamasit07/reversi/backend/internal/service/game"
	transportHttp "github.com/iamasit07/reversi/backend/internal/transport/http"
	"github.com/iamasit07/reversi/backend/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Persistence is optional; without a database finished games are not
	// stored and the history endpoints answer 503.
	var gameRepo *postgres.GameRepo
	if cfg.DatabaseURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		db, err := postgres.Open(pingCtx, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeMin) * time.Minute,
		})
		cancel()
		if err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")
		gameRepo = postgres.NewGameRepo(db)
	} else {
		log.Println("No DATABASE_URL configured, game history disabled")
	}

	var cache analysis.CacheRepository
	if client := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword); client != nil {
		defer client.Close()
		cache = redis.NewRedisCache(client, "reversi:")
	}

	engineCfg := cfg.EngineConfig()
	engine := bot.NewEngine(engineCfg)
	log.Printf("[ENGINE] depth=%d region=%s", engine.Depth(), engine.Rules().Region)

	analysisService := analysis.NewService(engine, cache, cfg.MoveCacheTTL)
	movePicker := bot.NewBot(engineCfg, rand.New(rand.NewSource(time.Now().UnixNano())))

	// Interface values must stay nil when there is no repository.
	var saver game.GameRepository
	var reader transportHttp.GameReader
	if gameRepo != nil {
		saver = gameRepo
		reader = gameRepo
	}
	sessionManager := game.NewSessionManager(movePicker, saver)

	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval, cfg.SessionIdleTimeout)
	go cleanupWorker.Start(ctx)

	wsHandler := websocket.NewHandler(sessionManager, cfg.DefaultDifficulty, cfg.AllowedOrigins, cfg.RequireAuth, cfg.JWTSecret)
	router := transportHttp.NewRouter(transportHttp.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RequireAuth:    cfg.RequireAuth,
		JWTSecret:      cfg.JWTSecret,
		Moves:          transportHttp.NewMoveHandler(analysisService),
		Sessions:       transportHttp.NewSessionHandler(sessionManager, cfg.DefaultDifficulty),
		History:        transportHttp.NewHistoryHandler(reader),
		WebSocket:      wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
