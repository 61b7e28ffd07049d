package cleanup

import (
	"context"
	"log"
	"time"
)

// SessionCleaner is implemented by game.SessionManager.
type SessionCleaner interface {
	CleanupIdle(maxIdle time.Duration) int
}

type Worker struct {
	Sessions SessionCleaner
	Interval time.Duration
	MaxIdle  time.Duration
}

func NewWorker(sessions SessionCleaner, interval, maxIdle time.Duration) *Worker {
	return &Worker{Sessions: sessions, Interval: interval, MaxIdle: maxIdle}
}

// Start runs one cleanup immediately and then every Interval until ctx is
// cancelled. It blocks, so callers run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	log.Println("[CLEANUP] Background worker started")
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() {
	if removed := w.Sessions.CleanupIdle(w.MaxIdle); removed > 0 {
		log.Printf("[CLEANUP] Removed %d idle game sessions", removed)
	}
}
