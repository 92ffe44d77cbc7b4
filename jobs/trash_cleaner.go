package jobs

import (
	"context"
	"log"
	"time"

	"scribehub/services"
)

// TrashCleaner permanently deletes trashed documents once their
// retention window has passed.
type TrashCleaner struct {
	trashService *services.TrashService
	interval     time.Duration
	logger       *log.Logger
}

func NewTrashCleaner(trashService *services.TrashService, interval time.Duration) *TrashCleaner {
	return &TrashCleaner{
		trashService: trashService,
		interval:     interval,
		logger:       log.New(log.Writer(), "[TRASH_CLEANER] ", log.LstdFlags),
	}
}

// Start runs a cleanup immediately and then on every tick. It blocks,
// so callers run it in a goroutine.
func (tc *TrashCleaner) Start() {
	tc.logger.Println("Starting trash cleaner job...")

	tc.runCleanup()

	ticker := time.NewTicker(tc.interval)
	defer ticker.Stop()

	for range ticker.C {
		tc.runCleanup()
	}
}

func (tc *TrashCleaner) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := tc.trashService.PurgeExpired(ctx)
	if err != nil {
		tc.logger.Printf("Error purging expired documents: %v", err)
		return
	}

	if purged > 0 {
		tc.logger.Printf("Purged %d expired documents from trash", purged)
	}
}
