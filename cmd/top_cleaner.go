package main

import (
	"context"
	"log"
	"time"

	"naimuBack/internal/repositories"
)

const (
	topCleanerInterval = 5 * time.Minute
	topCleanerTimeout  = 30 * time.Second
)

// startTopCleaner strips expired top placement from tasks so the feed never
// shows stale sponsored slots.
func startTopCleaner(ctx context.Context, repo *repositories.TaskRepository, infoLog, errorLog *log.Logger) {
	if repo == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(topCleanerInterval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, topCleanerTimeout)
			defer cancel()

			cleared, err := repo.ClearExpiredTop(runCtx, time.Now())
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("top cleaner: failed to clear expired placements: %v", err)
				}
				return
			}
			if cleared > 0 && infoLog != nil {
				infoLog.Printf("top cleaner: cleared %d expired placements", cleared)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
