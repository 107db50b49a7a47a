package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// CoverFetcher downloads a cover into the local cache.
type CoverFetcher interface {
	GetCover(ctx context.Context, bookID entities.BookID, coverURL string) (string, error)
}

// WarmCoverTask fetches one stored cover ahead of the first page view.
type WarmCoverTask struct {
	BookID entities.BookID `json:"book_id"`
	URL    string          `json:"url"`
}

// Config returns the queue configuration for cover warm-up tasks.
func (t WarmCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
		},
	}
}

// WarmCoverProcessor creates a processor function for WarmCoverTask.
func WarmCoverProcessor(cache CoverFetcher) backlite.QueueProcessor[WarmCoverTask] {
	return func(ctx context.Context, task WarmCoverTask) error {
		if cache == nil {
			return fmt.Errorf("cover cache not configured")
		}
		if _, err := cache.GetCover(ctx, task.BookID, task.URL); err != nil {
			return fmt.Errorf("warm cover for book %s: %w", task.BookID, err)
		}
		return nil
	}
}

// NewWarmCoverQueue creates a backlite queue for cover warm-up tasks.
func NewWarmCoverQueue(cache CoverFetcher) backlite.Queue {
	return backlite.NewQueue(WarmCoverProcessor(cache))
}
