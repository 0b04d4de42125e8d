package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/fedimark/fedimark/internal/bookmarks"
	"github.com/fedimark/fedimark/internal/logger"
)

// Refresher handles periodic incremental refreshes of the bookmark
// collection.
type Refresher struct {
	synchronizer *bookmarks.Synchronizer
	logger       logger.Logger
	interval     time.Duration
	stopCh       chan struct{}
}

// NewRefresher creates a new refresher.
func NewRefresher(
	synchronizer *bookmarks.Synchronizer,
	log logger.Logger,
	interval time.Duration,
) *Refresher {
	return &Refresher{
		synchronizer: synchronizer,
		logger:       log,
		interval:     interval,
		stopCh:       make(chan struct{}),
	}
}

// Start loads the collection once, then refreshes it periodically until
// Stop or context cancellation. The initial load error is not fatal: the
// next tick retries via the synchronizer's own cache-or-fetch path.
func (r *Refresher) Start(ctx context.Context) {
	if err := r.synchronizer.LoadOrFetch(ctx); err != nil {
		r.logger.Error("initial bookmark load failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.tick(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the refresher.
func (r *Refresher) Stop() {
	close(r.stopCh)
}

func (r *Refresher) tick(ctx context.Context) {
	_, err := r.synchronizer.Refresh(ctx, true)
	switch {
	case err == nil:
	case errors.Is(err, bookmarks.ErrSyncInFlight):
		r.logger.Debug("skipping scheduled refresh, sync already running")
	default:
		r.logger.Warn("scheduled refresh failed",
			logger.Error(err))
	}
}
