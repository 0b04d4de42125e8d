package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fedimark/fedimark/internal/bookmarks"
	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/logger"
	"github.com/fedimark/fedimark/internal/mastodon"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeSource) FetchPage(_ context.Context, _ string) (*mastodon.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &mastodon.Page{Statuses: []*domain.Status{{ID: "101"}}}, nil
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct{}

func (fakeStore) SaveBookmarks(_ context.Context, _ []*domain.Status, _ time.Time) error {
	return nil
}

func (fakeStore) LoadBookmarks(_ context.Context) ([]*domain.Status, time.Time, error) {
	return nil, time.Time{}, nil
}

func TestStartLoadsCollectionImmediately(t *testing.T) {
	source := &fakeSource{}
	synchronizer := bookmarks.New(source, fakeStore{}, nil, nil, logger.New("error", false))
	refresher := NewRefresher(synchronizer, logger.New("error", false), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher.Start(ctx)
	defer refresher.Stop()

	if source.count() == 0 {
		t.Fatal("initial load should fetch at least one page")
	}
	if got := synchronizer.Snapshot(); !got.FullyLoaded || len(got.Statuses) != 1 {
		t.Fatalf("snapshot = %+v, want fully loaded with one status", got)
	}
}

func TestTickRefreshesSilently(t *testing.T) {
	source := &fakeSource{}
	synchronizer := bookmarks.New(source, fakeStore{}, nil, nil, logger.New("error", false))
	refresher := NewRefresher(synchronizer, logger.New("error", false), time.Hour)

	if err := synchronizer.LoadOrFetch(context.Background()); err != nil {
		t.Fatalf("seed load: %v", err)
	}
	before := source.count()

	refresher.tick(context.Background())

	if source.count() != before+1 {
		t.Fatalf("tick fetched %d pages, want 1", source.count()-before)
	}
	if msg := synchronizer.Snapshot().ErrorMessage; msg != "" {
		t.Fatalf("silent refresh surfaced error %q", msg)
	}
}
