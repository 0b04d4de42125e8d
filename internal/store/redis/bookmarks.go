package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fedimark/fedimark/internal/domain"
)

// SaveBookmarks stores the full bookmark collection and the fetch timestamp
// in one transactional pipeline. The blob has no TTL: the collection is the
// primary local copy, not a cache that may silently expire.
func (s *Store) SaveBookmarks(ctx context.Context, statuses []*domain.Status, fetchedAt time.Time) error {
	data, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, KeyBookmarks, data, 0)
	pipe.Set(ctx, KeyBookmarksFetchedAt, fetchedAt.UTC().Format(time.RFC3339Nano), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}

	return nil
}

// LoadBookmarks retrieves the persisted bookmark collection.
// A missing key is not an error: it returns (nil, zero time, nil) so the
// caller can tell "no cache yet" from a real failure.
func (s *Store) LoadBookmarks(ctx context.Context) ([]*domain.Status, time.Time, error) {
	data, err := s.client.Get(ctx, KeyBookmarks).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	var statuses []*domain.Status
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal bookmarks: %w", err)
	}

	fetchedAt, err := s.loadFetchedAt(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	return statuses, fetchedAt, nil
}

func (s *Store) loadFetchedAt(ctx context.Context) (time.Time, error) {
	raw, err := s.client.Get(ctx, KeyBookmarksFetchedAt).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get fetch timestamp: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// A corrupt timestamp is not worth failing a cache load over.
		return time.Time{}, nil
	}
	return t, nil
}
