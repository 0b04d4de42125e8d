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

// SaveEmojiSet stores a domain's emoji set, its refresh timestamp and the
// domain's membership in the known-domain set in one transactional pipeline.
func (s *Store) SaveEmojiSet(ctx context.Context, emojiDomain string, emoji []*domain.CustomEmoji, refreshedAt time.Time) error {
	data, err := json.Marshal(emoji)
	if err != nil {
		return fmt.Errorf("failed to marshal emoji set for %s: %w", emojiDomain, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, EmojiKey(emojiDomain), data, 0)
	pipe.Set(ctx, EmojiRefreshedAtKey(emojiDomain), refreshedAt.UTC().Format(time.RFC3339Nano), 0)
	pipe.SAdd(ctx, KeyEmojiDomains, emojiDomain)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save emoji set for %s: %w", emojiDomain, err)
	}

	return nil
}

// LoadEmojiSet retrieves a domain's cached emoji set and refresh timestamp.
// A missing entry returns (nil, zero time, nil).
func (s *Store) LoadEmojiSet(ctx context.Context, emojiDomain string) ([]*domain.CustomEmoji, time.Time, error) {
	data, err := s.client.Get(ctx, EmojiKey(emojiDomain)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to get emoji set for %s: %w", emojiDomain, err)
	}

	var emoji []*domain.CustomEmoji
	if err := json.Unmarshal(data, &emoji); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal emoji set for %s: %w", emojiDomain, err)
	}

	refreshedAt := time.Time{}
	raw, err := s.client.Get(ctx, EmojiRefreshedAtKey(emojiDomain)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, time.Time{}, fmt.Errorf("failed to get emoji timestamp for %s: %w", emojiDomain, err)
	}
	if err == nil {
		if t, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			refreshedAt = t
		}
	}

	return emoji, refreshedAt, nil
}

// KnownEmojiDomains returns every domain with a cached emoji set.
func (s *Store) KnownEmojiDomains(ctx context.Context) ([]string, error) {
	domains, err := s.client.SMembers(ctx, KeyEmojiDomains).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get known emoji domains: %w", err)
	}
	return domains, nil
}
