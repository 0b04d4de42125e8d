package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fedimark/fedimark/internal/domain"
)

// SaveFolders stores the complete folder list.
func (s *Store) SaveFolders(ctx context.Context, folders []*domain.Folder) error {
	data, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("failed to marshal folders: %w", err)
	}

	if err := s.client.Set(ctx, KeyFolders, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save folders: %w", err)
	}

	return nil
}

// LoadFolders retrieves the persisted folder list.
// A missing key returns (nil, nil).
func (s *Store) LoadFolders(ctx context.Context) ([]*domain.Folder, error) {
	data, err := s.client.Get(ctx, KeyFolders).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get folders: %w", err)
	}

	var folders []*domain.Folder
	if err := json.Unmarshal(data, &folders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folders: %w", err)
	}

	return folders, nil
}
