package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store persists Fedimark's durable state in Redis as JSON blobs:
// the bookmark collection, per-domain emoji sets and the folder list.
// Multi-key writes use a transactional pipeline so a crash never leaves a
// collection half-written next to a fresh timestamp.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
