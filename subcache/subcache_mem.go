package subcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type MemSubCache struct {
	Data *expirable.LRU[string, Status]
}

var _ SubCache = (*MemSubCache)(nil)

func NewMemSubCache(capacity int, ttl time.Duration) *MemSubCache {
	return &MemSubCache{
		Data: expirable.NewLRU[string, Status](capacity, nil, ttl),
	}
}

func (s *MemSubCache) Get(ctx context.Context, userID, channelID string) (Status, error) {
	v, ok := s.Data.Get(cacheKey(userID, channelID))
	if !ok {
		return StatusUnknown, nil
	}
	return v, nil
}

func (s *MemSubCache) Set(ctx context.Context, userID, channelID string, status Status) error {
	s.Data.Add(cacheKey(userID, channelID), status)
	return nil
}

func (s *MemSubCache) Purge(ctx context.Context, userID, channelID string) error {
	s.Data.Remove(cacheKey(userID, channelID))
	return nil
}
