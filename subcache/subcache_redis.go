package subcache

import (
	"context"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// Redis-backed SubCache with a local TinyLFU tier, for deployments with
// multiple moderation workers sharing lookups.
type RedisSubCache struct {
	Data *cache.Cache
	TTL  time.Duration
}

var _ SubCache = (*RedisSubCache)(nil)

func NewRedisSubCache(redisURL string, ttl time.Duration) (*RedisSubCache, error) {
	ctx := context.Background()
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	data := cache.New(&cache.Options{
		Redis:      rdb,
		LocalCache: cache.NewTinyLFU(10_000, ttl),
	})
	return &RedisSubCache{
		Data: data,
		TTL:  ttl,
	}, nil
}

func redisSubKey(userID, channelID string) string {
	return "subcache/" + cacheKey(userID, channelID)
}

func (s *RedisSubCache) Get(ctx context.Context, userID, channelID string) (Status, error) {
	var val string
	err := s.Data.Get(ctx, redisSubKey(userID, channelID), &val)
	if err == cache.ErrCacheMiss {
		return StatusUnknown, nil
	}
	if err != nil {
		return StatusUnknown, err
	}
	return Status(val), nil
}

func (s *RedisSubCache) Set(ctx context.Context, userID, channelID string, status Status) error {
	return s.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   redisSubKey(userID, channelID),
		Value: string(status),
		TTL:   s.TTL,
	})
}

func (s *RedisSubCache) Purge(ctx context.Context, userID, channelID string) error {
	err := s.Data.Delete(ctx, redisSubKey(userID, channelID))
	if err == cache.ErrCacheMiss {
		return nil
	}
	return err
}
