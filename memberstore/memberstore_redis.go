package memberstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/groupwarden/groupwarden/policy"
)

var redisMemberPrefix = "member/"

// MemberStore backed by redis, with records stored as JSON values. Suitable
// when multiple moderation workers share state, though the per-member
// serialization requirement then needs a shared lock (eg, events for one
// member routed to a single worker).
type RedisMemberStore struct {
	Client *redis.Client
}

var _ MemberStore = (*RedisMemberStore)(nil)

func NewRedisMemberStore(redisURL string) (*RedisMemberStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisMemberStore{Client: rdb}, nil
}

func (s *RedisMemberStore) Load(ctx context.Context, groupID, userID string) (*policy.Member, error) {
	raw, err := s.Client.Get(ctx, redisMemberPrefix+memberKey(groupID, userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("loading member state: %w", err)
	}
	var m policy.Member
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing stored member state: %w", err)
	}
	return &m, nil
}

func (s *RedisMemberStore) Save(ctx context.Context, member *policy.Member) error {
	raw, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("encoding member state: %w", err)
	}
	key := redisMemberPrefix + memberKey(member.GroupID, member.UserID)
	if err := s.Client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("saving member state: %w", err)
	}
	return nil
}

func (s *RedisMemberStore) Delete(ctx context.Context, groupID, userID string) error {
	err := s.Client.Del(ctx, redisMemberPrefix+memberKey(groupID, userID)).Err()
	if err != nil {
		return fmt.Errorf("deleting member state: %w", err)
	}
	return nil
}
