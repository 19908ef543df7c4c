package policystore

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/groupwarden/groupwarden/policy"
)

// In-memory PolicyStore. Configs are deep-copied on both write and read, so
// concurrent admin updates can never mutate a snapshot handed to the engine.
type MemPolicyStore struct {
	configs *xsync.MapOf[string, *policy.GroupConfig]
}

var _ PolicyStore = (*MemPolicyStore)(nil)

func NewMemPolicyStore() *MemPolicyStore {
	return &MemPolicyStore{
		configs: xsync.NewMapOf[string, *policy.GroupConfig](),
	}
}

func (s *MemPolicyStore) GetConfig(ctx context.Context, groupID string) (*policy.GroupConfig, error) {
	cfg, ok := s.configs.Load(groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, groupID)
	}
	return cfg.Copy(), nil
}

func (s *MemPolicyStore) PutConfig(ctx context.Context, cfg *policy.GroupConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.configs.Store(cfg.GroupID, cfg.Copy())
	return nil
}

func (s *MemPolicyStore) DeleteConfig(ctx context.Context, groupID string) error {
	s.configs.Delete(groupID)
	return nil
}
