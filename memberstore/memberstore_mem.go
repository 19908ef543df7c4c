package memberstore

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/groupwarden/groupwarden/policy"
)

// In-memory MemberStore. Records are copied on read and write so callers can
// freely mutate what they hold.
type MemMemberStore struct {
	members *xsync.MapOf[string, *policy.Member]
}

var _ MemberStore = (*MemMemberStore)(nil)

func NewMemMemberStore() *MemMemberStore {
	return &MemMemberStore{
		members: xsync.NewMapOf[string, *policy.Member](),
	}
}

func (s *MemMemberStore) Load(ctx context.Context, groupID, userID string) (*policy.Member, error) {
	m, ok := s.members.Load(memberKey(groupID, userID))
	if !ok {
		return nil, nil
	}
	return m.Copy(), nil
}

func (s *MemMemberStore) Save(ctx context.Context, member *policy.Member) error {
	s.members.Store(memberKey(member.GroupID, member.UserID), member.Copy())
	return nil
}

func (s *MemMemberStore) Delete(ctx context.Context, groupID, userID string) error {
	s.members.Delete(memberKey(groupID, userID))
	return nil
}
