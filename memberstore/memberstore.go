package memberstore

import (
	"context"

	"github.com/groupwarden/groupwarden/policy"
)

// Persistence for per (group, user) moderation state.
//
// Load returns (nil, nil) for a member that has never been seen; the engine
// creates the record on first join or message. A non-nil error means the
// store is unavailable and the event must be treated as not-yet-evaluated,
// never as implicitly allowed or penalized.
//
// The store itself does not serialize access: the engine wraps each
// load-evaluate-save round trip in a per-member critical section.
type MemberStore interface {
	Load(ctx context.Context, groupID, userID string) (*policy.Member, error)
	Save(ctx context.Context, member *policy.Member) error
	Delete(ctx context.Context, groupID, userID string) error
}

func memberKey(groupID, userID string) string {
	return groupID + "/" + userID
}
