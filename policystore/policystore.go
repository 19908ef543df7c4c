package policystore

import (
	"context"
	"errors"

	"github.com/groupwarden/groupwarden/policy"
)

// Returned by GetConfig when the group has never been registered. The
// transport must register a group (via the admin interface) before routing
// events to it, so this usually indicates a routing bug upstream.
var ErrNotFound = errors.New("group config not found")

// Read/write access to per-group moderation configuration. Reads must return
// a snapshot: later writes may never be observed by an evaluation already in
// flight.
type PolicyStore interface {
	GetConfig(ctx context.Context, groupID string) (*policy.GroupConfig, error)
	PutConfig(ctx context.Context, cfg *policy.GroupConfig) error
	DeleteConfig(ctx context.Context, groupID string) error
}
