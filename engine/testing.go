package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/groupwarden/groupwarden/memberstore"
	"github.com/groupwarden/groupwarden/policystore"
	"github.com/groupwarden/groupwarden/subcache"
)

// Subscription checker with a fixed answer set, for tests and local
// development. Keys are "userID/channelID".
type StaticSubscriptionChecker struct {
	Subscribed map[string]bool
}

var _ SubscriptionChecker = (*StaticSubscriptionChecker)(nil)

func (s *StaticSubscriptionChecker) IsSubscribed(ctx context.Context, userID, channelID string) (bool, error) {
	return s.Subscribed[userID+"/"+channelID], nil
}

// Engine wired to in-memory stores and a static subscription checker.
// Intentionally exported, for use in other packages' tests. Callers install
// their own RuleSet and group configs.
func EngineTestFixture() *Engine {
	return &Engine{
		Logger:        slog.Default(),
		Policies:      policystore.NewMemPolicyStore(),
		Members:       memberstore.NewMemMemberStore(),
		SubCache:      subcache.NewMemSubCache(100, time.Hour),
		Subscriptions: &StaticSubscriptionChecker{},
	}
}

// Helper to access the private effects field from a context. Intended for use
// in test code, *not* from rules.
func ExtractEffects(c *MemberContext) *Effects {
	return c.effects
}
