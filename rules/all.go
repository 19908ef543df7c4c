package rules

import (
	"github.com/groupwarden/groupwarden/engine"
)

// The standard moderation pipeline, in its fixed priority order. The order is
// load-bearing: structural gates (membership, subscription) run before
// context suppression (quiet hours), which runs before the exemption
// short-circuit, which runs before conduct checks (content lock, forbidden
// patterns, rate limit). Adding a policy means inserting it at the right
// precedence, nothing else.
func DefaultRules() engine.RuleSet {
	return engine.RuleSet{
		MessageRules: []engine.MessageRuleFunc{
			MembershipStatusMessageRule,
			ForceJoinGateMessageRule,
			SubscriptionGateMessageRule,
			QuietHoursMessageRule,
			ExemptionMessageRule,
			ContentLockMessageRule,
			ForbiddenPatternMessageRule,
			RateLimitMessageRule,
		},
		JoinRules: []engine.JoinRuleFunc{
			ForceJoinJoinRule,
			SubscriptionGateJoinRule,
			WelcomeJoinRule,
		},
	}
}
