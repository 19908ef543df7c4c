package rules

import (
	"github.com/groupwarden/groupwarden/engine"
	"github.com/groupwarden/groupwarden/policy"
)

var _ engine.MessageRuleFunc = MembershipStatusMessageRule

// Drops messages from expelled or still-muted members, and transitions an
// elapsed mute back to active before the rest of the pipeline runs.
func MembershipStatusMessageRule(c *engine.MessageContext) error {
	switch c.Member.Status {
	case policy.StatusExpelled:
		c.Delete(engine.ReasonExpelled)
	case policy.StatusMuted:
		if c.Member.MuteUntil.After(c.Now()) {
			c.Delete(engine.ReasonMuted)
		} else {
			c.SetStatus(policy.StatusActive)
			c.ClearMute()
		}
	}
	return nil
}

var _ engine.MessageRuleFunc = ForceJoinGateMessageRule

// Membership gate: groups with force-add require explicit join confirmation
// before a member's messages are processed. Exemption-blind: this is a
// membership gate, not conduct moderation.
func ForceJoinGateMessageRule(c *engine.MessageContext) error {
	if c.Config.ForceAdd && c.Member.Status == policy.StatusPending {
		c.RequireJoinConfirmation()
	}
	return nil
}

var _ engine.MessageRuleFunc = SubscriptionGateMessageRule

// Subscription gate: groups with a mandatory channel require the member to be
// subscribed before participating. Also exemption-blind.
func SubscriptionGateMessageRule(c *engine.MessageContext) error {
	ch := c.Config.MandatoryChannel
	if ch == "" {
		return nil
	}
	if !c.IsSubscribed(ch) {
		c.RequireSubscription(ch)
	}
	return nil
}

var _ engine.MessageRuleFunc = ExemptionMessageRule

// Exempt members bypass all remaining conduct checks. Decisive Allow, so the
// pipeline stops here for them.
func ExemptionMessageRule(c *engine.MessageContext) error {
	if c.Member.Exempt {
		c.Allow()
	}
	return nil
}
