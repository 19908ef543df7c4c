package rules

import (
	"github.com/groupwarden/groupwarden/engine"
	"github.com/groupwarden/groupwarden/policy"
)

var _ engine.JoinRuleFunc = ForceJoinJoinRule

// Holds new members of force-add groups at pending until they explicitly
// confirm the join.
func ForceJoinJoinRule(c *engine.JoinContext) error {
	if c.Config.ForceAdd && c.Member.Status == policy.StatusPending {
		c.RequireJoinConfirmation()
	}
	return nil
}

var _ engine.JoinRuleFunc = SubscriptionGateJoinRule

// Joining members of a mandatory-channel group must already be subscribed.
func SubscriptionGateJoinRule(c *engine.JoinContext) error {
	ch := c.Config.MandatoryChannel
	if ch == "" {
		return nil
	}
	if !c.IsSubscribed(ch) {
		c.RequireSubscription(ch)
	}
	return nil
}

var _ engine.JoinRuleFunc = WelcomeJoinRule

// Activates the joining member and surfaces the group's welcome message for
// the transport to deliver.
func WelcomeJoinRule(c *engine.JoinContext) error {
	if c.Member.Status == policy.StatusPending {
		c.SetStatus(policy.StatusActive)
	}
	if msg := c.Config.WelcomeMessage; msg != "" {
		c.Welcome(msg)
	}
	return nil
}
