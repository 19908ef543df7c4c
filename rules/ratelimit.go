package rules

import (
	"github.com/groupwarden/groupwarden/engine"
)

var _ engine.MessageRuleFunc = RateLimitMessageRule

// Warns when admitting the message would push the member over the group's
// sliding-window rate limit. The timestamp is only recorded into the window
// when the whole pipeline allows the message, so a rate-limited burst does
// not extend its own punishment.
func RateLimitMessageRule(c *engine.MessageContext) error {
	if c.Config.RateLimitWindow == 0 {
		return nil
	}
	if !c.RateWithinLimit() {
		c.Warn(engine.ReasonRateLimited)
	}
	return nil
}
