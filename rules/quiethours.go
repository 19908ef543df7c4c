package rules

import (
	"github.com/groupwarden/groupwarden/engine"
)

var _ engine.MessageRuleFunc = QuietHoursMessageRule

// Suppresses messages during the group's configured quiet hours. Exempt
// members are not suppressed. Structural, not conduct: no warning accrues.
func QuietHoursMessageRule(c *engine.MessageContext) error {
	if c.Config.QuietHours == nil || c.Member.Exempt {
		return nil
	}
	if c.Config.QuietHours.Contains(c.Now()) {
		c.Delete(engine.ReasonQuietHours)
	}
	return nil
}
