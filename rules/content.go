package rules

import (
	"github.com/groupwarden/groupwarden/engine"
	"github.com/groupwarden/groupwarden/keyword"
)

var _ engine.MessageRuleFunc = ContentLockMessageRule

// Deletes messages whose content type the group has locked (eg, no stickers,
// no video). Deletion only; posting a locked type is not a conduct warning.
func ContentLockMessageRule(c *engine.MessageContext) error {
	if c.Config.ContentLocked(c.Message.ContentType) {
		c.Delete(engine.ReasonLockedContentType)
	}
	return nil
}

var _ engine.MessageRuleFunc = ForbiddenPatternMessageRule

// Warns when message text matches any forbidden word (case-insensitive
// substring) or regex. Only the first matching pattern counts: one message,
// at most one warning.
func ForbiddenPatternMessageRule(c *engine.MessageContext) error {
	if c.Message.Text == "" {
		return nil
	}
	if pat, ok := keyword.MatchAny(c.Message.Text, c.Config.ForbiddenWords, c.Config.ForbiddenRegexes); ok {
		c.Logger.Debug("forbidden pattern match", "pattern", pat)
		c.Warn(engine.ReasonForbiddenContent)
	}
	return nil
}
