package engine

// Holds the ordered policy checks for each event type and dispatches events to
// them. Order is meaningful: it encodes precedence (structural gating before
// content gating before soft limits), and the first rule that records a
// decision short-circuits the remainder.
type RuleSet struct {
	MessageRules []MessageRuleFunc
	JoinRules    []JoinRuleFunc
}

func (r *RuleSet) CallMessageRules(c *MessageContext) error {
	for _, f := range r.MessageRules {
		if err := f(c); err != nil {
			return err
		}
		if c.effects.Decided() {
			break
		}
	}
	return nil
}

func (r *RuleSet) CallJoinRules(c *JoinContext) error {
	for _, f := range r.JoinRules {
		if err := f(c); err != nil {
			return err
		}
		if c.effects.Decided() {
			break
		}
	}
	return nil
}
