package engine

import (
	"time"

	"github.com/groupwarden/groupwarden/policy"
)

// Mutable container for the outcome of rule execution: the decision plus the
// state delta it implies. Rules queue changes here through context methods;
// nothing is applied to the member record or the stores until all rules have
// run, which keeps evaluation and persistence separately testable.
type Effects struct {
	// The decision produced by the first decisive rule, nil while every rule
	// so far has passed. A nil decision after the full pipeline means Allow.
	Decision *Decision

	// Warning count increment implied by the decision. Only conduct-based
	// warnings set this; structural gate decisions never do.
	WarningDelta int

	// Membership status to apply, if any (eg, a mute that has elapsed).
	NewStatus *policy.MembershipStatus

	// Mute deadline to apply, if any. The zero time clears an expired mute.
	MuteUntil *time.Time

	// Welcome text to surface to the transport on an allowed join.
	WelcomeMessage string
}

func (e *Effects) decide(d Decision) {
	if e.Decision != nil {
		return
	}
	e.Decision = &d
}

// True once a decisive (non-pass) outcome has been recorded; the rule
// pipeline short-circuits on it.
func (e *Effects) Decided() bool {
	return e.Decision != nil
}
