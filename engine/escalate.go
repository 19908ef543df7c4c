package engine

import (
	"time"

	"github.com/groupwarden/groupwarden/policy"
)

// Applies the queued state delta to the member and resolves the final
// decision. When the warning increment pushes the member across a penalty
// ladder threshold, the ladder's action replaces the plain Warn: escalation
// always wins. Decision-implied status transitions (mute, expel) are applied
// here as well, so the returned member state and decision are consistent.
func applyEscalation(member *policy.Member, eff *Effects, ladder policy.PenaltyLadder, now time.Time) *Decision {
	decision := eff.Decision
	if decision == nil {
		decision = &Decision{Kind: DecisionAllow}
	}

	if eff.NewStatus != nil {
		member.Status = *eff.NewStatus
	}
	if eff.MuteUntil != nil {
		member.MuteUntil = *eff.MuteUntil
	}

	if eff.WarningDelta > 0 {
		member.WarningCount += eff.WarningDelta
		if step, ok := ladder.StepFor(member.WarningCount); ok && decision.Kind == DecisionWarn {
			switch step.Action {
			case policy.LadderMute:
				decision = &Decision{Kind: DecisionMute, Reason: decision.Reason, MuteDuration: step.MuteDuration}
			case policy.LadderExpel:
				decision = &Decision{Kind: DecisionExpel, Reason: decision.Reason}
			}
		}
	}

	switch decision.Kind {
	case DecisionMute:
		member.Status = policy.StatusMuted
		member.MuteUntil = now.Add(decision.MuteDuration)
	case DecisionExpel:
		member.Status = policy.StatusExpelled
	case DecisionAllow:
		decision.WelcomeMessage = eff.WelcomeMessage
	}

	return decision
}
