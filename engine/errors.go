package engine

import (
	"errors"

	"github.com/groupwarden/groupwarden/policy"
)

var (
	// The group was never registered with the engine. No decision is
	// produced; the transport should treat the event as unroutable.
	ErrConfigNotFound = errors.New("group not registered with moderation engine")

	// The group's stored configuration fails validation. Evaluation degrades
	// to allowing all traffic (moderation disabled) until an admin fixes the
	// config; a config bug must never delete messages or expel members.
	ErrConfigInvalid = policy.ErrInvalidConfig

	// A state store or external lookup failed. The event was not evaluated
	// and should be retried; it is neither allowed nor penalized.
	ErrStateUnavailable = errors.New("member state unavailable")
)
