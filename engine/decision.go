package engine

import (
	"time"
)

// What the transport collaborator should do with the event. Exactly one
// Decision is produced per successfully evaluated event.
type DecisionKind string

const (
	DecisionAllow               DecisionKind = "allow"
	DecisionDelete              DecisionKind = "delete"
	DecisionWarn                DecisionKind = "warn"
	DecisionMute                DecisionKind = "mute"
	DecisionExpel               DecisionKind = "expel"
	DecisionRequireSubscription DecisionKind = "require_subscription"
	DecisionRequireJoin         DecisionKind = "require_join_confirmation"
)

// Machine-readable reasons attached to decisions. Transports may map these to
// user-facing warning texts.
var (
	ReasonQuietHours        = "quiet_hours"
	ReasonLockedContentType = "locked_content_type"
	ReasonForbiddenContent  = "forbidden_content"
	ReasonRateLimited       = "rate_limited"
	ReasonMuted             = "muted"
	ReasonExpelled          = "expelled"
	ReasonConfigInvalid     = "config_invalid"
)

type Decision struct {
	Kind   DecisionKind `json:"kind"`
	Reason string       `json:"reason,omitempty"`

	// Set when Kind is DecisionMute.
	MuteDuration time.Duration `json:"mute_duration,omitempty"`

	// Set when Kind is DecisionRequireSubscription: the channel the user must
	// join before participating.
	ChannelID string `json:"channel_id,omitempty"`

	// Set on an allowed join when the group has a welcome message configured.
	WelcomeMessage string `json:"welcome_message,omitempty"`
}
