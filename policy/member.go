package policy

import (
	"time"
)

// Membership lifecycle within a single group. "expelled" is terminal from the
// engine's point of view; re-admission by an external collaborator re-creates
// the member record at "pending".
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"
	StatusActive   MembershipStatus = "active"
	StatusMuted    MembershipStatus = "muted"
	StatusExpelled MembershipStatus = "expelled"
)

// Per (group, user) mutable moderation state. Owned by the state store
// collaborator; the engine only holds transient access per evaluation, so all
// reads and writes for one member must be serialized by the caller or by the
// engine's per-member critical section.
type Member struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`

	WarningCount int              `json:"warning_count"`
	Exempt       bool             `json:"exempt,omitempty"`
	Status       MembershipStatus `json:"status"`

	JoinedAt  time.Time `json:"joined_at,omitempty"`
	MuteUntil time.Time `json:"mute_until,omitempty"`

	// Trailing message timestamps inside the configured rate window, oldest
	// first. Bounded; see the ratewindow package.
	RateWindow []time.Time `json:"rate_window,omitempty"`
}

func (m *Member) Copy() *Member {
	if m == nil {
		return nil
	}
	out := *m
	out.RateWindow = append([]time.Time(nil), m.RateWindow...)
	return &out
}
