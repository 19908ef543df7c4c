package engine

import (
	"time"

	"github.com/groupwarden/groupwarden/policy"
)

// A chat message, already parsed from the transport's wire format. The engine
// never sees the platform's payload encoding.
type MessageEvent struct {
	GroupID     string
	UserID      string
	ContentType policy.ContentType
	Text        string
	// When the message was sent. Zero means "now" (per the engine clock).
	Timestamp time.Time
}

// A user entering a group (or being added to it).
type JoinEvent struct {
	GroupID   string
	UserID    string
	Timestamp time.Time
}

// Membership bookkeeping events which carry no content: join confirmations
// and departures.
type MembershipEvent struct {
	GroupID   string
	UserID    string
	Timestamp time.Time
}
