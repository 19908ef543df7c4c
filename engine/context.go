package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/groupwarden/groupwarden/policy"
	"github.com/groupwarden/groupwarden/ratewindow"
)

// The primary interface exposed to rules. All other context types derive from
// this base struct.
type BaseContext struct {
	// Actual golang "context.Context", if needed for timeouts etc
	Ctx context.Context
	// Any errors encountered while processing methods on this struct (or
	// sub-types) get rolled up in this nullable field
	Err error
	// slog logger handle, with event-specific structured fields pre-populated
	Logger *slog.Logger

	engine  *Engine
	effects *Effects
	now     time.Time
}

// The engine clock's reading for this evaluation. Fixed for the whole
// pipeline, so every rule observes the same instant.
func (c *BaseContext) Now() time.Time {
	return c.now
}

// Event context for a single member of a single group: the config snapshot
// and state every policy check reads.
type MemberContext struct {
	BaseContext

	// Immutable for the duration of the evaluation.
	Config *policy.GroupConfig
	// The member's state as loaded (or freshly created). Rules read it;
	// mutations go through the effect methods below.
	Member *policy.Member
}

type MessageContext struct {
	MemberContext

	Message MessageEvent
}

type JoinContext struct {
	MemberContext

	Join JoinEvent
}

// decision methods ======

// Records a decisive Allow: remaining checks are skipped entirely, including
// the allow-path rate window recording.
func (c *MemberContext) Allow() {
	c.effects.decide(Decision{Kind: DecisionAllow})
}

func (c *MemberContext) Delete(reason string) {
	c.effects.decide(Decision{Kind: DecisionDelete, Reason: reason})
}

// Records a warning decision. Warnings count against the member and may be
// escalated by the group's penalty ladder.
func (c *MemberContext) Warn(reason string) {
	c.effects.decide(Decision{Kind: DecisionWarn, Reason: reason})
	c.effects.WarningDelta++
}

func (c *MemberContext) Mute(reason string, d time.Duration) {
	c.effects.decide(Decision{Kind: DecisionMute, Reason: reason, MuteDuration: d})
}

func (c *MemberContext) Expel(reason string) {
	c.effects.decide(Decision{Kind: DecisionExpel, Reason: reason})
}

func (c *MemberContext) RequireSubscription(channelID string) {
	c.effects.decide(Decision{Kind: DecisionRequireSubscription, ChannelID: channelID})
}

func (c *MemberContext) RequireJoinConfirmation() {
	c.effects.decide(Decision{Kind: DecisionRequireJoin})
}

// state delta methods ======

func (c *MemberContext) SetStatus(status policy.MembershipStatus) {
	c.effects.NewStatus = &status
}

// Clears an elapsed mute deadline alongside the status transition back to
// active.
func (c *MemberContext) ClearMute() {
	var zero time.Time
	c.effects.MuteUntil = &zero
}

func (c *JoinContext) Welcome(msg string) {
	c.effects.WelcomeMessage = msg
}

// read helpers ======

// Checks the member against the group's mandatory channel via the engine's
// cached subscription lookup. Lookup failures roll into c.Err and abort the
// evaluation; they never silently gate or admit the member.
func (c *MemberContext) IsSubscribed(channelID string) bool {
	out, err := c.engine.isSubscribed(c.Ctx, c.Member.UserID, channelID)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return false
	}
	return out
}

// Reports whether admitting this message would keep the member inside the
// group's rate window. Pure read; the timestamp is only recorded if the whole
// pipeline allows the message.
func (c *MessageContext) RateWithinLimit() bool {
	return ratewindow.WithinLimit(c.Member.RateWindow, c.Message.Timestamp, c.Config.RateLimitWindow, c.Config.RateLimitMax)
}

func NewMessageContext(ctx context.Context, eng *Engine, cfg *policy.GroupConfig, member *policy.Member, evt MessageEvent, now time.Time) MessageContext {
	return MessageContext{
		MemberContext: MemberContext{
			BaseContext: BaseContext{
				Ctx:     ctx,
				Logger:  eng.Logger.With("group", evt.GroupID, "user", evt.UserID, "contentType", evt.ContentType),
				engine:  eng,
				effects: &Effects{},
				now:     now,
			},
			Config: cfg,
			Member: member,
		},
		Message: evt,
	}
}

func NewJoinContext(ctx context.Context, eng *Engine, cfg *policy.GroupConfig, member *policy.Member, evt JoinEvent, now time.Time) JoinContext {
	return JoinContext{
		MemberContext: MemberContext{
			BaseContext: BaseContext{
				Ctx:     ctx,
				Logger:  eng.Logger.With("group", evt.GroupID, "user", evt.UserID),
				engine:  eng,
				effects: &Effects{},
				now:     now,
			},
			Config: cfg,
			Member: member,
		},
		Join: evt,
	}
}
