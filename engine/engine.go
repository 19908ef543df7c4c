package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/groupwarden/groupwarden/memberstore"
	"github.com/groupwarden/groupwarden/policy"
	"github.com/groupwarden/groupwarden/policystore"
	"github.com/groupwarden/groupwarden/ratewindow"
	"github.com/groupwarden/groupwarden/subcache"
)

// External lookup against the chat platform: is the user a member of the
// given channel. Results are cached in the engine's SubCache.
type SubscriptionChecker interface {
	IsSubscribed(ctx context.Context, userID, channelID string) (bool, error)
}

// Runtime for evaluating moderation policies against group events and
// applying the resulting state changes.
//
// The engine itself is stateless between invocations: group config and member
// state live behind the store interfaces, and each evaluation works on
// snapshots. Events for distinct (group, user) pairs run fully in parallel;
// events for the same member are serialized by a per-member critical section
// spanning load, rule execution, escalation, and save.
type Engine struct {
	Logger   *slog.Logger
	Rules    RuleSet
	Policies policystore.PolicyStore
	Members  memberstore.MemberStore

	// Optional subscription gate collaborators. Subscriptions may be nil when
	// no group uses a mandatory channel; SubCache may be nil to disable
	// caching.
	Subscriptions SubscriptionChecker
	SubCache      subcache.SubCache

	// Clock override for tests. Nil means time.Now.
	Now func() time.Time

	lockInit    sync.Once
	memberLocks *xsync.MapOf[string, *sync.Mutex]
}

func (eng *Engine) now() time.Time {
	if eng.Now != nil {
		return eng.Now()
	}
	return time.Now()
}

func (eng *Engine) memberLock(groupID, userID string) *sync.Mutex {
	eng.lockInit.Do(func() {
		eng.memberLocks = xsync.NewMapOf[string, *sync.Mutex]()
	})
	mu, _ := eng.memberLocks.LoadOrCompute(groupID+"/"+userID, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	return mu
}

// Evaluates an inbound message and returns the decision the transport should
// carry out. A nil decision with a non-nil error means the event was not
// evaluated (unroutable or retryable, see errors.go).
func (eng *Engine) ProcessMessage(ctx context.Context, evt MessageEvent) (dec *Decision, err error) {
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("moderation rule execution exception", "err", r, "group", evt.GroupID, "user", evt.UserID)
			dec = nil
			err = fmt.Errorf("rule execution panic: %v", r)
		}
	}()
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues("message").Observe(time.Since(start).Seconds())
		if err != nil {
			eventErrorCount.WithLabelValues("message").Inc()
		} else {
			eventProcessCount.WithLabelValues("message").Inc()
		}
	}()

	now := eng.now()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = now
	}

	cfg, err := eng.loadConfig(ctx, evt.GroupID)
	if err != nil {
		return nil, err
	}
	if verr := cfg.Validate(); verr != nil {
		return eng.misconfigured(evt.GroupID, verr), nil
	}

	mu := eng.memberLock(evt.GroupID, evt.UserID)
	mu.Lock()
	defer mu.Unlock()

	member, err := eng.loadOrCreateMember(ctx, cfg, evt.GroupID, evt.UserID, now)
	if err != nil {
		return nil, err
	}

	c := NewMessageContext(ctx, eng, cfg, member, evt, now)
	if err := eng.Rules.CallMessageRules(&c); err != nil {
		return nil, err
	}
	if c.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateUnavailable, c.Err)
	}

	// the one side effect of the allow path: the message timestamp joins the
	// rate window so future windows observe it
	if !c.effects.Decided() {
		member.RateWindow = ratewindow.Record(member.RateWindow, evt.Timestamp, cfg.RateLimitWindow)
	}

	final := eng.finalize(ctx, &c.MemberContext, "message")
	if final == nil {
		return nil, fmt.Errorf("%w: saving member state failed", ErrStateUnavailable)
	}
	return final, nil
}

// Evaluates a join (or added-to-group) event. Creates the member record on
// first sight.
func (eng *Engine) ProcessJoin(ctx context.Context, evt JoinEvent) (dec *Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("moderation rule execution exception", "err", r, "group", evt.GroupID, "user", evt.UserID)
			dec = nil
			err = fmt.Errorf("rule execution panic: %v", r)
		}
	}()
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues("join").Observe(time.Since(start).Seconds())
		if err != nil {
			eventErrorCount.WithLabelValues("join").Inc()
		} else {
			eventProcessCount.WithLabelValues("join").Inc()
		}
	}()

	now := eng.now()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = now
	}

	cfg, err := eng.loadConfig(ctx, evt.GroupID)
	if err != nil {
		return nil, err
	}
	if verr := cfg.Validate(); verr != nil {
		return eng.misconfigured(evt.GroupID, verr), nil
	}

	mu := eng.memberLock(evt.GroupID, evt.UserID)
	mu.Lock()
	defer mu.Unlock()

	member, err := eng.loadOrCreateMember(ctx, cfg, evt.GroupID, evt.UserID, now)
	if err != nil {
		return nil, err
	}

	c := NewJoinContext(ctx, eng, cfg, member, evt, now)
	if err := eng.Rules.CallJoinRules(&c); err != nil {
		return nil, err
	}
	if c.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateUnavailable, c.Err)
	}

	final := eng.finalize(ctx, &c.MemberContext, "join")
	if final == nil {
		return nil, fmt.Errorf("%w: saving member state failed", ErrStateUnavailable)
	}
	return final, nil
}

// Confirms a pending member's join: pending -> active. Events for members in
// any other status are no-ops.
func (eng *Engine) ProcessJoinConfirmation(ctx context.Context, evt MembershipEvent) error {
	now := eng.now()

	mu := eng.memberLock(evt.GroupID, evt.UserID)
	mu.Lock()
	defer mu.Unlock()

	member, err := eng.Members.Load(ctx, evt.GroupID, evt.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	if member == nil {
		member = &policy.Member{
			GroupID:  evt.GroupID,
			UserID:   evt.UserID,
			Status:   policy.StatusActive,
			JoinedAt: now,
		}
	} else if member.Status == policy.StatusPending {
		member.Status = policy.StatusActive
	} else {
		return nil
	}
	if err := eng.Members.Save(ctx, member); err != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	eng.Logger.Info("join confirmed", "group", evt.GroupID, "user", evt.UserID)
	return nil
}

// Removes the member record when a user leaves the group. Re-admission later
// starts from a fresh record.
func (eng *Engine) ProcessLeave(ctx context.Context, evt MembershipEvent) error {
	mu := eng.memberLock(evt.GroupID, evt.UserID)
	mu.Lock()
	defer mu.Unlock()

	if err := eng.Members.Delete(ctx, evt.GroupID, evt.UserID); err != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	return nil
}

func (eng *Engine) loadConfig(ctx context.Context, groupID string) (*policy.GroupConfig, error) {
	cfg, err := eng.Policies.GetConfig(ctx, groupID)
	if errors.Is(err, policystore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading group config: %v", ErrStateUnavailable, err)
	}
	return cfg, nil
}

// A config bug disables moderation for the group rather than locking it out.
func (eng *Engine) misconfigured(groupID string, verr error) *Decision {
	eng.Logger.Error("group moderation misconfigured, allowing all traffic", "group", groupID, "err", verr)
	misconfiguredGroupCount.Inc()
	return &Decision{Kind: DecisionAllow, Reason: ReasonConfigInvalid}
}

func (eng *Engine) loadOrCreateMember(ctx context.Context, cfg *policy.GroupConfig, groupID, userID string, now time.Time) (*policy.Member, error) {
	member, err := eng.Members.Load(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}
	if member != nil {
		return member, nil
	}
	status := policy.StatusActive
	if cfg.ForceAdd {
		status = policy.StatusPending
	}
	return &policy.Member{
		GroupID:  groupID,
		UserID:   userID,
		Status:   status,
		JoinedAt: now,
	}, nil
}

// Escalation, persistence, canonical log line, and decision metrics, shared
// by the message and join paths. Returns nil when the state save failed.
func (eng *Engine) finalize(ctx context.Context, c *MemberContext, eventType string) *Decision {
	raw := c.effects.Decision
	final := applyEscalation(c.Member, c.effects, c.Config.PenaltyLadder, c.now)

	if raw != nil && raw.Kind == DecisionWarn && final.Kind != DecisionWarn {
		escalationCount.WithLabelValues(string(final.Kind)).Inc()
	}

	if err := eng.Members.Save(ctx, c.Member); err != nil {
		c.Logger.Error("saving member state", "err", err)
		return nil
	}

	c.Logger.Info("event processed",
		"eventType", eventType,
		"decision", final.Kind,
		"reason", final.Reason,
		"warnings", c.Member.WarningCount,
		"status", c.Member.Status,
	)
	decisionCount.WithLabelValues(string(final.Kind), final.Reason).Inc()
	return final
}

// Cached mandatory-channel subscription lookup. Cache misses call out to the
// external checker and store the result.
func (eng *Engine) isSubscribed(ctx context.Context, userID, channelID string) (bool, error) {
	if eng.SubCache != nil {
		status, err := eng.SubCache.Get(ctx, userID, channelID)
		if err != nil {
			eng.Logger.Warn("subscription cache read failed", "err", err)
		} else if status != subcache.StatusUnknown {
			subscriptionCacheHitCount.Inc()
			return status == subcache.StatusSubscribed, nil
		}
	}
	if eng.Subscriptions == nil {
		return false, fmt.Errorf("no subscription checker configured")
	}
	out, err := eng.Subscriptions.IsSubscribed(ctx, userID, channelID)
	if err != nil {
		subscriptionLookupCount.WithLabelValues("error").Inc()
		return false, fmt.Errorf("subscription lookup: %w", err)
	}
	status := subcache.StatusNotSubscribed
	result := "not_subscribed"
	if out {
		status = subcache.StatusSubscribed
		result = "subscribed"
	}
	subscriptionLookupCount.WithLabelValues(result).Inc()
	if eng.SubCache != nil {
		if err := eng.SubCache.Set(ctx, userID, channelID, status); err != nil {
			eng.Logger.Warn("subscription cache write failed", "err", err)
		}
	}
	return out, nil
}
