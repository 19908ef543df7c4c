package policy

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Message content categories which can be locked (blocked) per-group.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentImage    ContentType = "image"
	ContentVideo    ContentType = "video"
	ContentAudio    ContentType = "audio"
	ContentLink     ContentType = "link"
	ContentSticker  ContentType = "sticker"
	ContentDocument ContentType = "document"
)

// Escalated action taken when a penalty ladder threshold is reached.
type LadderAction string

const (
	LadderMute  LadderAction = "mute"
	LadderExpel LadderAction = "expel"
)

var ErrInvalidConfig = errors.New("invalid group configuration")

// Single rung of a penalty ladder: when a member's warning count reaches
// Threshold, Action replaces the plain warning.
type LadderStep struct {
	Threshold    int           `json:"threshold"`
	Action       LadderAction  `json:"action"`
	MuteDuration time.Duration `json:"mute_duration,omitempty"`
}

// Ordered mapping from warning-count thresholds to escalated actions.
// Thresholds must be strictly increasing.
type PenaltyLadder []LadderStep

// Returns the step with the highest threshold less than or equal to count,
// or false if no threshold has been reached.
func (l PenaltyLadder) StepFor(count int) (LadderStep, bool) {
	var out LadderStep
	found := false
	for _, step := range l {
		if step.Threshold > count {
			break
		}
		out = step
		found = true
	}
	return out, found
}

func (l PenaltyLadder) Validate() error {
	prev := 0
	for i, step := range l {
		if step.Threshold <= prev {
			if i > 0 && step.Threshold == prev {
				return fmt.Errorf("%w: duplicate ladder threshold %d", ErrInvalidConfig, step.Threshold)
			}
			return fmt.Errorf("%w: ladder thresholds must be strictly increasing (step %d)", ErrInvalidConfig, i)
		}
		switch step.Action {
		case LadderMute:
			if step.MuteDuration <= 0 {
				return fmt.Errorf("%w: mute ladder step requires a positive duration", ErrInvalidConfig)
			}
		case LadderExpel:
		default:
			return fmt.Errorf("%w: unknown ladder action: %s", ErrInvalidConfig, step.Action)
		}
		prev = step.Threshold
	}
	return nil
}

// Daily time-of-day window during which non-exempt messages are suppressed.
// Minutes since midnight, local to whatever zone event timestamps carry.
// A window may wrap past midnight (Start > End, eg 22:00-06:00).
type QuietHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

const minutesPerDay = 24 * 60

// Parses "HH:MM" into minutes since midnight.
func ParseDayTime(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM time of day, got: %s", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad hour in time of day: %s", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute in time of day: %s", s)
	}
	return h*60 + m, nil
}

// Reports whether t falls inside the window. Wrapping windows compare against
// the two half-open ranges [Start, midnight) and [midnight, End).
func (q *QuietHours) Contains(t time.Time) bool {
	if q == nil {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	if q.Start > q.End {
		return minute >= q.Start || minute < q.End
	}
	return minute >= q.Start && minute < q.End
}

func (q *QuietHours) Validate() error {
	if q == nil {
		return nil
	}
	if q.Start < 0 || q.Start >= minutesPerDay || q.End < 0 || q.End >= minutesPerDay {
		return fmt.Errorf("%w: quiet hours out of range", ErrInvalidConfig)
	}
	if q.Start == q.End {
		return fmt.Errorf("%w: quiet hours window is empty", ErrInvalidConfig)
	}
	return nil
}

// Per-group moderation configuration. Written only through the administrative
// CRUD collaborator; the engine treats a loaded config as immutable for the
// duration of one evaluation.
type GroupConfig struct {
	GroupID        string `json:"group_id"`
	WelcomeMessage string `json:"welcome_message,omitempty"`

	// Require explicit join confirmation before a new member's messages are
	// processed normally.
	ForceAdd bool `json:"force_add,omitempty"`

	// Channel the member must be subscribed to before participating. Empty
	// means the gate is disabled.
	MandatoryChannel string `json:"mandatory_channel,omitempty"`

	QuietHours *QuietHours `json:"quiet_hours,omitempty"`

	LockedContentTypes []ContentType `json:"locked_content_types,omitempty"`

	// Case-insensitive substrings and regular expressions matched against
	// message text.
	ForbiddenWords   []string `json:"forbidden_words,omitempty"`
	ForbiddenRegexes []string `json:"forbidden_regexes,omitempty"`

	PenaltyLadder PenaltyLadder `json:"penalty_ladder,omitempty"`

	// Sliding-window rate limit. RateLimitWindow == 0 disables the check;
	// RateLimitMax == 0 with a window set blocks all messages.
	RateLimitWindow time.Duration `json:"rate_limit_window,omitempty"`
	RateLimitMax    int           `json:"rate_limit_max,omitempty"`
}

func (c *GroupConfig) ContentLocked(ct ContentType) bool {
	for _, locked := range c.LockedContentTypes {
		if locked == ct {
			return true
		}
	}
	return false
}

// Checks internal consistency. A group with an invalid config is considered
// misconfigured: callers must fall back to allowing traffic with moderation
// disabled, never to deleting or expelling.
func (c *GroupConfig) Validate() error {
	if c.GroupID == "" {
		return fmt.Errorf("%w: missing group id", ErrInvalidConfig)
	}
	if err := c.QuietHours.Validate(); err != nil {
		return err
	}
	if err := c.PenaltyLadder.Validate(); err != nil {
		return err
	}
	for _, expr := range c.ForbiddenRegexes {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("%w: bad forbidden pattern %q: %v", ErrInvalidConfig, expr, err)
		}
	}
	if c.RateLimitWindow < 0 || c.RateLimitMax < 0 {
		return fmt.Errorf("%w: negative rate limit parameters", ErrInvalidConfig)
	}
	return nil
}

// Deep copy, so that one evaluation never observes a concurrent admin update.
func (c *GroupConfig) Copy() *GroupConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.QuietHours != nil {
		qh := *c.QuietHours
		out.QuietHours = &qh
	}
	out.LockedContentTypes = append([]ContentType(nil), c.LockedContentTypes...)
	out.ForbiddenWords = append([]string(nil), c.ForbiddenWords...)
	out.ForbiddenRegexes = append([]string(nil), c.ForbiddenRegexes...)
	out.PenaltyLadder = append(PenaltyLadder(nil), c.PenaltyLadder...)
	return &out
}
