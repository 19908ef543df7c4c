// Sliding-window message frequency tracking for a single member.
//
// The window is an ordered slice of message timestamps, oldest first. Eviction
// only ever drops a prefix (entries older than the trailing window), so each
// call does amortized constant work per timestamp over the life of the window.
package ratewindow

import (
	"time"
)

// Hard cap on stored timestamps, independent of the configured limit. Keeps
// member records bounded even if an admin sets an absurd maxCount.
const MaxEntries = 100

// Drops the leading timestamps that fall outside the trailing window ending at
// now. A zero window evicts everything.
func Evict(win []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	i := 0
	for i < len(win) && !win[i].After(cutoff) {
		i++
	}
	return win[i:]
}

// Reports whether admitting one more message at now would keep the window's
// count at or below maxCount. A zero window disables rate limiting entirely;
// maxCount of zero (with a window set) blocks all messages.
func WithinLimit(win []time.Time, now time.Time, window time.Duration, maxCount int) bool {
	if window == 0 {
		return true
	}
	if maxCount <= 0 {
		return false
	}
	return len(Evict(win, now, window))+1 <= maxCount
}

// Appends a message timestamp, evicting the stale prefix first. Used on the
// allow path so future windows observe messages that were admitted.
func Record(win []time.Time, now time.Time, window time.Duration) []time.Time {
	if window == 0 {
		return win[:0]
	}
	out := Evict(win, now, window)
	out = append(out, now)
	if len(out) > MaxEntries {
		out = out[len(out)-MaxEntries:]
	}
	return out
}

// Combined check-then-admit: evicts stale entries, and appends the new
// timestamp only when it fits under maxCount. Returns the updated window and
// whether the message was within the limit.
func RecordAndCheck(win []time.Time, now time.Time, window time.Duration, maxCount int) ([]time.Time, bool) {
	if window == 0 {
		return win, true
	}
	out := Evict(win, now, window)
	if maxCount <= 0 || len(out)+1 > maxCount {
		return out, false
	}
	out = append(out, now)
	if len(out) > MaxEntries {
		out = out[len(out)-MaxEntries:]
	}
	return out, true
}
