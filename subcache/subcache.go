// Short-lived cache of mandatory-channel subscription lookups.
//
// Subscription checks go out to the chat platform, which is slow and rate
// limited; the engine consults this cache before calling the external checker.
// Entries expire on their own, so a user who subscribes after a negative
// lookup is gated for at most one TTL.
package subcache

import (
	"context"
)

type Status string

const (
	StatusUnknown       Status = ""
	StatusSubscribed    Status = "subscribed"
	StatusNotSubscribed Status = "not_subscribed"
)

type SubCache interface {
	Get(ctx context.Context, userID, channelID string) (Status, error)
	Set(ctx context.Context, userID, channelID string, status Status) error
	Purge(ctx context.Context, userID, channelID string) error
}

func cacheKey(userID, channelID string) string {
	return userID + "/" + channelID
}
