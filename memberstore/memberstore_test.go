package memberstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/groupwarden/groupwarden/policy"
)

func TestMemMemberStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	ms := NewMemMemberStore()

	m, err := ms.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Nil(m)

	now := time.Now().UTC()
	member := &policy.Member{
		GroupID:      "g1",
		UserID:       "u1",
		WarningCount: 2,
		Status:       policy.StatusActive,
		JoinedAt:     now,
		RateWindow:   []time.Time{now},
	}
	assert.NoError(ms.Save(ctx, member))

	got, err := ms.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Equal(2, got.WarningCount)
	assert.Equal(policy.StatusActive, got.Status)
	assert.Equal(1, len(got.RateWindow))

	// store holds copies, not aliases
	got.WarningCount = 9
	again, err := ms.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Equal(2, again.WarningCount)

	// same user in a different group is a different member
	other, err := ms.Load(ctx, "g2", "u1")
	assert.NoError(err)
	assert.Nil(other)

	assert.NoError(ms.Delete(ctx, "g1", "u1"))
	m, err = ms.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Nil(m)
}
