package memberstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/groupwarden/groupwarden/policy"
)

func TestRedisMemberStoreBasics(t *testing.T) {
	t.Skip("live test, need redis running locally")
	assert := assert.New(t)
	ctx := context.Background()

	ms, err := NewRedisMemberStore("redis://localhost:6379/0")
	if err != nil {
		t.Fail()
	}

	assert.NoError(ms.Delete(ctx, "test-g1", "u1"))

	m, err := ms.Load(ctx, "test-g1", "u1")
	assert.NoError(err)
	assert.Nil(m)

	now := time.Now().UTC().Truncate(time.Second)
	member := &policy.Member{
		GroupID:      "test-g1",
		UserID:       "u1",
		WarningCount: 1,
		Status:       policy.StatusMuted,
		MuteUntil:    now.Add(time.Hour),
		RateWindow:   []time.Time{now},
	}
	assert.NoError(ms.Save(ctx, member))

	got, err := ms.Load(ctx, "test-g1", "u1")
	assert.NoError(err)
	assert.Equal(1, got.WarningCount)
	assert.Equal(policy.StatusMuted, got.Status)
	assert.True(got.MuteUntil.Equal(now.Add(time.Hour)))

	assert.NoError(ms.Delete(ctx, "test-g1", "u1"))
}
