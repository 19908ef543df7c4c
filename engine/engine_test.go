package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/groupwarden/groupwarden/keyword"
	"github.com/groupwarden/groupwarden/policy"
)

var _ MessageRuleFunc = simpleWordRule

func simpleWordRule(c *MessageContext) error {
	if _, ok := keyword.MatchAny(c.Message.Text, c.Config.ForbiddenWords, c.Config.ForbiddenRegexes); ok {
		c.Warn(ReasonForbiddenContent)
	}
	return nil
}

func TestEngineBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{simpleWordRule},
	}
	assert.NoError(eng.Policies.PutConfig(ctx, &policy.GroupConfig{
		GroupID:        "g1",
		ForbiddenWords: []string{"spam"},
	}))

	dec, err := eng.ProcessMessage(ctx, MessageEvent{
		GroupID: "g1", UserID: "u1",
		ContentType: policy.ContentText,
		Text:        "an ordinary message",
	})
	assert.NoError(err)
	assert.Equal(DecisionAllow, dec.Kind)

	dec, err = eng.ProcessMessage(ctx, MessageEvent{
		GroupID: "g1", UserID: "u1",
		ContentType: policy.ContentText,
		Text:        "definitely SPAM here",
	})
	assert.NoError(err)
	assert.Equal(DecisionWarn, dec.Kind)
	assert.Equal(ReasonForbiddenContent, dec.Reason)

	member, err := eng.Members.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Equal(1, member.WarningCount)
}

func TestEngineConfigNotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	dec, err := eng.ProcessMessage(ctx, MessageEvent{GroupID: "unknown", UserID: "u1"})
	assert.Nil(dec)
	assert.ErrorIs(err, ErrConfigNotFound)

	dec, err = eng.ProcessJoin(ctx, JoinEvent{GroupID: "unknown", UserID: "u1"})
	assert.Nil(dec)
	assert.ErrorIs(err, ErrConfigNotFound)
}

// policy store stub that serves whatever config it holds, without the
// write-time validation the real stores do
type stubPolicyStore struct {
	cfg *policy.GroupConfig
}

func (s *stubPolicyStore) GetConfig(ctx context.Context, groupID string) (*policy.GroupConfig, error) {
	return s.cfg.Copy(), nil
}
func (s *stubPolicyStore) PutConfig(ctx context.Context, cfg *policy.GroupConfig) error { return nil }
func (s *stubPolicyStore) DeleteConfig(ctx context.Context, groupID string) error       { return nil }

func TestEngineMisconfiguredGroupAllows(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{simpleWordRule},
	}
	// ladder with colliding thresholds: moderation disabled, never lockout
	eng.Policies = &stubPolicyStore{cfg: &policy.GroupConfig{
		GroupID:        "g1",
		ForbiddenWords: []string{"spam"},
		PenaltyLadder: policy.PenaltyLadder{
			{Threshold: 3, Action: policy.LadderExpel},
			{Threshold: 3, Action: policy.LadderExpel},
		},
	}}

	dec, err := eng.ProcessMessage(ctx, MessageEvent{
		GroupID: "g1", UserID: "u1",
		ContentType: policy.ContentText,
		Text:        "spam spam spam",
	})
	assert.NoError(err)
	assert.Equal(DecisionAllow, dec.Kind)
	assert.Equal(ReasonConfigInvalid, dec.Reason)

	// no state was touched
	member, err := eng.Members.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Nil(member)
}

// member store stub that always fails
type downMemberStore struct{}

func (s *downMemberStore) Load(ctx context.Context, groupID, userID string) (*policy.Member, error) {
	return nil, fmt.Errorf("connection refused")
}
func (s *downMemberStore) Save(ctx context.Context, member *policy.Member) error {
	return fmt.Errorf("connection refused")
}
func (s *downMemberStore) Delete(ctx context.Context, groupID, userID string) error {
	return fmt.Errorf("connection refused")
}

func TestEngineStateUnavailable(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	assert.NoError(eng.Policies.PutConfig(ctx, &policy.GroupConfig{GroupID: "g1"}))
	eng.Members = &downMemberStore{}

	dec, err := eng.ProcessMessage(ctx, MessageEvent{GroupID: "g1", UserID: "u1"})
	assert.Nil(dec)
	assert.ErrorIs(err, ErrStateUnavailable)
}

func TestEngineFirstSeenMemberStatus(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	assert.NoError(eng.Policies.PutConfig(ctx, &policy.GroupConfig{GroupID: "open"}))
	assert.NoError(eng.Policies.PutConfig(ctx, &policy.GroupConfig{GroupID: "gated", ForceAdd: true}))

	_, err := eng.ProcessMessage(ctx, MessageEvent{GroupID: "open", UserID: "u1", Text: "hi"})
	assert.NoError(err)
	member, err := eng.Members.Load(ctx, "open", "u1")
	assert.NoError(err)
	assert.Equal(policy.StatusActive, member.Status)

	_, err = eng.ProcessMessage(ctx, MessageEvent{GroupID: "gated", UserID: "u1", Text: "hi"})
	assert.NoError(err)
	member, err = eng.Members.Load(ctx, "gated", "u1")
	assert.NoError(err)
	assert.Equal(policy.StatusPending, member.Status)
}

func TestJoinConfirmation(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	assert.NoError(eng.Members.Save(ctx, &policy.Member{
		GroupID: "g1", UserID: "u1", Status: policy.StatusPending,
	}))

	assert.NoError(eng.ProcessJoinConfirmation(ctx, MembershipEvent{GroupID: "g1", UserID: "u1"}))
	member, err := eng.Members.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Equal(policy.StatusActive, member.Status)

	// confirming an expelled member is a no-op: expelled is terminal
	assert.NoError(eng.Members.Save(ctx, &policy.Member{
		GroupID: "g1", UserID: "u2", Status: policy.StatusExpelled,
	}))
	assert.NoError(eng.ProcessJoinConfirmation(ctx, MembershipEvent{GroupID: "g1", UserID: "u2"}))
	member, err = eng.Members.Load(ctx, "g1", "u2")
	assert.NoError(err)
	assert.Equal(policy.StatusExpelled, member.Status)

	// confirmation for a never-seen member creates an active record
	assert.NoError(eng.ProcessJoinConfirmation(ctx, MembershipEvent{GroupID: "g1", UserID: "u3"}))
	member, err = eng.Members.Load(ctx, "g1", "u3")
	assert.NoError(err)
	assert.Equal(policy.StatusActive, member.Status)
}

func TestProcessLeave(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	assert.NoError(eng.Members.Save(ctx, &policy.Member{
		GroupID: "g1", UserID: "u1", Status: policy.StatusActive, WarningCount: 2,
	}))
	assert.NoError(eng.ProcessLeave(ctx, MembershipEvent{GroupID: "g1", UserID: "u1"}))

	member, err := eng.Members.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Nil(member)
}

func TestEngineRecoversRulePanic(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{func(c *MessageContext) error {
			panic("rule bug")
		}},
	}
	assert.NoError(eng.Policies.PutConfig(ctx, &policy.GroupConfig{GroupID: "g1"}))

	dec, err := eng.ProcessMessage(ctx, MessageEvent{GroupID: "g1", UserID: "u1"})
	assert.Nil(dec)
	assert.Error(err)
}

func TestEngineSerializesPerMember(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{func(c *MessageContext) error {
			c.Warn(ReasonForbiddenContent)
			return nil
		}},
	}
	assert.NoError(eng.Policies.PutConfig(ctx, &policy.GroupConfig{GroupID: "g1"}))

	// two concurrent warnings must both land: no lost read-modify-write
	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := eng.ProcessMessage(ctx, MessageEvent{GroupID: "g1", UserID: "u1", Text: "x"})
			done <- err
		}()
	}
	assert.NoError(<-done)
	assert.NoError(<-done)

	member, err := eng.Members.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Equal(2, member.WarningCount)
}

func TestEngineClockInjection(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fixed := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	eng := EngineTestFixture()
	eng.Now = func() time.Time { return fixed }
	eng.Rules = RuleSet{
		MessageRules: []MessageRuleFunc{func(c *MessageContext) error {
			assert.Equal(fixed, c.Now())
			return nil
		}},
	}
	assert.NoError(eng.Policies.PutConfig(ctx, &policy.GroupConfig{GroupID: "g1"}))

	_, err := eng.ProcessMessage(ctx, MessageEvent{GroupID: "g1", UserID: "u1", Text: "x"})
	assert.NoError(err)

	member, err := eng.Members.Load(ctx, "g1", "u1")
	assert.NoError(err)
	assert.Equal(fixed, member.JoinedAt)
}
