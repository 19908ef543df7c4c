package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchWord(t *testing.T) {
	assert := assert.New(t)

	words := []string{"spam", "Free Money"}

	pat, ok := MatchWord("totally SPAM message", words)
	assert.True(ok)
	assert.Equal("spam", pat)

	pat, ok = MatchWord("get free money now", words)
	assert.True(ok)
	assert.Equal("Free Money", pat)

	_, ok = MatchWord("legitimate message", words)
	assert.False(ok)

	_, ok = MatchWord("anything", []string{""})
	assert.False(ok)
}

func TestMatchRegex(t *testing.T) {
	assert := assert.New(t)

	exprs := []string{`(?i)buy \d+ coins`, `t\.me/\w+`}

	pat, ok := MatchRegex("BUY 500 coins today", exprs)
	assert.True(ok)
	assert.Equal(exprs[0], pat)

	pat, ok = MatchRegex("join t.me/somechannel", exprs)
	assert.True(ok)
	assert.Equal(exprs[1], pat)

	_, ok = MatchRegex("nothing here", exprs)
	assert.False(ok)

	// invalid expressions never match
	_, ok = MatchRegex("anything", []string{`([unclosed`})
	assert.False(ok)

	// cache hit path
	_, ok = MatchRegex("BUY 9 coins", exprs)
	assert.True(ok)
}

func TestMatchAny(t *testing.T) {
	assert := assert.New(t)

	pat, ok := MatchAny("click t.me/chan for spam", []string{"spam"}, []string{`t\.me/\w+`})
	assert.True(ok)
	assert.Equal("spam", pat)

	pat, ok = MatchAny("click t.me/chan", []string{"spam"}, []string{`t\.me/\w+`})
	assert.True(ok)
	assert.Equal(`t\.me/\w+`, pat)

	_, ok = MatchAny("hello", []string{"spam"}, nil)
	assert.False(ok)
}
