package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePublishTopic(t *testing.T) {
	assert := assert.New(t)

	ok := []string{"news", "news.sports", "a-b.c-d", "evt", "logs.error"}
	for _, s := range ok {
		assert.NoErrorf(ValidatePublishTopic(s), "expected %q to be valid", s)
	}

	bad := []string{"", ".", "news.", ".news", "news..sports", "news.=", "a+b", "a b", "news.sports "}
	for _, s := range bad {
		assert.Errorf(ValidatePublishTopic(s), "expected %q to be invalid", s)
	}
}

func TestValidateSubscribeTopic(t *testing.T) {
	assert := assert.New(t)

	ok := []string{"news", "news.=", "logs.+", "news.=.tech", "="}
	for _, s := range ok {
		assert.NoErrorf(ValidateSubscribeTopic(s), "expected %q to be valid", s)
	}

	bad := []string{"", "news.==", "news.a=b", "news.+.+."}
	for _, s := range bad {
		assert.Errorf(ValidateSubscribeTopic(s), "expected %q to be invalid", s)
	}
}

func TestMatcherSingleWildcard(t *testing.T) {
	assert := assert.New(t)

	m, err := Compile("news.=")
	assert.NoError(err)

	assert.True(m.Match("news.sports"))
	assert.True(m.Match("news.tech"))
	assert.False(m.Match("news"))
	assert.False(m.Match("news.tech.2025"))
}

func TestMatcherMultiWildcard(t *testing.T) {
	assert := assert.New(t)

	m, err := Compile("logs.+")
	assert.NoError(err)

	assert.True(m.Match("logs.error"))
	assert.True(m.Match("logs.app.error"))
	assert.True(m.Match("logs.a.b.c"))
	assert.False(m.Match("logs"))
}

func TestMatcherLiteral(t *testing.T) {
	assert := assert.New(t)

	m, err := Compile("evt")
	assert.NoError(err)
	assert.True(m.Match("evt"))
	assert.False(m.Match("evt.sub"))
}

func TestSanitizeDeterministic(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(Sanitize("news.="), Sanitize("news.="))
	assert.NotContains(Sanitize("news.=.tech"), "=")
	assert.NotContains(Sanitize("news.+"), "+")
}
