package uri

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		rule   Rule
		in     string
		loose  bool
		strict bool
	}{
		{Name, "anonymous", true, true},
		{Name, "Anonymous", true, false},
		{Name, "a.b", false, false},
		{Name, "", false, false},
		{URI, "com.myapp.user.new", true, true},
		{URI, "com.MyApp.user", true, false},
		{URI, "com..user", false, false},
		{URI, "com.myapp.", false, false},
		{URI, "com.my app", false, false},
		{URI, "wamp.error.no_such_realm", true, true},
		{Prefix, "com.myapp.", true, true},
		{Prefix, "com..myapp", false, false},
		{PrefixOrWildcard, "com..create", true, true},
		{PrefixOrWildcard, "..", true, true},
		{PrefixOrWildcard, "com.#", false, false},
		{WithEmpty, "com..create", true, true},
		{NoEmpty, "com..create", false, false},
		{NoEmpty, "com.create", true, true},
	}
	for _, c := range cases {
		t.Run(c.rule.String()+"/"+c.in, func(t *testing.T) {
			assert.Equal(t, c.loose, Match(c.rule, c.in, false), "loose")
			assert.Equal(t, c.strict, Match(c.rule, c.in, true), "strict")
		})
	}
	assert.False(t, Match(Rule(99), "com", false))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(URI, "com.myapp.topic1", true))

	err := Validate(URI, "com..topic1", true)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "strict uri")
}

func TestParseRule(t *testing.T) {
	for r := range ruleNames {
		got, err := ParseRule(r.String())
		assert.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRule("nope")
	assert.Error(t, err)
	assert.Equal(t, "rule(12)", Rule(12).String())
}

func TestCatalog(t *testing.T) {
	assert.Len(t, ErrorURIs(), 28)
	assert.Len(t, CloseURIs(), 4)
	for _, u := range append(ErrorURIs(), CloseURIs()...) {
		assert.True(t, IsStandard(u), u)
		assert.True(t, Match(URI, u, true), u)
	}
	assert.False(t, IsStandard("com.myapp.error"))
	assert.False(t, IsStandard("wamp.error.unknown"))

	list := ErrorURIs()
	list[0] = "changed"
	assert.Equal(t, NotAuthorized, ErrorURIs()[0])
}
