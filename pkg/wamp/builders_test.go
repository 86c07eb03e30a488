package wamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wampcore/pkg/common/idgen"
)

func TestNewCallDefaults(t *testing.T) {
	ids := idgen.New()
	call := NewCall("procedure", WithGenerator(ids))
	assert.Equal(t, &Call{
		RequestID: 1,
		Options:   map[string]any{},
		Procedure: "procedure",
	}, call)

	data, err := Marshal(call)
	require.NoError(t, err)
	assert.Equal(t, `[48,1,{},"procedure"]`, string(data))
}

func TestConstructorsStampRequestIDs(t *testing.T) {
	ids := idgen.New()
	g := WithGenerator(ids)

	assert.Equal(t, uint64(1), NewCall("p", g).RequestID)
	assert.Equal(t, uint64(2), NewPublish("t", g).RequestID)
	assert.Equal(t, uint64(3), NewSubscribe("t", g).RequestID)
	assert.Equal(t, uint64(4), NewRegister("p", g).RequestID)
	assert.Equal(t, uint64(5), NewUnregister(10, g).RequestID)
	assert.Equal(t, uint64(6), NewUnsubscribe(11, g).RequestID)
	assert.Equal(t, uint64(7), NewInvocation(12, g).RequestID)
	assert.Equal(t, uint64(7), ids.Current())
}

func TestConstructorOptions(t *testing.T) {
	ids := idgen.New()
	call := NewCall("com.myapp.user.new",
		WithGenerator(ids),
		WithOptions(map[string]any{"timeout": 1000}),
		WithArgs("johnny"),
		WithKwargs(map[string]any{"firstname": "John"}),
	)
	assert.Equal(t, map[string]any{"timeout": 1000}, call.Options)
	assert.Equal(t, []any{"johnny"}, call.Args)
	assert.Equal(t, map[string]any{"firstname": "John"}, call.Kwargs)

	y := NewYield(5, WithArgs())
	assert.NotNil(t, y.Args)
	frame, err := Encode(y)
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(70), uint64(5), map[string]any{}, []any{}}, frame)
}

func TestConstructorsWithoutRequestIDs(t *testing.T) {
	assert.Equal(t, &Hello{Realm: "realm", Details: map[string]any{}}, NewHello("realm"))
	assert.Equal(t, &Welcome{Session: 3, Details: map[string]any{}}, NewWelcome(3))
	assert.Equal(t, &Abort{Details: map[string]any{}, Reason: "wamp.error.no_such_realm"}, NewAbort("wamp.error.no_such_realm"))
	assert.Equal(t, &Challenge{AuthMethod: "ticket", Extra: map[string]any{}}, NewChallenge("ticket"))
	assert.Equal(t, &Authenticate{Signature: "s", Extra: map[string]any{}}, NewAuthenticate("s"))
	assert.Equal(t, &Goodbye{Details: map[string]any{}, Reason: "wamp.close.goodbye_and_out"}, NewGoodbye("wamp.close.goodbye_and_out"))
	assert.Equal(t, &Published{RequestID: 1, Publication: 2}, NewPublished(1, 2))
	assert.Equal(t, &Subscribed{RequestID: 1, Subscription: 2}, NewSubscribed(1, 2))
	assert.Equal(t, &Unsubscribed{RequestID: 1}, NewUnsubscribed(1))
	assert.Equal(t, &Registered{RequestID: 1, Registration: 2}, NewRegistered(1, 2))
	assert.Equal(t, &Unregistered{RequestID: 1}, NewUnregistered(1))
	assert.Equal(t, &Cancel{RequestID: 1, Options: map[string]any{}}, NewCancel(1))
	assert.Equal(t, &Interrupt{RequestID: 1, Options: map[string]any{}}, NewInterrupt(1))
	assert.Equal(t, &Result{RequestID: 1, Details: map[string]any{}}, NewResult(1))
	assert.Equal(t, &Event{Subscription: 1, Publication: 2, Details: map[string]any{}}, NewEvent(1, 2))

	e := NewError(TypeCall, 9, "wamp.error.no_such_procedure", WithArgs("nope"))
	assert.Equal(t, TypeCall, e.RequestType)
	assert.Equal(t, []any{"nope"}, e.Args)
	assert.Nil(t, e.Kwargs)
}
