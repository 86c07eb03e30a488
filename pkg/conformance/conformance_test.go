package conformance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wampcore/pkg/wamp"
)

func TestCallerCannotReceiveCall(t *testing.T) {
	c := New(wamp.Caller)
	call := &wamp.Call{RequestID: 1, Procedure: "p"}

	require.NoError(t, c.CheckSend(call))

	err := c.CheckReceive(call)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wamp.ErrRoleViolation))

	var rv *RoleViolationError
	require.True(t, errors.As(err, &rv))
	assert.Equal(t, wamp.TypeCall, rv.Type)
	assert.False(t, rv.Send)
	assert.Contains(t, err.Error(), "[caller] may not receive CALL")
}

func TestAnyHeldRolePermits(t *testing.T) {
	c := New(wamp.Caller, wamp.Callee)
	assert.NoError(t, c.CheckReceive(&wamp.Invocation{RequestID: 1}))
	assert.NoError(t, c.CheckSend(&wamp.Yield{RequestID: 1}))
	assert.NoError(t, c.CheckReceive(&wamp.Result{RequestID: 1}))
	assert.Error(t, c.CheckSend(&wamp.Publish{RequestID: 1}))
}

func TestRouterChecks(t *testing.T) {
	c := New(wamp.Broker)
	assert.NoError(t, c.CheckReceive(&wamp.Subscribe{RequestID: 1}))
	assert.NoError(t, c.CheckSend(&wamp.Event{Subscription: 1, Publication: 2}))
	assert.Error(t, c.CheckSend(&wamp.Subscribe{RequestID: 1}))
}

func TestExtensionAndNil(t *testing.T) {
	c := New()
	assert.NoError(t, c.CheckSend(wamp.Extension{99, "x"}))
	assert.NoError(t, c.CheckReceive(wamp.Extension{99}))
	assert.Error(t, c.CheckSend(nil))
	assert.Error(t, c.CheckSend(&wamp.Hello{}), "no roles permits nothing")
}

func TestParse(t *testing.T) {
	c, err := Parse([]string{"caller", "subscriber"})
	require.NoError(t, err)
	assert.Equal(t, []wamp.Role{wamp.Caller, wamp.Subscriber}, c.Roles)

	_, err = Parse([]string{"caller", "router"})
	assert.Error(t, err)
}
