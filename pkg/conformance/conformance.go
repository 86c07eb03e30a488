// Package conformance verifies that a peer holding a set of roles is allowed
// to send or receive a message.
package conformance

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"wampcore/pkg/common/logger"
	"wampcore/pkg/wamp"
)

// RoleViolationError reports a message that none of the held roles may move
// in the given direction.
type RoleViolationError struct {
	Type  wamp.MessageType
	Roles []wamp.Role
	Send  bool
}

func (e *RoleViolationError) Error() string {
	dir := "receive"
	if e.Send {
		dir = "send"
	}
	names := make([]string, len(e.Roles))
	for i, r := range e.Roles {
		names[i] = r.String()
	}
	return fmt.Sprintf("%s: [%s] may not %s %s", wamp.ErrRoleViolation, strings.Join(names, ","), dir, e.Type)
}

func (e *RoleViolationError) Unwrap() error { return wamp.ErrRoleViolation }

// Checker holds the roles of the local peer.
type Checker struct {
	Roles []wamp.Role
	log   *zerolog.Logger
}

// New returns a checker for the given roles.
func New(roles ...wamp.Role) *Checker {
	return &Checker{Roles: roles, log: logger.WithComponent("conformance")}
}

// Parse builds a checker from role names such as "caller" or "broker".
func Parse(names []string) (*Checker, error) {
	roles := make([]wamp.Role, 0, len(names))
	for _, n := range names {
		r, err := wamp.ParseRole(n)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return New(roles...), nil
}

// CheckSend fails when no held role may send m.
func (c *Checker) CheckSend(m wamp.Message) error {
	return c.check(m, true)
}

// CheckReceive fails when no held role may receive m.
func (c *Checker) CheckReceive(m wamp.Message) error {
	return c.check(m, false)
}

func (c *Checker) check(m wamp.Message, send bool) error {
	if m == nil {
		return fmt.Errorf("conformance: nil message")
	}
	// Extension payloads are opaque.
	if _, ok := m.(wamp.Extension); ok {
		return nil
	}
	t := m.Type()
	for _, r := range c.Roles {
		if wamp.Permitted(r, t, send) {
			return nil
		}
	}
	err := &RoleViolationError{Type: t, Roles: c.Roles, Send: send}
	if c.log != nil {
		c.log.Warn().Str("type", t.String()).Bool("send", send).Msg(err.Error())
	}
	return err
}
