package wamp

import (
	"fmt"
	"strings"
)

// Role is a peer role. Caller, Callee, Publisher and Subscriber are client
// roles; Dealer and Broker are router roles.
type Role int

const (
	Caller Role = iota
	Callee
	Publisher
	Subscriber
	Dealer
	Broker

	roleCount
)

var roleNames = [roleCount]string{
	Caller:     "caller",
	Callee:     "callee",
	Publisher:  "publisher",
	Subscriber: "subscriber",
	Dealer:     "dealer",
	Broker:     "broker",
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// IsRouter reports whether r is held by a router rather than a client.
func (r Role) IsRouter() bool { return r == Dealer || r == Broker }

// ParseRole resolves a role name, ignoring case and surrounding space.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return Role(r), nil
		}
	}
	return 0, fmt.Errorf("wamp: unknown role %q", s)
}

// Roles returns all six roles.
func Roles() []Role {
	return []Role{Caller, Callee, Publisher, Subscriber, Dealer, Broker}
}

// Direction says whether a role may originate or accept a message type.
type Direction struct {
	Send    bool `json:"send"`
	Receive bool `json:"receive"`
}

var (
	tx   = Direction{Send: true}
	rx   = Direction{Receive: true}
	txrx = Direction{Send: true, Receive: true}
)

type row [roleCount]Direction

// matrix follows the WAMP conformance tables. Roles absent from a row may
// neither send nor receive that message.
var matrix = map[MessageType]row{
	TypeHello:        {Caller: tx, Callee: tx, Publisher: tx, Subscriber: tx, Dealer: rx, Broker: rx},
	TypeWelcome:      {Caller: rx, Callee: rx, Publisher: rx, Subscriber: rx, Dealer: tx, Broker: tx},
	TypeAbort:        {Caller: rx, Callee: rx, Publisher: rx, Subscriber: rx, Dealer: tx, Broker: tx},
	TypeChallenge:    {Caller: rx, Callee: rx, Publisher: rx, Subscriber: rx, Dealer: tx, Broker: tx},
	TypeAuthenticate: {Caller: tx, Callee: tx, Publisher: tx, Subscriber: tx, Dealer: rx, Broker: rx},
	TypeGoodbye:      {Caller: txrx, Callee: txrx, Publisher: txrx, Subscriber: txrx, Dealer: txrx, Broker: txrx},
	TypeError:        {Caller: rx, Callee: txrx, Publisher: rx, Subscriber: rx, Dealer: txrx, Broker: tx},

	TypePublish:      {Publisher: tx, Broker: rx},
	TypePublished:    {Publisher: rx, Broker: tx},
	TypeSubscribe:    {Subscriber: tx, Broker: rx},
	TypeSubscribed:   {Subscriber: rx, Broker: tx},
	TypeUnsubscribe:  {Subscriber: tx, Broker: rx},
	TypeUnsubscribed: {Subscriber: rx, Broker: tx},
	TypeEvent:        {Subscriber: rx, Broker: tx},

	TypeCall:         {Caller: tx, Dealer: rx},
	TypeCancel:       {Caller: tx, Dealer: rx},
	TypeResult:       {Caller: rx, Dealer: tx},
	TypeRegister:     {Callee: tx, Dealer: rx},
	TypeRegistered:   {Callee: rx, Dealer: tx},
	TypeUnregister:   {Callee: tx, Dealer: rx},
	TypeUnregistered: {Callee: rx, Dealer: tx},
	TypeInvocation:   {Callee: rx, Dealer: tx},
	TypeInterrupt:    {Callee: rx, Dealer: tx}, // only the callee is interrupted; the caller gets Error or Result
	TypeYield:        {Callee: tx, Dealer: rx},
}

// DirectionOf looks up what role may do with messages of type t. Unknown
// tags, including extensions, yield the zero Direction.
func DirectionOf(role Role, t MessageType) Direction {
	if role < 0 || role >= roleCount {
		return Direction{}
	}
	r, ok := matrix[t]
	if !ok {
		return Direction{}
	}
	return r[role]
}

// Permitted reports whether role may send (send=true) or receive t.
func Permitted(role Role, t MessageType, send bool) bool {
	d := DirectionOf(role, t)
	if send {
		return d.Send
	}
	return d.Receive
}
