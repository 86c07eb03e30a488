package wamp

import (
	"wampcore/pkg/common/idgen"
)

// Option adjusts a message built by one of the New* constructors.
type Option func(*build)

type build struct {
	dict   map[string]any
	args   []any
	kwargs map[string]any
	ids    idgen.Generator
}

// WithDetails sets the details/options dictionary of the message.
func WithDetails(d map[string]any) Option { return func(b *build) { b.dict = d } }

// WithOptions is WithDetails under the name used by request messages.
func WithOptions(o map[string]any) Option { return WithDetails(o) }

// WithArgs sets the positional payload. Calling it with no values still
// marks args as present (an empty array on the wire).
func WithArgs(args ...any) Option {
	return func(b *build) {
		if args == nil {
			args = []any{}
		}
		b.args = args
	}
}

// WithKwargs sets the keyword payload.
func WithKwargs(kw map[string]any) Option { return func(b *build) { b.kwargs = kw } }

// WithGenerator stamps request ids from g instead of idgen.Default.
func WithGenerator(g idgen.Generator) Option { return func(b *build) { b.ids = g } }

func apply(opts []Option) build {
	b := build{ids: idgen.Default}
	for _, opt := range opts {
		opt(&b)
	}
	if b.dict == nil {
		b.dict = map[string]any{}
	}
	return b
}

func NewHello(realm string, opts ...Option) *Hello {
	b := apply(opts)
	return &Hello{Realm: realm, Details: b.dict}
}

func NewWelcome(session uint64, opts ...Option) *Welcome {
	b := apply(opts)
	return &Welcome{Session: session, Details: b.dict}
}

func NewAbort(reason string, opts ...Option) *Abort {
	b := apply(opts)
	return &Abort{Details: b.dict, Reason: reason}
}

func NewChallenge(authMethod string, opts ...Option) *Challenge {
	b := apply(opts)
	return &Challenge{AuthMethod: authMethod, Extra: b.dict}
}

func NewAuthenticate(signature string, opts ...Option) *Authenticate {
	b := apply(opts)
	return &Authenticate{Signature: signature, Extra: b.dict}
}

func NewGoodbye(reason string, opts ...Option) *Goodbye {
	b := apply(opts)
	return &Goodbye{Details: b.dict, Reason: reason}
}

// NewError answers the request identified by requestType and requestID.
func NewError(requestType MessageType, requestID uint64, uri string, opts ...Option) *Error {
	b := apply(opts)
	return &Error{
		RequestType: requestType,
		RequestID:   requestID,
		Details:     b.dict,
		URI:         uri,
		Args:        b.args,
		Kwargs:      b.kwargs,
	}
}

// NewPublish stamps a fresh request id.
func NewPublish(topic string, opts ...Option) *Publish {
	b := apply(opts)
	return &Publish{RequestID: b.ids.Increment(), Options: b.dict, Topic: topic, Args: b.args, Kwargs: b.kwargs}
}

func NewPublished(requestID, publication uint64) *Published {
	return &Published{RequestID: requestID, Publication: publication}
}

// NewSubscribe stamps a fresh request id.
func NewSubscribe(topic string, opts ...Option) *Subscribe {
	b := apply(opts)
	return &Subscribe{RequestID: b.ids.Increment(), Options: b.dict, Topic: topic}
}

func NewSubscribed(requestID, subscription uint64) *Subscribed {
	return &Subscribed{RequestID: requestID, Subscription: subscription}
}

// NewUnsubscribe stamps a fresh request id.
func NewUnsubscribe(subscription uint64, opts ...Option) *Unsubscribe {
	b := apply(opts)
	return &Unsubscribe{RequestID: b.ids.Increment(), Subscription: subscription}
}

func NewUnsubscribed(requestID uint64) *Unsubscribed {
	return &Unsubscribed{RequestID: requestID}
}

func NewEvent(subscription, publication uint64, opts ...Option) *Event {
	b := apply(opts)
	return &Event{Subscription: subscription, Publication: publication, Details: b.dict, Args: b.args, Kwargs: b.kwargs}
}

// NewCall stamps a fresh request id.
func NewCall(procedure string, opts ...Option) *Call {
	b := apply(opts)
	return &Call{RequestID: b.ids.Increment(), Options: b.dict, Procedure: procedure, Args: b.args, Kwargs: b.kwargs}
}

func NewCancel(requestID uint64, opts ...Option) *Cancel {
	b := apply(opts)
	return &Cancel{RequestID: requestID, Options: b.dict}
}

func NewResult(requestID uint64, opts ...Option) *Result {
	b := apply(opts)
	return &Result{RequestID: requestID, Details: b.dict, Args: b.args, Kwargs: b.kwargs}
}

// NewRegister stamps a fresh request id.
func NewRegister(procedure string, opts ...Option) *Register {
	b := apply(opts)
	return &Register{RequestID: b.ids.Increment(), Options: b.dict, Procedure: procedure}
}

func NewRegistered(requestID, registration uint64) *Registered {
	return &Registered{RequestID: requestID, Registration: registration}
}

// NewUnregister stamps a fresh request id.
func NewUnregister(registration uint64, opts ...Option) *Unregister {
	b := apply(opts)
	return &Unregister{RequestID: b.ids.Increment(), Registration: registration}
}

func NewUnregistered(requestID uint64) *Unregistered {
	return &Unregistered{RequestID: requestID}
}

// NewInvocation stamps a fresh request id.
func NewInvocation(registration uint64, opts ...Option) *Invocation {
	b := apply(opts)
	return &Invocation{RequestID: b.ids.Increment(), Registration: registration, Details: b.dict, Args: b.args, Kwargs: b.kwargs}
}

func NewInterrupt(requestID uint64, opts ...Option) *Interrupt {
	b := apply(opts)
	return &Interrupt{RequestID: requestID, Options: b.dict}
}

func NewYield(requestID uint64, opts ...Option) *Yield {
	b := apply(opts)
	return &Yield{RequestID: requestID, Options: b.dict, Args: b.args, Kwargs: b.kwargs}
}
