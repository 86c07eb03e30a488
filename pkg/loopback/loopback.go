// Package loopback is a minimal in-process router peer. It answers client
// frames the way a dealer and broker would, without any transport or
// routing to other sessions, so that frames can be exercised end to end.
package loopback

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"wampcore/pkg/common/idgen"
	"wampcore/pkg/common/logger"
	"wampcore/pkg/process"
	"wampcore/pkg/wamp"
	"wampcore/pkg/wamp/uri"
)

// Built-in procedures.
const (
	ProcEcho   = "wampcore.echo"
	ProcUptime = "wampcore.uptime"
)

// Router keeps the subscriptions and registrations made through it.
type Router struct {
	proc   *process.Process
	ids    *idgen.Counter
	strict bool
	log    *zerolog.Logger

	mu            sync.Mutex
	subscriptions map[uint64]string
	registrations map[uint64]string
}

// New registers the router's handlers on proc. URIs are checked with the
// strict grammar when strict is set.
func New(proc *process.Process, strict bool) (*Router, error) {
	r := &Router{
		proc:          proc,
		ids:           idgen.New(),
		strict:        strict,
		log:           logger.WithComponent("loopback"),
		subscriptions: make(map[uint64]string),
		registrations: make(map[uint64]string),
	}
	handlers := map[wamp.MessageType]process.Handler{
		wamp.TypeHello:        r.hello,
		wamp.TypeAuthenticate: r.authenticate,
		wamp.TypeGoodbye:      r.goodbye,
		wamp.TypePublish:      r.publish,
		wamp.TypeSubscribe:    r.subscribe,
		wamp.TypeUnsubscribe:  r.unsubscribe,
		wamp.TypeCall:         r.call,
		wamp.TypeCancel:       r.cancel,
		wamp.TypeRegister:     r.register,
		wamp.TypeUnregister:   r.unregister,
		wamp.TypeYield:        r.ignore,
		wamp.TypeError:        r.ignore,
	}
	for t, h := range handlers {
		if err := proc.Register(t, h); err != nil {
			return nil, err
		}
	}
	if err := proc.RegisterExtension(r.ignore); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Router) welcome() *wamp.Welcome {
	return wamp.NewWelcome(r.ids.Increment(), wamp.WithDetails(map[string]any{
		"roles": map[string]any{"dealer": map[string]any{}, "broker": map[string]any{}},
	}))
}

func (r *Router) hello(_ context.Context, m wamp.Message) (wamp.Message, error) {
	h := m.(*wamp.Hello)
	if err := uri.Validate(uri.URI, h.Realm, r.strict); err != nil {
		return wamp.NewAbort(uri.NoSuchRealm, wamp.WithDetails(map[string]any{"message": err.Error()})), nil
	}
	return r.welcome(), nil
}

func (r *Router) authenticate(context.Context, wamp.Message) (wamp.Message, error) {
	return r.welcome(), nil
}

func (r *Router) goodbye(context.Context, wamp.Message) (wamp.Message, error) {
	return wamp.NewGoodbye(uri.GoodbyeAndOut), nil
}

func invalidURI(t wamp.MessageType, requestID uint64, err error) *wamp.Error {
	return wamp.NewError(t, requestID, uri.InvalidURI, wamp.WithArgs(err.Error()))
}

func (r *Router) publish(_ context.Context, m wamp.Message) (wamp.Message, error) {
	p := m.(*wamp.Publish)
	if err := uri.Validate(uri.URI, p.Topic, r.strict); err != nil {
		return invalidURI(wamp.TypePublish, p.RequestID, err), nil
	}
	if ack, _ := p.Options["acknowledge"].(bool); ack {
		return wamp.NewPublished(p.RequestID, r.ids.Increment()), nil
	}
	return nil, nil
}

func (r *Router) subscribe(_ context.Context, m wamp.Message) (wamp.Message, error) {
	s := m.(*wamp.Subscribe)
	if err := uri.Validate(uri.PatternRule(s.Options), s.Topic, r.strict); err != nil {
		return invalidURI(wamp.TypeSubscribe, s.RequestID, err), nil
	}
	id := r.ids.Increment()
	r.mu.Lock()
	r.subscriptions[id] = s.Topic
	r.mu.Unlock()
	r.log.Debug().Str("topic", s.Topic).Uint64("subscription", id).Msg("subscribed")
	return wamp.NewSubscribed(s.RequestID, id), nil
}

func (r *Router) unsubscribe(_ context.Context, m wamp.Message) (wamp.Message, error) {
	u := m.(*wamp.Unsubscribe)
	r.mu.Lock()
	_, ok := r.subscriptions[u.Subscription]
	delete(r.subscriptions, u.Subscription)
	r.mu.Unlock()
	if !ok {
		return wamp.NewError(wamp.TypeUnsubscribe, u.RequestID, uri.NoSuchSubscription), nil
	}
	return wamp.NewUnsubscribed(u.RequestID), nil
}

func (r *Router) register(_ context.Context, m wamp.Message) (wamp.Message, error) {
	reg := m.(*wamp.Register)
	if err := uri.Validate(uri.PatternRule(reg.Options), reg.Procedure, r.strict); err != nil {
		return invalidURI(wamp.TypeRegister, reg.RequestID, err), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.Procedure == ProcEcho || reg.Procedure == ProcUptime {
		return wamp.NewError(wamp.TypeRegister, reg.RequestID, uri.ProcedureAlreadyExists), nil
	}
	for _, p := range r.registrations {
		if p == reg.Procedure {
			return wamp.NewError(wamp.TypeRegister, reg.RequestID, uri.ProcedureAlreadyExists), nil
		}
	}
	id := r.ids.Increment()
	r.registrations[id] = reg.Procedure
	return wamp.NewRegistered(reg.RequestID, id), nil
}

func (r *Router) unregister(_ context.Context, m wamp.Message) (wamp.Message, error) {
	u := m.(*wamp.Unregister)
	r.mu.Lock()
	_, ok := r.registrations[u.Registration]
	delete(r.registrations, u.Registration)
	r.mu.Unlock()
	if !ok {
		return wamp.NewError(wamp.TypeUnregister, u.RequestID, uri.NoSuchRegistration), nil
	}
	return wamp.NewUnregistered(u.RequestID), nil
}

func (r *Router) call(ctx context.Context, m wamp.Message) (wamp.Message, error) {
	c := m.(*wamp.Call)
	if err := uri.Validate(uri.URI, c.Procedure, r.strict); err != nil {
		return invalidURI(wamp.TypeCall, c.RequestID, err), nil
	}
	if err := ctx.Err(); err != nil {
		return wamp.NewError(wamp.TypeCall, c.RequestID, uri.Canceled), nil
	}
	switch c.Procedure {
	case ProcEcho:
		res := &wamp.Result{RequestID: c.RequestID, Details: map[string]any{}, Args: c.Args, Kwargs: c.Kwargs}
		return res, nil
	case ProcUptime:
		return wamp.NewResult(c.RequestID, wamp.WithArgs(r.proc.Uptime().Seconds())), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.registrations {
		if p == c.Procedure {
			// nothing to invoke without a transport to the callee
			return wamp.NewError(wamp.TypeCall, c.RequestID, uri.NoAvailableCallee), nil
		}
	}
	return wamp.NewError(wamp.TypeCall, c.RequestID, uri.NoSuchProcedure), nil
}

func (r *Router) cancel(_ context.Context, m wamp.Message) (wamp.Message, error) {
	c := m.(*wamp.Cancel)
	return wamp.NewError(wamp.TypeCall, c.RequestID, uri.Canceled), nil
}

func (r *Router) ignore(_ context.Context, m wamp.Message) (wamp.Message, error) {
	r.log.Debug().Str("type", m.Type().String()).Msg("ignored")
	return nil, nil
}

// Subscriptions returns the number of active subscriptions.
func (r *Router) Subscriptions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscriptions)
}

// Registrations returns the number of active registrations.
func (r *Router) Registrations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.registrations)
}
