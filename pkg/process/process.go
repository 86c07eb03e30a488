package process

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wampcore/pkg/common/logger"
	"wampcore/pkg/conformance"
	"wampcore/pkg/wamp"
)

var (
	ErrNotStarted = errors.New("process not started")
	ErrStopped    = errors.New("process stopped")
	ErrNoHandler  = errors.New("no handler for message type")
	ErrRegistered = errors.New("handler already registered")
	ErrNilMessage = errors.New("nil message")
)

// Handler is invoked for a decoded message. A nil reply means nothing is
// sent back.
type Handler func(ctx context.Context, msg wamp.Message) (wamp.Message, error)

// Process encapsulates application lifecycle and the per-type handler registry.
type Process struct {
	mu        sync.RWMutex
	started   bool
	stopped   bool
	startTime time.Time
	handlers  map[wamp.MessageType]Handler
	extension Handler
	checker   *conformance.Checker
	ctx       context.Context
	cancel    context.CancelFunc
	log       *zerolog.Logger
}

// Option configures a Process.
type Option func(*Process)

// WithChecker enforces the role matrix on inbound messages and replies.
func WithChecker(c *conformance.Checker) Option {
	return func(p *Process) { p.checker = c }
}

// New creates a new unstarted Process.
func New(opts ...Option) *Process {
	p := &Process{
		handlers: make(map[wamp.MessageType]Handler),
		log:      logger.WithComponent("process"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register associates a handler with a message type.
func (p *Process) Register(t wamp.MessageType, h Handler) error {
	if !t.Known() {
		return fmt.Errorf("register %s: %w", t, wamp.ErrUnknownType)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrStopped
	}
	if _, exists := p.handlers[t]; exists {
		return fmt.Errorf("register %s: %w", t, ErrRegistered)
	}
	p.handlers[t] = h
	return nil
}

// RegisterExtension sets the handler for frames whose tag is not a known
// message type.
func (p *Process) RegisterExtension(h Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrStopped
	}
	if p.extension != nil {
		return fmt.Errorf("register extension: %w", ErrRegistered)
	}
	p.extension = h
	return nil
}

// Start marks the process as started and prepares context.
func (p *Process) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.startTime = time.Now()
	p.started = true
	p.log.Debug().Int("handlers", len(p.handlers)).Msg("process started")
}

// Stop cancels context and marks process stopped.
func (p *Process) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.stopped = true
}

// Dispatch decodes frame, routes it to the handler registered for its type
// and returns the handler's reply. The reply is checked against the local
// roles before it is returned.
func (p *Process) Dispatch(ctx context.Context, frame []any) (wamp.Message, error) {
	p.mu.RLock()
	started, stopped := p.started, p.stopped
	pctx := p.ctx
	p.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	if stopped {
		return nil, ErrStopped
	}

	msg, err := wamp.DecodeAny(frame)
	if err != nil {
		return nil, err
	}

	// Handlers observe Stop as well as the caller's cancellation.
	hctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(pctx, cancel)
	defer stop()
	return p.Handle(hctx, msg)
}

// Handle routes an already decoded message.
func (p *Process) Handle(ctx context.Context, msg wamp.Message) (wamp.Message, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	if p.checker != nil {
		if err := p.checker.CheckReceive(msg); err != nil {
			return nil, err
		}
	}

	p.mu.RLock()
	h, ok := p.handlers[msg.Type()]
	if _, ext := msg.(wamp.Extension); ext {
		h, ok = p.extension, p.extension != nil
	}
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", msg.Type(), ErrNoHandler)
	}

	reply, err := h(ctx, msg)
	if err != nil {
		p.log.Debug().Err(err).Str("type", msg.Type().String()).Msg("handler failed")
		return nil, err
	}
	if reply != nil && p.checker != nil {
		if err := p.checker.CheckSend(reply); err != nil {
			return nil, err
		}
	}
	return reply, nil
}

// Uptime returns duration since start, zero if not started.
func (p *Process) Uptime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}
