// Some of the design below — a message-driven loop pairing a model's Update
// with concurrently dispatched effects — is strongly inspired by
// github.com/charmbracelet/bubbletea and by github.com/anaseto/gruid, both
// MIT/ISC licensed.

package loopkit

import (
	"context"
	"log"
	"sync"
)

// chanCap is the bounded capacity of both the command and message channels.
// It is fixed rather than configurable: a deliberately small, constant
// backpressure bound is simpler to reason about than a tunable one.
const chanCap = 32

// Program owns a Model and drives it: it serializes incoming messages into
// Update calls, renders after each one, and manages the background
// dispatcher and (optional) event reader tasks.
type Program struct {
	model Model

	cmdCh chan Cmd
	msgCh chan Msg

	registry *Registry
	logger   *log.Logger

	eventSource  EventSource
	eventEnabled bool

	afterRender []func(Writer)

	runCtx    context.Context
	runCancel context.CancelFunc

	handlerCtx    context.Context
	handlerCancel context.CancelFunc

	dispatcher      *dispatcher
	dispatcherErrCh chan error
	eventErrCh      chan error
	shutdownOnce    sync.Once
	shutdownErr     error
	initialized     bool
}

// Option configures a Program at construction time.
type Option func(*Program)

// WithLogger attaches an optional logger the dispatcher uses to trace
// effect dispatch and completion.
func WithLogger(l *log.Logger) Option {
	return func(p *Program) { p.logger = l }
}

// WithEventSource attaches the external-collaborator input source. Without
// one, the event reader is never started even if the handler is enabled:
// tests push MsgTermEvent themselves via Simple(MsgTermEvent{...}) commands.
func WithEventSource(src EventSource) Option {
	return func(p *Program) { p.eventSource = src }
}

// WithEventHandler enables or disables the built-in event reader. It
// defaults to enabled; test harnesses disable it so they can drive
// MsgTermEvent values by hand.
func WithEventHandler(enabled bool) Option {
	return func(p *Program) { p.eventEnabled = enabled }
}

// WithAfterRender registers a hook called with the writer after every
// successful render (Init's first render and each Update's render). It is
// how supplemental features like frame recording and the test observer's
// snapshotting attach to the driver without the core knowing about either.
func WithAfterRender(fn func(Writer)) Option {
	return func(p *Program) { p.afterRender = append(p.afterRender, fn) }
}

// NewProgram constructs a Program around model. Nothing is spawned until
// Initialize (or Run, which calls it) is called.
func NewProgram(model Model, opts ...Option) *Program {
	p := &Program{
		model:        model,
		cmdCh:        make(chan Cmd, chanCap),
		msgCh:        make(chan Msg, chanCap),
		registry:     NewRegistry(),
		eventEnabled: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CmdSender returns a sender bound to this program's command channel, for
// external input bridges and tests to push commands from outside the
// dispatcher.
func (p *Program) CmdSender() CmdSender {
	return cmdSenderFunc(func(ctx context.Context, cmd Cmd) error {
		return sendOn(ctx, p.cmdCh, cmd)
	})
}

// Initialize spawns the event reader (if enabled and a source is attached)
// and the effect dispatcher, then calls the Model's Init and enqueues the
// resulting command, if any.
func (p *Program) Initialize(ctx context.Context) error {
	p.runCtx, p.runCancel = context.WithCancel(ctx)
	p.handlerCtx, p.handlerCancel = context.WithCancel(ctx)

	p.dispatcher = newDispatcher(p.cmdCh, p.msgCh, p.registry, p.logger)
	p.dispatcherErrCh = make(chan error, 1)
	go func() { p.dispatcherErrCh <- p.dispatcher.run(p.runCtx) }()

	if p.eventEnabled && p.eventSource != nil {
		p.eventErrCh = make(chan error, 1)
		reader := &eventReader{source: p.eventSource, msg: p.msgCh}
		go func() { p.eventErrCh <- reader.run(p.handlerCtx) }()
	}
	p.initialized = true

	cmd, err := p.model.Init()
	if err != nil {
		return &ApplicationFailure{Phase: "init", Err: err}
	}
	if !cmd.IsZero() {
		if err := sendOn(ctx, p.cmdCh, cmd); err != nil {
			return &MessageFailure{Kind: SendFailure, Err: err}
		}
	}
	return nil
}

// Update delivers msg to the Model and, if it returns a command, enqueues
// it. It then opportunistically drains any messages already queued on the
// message channel (a non-blocking receive), applying each in turn, so a
// burst of synchronously produced replies folds into a single render frame.
// It reports quit == true as soon as MsgQuit is observed, without applying
// it to the Model.
func (p *Program) Update(ctx context.Context, msg Msg) (quit bool, err error) {
	for {
		if _, ok := msg.(MsgQuit); ok {
			return true, nil
		}
		cmd, uerr := p.model.Update(msg)
		if uerr != nil {
			return false, &ApplicationFailure{Phase: "update", Err: uerr}
		}
		if !cmd.IsZero() {
			if err := sendOn(ctx, p.cmdCh, cmd); err != nil {
				return false, &MessageFailure{Kind: SendFailure, Err: err}
			}
		}
		select {
		case next, ok := <-p.msgCh:
			if !ok {
				return true, nil
			}
			msg = next
		default:
			return false, nil
		}
	}
}

// View renders the Model's current state into w and runs the registered
// after-render hooks.
func (p *Program) View(w Writer) error {
	if err := p.model.View(w); err != nil {
		return &ApplicationFailure{Phase: "view", Err: err}
	}
	for _, fn := range p.afterRender {
		fn(w)
	}
	return nil
}

// Shutdown fires every cancellation signal (every registered effect group,
// plus the event-reader's own handler signal), then awaits the event reader
// and dispatcher tasks to completion. It is safe to call more than once;
// only the first call does any work.
func (p *Program) Shutdown() error {
	p.shutdownOnce.Do(func() {
		if !p.initialized {
			return
		}
		p.registry.CancelAll()
		if p.handlerCancel != nil {
			p.handlerCancel()
		}
		if p.runCancel != nil {
			p.runCancel()
		}
		var errs []error
		if p.eventErrCh != nil {
			if err := <-p.eventErrCh; err != nil {
				errs = append(errs, err)
			}
		}
		if p.dispatcherErrCh != nil {
			if err := <-p.dispatcherErrCh; err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			p.shutdownErr = &MessageFailure{Kind: JoinFailure, Err: errs[0]}
		}
	})
	return p.shutdownErr
}

// Run calls Initialize, renders once, then loops receiving a message,
// applying it with Update, and rendering again, stopping when Update
// reports quit. Shutdown always runs before Run returns, draining every
// outstanding effect task. The Model is returned to the caller regardless
// of how the run ended: there is no retry built in, a failed run's Model is
// not reused, only inspected.
func (p *Program) Run(ctx context.Context, w Writer) (Model, error) {
	if err := p.Initialize(ctx); err != nil {
		p.Shutdown()
		return p.model, err
	}
	defer func() { p.Shutdown() }()

	if err := p.View(w); err != nil {
		return p.model, err
	}
	for {
		msg, ok := <-p.msgCh
		if !ok {
			return p.model, nil
		}
		quit, err := p.Update(ctx, msg)
		if err != nil {
			return p.model, err
		}
		if err := p.View(w); err != nil {
			return p.model, err
		}
		if quit {
			return p.model, nil
		}
	}
}
