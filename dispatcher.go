package loopkit

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// dispatcher consumes commands from cmd, runs their effects, and produces
// messages onto msg. It never touches the Model directly, only routes
// messages to it via msg.
type dispatcher struct {
	cmd chan Cmd
	msg chan<- Msg

	registry *Registry
	blocking *blockingPool
	logger   *log.Logger

	group *errgroup.Group
}

func newDispatcher(cmd chan Cmd, msg chan<- Msg, registry *Registry, logger *log.Logger) *dispatcher {
	return &dispatcher{
		cmd:      cmd,
		msg:      msg,
		registry: registry,
		blocking: newBlockingPool(0),
		logger:   logger,
		group:    &errgroup.Group{},
	}
}

func (d *dispatcher) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}

// run is the dispatcher's main loop. It returns once ctx is done and every
// in-flight effect task has joined, closing msg on its way out so that a
// driver blocked receiving on msg observes channel closure as an alternate
// way to notice shutdown.
func (d *dispatcher) run(ctx context.Context) error {
	defer close(d.msg)
	for {
		select {
		case <-ctx.Done():
			return d.group.Wait()
		case cmd := <-d.cmd:
			d.spawn(ctx, cmd)
		}
	}
}

// spawn ensures a registry entry exists for cmd's group, clones its signal,
// and runs the effect on its own goroutine, tracked by the errgroup so that
// run can join it on shutdown.
func (d *dispatcher) spawn(parent context.Context, cmd Cmd) {
	if cmd.IsZero() {
		return
	}
	groupCtx := d.registry.Signal(cmd.Name())
	id := uuid.NewString()[:8]
	d.logf("loopkit: dispatch %s group=%q blocking=%v", id, cmd.Name(), cmd.blocking)

	d.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("effect %s panicked: %v", id, r)
			}
			d.logf("loopkit: done %s err=%v", id, err)
		}()

		msg, err := d.execEffect(groupCtx, cmd)
		if err != nil {
			return err
		}
		return d.route(groupCtx, msg)
	})
}

// execEffect runs a single command's effect function to completion, honoring
// the Async/Blocking distinction. It does not interpret the resulting Msg.
func (d *dispatcher) execEffect(ctx context.Context, cmd Cmd) (Msg, error) {
	sender := cmdSenderFunc(func(ctx context.Context, c Cmd) error {
		return sendOn(ctx, d.cmdSink(), c)
	})
	if !cmd.blocking {
		return cmd.fn(ctx, sender), nil
	}
	return d.blocking.run(ctx, func() Msg {
		return cmd.fn(ctx, sender)
	})
}

// cmdSink exposes the dispatcher's inbound command channel as a send-only
// channel for effects that want to enqueue further commands (recursive
// composition). It is safe because cmd
// itself is never closed, so a send on it can block but never panic, and
// every send races a context.
func (d *dispatcher) cmdSink() chan<- Cmd {
	return d.cmd
}

// route interprets a message produced by an effect (or by a step of a
// sequence or stream). A nil message is a no-op.
func (d *dispatcher) route(ctx context.Context, msg Msg) error {
	if msg == nil {
		return nil
	}
	switch m := msg.(type) {
	case MsgBatch:
		for _, c := range m {
			if c.IsZero() {
				continue
			}
			if err := sendOn(ctx, d.cmdSink(), c); err != nil {
				return &MessageFailure{Kind: SendFailure, Err: err}
			}
		}
		return nil
	case MsgSequence:
		return d.runSequence(ctx, m)
	case MsgStream:
		return d.runStream(ctx, m)
	case MsgCancelAll:
		d.registry.CancelAll()
		return d.deliver(ctx, MsgCancellationComplete{})
	case MsgCancel:
		d.registry.Cancel(m.Name)
		return d.deliver(ctx, MsgCancellationComplete{Name: m.Name, HasName: true})
	default:
		return d.deliver(ctx, msg)
	}
}

// runSequence executes commands strictly one at a time on the calling
// goroutine (already a dedicated task spawned by spawn), delivering each
// step's message before starting the next. This keeps intra-sequence
// ordering without adding a stack frame per element. A step's message is
// handed to deliver directly rather than back through route: it is not
// re-interpreted as a MsgBatch/MsgSequence/MsgStream/MsgCancel/MsgCancelAll
// even if it happens to be one of those types, it is simply the next value
// the Model's Update receives. A step wanting that expansion should send it
// as its own top-level command instead of nesting it inside a Sequence.
func (d *dispatcher) runSequence(parent context.Context, cmds MsgSequence) error {
	for _, c := range cmds {
		if c.IsZero() {
			continue
		}
		select {
		case <-parent.Done():
			return nil
		default:
		}
		gctx := d.registry.Signal(c.Name())
		msg, err := d.execEffect(gctx, c)
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		if err := d.deliver(gctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// runStream pulls messages from a lazy sequence, routing each one at a time
// until it is exhausted or the owning group is cancelled. The pull loop is
// iterative rather than recursive, so a stream of arbitrary length never
// grows the call stack.
func (d *dispatcher) runStream(ctx context.Context, s MsgStream) error {
	if s.Next == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		msg, ok := s.Next()
		if !ok {
			return nil
		}
		if err := d.route(ctx, msg); err != nil {
			return err
		}
	}
}

// deliver places a message on the outbound channel, racing against ctx so a
// cancelled effect group can't block forever waiting for capacity after
// shutdown has begun.
func (d *dispatcher) deliver(ctx context.Context, msg Msg) error {
	select {
	case d.msg <- msg:
		return nil
	case <-ctx.Done():
		return &MessageFailure{Kind: SendFailure, Err: ctx.Err()}
	}
}

func sendOn(ctx context.Context, ch chan<- Cmd, cmd Cmd) error {
	select {
	case ch <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cmdSenderFunc func(ctx context.Context, cmd Cmd) error

func (f cmdSenderFunc) Send(ctx context.Context, cmd Cmd) error {
	return f(ctx, cmd)
}
