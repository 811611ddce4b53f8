package loopkit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Observer drives a Model on its own goroutine for tests, with the event
// handler disabled, and lets a test snapshot the render output after every
// frame without racing the driver loop. It is the test-harness counterpart
// to Program.Run: where Run drives a real backend, Observer drives a Model
// against whatever Writer a test supplies (commonly a small in-memory
// buffer or a *grid.Grid) and records a snapshot of it after each render.
type Observer[O any] struct {
	program *Program
	writer  Writer
	snap    func(Writer) O

	mu       sync.Mutex
	latest   O
	haveSnap bool

	done    chan struct{}
	runErr  error
	model   Model
	cancel  context.CancelFunc
}

// NewObserver constructs an Observer around model, rendering into w and
// taking a snapshot with snap after every render. The driver loop starts
// immediately on its own goroutine.
func NewObserver[O any](model Model, w Writer, snap func(Writer) O, opts ...Option) *Observer[O] {
	allOpts := append([]Option{WithEventHandler(false)}, opts...)
	p := NewProgram(model, allOpts...)

	obs := &Observer[O]{
		program: p,
		writer:  w,
		snap:    snap,
		done:    make(chan struct{}),
	}
	p.afterRender = append(p.afterRender, func(w Writer) {
		s := snap(w)
		obs.mu.Lock()
		obs.latest = s
		obs.haveSnap = true
		obs.mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	// Forced shutdown also fires every effect group's signal: the dispatcher
	// only exits once its in-flight effects have joined.
	obs.cancel = func() {
		cancel()
		p.registry.CancelAll()
	}
	go func() {
		defer close(obs.done)
		model, err := p.Run(ctx, w)
		obs.model = model
		obs.runErr = err
	}()
	return obs
}

// SendCmd enqueues cmd on the program's command channel, awaiting free
// capacity.
func (o *Observer[O]) SendCmd(ctx context.Context, cmd Cmd) error {
	return o.program.CmdSender().Send(ctx, cmd)
}

// SendMsg injects msg directly as though an effect had produced it,
// awaiting free capacity on the message channel.
func (o *Observer[O]) SendMsg(ctx context.Context, msg Msg) error {
	return sendMsgOn(ctx, o.program.msgCh, msg)
}

// ErrTimeout is returned by WaitFor when the predicate never holds before
// the deadline.
type ErrTimeout struct {
	Snapshot any
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("loopkit: observer: timed out waiting for predicate, last snapshot: %+v", e.Snapshot)
}

// WaitFor polls the latest snapshot every 10ms until pred reports true or
// timeout elapses. A zero timeout defaults to 5 seconds, per the package's
// default wait bound.
func (o *Observer[O]) WaitFor(pred func(O) bool, timeout time.Duration) (O, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		o.mu.Lock()
		snap, ok := o.latest, o.haveSnap
		o.mu.Unlock()
		if ok && pred(snap) {
			return snap, nil
		}
		if time.Now().After(deadline) {
			return snap, &ErrTimeout{Snapshot: snap}
		}
		<-ticker.C
	}
}

// WaitForCompletion arms a 5-second forced-shutdown signal, joins the
// driver goroutine, and returns the final model state and the last
// snapshot observed.
func (o *Observer[O]) WaitForCompletion() (Model, O, error) {
	timer := time.AfterFunc(5*time.Second, o.cancel)
	defer timer.Stop()
	<-o.done
	o.mu.Lock()
	snap := o.latest
	o.mu.Unlock()
	return o.model, snap, o.runErr
}

// Shutdown forces the driver loop to stop immediately, without waiting for
// natural completion.
func (o *Observer[O]) Shutdown() {
	o.cancel()
	<-o.done
}

func sendMsgOn(ctx context.Context, ch chan<- Msg, msg Msg) error {
	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
