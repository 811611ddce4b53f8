package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/halvardm/loopkit"
)

// fetchModel is the S5 blocking-effect-interop scenario: a blocking command
// retries a flaky synchronous call with backoff while a separate async
// counter keeps advancing, proving the cooperative executor isn't stalled
// by the blocking worker.
type fetchModel struct {
	cfg     Config
	counter int
	done    bool
	result  string
}

type counterMsg int
type fetchDoneMsg string

func (m *fetchModel) Init() (loopkit.Cmd, error) {
	return loopkit.Batch(fetchCmd(m.cfg.FetchRetries), counterTick()), nil
}

func (m *fetchModel) Update(msg loopkit.Msg) (loopkit.Cmd, error) {
	switch v := msg.(type) {
	case counterMsg:
		m.counter++
		if m.done {
			return loopkit.QuitCmd(), nil
		}
		return counterTick(), nil
	case fetchDoneMsg:
		m.done = true
		m.result = string(v)
		return loopkit.Cmd{}, nil
	}
	return loopkit.Cmd{}, nil
}

func (m *fetchModel) View(w loopkit.Writer) error {
	out, ok := w.(io.Writer)
	if !ok {
		return nil
	}
	if m.done {
		_, err := fmt.Fprintf(out, "counter=%d fetch=%s\n", m.counter, m.result)
		return err
	}
	_, err := fmt.Fprintf(out, "counter=%d fetching...\n", m.counter)
	return err
}

func counterTick() loopkit.Cmd {
	return loopkit.NewAsync(func(ctx context.Context, send loopkit.CmdSender) loopkit.Msg {
		t := time.NewTimer(20 * time.Millisecond)
		defer t.Stop()
		select {
		case <-t.C:
			return counterMsg(1)
		case <-ctx.Done():
			return nil
		}
	}).WithName("fetch-counter")
}

// fetchCmd simulates a flaky synchronous dependency: it fails twice, then
// succeeds, and retries with an exponential backoff policy via a single
// blocking effect.
func fetchCmd(maxRetries int) loopkit.Cmd {
	return loopkit.NewBlocking(func(ctx context.Context, send loopkit.CmdSender) loopkit.Msg {
		var attempts int32
		op := func() error {
			n := atomic.AddInt32(&attempts, 1)
			if n < 3 {
				return errors.New("upstream temporarily unavailable")
			}
			return nil
		}
		bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(maxRetries))
		if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
			return fetchDoneMsg(fmt.Sprintf("failed after retries: %v", err))
		}
		return fetchDoneMsg(fmt.Sprintf("ok after %d attempts", attempts))
	})
}
