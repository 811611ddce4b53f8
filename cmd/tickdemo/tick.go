package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/halvardm/loopkit"
)

// tickModel is the S1 tick-to-quit scenario: it counts from 1 to
// cfg.MaxTicks, printing one line per tick, then quits.
type tickModel struct {
	cfg      Config
	seq      int
	quitting bool
}

type tickMsg int

func (m *tickModel) Init() (loopkit.Cmd, error) {
	return tickAfter(m.cfg.TickInterval, 1), nil
}

func (m *tickModel) Update(msg loopkit.Msg) (loopkit.Cmd, error) {
	n, ok := msg.(tickMsg)
	if !ok {
		return loopkit.Cmd{}, nil
	}
	if int(n) > m.cfg.MaxTicks {
		m.quitting = true
		return loopkit.QuitCmd(), nil
	}
	m.seq = int(n)
	return tickAfter(m.cfg.TickInterval, m.seq+1), nil
}

func (m *tickModel) View(w loopkit.Writer) error {
	if m.quitting || m.seq == 0 {
		return nil
	}
	out, ok := w.(io.Writer)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(out, "hello %d\n", m.seq)
	return err
}

func tickAfter(d time.Duration, n int) loopkit.Cmd {
	return loopkit.NewAsync(func(ctx context.Context, send loopkit.CmdSender) loopkit.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return tickMsg(n)
		case <-ctx.Done():
			return nil
		}
	})
}
