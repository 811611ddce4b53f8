// Package replio is a loopkit.EventSource/Writer pair backed by
// chzyer/readline, for driving a Program from a line-oriented REPL instead
// of a full-screen terminal. Each submitted line becomes an event.KeyDown
// whose Key carries the whole line; Ctrl-D and Ctrl-C surface as
// event.KeyEscape, matching the quit convention a raw terminal backend
// reports on Escape. It is grounded on the readline.NewEx/rl.Readline
// request-a-line-at-a-time loop of an interactive shell.
package replio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chzyer/readline"

	"github.com/halvardm/loopkit"
	"github.com/halvardm/loopkit/event"
)

// REPL is a loopkit.EventSource and loopkit.Writer: it reads one line at a
// time from the terminal and writes whatever a Model's View hands it to the
// terminal.
type REPL struct {
	rl *readline.Instance
}

// Config configures a REPL.
type Config struct {
	Prompt      string
	HistoryFile string
}

// New returns a REPL configured per cfg.
func New(cfg Config) (*REPL, error) {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "> "
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       cfg.HistoryFile,
		HistorySearchFold: true,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("replio: readline init: %w", err)
	}
	return &REPL{rl: rl}, nil
}

// Close releases the underlying terminal state.
func (r *REPL) Close() error {
	return r.rl.Close()
}

type readResult struct {
	line string
	err  error
}

// Poll implements loopkit.EventSource. It blocks for one line of input.
// Ctrl-C and Ctrl-D are both reported as event.KeyEscape, the line-oriented
// backend's quit signal. readline.Instance has no native cancellation, so
// Poll races the blocking Readline call against ctx via loopkit.RaceCancel,
// closing the instance out of band to unblock it if ctx wins; further Poll
// calls after that will error.
func (r *REPL) Poll(ctx context.Context) (any, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.rl.Close()
		case <-done:
		}
	}()

	res, ok := loopkit.RaceCancel(ctx, func() readResult {
		line, err := r.rl.Readline()
		return readResult{line: line, err: err}
	})
	if !ok {
		return nil, ctx.Err()
	}

	now := time.Now()
	switch {
	case res.err == readline.ErrInterrupt:
		return event.KeyDown{Key: event.KeyEscape, Time: now}, nil
	case errors.Is(res.err, io.EOF):
		return event.KeyDown{Key: event.KeyEscape, Time: now}, nil
	case res.err != nil:
		return nil, res.err
	}
	return event.KeyDown{Key: event.Key(res.line), Time: now}, nil
}

// WriteLine writes a line to the terminal below the current prompt,
// redrawing the prompt afterward. Intended for a Model's View to call
// through a small adapter Writer, since loopkit.Writer is opaque to the
// core and this package imposes no particular shape on it.
func (r *REPL) WriteLine(s string) {
	r.rl.Clean()
	fmt.Fprintln(r.rl.Stdout(), s)
	r.rl.Refresh()
}

// SetPrompt updates the prompt shown on the next Readline call.
func (r *REPL) SetPrompt(p string) {
	r.rl.SetPrompt(p)
}
