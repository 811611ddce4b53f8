package loopkit

import "context"

// DefaultGroup is the group name commands get when no name is attached with
// WithName. All unnamed commands share it, so CancelAll cancels them
// together but Cancel(DefaultGroup) would too.
const DefaultGroup = ""

// CmdSender lets a running effect enqueue further commands, enabling
// recursive composition (an effect that reacts to its own partial progress
// by scheduling more work). It is handed to every effect function.
type CmdSender interface {
	// Send enqueues cmd on the program's command channel. It blocks
	// until there is capacity, or ctx is done, in which case it returns
	// ctx.Err().
	Send(ctx context.Context, cmd Cmd) error
}

// EffectFunc is the body of a command: a function run by the dispatcher that
// may send further commands through send and must stop promptly once ctx is
// done, returning whatever Msg (possibly nil) it managed to produce.
//
// ctx is the cancellation signal for the command's group: it is done once
// that group has been cancelled (by name, by CancelAll, or by program
// shutdown).
type EffectFunc func(ctx context.Context, send CmdSender) Msg

// Cmd is a single named effect: a pointer to a function plus the group name
// it belongs to. The zero Cmd does nothing and is treated as "no command" by
// the dispatcher and driver.
type Cmd struct {
	name     string
	fn       EffectFunc
	blocking bool
}

// IsZero reports whether c carries no effect.
func (c Cmd) IsZero() bool {
	return c.fn == nil
}

// Name returns the group name of c.
func (c Cmd) Name() string {
	return c.name
}

// NewAsync wraps a cooperative effect function as a command in the default
// group. Async effects may run concurrently with any other effect; the only
// ordering the dispatcher guarantees is within an explicit MsgSequence.
func NewAsync(fn EffectFunc) Cmd {
	return Cmd{fn: fn}
}

// NewBlocking wraps a synchronous effect function as a command in the
// default group. Blocking effects run behind a bounded worker pool
// (blockingPool) instead of directly on the goroutine that would otherwise
// be free to do cooperative work, so a slow blocking effect does not starve
// unrelated async effects.
func NewBlocking(fn EffectFunc) Cmd {
	return Cmd{fn: fn, blocking: true}
}

// Simple returns an async command that immediately yields msg, ignoring
// cancellation. It is the building block for Quit and for tests that need a
// one-shot message without real IO.
func Simple(msg Msg) Cmd {
	return NewAsync(func(ctx context.Context, send CmdSender) Msg {
		return msg
	})
}

// QuitCmd returns a command that yields MsgQuit, requesting orderly
// shutdown of the Program's run loop.
func QuitCmd() Cmd {
	return Simple(MsgQuit{})
}

// WithName returns a copy of c attached to the named effect group. Commands
// sharing a name are cancelled together by Cancel(name).
func (c Cmd) WithName(name string) Cmd {
	c.name = name
	return c
}
