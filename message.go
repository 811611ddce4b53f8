package loopkit

// Msg is a value delivered to a Model's Update: either a domain message the
// application defines for itself (any concrete Go type the Model's Update
// type-switches on) or one of the control messages below, which the
// dispatcher interprets before the Model ever sees most of them.
type Msg any

// MsgBatch enqueues every command in the slice with no ordering guarantee
// between them. Producing a MsgBatch from an effect is how that effect fans
// out further work.
type MsgBatch []Cmd

// MsgSequence runs its commands one after another: the k+1-th does not
// start until the k-th's produced message (if any) has been delivered to
// the message channel. Delivery here bypasses the dispatcher's own
// interpretation: a step whose message happens to be a MsgBatch, another
// MsgSequence, or a cancellation message is handed to the Model as that raw
// value rather than expanded, the same as any other step's message.
type MsgSequence []Cmd

// MsgStream is a potentially unbounded producer of messages, drained by the
// dispatcher until Next reports no more values or the owning group is
// cancelled. Next must not be called concurrently with itself; the
// dispatcher only ever calls it from the single goroutine draining the
// stream.
type MsgStream struct {
	Next func() (Msg, bool)
}

// MsgTermEvent carries an external input event surfaced by an EventSource
// (a keystroke, a mouse action, an inbound socket frame). The core treats
// Event as opaque; backends and the Model agree on its concrete type.
type MsgTermEvent struct {
	Event any
}

// MsgQuit requests orderly shutdown of the Program's run loop.
type MsgQuit struct{}

// MsgCancelAll requests cancellation of every registered effect group. It is
// always followed by exactly one MsgCancellationComplete with no name.
type MsgCancelAll struct{}

// MsgCancel requests cancellation of a single named effect group. Cancelling
// a name with no registered commands is a silent no-op, still followed by a
// MsgCancellationComplete carrying that name.
type MsgCancel struct {
	Name string
}

// MsgCancellationComplete acknowledges a MsgCancelAll (Name == "", HasName
// == false) or a MsgCancel (HasName == true) once the corresponding signal
// has been fired.
type MsgCancellationComplete struct {
	Name    string
	HasName bool
}
