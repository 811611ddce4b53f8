package loopkit

// Batch returns a trivial command that immediately yields a MsgBatch, the
// idiomatic way for a Model to run several commands with no ordering
// guarantee between them. It mirrors gruid.Batch, which does the same thing
// for its own Effect type.
func Batch(cmds ...Cmd) Cmd {
	if len(cmds) == 0 {
		return Cmd{}
	}
	return Simple(MsgBatch(cmds))
}

// Sequence returns a trivial command that immediately yields a MsgSequence,
// running cmds one after another and waiting for each one's message before
// starting the next.
func Sequence(cmds ...Cmd) Cmd {
	if len(cmds) == 0 {
		return Cmd{}
	}
	return Simple(MsgSequence(cmds))
}

// Stream returns a trivial command that immediately yields a MsgStream
// wrapping next, a potentially unbounded producer of messages drained until
// it reports no more values.
func Stream(next func() (Msg, bool)) Cmd {
	return Simple(MsgStream{Next: next})
}
