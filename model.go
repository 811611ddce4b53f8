package loopkit

// Writer is the opaque render target a Model draws into. The core never
// looks inside it; it is whatever the concrete backend and the Model agree
// on (a terminal grid, a GUI frame, an io.Writer byte sink).
type Writer any

// Model is the application-supplied state machine the Program drives.
//
// Init is called exactly once, before any Update. Update is called exactly
// once per delivered Msg, serialized: the Program never calls Update
// concurrently with itself or with View. View is called once after Init and
// once after every Update call (an Update may have folded in several queued
// messages; View still only runs once for that batch).
type Model interface {
	// Init is called once, before the first render, to obtain the
	// program's first command, if any.
	Init() (Cmd, error)

	// Update reacts to a single message and optionally returns a command
	// to run next.
	Update(Msg) (Cmd, error)

	// View renders the current state into w. Errors are surfaced to the
	// caller of Run verbatim.
	View(w Writer) error
}
