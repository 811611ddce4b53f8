// Package loopkit implements an Elm-style dispatcher for interactive,
// event-driven programs whose rendering target is pluggable (a terminal
// buffer, a GUI frame, a byte sink).
//
// An application supplies a Model: a value with Init, Update and View
// methods. The Program drives it: Init runs once, then every Msg delivered
// on the program's message channel triggers exactly one Update call. View
// runs once after Init and once per Program.Update, which also applies any
// messages already queued behind the first, so a burst of messages shares a
// single render. Update may return a Cmd describing a side effect (an
// asynchronous or blocking function); the dispatcher runs it on its own
// goroutine and feeds whatever Msg it produces back into the loop.
//
// Commands compose structurally through messages rather than through the
// Cmd type itself: a Cmd's effect function can yield a MsgBatch, MsgSequence
// or MsgStream, and the dispatcher expands those the way a shell expands a
// pipeline, one stage at a time. Commands are grouped by name; naming two
// commands the same lets a single MsgCancel stop them both as a unit.
//
// The typical usage looks like this:
//
//	type model struct {
//		seq int
//	}
//
//	func (m *model) Init() (loopkit.Cmd, error) {
//		return tick(1), nil
//	}
//
//	func (m *model) Update(msg loopkit.Msg) (loopkit.Cmd, error) {
//		switch msg := msg.(type) {
//		case tickMsg:
//			m.seq = int(msg)
//			return tick(m.seq + 1), nil
//		}
//		return loopkit.Cmd{}, nil
//	}
//
//	func (m *model) View(w loopkit.Writer) error {
//		_, err := fmt.Fprintf(w.(io.Writer), "hello %d\n", m.seq)
//		return err
//	}
//
//	func main() {
//		p := loopkit.NewProgram(&model{})
//		if _, err := p.Run(context.Background(), os.Stdout); err != nil {
//			log.Fatal(err)
//		}
//	}
package loopkit
