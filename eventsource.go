package loopkit

import "context"

// EventSource is the optional external-collaborator that feeds input events
// (terminal keystrokes, GUI events, inbound socket frames) into a running
// Program. Concrete backends (a tcell screen, a websocket connection, a
// readline prompt) implement it; the core only ever calls Poll.
type EventSource interface {
	// Poll blocks until the next external event is available and
	// returns it, or returns a non-nil error if the source is
	// exhausted or failed. Poll must return promptly once ctx is done;
	// implementations that wrap a blocking call with no context
	// parameter of their own should use RaceCancel plus an out-of-band
	// wakeup (see backend/tcellio for the canonical example).
	Poll(ctx context.Context) (any, error)
}

// eventReader repeatedly polls an EventSource and forwards each event as a
// MsgTermEvent onto msg, until ctx is done or the source errors.
type eventReader struct {
	source EventSource
	msg    chan<- Msg
}

func (r *eventReader) run(ctx context.Context) error {
	for {
		ev, err := r.source.Poll(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}
		select {
		case r.msg <- MsgTermEvent{Event: ev}:
		case <-ctx.Done():
			return nil
		}
	}
}
