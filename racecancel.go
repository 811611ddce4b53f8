package loopkit

import "context"

// Cancelled is the sentinel ok value RaceCancel reports when the
// cancellation signal fired before op finished. It is not itself an error,
// since op may simply not have had anything left to do.
const Cancelled = false

// RaceCancel wraps a suspending operation that has no context parameter of
// its own (a blocking driver call such as tcell's PollEvent) with a race
// against ctx. It returns the operation's result and true if op finished
// first, or the zero value and false (Cancelled) if ctx was done first.
//
// op keeps running on its own goroutine even after a cancelled race: there
// is no way to preempt an arbitrary blocking call in Go, so callers that use
// RaceCancel to abandon a call must also arrange, out of band, for it to
// eventually return (as the tcell backend does by posting a wakeup event).
func RaceCancel[T any](ctx context.Context, op func() T) (T, bool) {
	result := make(chan T, 1)
	go func() {
		result <- op()
	}()
	select {
	case v := <-result:
		return v, true
	case <-ctx.Done():
		var zero T
		return zero, Cancelled
	}
}
