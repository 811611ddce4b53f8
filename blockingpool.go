package loopkit

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// blockingPool bounds how many Blocking effects run at once, so that a
// program with many synchronous commands can't starve the process of
// goroutines the way an unbounded fan-out would. Effects acquire a slot,
// run, and release it, rather than being queued onto a fixed set of
// long-lived worker goroutines: idiomatic Go has no need for the latter, a
// weighted semaphore gives the same bound with none of the bookkeeping.
type blockingPool struct {
	sem *semaphore.Weighted
}

// defaultBlockingWorkers bounds concurrent Blocking effects to twice the
// number of logical CPUs, a conservative default for a pool meant to host
// short synchronous operations (file IO, a blocking library call) rather
// than CPU-bound work.
func defaultBlockingWorkers() int64 {
	n := int64(runtime.NumCPU())
	if n < 1 {
		n = 1
	}
	return 2 * n
}

func newBlockingPool(workers int64) *blockingPool {
	if workers <= 0 {
		workers = defaultBlockingWorkers()
	}
	return &blockingPool{sem: semaphore.NewWeighted(workers)}
}

// run acquires a slot, executes fn, and releases the slot. If ctx is done
// before a slot is free, it returns ctx.Err() without running fn.
func (p *blockingPool) run(ctx context.Context, fn func() Msg) (Msg, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)
	return fn(), nil
}
