package loopkit

import (
	"context"
	"testing"
	"time"
)

func TestRaceCancelReturnsOpResultWhenFaster(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, ok := RaceCancel(ctx, func() int {
		return 42
	})
	if !ok {
		t.Fatal("expected ok=true when op finishes before cancellation")
	}
	if v != 42 {
		t.Errorf("v = %d, want 42", v)
	}
}

func TestRaceCancelReturnsCancelledWhenSignalFiresFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := RaceCancel(ctx, func() int {
		select {} // never returns on its own
	})
	if ok != Cancelled {
		t.Errorf("ok = %v, want Cancelled (%v)", ok, Cancelled)
	}
}

func TestRaceCancelRespectsDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, ok := RaceCancel(ctx, func() int {
		time.Sleep(time.Hour)
		return 0
	})
	if ok {
		t.Fatal("expected the deadline to win")
	}
	if time.Since(start) > time.Second {
		t.Fatal("RaceCancel did not return promptly after the deadline")
	}
}
