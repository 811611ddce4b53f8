package loopkit

import "testing"

func TestRegistrySignalIsMonotonic(t *testing.T) {
	r := NewRegistry()
	ctx := r.Signal("g")
	select {
	case <-ctx.Done():
		t.Fatal("signal fired before any cancellation")
	default:
	}
	r.Cancel("g")
	select {
	case <-ctx.Done():
	default:
		t.Fatal("signal did not fire after Cancel")
	}
	// Re-signalling the same name returns the same, already-fired context:
	// a group's latch never resets for the life of the Registry.
	ctx2 := r.Signal("g")
	select {
	case <-ctx2.Done():
	default:
		t.Fatal("re-signalling a cancelled name should still observe the fired latch")
	}
}

func TestRegistryCancelUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	if r.Cancel("never-signalled") {
		t.Error("Cancel on an unknown name should report false")
	}
}

func TestRegistryCancelAllFiresEveryRegisteredSignal(t *testing.T) {
	r := NewRegistry()
	a := r.Signal("a")
	b := r.Signal("b")
	r.CancelAll()
	for name, ctx := range map[string]interface{ Done() <-chan struct{} }{"a": a, "b": b} {
		select {
		case <-ctx.Done():
		default:
			t.Errorf("%s: expected signal to be fired after CancelAll", name)
		}
	}
}

func TestRegistryCancelAllDoesNotAffectLaterGroups(t *testing.T) {
	r := NewRegistry()
	r.Signal("a")
	r.CancelAll()
	fresh := r.Signal("fresh-after-cancelall")
	select {
	case <-fresh.Done():
		t.Fatal("a newly named group created after CancelAll must start unfired")
	default:
	}
}
