package loopkit

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestObserverWaitForAndCompletion(t *testing.T) {
	type bumpMsg struct{}

	m := &bufModel{}
	m.updateFn = func(m *bufModel, msg Msg) (Cmd, error) {
		if _, ok := msg.(bumpMsg); ok {
			m.lines = append(m.lines, "bumped")
		}
		return Cmd{}, nil
	}

	obs := NewObserver(m, &bytes.Buffer{}, snapshotString)
	defer obs.Shutdown()

	if err := obs.SendMsg(context.Background(), bumpMsg{}); err != nil {
		t.Fatalf("send: %v", err)
	}

	snap, err := obs.WaitFor(func(s string) bool { return s == "bumped\n" }, 0)
	if err != nil {
		t.Fatalf("wait_for: %v (last snapshot %q)", err, snap)
	}

	if err := obs.SendCmd(context.Background(), QuitCmd()); err != nil {
		t.Fatalf("send quit: %v", err)
	}
	final, _, err := obs.WaitForCompletion()
	if err != nil {
		t.Fatalf("wait_for_completion: %v", err)
	}
	if final.(*bufModel) != m {
		t.Error("expected wait_for_completion to return the same model instance")
	}
}

func TestObserverWaitForTimesOut(t *testing.T) {
	m := &bufModel{}
	obs := NewObserver(m, &bytes.Buffer{}, snapshotString)
	defer obs.Shutdown()

	_, err := obs.WaitFor(func(s string) bool { return false }, 30*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if _, ok := err.(*ErrTimeout); !ok {
		t.Fatalf("expected *ErrTimeout, got %T", err)
	}
}
