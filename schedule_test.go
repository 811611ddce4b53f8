package loopkit

import (
	"testing"
	"time"
)

func TestScheduleExecuteRunsDueActions(t *testing.T) {
	var s Schedule
	var ran []int
	s.After(1*time.Millisecond, func() { ran = append(ran, 1) })
	s.After(1*time.Millisecond, func() { ran = append(ran, 2) })

	time.Sleep(5 * time.Millisecond)
	n := s.Execute()
	if n != 2 {
		t.Fatalf("Execute ran %d actions, want 2", n)
	}
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Errorf("actions ran out of order: %v", ran)
	}
	if !s.Done() {
		t.Error("expected Done() after all actions ran")
	}
}

func TestScheduleExecuteLeavesNotYetDueActions(t *testing.T) {
	var s Schedule
	s.After(time.Hour, func() {})
	if n := s.Execute(); n != 0 {
		t.Errorf("Execute ran %d actions, want 0", n)
	}
	if s.Done() {
		t.Error("expected a still-pending action to keep Done() false")
	}
}

func TestScheduleCancelDropsPendingActions(t *testing.T) {
	var s Schedule
	called := false
	s.After(time.Millisecond, func() { called = true })
	s.Cancel()
	time.Sleep(3 * time.Millisecond)
	s.Execute()
	if called {
		t.Error("a cancelled action must not run")
	}
	if !s.Done() {
		t.Error("expected Done() after Cancel")
	}
}

func TestScheduleFinishRunsEverythingImmediately(t *testing.T) {
	var s Schedule
	count := 0
	s.After(time.Hour, func() { count++ })
	s.After(2*time.Hour, func() { count++ })
	if n := s.Finish(); n != 2 {
		t.Errorf("Finish reported %d, want 2", n)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !s.Done() {
		t.Error("expected Done() after Finish")
	}
}
