package loopkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// bufModel renders whatever its lines field holds, joined by newlines, into
// a *bytes.Buffer writer. It is shared scaffolding for the scenario tests
// below.
type bufModel struct {
	initFn   func(m *bufModel) (Cmd, error)
	updateFn func(m *bufModel, msg Msg) (Cmd, error)
	lines    []string
}

func (m *bufModel) Init() (Cmd, error) {
	if m.initFn == nil {
		return Cmd{}, nil
	}
	return m.initFn(m)
}

func (m *bufModel) Update(msg Msg) (Cmd, error) {
	if m.updateFn == nil {
		return Cmd{}, nil
	}
	return m.updateFn(m, msg)
}

func (m *bufModel) View(w Writer) error {
	buf, ok := w.(*bytes.Buffer)
	if !ok {
		return nil
	}
	buf.Reset()
	for _, l := range m.lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return nil
}

func snapshotString(w Writer) string {
	buf := w.(*bytes.Buffer)
	return buf.String()
}

// S1: tick-to-quit. init sleeps, yields Tick(1); each Tick(n) appends a line
// and schedules Tick(n+1), or quits once n exceeds 5.
func TestScenarioTickToQuit(t *testing.T) {
	type tickMsg int

	tick := func(n int) Cmd {
		return NewAsync(func(ctx context.Context, send CmdSender) Msg {
			select {
			case <-time.After(2 * time.Millisecond):
				return tickMsg(n)
			case <-ctx.Done():
				return nil
			}
		})
	}

	m := &bufModel{}
	m.initFn = func(m *bufModel) (Cmd, error) { return tick(1), nil }
	m.updateFn = func(m *bufModel, msg Msg) (Cmd, error) {
		n, ok := msg.(tickMsg)
		if !ok {
			return Cmd{}, nil
		}
		m.lines = append(m.lines, fmt.Sprintf("hello %d", n))
		if int(n) > 5 {
			return QuitCmd(), nil
		}
		return tick(int(n) + 1), nil
	}

	p := NewProgram(m, WithEventHandler(false))
	final, err := p.Run(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := final.(*bufModel).lines
	want := []string{"hello 1", "hello 2", "hello 3", "hello 4", "hello 5", "hello 6"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

// S2: Sequence delivers its messages in order, even though each is produced
// by its own, independently completing command.
func TestScenarioSequenceOrdering(t *testing.T) {
	type letterMsg string

	m := &bufModel{}
	m.initFn = func(m *bufModel) (Cmd, error) {
		return Sequence(
			Simple(letterMsg("A")),
			Simple(letterMsg("B")),
			Simple(letterMsg("C")),
		), nil
	}
	m.updateFn = func(m *bufModel, msg Msg) (Cmd, error) {
		l, ok := msg.(letterMsg)
		if !ok {
			return Cmd{}, nil
		}
		m.lines = append(m.lines, string(l))
		if len(m.lines) == 3 {
			return QuitCmd(), nil
		}
		return Cmd{}, nil
	}

	p := NewProgram(m, WithEventHandler(false))
	final, err := p.Run(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := final.(*bufModel).lines
	want := []string{"A", "B", "C"}
	for i, w := range want {
		if i >= len(got) || got[i] != w {
			t.Fatalf("sequence order: got %v, want %v", got, want)
		}
	}
}

// S3: Cancel(name) fires CancellationComplete for that name promptly, while
// an unrelated named effect keeps running.
func TestScenarioCancelByName(t *testing.T) {
	const slowA, slowB = "slow-a", "slow-b"
	type doneMsg string

	slow := func(name string, d time.Duration) Cmd {
		return NewAsync(func(ctx context.Context, send CmdSender) Msg {
			select {
			case <-time.After(d):
				return doneMsg(name)
			case <-ctx.Done():
				return nil
			}
		}).WithName(name)
	}

	var mu sync.Mutex
	var gotCancelA bool
	var bDone bool

	m := &bufModel{}
	m.initFn = func(m *bufModel) (Cmd, error) {
		return Batch(slow(slowA, time.Hour), slow(slowB, 20*time.Millisecond)), nil
	}
	m.updateFn = func(m *bufModel, msg Msg) (Cmd, error) {
		switch v := msg.(type) {
		case MsgCancellationComplete:
			if v.HasName && v.Name == slowA {
				mu.Lock()
				gotCancelA = true
				mu.Unlock()
			}
		case doneMsg:
			if string(v) == slowB {
				mu.Lock()
				bDone = true
				mu.Unlock()
				return QuitCmd(), nil
			}
		}
		return Cmd{}, nil
	}

	p := NewProgram(m, WithEventHandler(false))
	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = p.CmdSender().Send(context.Background(), Simple(MsgCancel{Name: slowA}))
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(context.Background(), &bytes.Buffer{})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not complete within bound")
	}

	mu.Lock()
	defer mu.Unlock()
	if !gotCancelA {
		t.Error("expected CancellationComplete for slow-a")
	}
	if !bDone {
		t.Error("expected slow-b to complete on its own")
	}
}

// S4: a Stream fans 100 items into update one at a time, in order.
func TestScenarioStreamFanIn(t *testing.T) {
	type itemMsg int

	m := &bufModel{}
	m.initFn = func(m *bufModel) (Cmd, error) {
		i := 0
		return Stream(func() (Msg, bool) {
			if i >= 100 {
				return nil, false
			}
			msg := itemMsg(i)
			i++
			return msg, true
		}), nil
	}
	m.updateFn = func(m *bufModel, msg Msg) (Cmd, error) {
		n, ok := msg.(itemMsg)
		if !ok {
			return Cmd{}, nil
		}
		m.lines = append(m.lines, fmt.Sprintf("%d", n))
		if int(n) == 99 {
			return QuitCmd(), nil
		}
		return Cmd{}, nil
	}

	p := NewProgram(m, WithEventHandler(false))
	final, err := p.Run(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := final.(*bufModel).lines
	if len(got) != 100 {
		t.Fatalf("got %d items, want 100", len(got))
	}
	for i := 0; i < 100; i++ {
		if got[i] != fmt.Sprintf("%d", i) {
			t.Fatalf("item %d out of order: %v", i, got[i])
		}
	}
}

// S5: a blocking effect sleeping synchronously does not stall a concurrent
// async counter.
func TestScenarioBlockingEffectInterop(t *testing.T) {
	type doneMsg struct{}
	type countMsg int

	var mu sync.Mutex
	counter := 0
	var blockingDone bool

	m := &bufModel{}
	m.initFn = func(m *bufModel) (Cmd, error) {
		blocking := NewBlocking(func(ctx context.Context, send CmdSender) Msg {
			time.Sleep(100 * time.Millisecond)
			return doneMsg{}
		})
		count := func() Cmd {
			return NewAsync(func(ctx context.Context, send CmdSender) Msg {
				select {
				case <-time.After(5 * time.Millisecond):
					return countMsg(1)
				case <-ctx.Done():
					return nil
				}
			})
		}
		return Batch(blocking, count()), nil
	}
	m.updateFn = func(m *bufModel, msg Msg) (Cmd, error) {
		switch msg.(type) {
		case countMsg:
			mu.Lock()
			counter++
			done := blockingDone
			mu.Unlock()
			if done {
				return QuitCmd(), nil
			}
			return NewAsync(func(ctx context.Context, send CmdSender) Msg {
				select {
				case <-time.After(5 * time.Millisecond):
					return countMsg(1)
				case <-ctx.Done():
					return nil
				}
			}), nil
		case doneMsg:
			mu.Lock()
			blockingDone = true
			mu.Unlock()
		}
		return Cmd{}, nil
	}

	p := NewProgram(m, WithEventHandler(false))
	_, err := p.Run(context.Background(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if counter < 2 {
		t.Errorf("expected the async counter to advance while the blocking effect ran, got %d ticks", counter)
	}
}

// S6: an init error aborts the run before view or update ever runs.
func TestScenarioInitErrorAborts(t *testing.T) {
	errBoom := errors.New("boom")
	m := &bufModel{}
	var updateCalled bool
	m.initFn = func(m *bufModel) (Cmd, error) { return Cmd{}, errBoom }
	m.updateFn = func(m *bufModel, msg Msg) (Cmd, error) {
		updateCalled = true
		return Cmd{}, nil
	}

	p := NewProgram(m, WithEventHandler(false))
	_, err := p.Run(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected an error")
	}
	var af *ApplicationFailure
	if !errors.As(err, &af) {
		t.Fatalf("expected *ApplicationFailure, got %T: %v", err, err)
	}
	if af.Phase != "init" {
		t.Errorf("phase = %q, want init", af.Phase)
	}
	if updateCalled {
		t.Error("update must not run after an init error")
	}
}
