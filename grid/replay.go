package grid

import (
	"context"
	"time"

	"github.com/halvardm/loopkit"
	"github.com/halvardm/loopkit/event"
)

// NewReplayModel returns a loopkit.Model that replays a session recorded by
// a Recorder, one frame at a time, reacting to the same kind of keyboard and
// mouse MsgTermEvent a live backend would deliver. It is the playback side
// of Recorder/FrameDecoder: decode a session with FrameDecoder, collect its
// frames, and hand them to NewReplayModel. Home jumps straight back to the
// start (a blank grid, before the first frame is applied) and End straight
// to the last frame, instead of stepping one at a time; End still leaves a
// full undo trail behind it so a following step-back works normally.
func NewReplayModel(frames []Frame) loopkit.Model {
	return &replay{frames: frames, speed: 1}
}

type replay struct {
	frames   []Frame
	undo     [][]FrameCell
	frame    int
	seekFrom int
	auto     bool
	speed    time.Duration
	action   repAction
}

type repAction int

const (
	replayNone repAction = iota
	replayNext
	replayPrevious
	replayTogglePause
	replayQuit
	replaySpeedMore
	replaySpeedLess
	replayJumpStart
	replayJumpEnd
)

// tickMsg carries the frame index the tick was scheduled against, so a
// stale tick fired after the user already stepped manually is ignored.
type tickMsg int

func (rep *replay) Init() (loopkit.Cmd, error) {
	rep.auto = true
	return rep.tick(), nil
}

func (rep *replay) Update(msg loopkit.Msg) (loopkit.Cmd, error) {
	rep.action = replayNone
	switch m := msg.(type) {
	case loopkit.MsgTermEvent:
		switch ev := m.Event.(type) {
		case event.KeyDown:
			switch ev.Key {
			case "q", "Q", event.KeyEscape:
				rep.action = replayQuit
			case "p", "P", event.KeySpace:
				rep.action = replayTogglePause
			case "+", ">":
				rep.action = replaySpeedMore
			case "-", "<":
				rep.action = replaySpeedLess
			case event.KeyArrowRight, event.KeyArrowDown, event.KeyEnter, "j", "n", "f":
				rep.auto = false
				rep.action = replayNext
			case event.KeyArrowLeft, event.KeyArrowUp, event.KeyBackspace, "k", "N", "b":
				rep.auto = false
				rep.action = replayPrevious
			case event.KeyHome:
				rep.auto = false
				rep.action = replayJumpStart
			case event.KeyEnd:
				rep.auto = false
				rep.action = replayJumpEnd
			}
		case event.MouseDown:
			switch ev.Button {
			case event.ButtonMain:
				rep.action = replayTogglePause
			case event.ButtonAuxiliary:
				rep.auto = false
				rep.action = replayNext
			case event.ButtonSecondary:
				rep.auto = false
				rep.action = replayPrevious
			}
		}
	case tickMsg:
		if rep.auto && int(m) == rep.frame {
			rep.action = replayNext
		}
	}

	switch rep.action {
	case replayNext:
		if rep.frame >= len(rep.frames) {
			rep.action = replayNone
		} else {
			rep.frame++
		}
	case replayPrevious:
		if rep.frame <= 0 {
			rep.action = replayNone
		} else {
			rep.frame--
		}
	case replayQuit:
		return loopkit.QuitCmd(), nil
	case replayTogglePause:
		rep.auto = !rep.auto
	case replaySpeedMore:
		rep.speed *= 2
		if rep.speed > 16 {
			rep.speed = 16
		}
	case replaySpeedLess:
		rep.speed /= 2
		if rep.speed < 1 {
			rep.speed = 1
		}
	case replayJumpStart:
		rep.frame = 0
	case replayJumpEnd:
		rep.seekFrom = rep.frame
		rep.frame = len(rep.frames)
	}
	return rep.tick(), nil
}

func (rep *replay) View(w loopkit.Writer) error {
	gd, ok := w.(*Grid)
	if !ok {
		return nil
	}
	switch rep.action {
	case replayNext:
		df := rep.frames[rep.frame-1]
		undoFrame := make([]FrameCell, 0, len(df.Cells))
		for _, dr := range df.Cells {
			undoFrame = append(undoFrame, FrameCell{Cell: gd.At(dr.Pos), Pos: dr.Pos})
			gd.SetCell(dr.Pos, dr.Cell)
		}
		rep.undo = append(rep.undo, undoFrame)
	case replayPrevious:
		last := rep.undo[len(rep.undo)-1]
		for _, dr := range last {
			gd.SetCell(dr.Pos, dr.Cell)
		}
		rep.undo = rep.undo[:len(rep.undo)-1]
	case replayJumpStart:
		gd.Reset()
		rep.undo = nil
	case replayJumpEnd:
		for i := rep.seekFrom; i < len(rep.frames); i++ {
			df := rep.frames[i]
			undoFrame := make([]FrameCell, 0, len(df.Cells))
			for _, dr := range df.Cells {
				undoFrame = append(undoFrame, FrameCell{Cell: gd.At(dr.Pos), Pos: dr.Pos})
				gd.SetCell(dr.Pos, dr.Cell)
			}
			rep.undo = append(rep.undo, undoFrame)
		}
	}
	return nil
}

// tick schedules the next automatic advance, pacing it to the recorded
// interval between frames, clamped and scaled by the current speed.
func (rep *replay) tick() loopkit.Cmd {
	if !rep.auto || rep.frame >= len(rep.frames) {
		return loopkit.Cmd{}
	}
	var d time.Duration
	if rep.frame > 0 {
		d = rep.frames[rep.frame].Time.Sub(rep.frames[rep.frame-1].Time)
	}
	if d >= 2*time.Second {
		d = 2 * time.Second
	}
	d /= rep.speed
	if d <= 5*time.Millisecond {
		d = 5 * time.Millisecond
	}
	n := rep.frame
	return loopkit.NewAsync(func(ctx context.Context, send loopkit.CmdSender) loopkit.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return tickMsg(n)
		case <-ctx.Done():
			return nil
		}
	})
}
