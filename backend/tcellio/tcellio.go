// Package tcellio adapts a terminal, via gdamore/tcell, into a
// loopkit.Writer and loopkit.EventSource pair: Screen renders a *grid.Grid
// to a real terminal and polls its keyboard/mouse/resize events into the
// shared event vocabulary. It is adapted from gruid's own tcell driver,
// generalized from gruid's Frame/Style/Point types to this module's
// grid.Grid and event packages.
package tcellio

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/halvardm/loopkit"
	"github.com/halvardm/loopkit/event"
	"github.com/halvardm/loopkit/grid"
)

// StyleManager maps a grid cell's foreground/background/attributes to a
// concrete tcell style. Callers must supply one: there is no default
// mapping from the generic grid.Color/grid.AttrMask values to terminal
// colors.
type StyleManager interface {
	GetStyle(fg, bg grid.Color, attrs grid.AttrMask) tcell.Style
}

// Config configures a Screen.
type Config struct {
	StyleManager StyleManager // required
	DisableMouse bool
}

// Screen is a loopkit.Writer (it renders a *grid.Grid) and a
// loopkit.EventSource (its Poll method yields event.KeyDown, event.MouseDown,
// event.MouseMove and event.Resize values) backed by a real terminal.
type Screen struct {
	sm        StyleManager
	screen    tcell.Screen
	mouse     bool
	mousedrag bool
	mouseX    int
	mouseY    int
	init      bool
}

// NewScreen returns a Screen with the given configuration. Call Init before
// using it as a Writer or EventSource.
func NewScreen(cfg Config) *Screen {
	return &Screen{sm: cfg.StyleManager, mouse: !cfg.DisableMouse}
}

// Init allocates and configures the underlying tcell.Screen.
func (s *Screen) Init() error {
	if s.sm == nil {
		return errors.New("tcellio: no style manager provided")
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.SetStyle(tcell.StyleDefault)
	if s.mouse {
		screen.EnableMouse()
	} else {
		screen.DisableMouse()
	}
	screen.HideCursor()
	s.screen = screen
	s.init = true

	w, h := screen.Size()
	screen.PostEvent(tcell.NewEventResize(w, h))
	return nil
}

// Close finalizes the screen and restores the terminal.
func (s *Screen) Close() {
	if !s.init {
		return
	}
	s.screen.Fini()
	s.init = false
}

// Flush implements loopkit.Writer for gd: it draws the grid's
// pending frame to the terminal.
func (s *Screen) Flush(gd *grid.Grid) {
	for _, fc := range gd.Frame().Cells {
		c := fc.Cell
		st := s.sm.GetStyle(c.Fg, c.Bg, c.Attrs)
		s.screen.SetContent(fc.Pos.X, fc.Pos.Y, c.Rune, nil, st)
	}
	s.screen.Show()
}

// Poll implements loopkit.EventSource. It blocks until the next terminal
// event, or until ctx is done, in which case it returns ctx.Err(). The
// returned value is always one of event.KeyDown, event.MouseDown,
// event.MouseMove or event.Resize.
func (s *Screen) Poll(ctx context.Context) (any, error) {
	for {
		ev, ok := loopkit.RaceCancel(ctx, s.screen.PollEvent)
		if !ok {
			s.interrupt()
			return nil, ctx.Err()
		}
		if ev == nil {
			return nil, errors.New("tcellio: screen was finished")
		}
		switch tev := ev.(type) {
		case *tcell.EventInterrupt:
			return nil, ctx.Err()
		case *tcell.EventError:
			return nil, tev
		case *tcell.EventKey:
			msg, ok := s.translateKey(tev)
			if !ok {
				continue
			}
			return msg, nil
		case *tcell.EventMouse:
			msg, ok := s.translateMouse(tev)
			if !ok {
				continue
			}
			return msg, nil
		case *tcell.EventResize:
			w, h := tev.Size()
			return event.Resize{Width: w, Height: h, Time: tev.When()}, nil
		}
	}
}

// interrupt unblocks the PollEvent call a cancelled Poll left pending, so
// the goroutine RaceCancel started for it can return.
func (s *Screen) interrupt() {
	for n := 0; n < 10; n++ {
		if s.screen.PostEvent(tcell.NewEventInterrupt(0)) == nil {
			return
		}
	}
}

func (s *Screen) translateKey(tev *tcell.EventKey) (event.KeyDown, bool) {
	msg := event.KeyDown{Time: tev.When()}
	mod := tev.Modifiers()
	if mod&tcell.ModShift != 0 {
		msg.Mod |= event.ModShift
	}
	if mod&tcell.ModCtrl != 0 {
		msg.Mod |= event.ModCtrl
	}
	if mod&tcell.ModAlt != 0 {
		msg.Mod |= event.ModAlt
	}
	if mod&tcell.ModMeta != 0 {
		msg.Mod |= event.ModMeta
	}
	switch tev.Key() {
	case tcell.KeyDown:
		msg.Key = event.KeyArrowDown
	case tcell.KeyLeft:
		msg.Key = event.KeyArrowLeft
	case tcell.KeyRight:
		msg.Key = event.KeyArrowRight
	case tcell.KeyUp:
		msg.Key = event.KeyArrowUp
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		msg.Key = event.KeyBackspace
	case tcell.KeyDelete:
		msg.Key = event.KeyDelete
	case tcell.KeyEnd:
		msg.Key = event.KeyEnd
	case tcell.KeyEscape:
		msg.Key = event.KeyEscape
	case tcell.KeyEnter:
		msg.Key = event.KeyEnter
	case tcell.KeyHome:
		msg.Key = event.KeyHome
	case tcell.KeyInsert:
		msg.Key = event.KeyInsert
	case tcell.KeyPgUp:
		msg.Key = event.KeyPageUp
	case tcell.KeyPgDn:
		msg.Key = event.KeyPageDown
	case tcell.KeyTab:
		msg.Key = event.KeyTab
	case tcell.KeyBacktab:
		msg.Key = event.KeyTab
		msg.Mod = event.ModShift
	}
	if tev.Rune() != 0 && msg.Key == "" {
		msg.Key = event.Key(tev.Rune())
	}
	if msg.Key == "" {
		return event.KeyDown{}, false
	}
	return msg, true
}

func (s *Screen) translateMouse(tev *tcell.EventMouse) (any, bool) {
	x, y := tev.Position()
	t := tev.When()
	switch tev.Buttons() {
	case tcell.Button1:
		return s.mouseButton(event.ButtonMain, x, y, t), true
	case tcell.Button3:
		return s.mouseButton(event.ButtonAuxiliary, x, y, t), true
	case tcell.Button2:
		return s.mouseButton(event.ButtonSecondary, x, y, t), true
	case tcell.WheelUp:
		return event.MouseDown{Button: event.WheelUp, X: x, Y: y, Time: tev.When()}, true
	case tcell.WheelDown:
		return event.MouseDown{Button: event.WheelDown, X: x, Y: y, Time: tev.When()}, true
	case tcell.ButtonNone:
		if s.mousedrag {
			s.mousedrag = false
			return event.MouseMove{X: x, Y: y, Time: tev.When()}, true
		}
		if s.mouseX == x && s.mouseY == y {
			return nil, false
		}
		s.mouseX, s.mouseY = x, y
		return event.MouseMove{X: x, Y: y, Time: tev.When()}, true
	}
	return nil, false
}

func (s *Screen) mouseButton(b event.MouseButton, x, y int, t time.Time) event.MouseDown {
	s.mousedrag = true
	return event.MouseDown{Button: b, X: x, Y: y, Time: t}
}
