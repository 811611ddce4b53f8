// Package grid is the loopkit.Writer payload the tcellio, tablewriter and
// replay backends all agree on: a rectangular cell buffer a Model draws
// into, diffed frame by frame so a backend only has to push what changed.
// It is adapted from gruid's grid.go, generalized from a roguelike screen
// buffer into a plain render target with no game-specific concept of a map
// or viewport.
package grid

import (
	"time"
)

// AttrMask is an opaque bitmask of styling attributes. A backend's
// StyleManager (see backend/tcellio) maps it, together with Fg/Bg, onto
// whatever attribute bits its underlying terminal or GUI library uses.
type AttrMask uint

// Color is a generic color index. A backend maps it to a concrete color;
// the grid package itself never interprets the value.
type Color uint

// Cell is the content and styling of a single grid position.
type Cell struct {
	Fg    Color
	Bg    Color
	Rune  rune
	Attrs AttrMask
}

// Grid is a rectangular buffer of cells that a Model draws into with
// SetCell and a backend flushes, frame by frame, to its render target.
// Consecutive Draw calls diff against the previous frame so a backend like
// tcellio only repaints the cells that actually changed; a backend that
// wants the whole buffer every time, like tablewriter, can ignore the diff
// and read through At instead.
type Grid struct {
	width          int
	height         int
	cellBuffer     []Cell
	cellBackBuffer []Cell
	frame          Frame
	frames         []Frame
	recording      bool
}

// GridConfig configures a new Grid.
type GridConfig struct {
	Width     int  // width in cells, default 80
	Height    int  // height in cells, default 24
	Recording bool // keep every Draw's Frame for later replay via Frames
}

// Frame is the set of cells that changed since the previous Draw, along
// with the grid dimensions and the time it was produced. A Recorder
// persists a sequence of Frames so NewReplayModel can step back through
// them later.
type Frame struct {
	Cells  []FrameCell
	Time   time.Time
	Width  int
	Height int
}

// FrameCell pairs a changed Cell with the Position it was drawn at.
type FrameCell struct {
	Cell Cell
	Pos  Position
}

// NewGrid returns a Grid sized per cfg, with zero-value (blank) cells.
func NewGrid(cfg GridConfig) *Grid {
	gd := &Grid{}
	if cfg.Height <= 0 {
		cfg.Height = 24
	}
	if cfg.Width <= 0 {
		cfg.Width = 80
	}
	gd.Resize(cfg.Width, cfg.Height)
	gd.recording = cfg.Recording
	return gd
}

// Size reports the grid's current width and height in cells.
func (gd *Grid) Size() (int, int) {
	return gd.width, gd.height
}

// Resize changes the grid's dimensions, discarding its current content. A
// call with the grid's current size is a no-op; it does not clear the
// buffer or force a full repaint, matching Draw's own change-only framing.
func (gd *Grid) Resize(w, h int) {
	if gd.width == w && gd.height == h {
		return
	}
	gd.width = w
	gd.height = h
	gd.cellBuffer = make([]Cell, w*h)
	gd.cellBackBuffer = nil
}

// SetCell draws cell content and styling at pos. It is a no-op if pos lies
// outside the grid.
func (gd *Grid) SetCell(pos Position, c Cell) {
	i := gd.getIdx(pos)
	if i >= len(gd.cellBuffer) || i < 0 {
		return
	}
	gd.cellBuffer[i] = c
}

// At returns the cell currently drawn at pos, or the zero Cell if pos lies
// outside the grid. Used by backends that render the whole buffer on every
// flush instead of diffing (backend/tablewriter) and by the replay model to
// save a cell's prior content before overwriting it.
func (gd *Grid) At(pos Position) Cell {
	i := gd.getIdx(pos)
	if i >= len(gd.cellBuffer) || i < 0 {
		return Cell{}
	}
	return gd.cellBuffer[i]
}

func (gd *Grid) getIdx(pos Position) int {
	return pos.Y*gd.width + pos.X
}

func (gd *Grid) getPos(i int) Position {
	return Position{X: i - (i/gd.width)*gd.width, Y: i / gd.width}
}

// Frame returns the set of cells that changed on the last Draw call.
func (gd *Grid) Frame() Frame {
	return gd.frame
}

// Draw computes the set of cells that changed since the previous Draw. A
// Model calls it once at the end of its own View, after any number of
// SetCell calls, so a backend's next Flush sees one coherent diff. If the
// grid was configured with Recording, the frame is also appended to the
// slice Frames returns.
func (gd *Grid) Draw() {
	if len(gd.cellBackBuffer) != len(gd.cellBuffer) {
		gd.cellBackBuffer = make([]Cell, len(gd.cellBuffer))
	}
	gd.frame = Frame{Time: time.Now(), Width: gd.width, Height: gd.height}
	for i := 0; i < len(gd.cellBuffer); i++ {
		if gd.cellBuffer[i] == gd.cellBackBuffer[i] {
			continue
		}
		c := gd.cellBuffer[i]
		pos := gd.getPos(i)
		gd.frame.Cells = append(gd.frame.Cells, FrameCell{Cell: c, Pos: pos})
		gd.cellBackBuffer[i] = c
	}
	if gd.recording {
		gd.frames = append(gd.frames, gd.frame)
	}
}

// Frames returns every Frame recorded by Draw since the grid was created,
// if it was configured with Recording. NewReplayModel plays these back.
func (gd *Grid) Frames() []Frame {
	return gd.frames
}

// Reset blanks every cell back to its zero value and forgets the diff
// cache, so the following Draw reports the whole grid as changed. The
// replay model uses it to jump straight back to the start of a recording,
// before its first frame, instead of undoing one step at a time.
func (gd *Grid) Reset() {
	for i := range gd.cellBuffer {
		gd.cellBuffer[i] = Cell{}
	}
	gd.cellBackBuffer = nil
}
