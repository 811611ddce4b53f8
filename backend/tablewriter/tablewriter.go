// Package tablewriter renders a *grid.Grid as a colorized table to any
// io.Writer, for backends that want a plain byte sink instead of a
// full-screen terminal (piping into a log, a CI console, a dashboard).
// It is grounded on the fatih/color SprintFunc + rodaine/table
// header/row-printing idiom used for status reports elsewhere in the
// corpus.
package tablewriter

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/rodaine/table"

	"github.com/halvardm/loopkit/grid"
)

// ColorMapper maps a grid cell's generic color value to a terminal color
// attribute. The grid package's Color type carries no builtin meaning, so
// without a ColorMapper (a nil one passed to New) cells are written
// uncolored.
type ColorMapper interface {
	Attribute(c grid.Color) color.Attribute
}

// Writer is a loopkit.Writer that renders a *grid.Grid as a table, one row
// of output per grid row, to an underlying io.Writer.
type Writer struct {
	out    io.Writer
	colors ColorMapper
}

// New returns a Writer rendering to out, colorizing cells with cm.
func New(out io.Writer, cm ColorMapper) *Writer {
	return &Writer{out: out, colors: cm}
}

// Flush implements loopkit.Writer for gd: it redraws the whole grid as a
// one-column table, one row of rendered text per grid row.
func (w *Writer) Flush(gd *grid.Grid) {
	width, height := gd.Size()
	tbl := table.New("frame")
	tbl.WithWriter(w.out)

	for y := 0; y < height; y++ {
		var b strings.Builder
		col := 0
		for x := 0; x < width && col < width; x++ {
			c := gd.At(grid.Position{X: x, Y: y})
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			rw := runewidth.RuneWidth(r)
			if rw == 0 {
				rw = 1
			}
			if col+rw > width {
				b.WriteString(strings.Repeat(" ", width-col))
				break
			}
			if w.colors != nil {
				attr := w.colors.Attribute(c.Fg)
				b.WriteString(color.New(attr).Sprint(string(r)))
			} else {
				b.WriteRune(r)
			}
			col += rw
		}
		tbl.AddRow(b.String())
	}
	tbl.Print()
}
