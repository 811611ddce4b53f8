package grid

import (
	"bytes"
	"io"
	"testing"
)

func TestDrawOnlyRecordsChangedCells(t *testing.T) {
	gd := NewGrid(GridConfig{Width: 3, Height: 2})
	gd.SetCell(Position{X: 0, Y: 0}, Cell{Rune: 'a'})
	gd.Draw()
	f := gd.Frame()
	if len(f.Cells) != 1 {
		t.Fatalf("first Draw: got %d changed cells, want 1", len(f.Cells))
	}

	gd.Draw()
	if len(gd.Frame().Cells) != 0 {
		t.Fatalf("second Draw with no changes: got %d changed cells, want 0", len(gd.Frame().Cells))
	}

	gd.SetCell(Position{X: 0, Y: 0}, Cell{Rune: 'a'})
	gd.Draw()
	if len(gd.Frame().Cells) != 0 {
		t.Errorf("redrawing the same content should not register as a change")
	}

	gd.SetCell(Position{X: 2, Y: 1}, Cell{Rune: 'b'})
	gd.Draw()
	if len(gd.Frame().Cells) != 1 {
		t.Fatalf("fourth Draw: got %d changed cells, want 1", len(gd.Frame().Cells))
	}
}

func TestAtReturnsCurrentlyDrawnCell(t *testing.T) {
	gd := NewGrid(GridConfig{Width: 2, Height: 2})
	pos := Position{X: 1, Y: 1}
	gd.SetCell(pos, Cell{Rune: 'z'})
	if c := gd.At(pos); c.Rune != 'z' {
		t.Errorf("At = %+v, want rune z", c)
	}
	if c := gd.At(Position{X: -1, Y: 0}); c != (Cell{}) {
		t.Errorf("At out of bounds = %+v, want zero value", c)
	}
}

func TestRecorderAndFrameDecoderRoundTrip(t *testing.T) {
	gd := NewGrid(GridConfig{Width: 2, Height: 1, Recording: true})
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	gd.SetCell(Position{X: 0, Y: 0}, Cell{Rune: 'x'})
	gd.Draw()
	rec.Record(gd)

	gd.SetCell(Position{X: 1, Y: 0}, Cell{Rune: 'y'})
	gd.Draw()
	rec.Record(gd)

	if err := rec.Close(); err != nil {
		t.Fatalf("close recorder: %v", err)
	}

	dec, err := NewFrameDecoder(&buf)
	if err != nil {
		t.Fatalf("new decoder: %v", err)
	}

	var frames []Frame
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("decode: %v", err)
		}
		frames = append(frames, f)
	}

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if len(frames[0].Cells) != 1 || frames[0].Cells[0].Cell.Rune != 'x' {
		t.Errorf("frame 0 = %+v", frames[0])
	}
	if len(frames[1].Cells) != 1 || frames[1].Cells[0].Cell.Rune != 'y' {
		t.Errorf("frame 1 = %+v", frames[1])
	}

	gd2 := gd.Frames()
	if len(gd2) != 2 {
		t.Errorf("Frames() recorded %d frames, want 2", len(gd2))
	}
}
