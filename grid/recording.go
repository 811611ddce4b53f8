package grid

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/halvardm/loopkit"
)

// FrameDecoder decodes the frame recording stream a Recorder produces, for
// replaying a session later (see NewReplayModel).
type FrameDecoder struct {
	gzr *gzip.Reader
	gbd *gob.Decoder
}

// NewFrameDecoder returns a FrameDecoder reading from r. Closing r once done
// is the caller's responsibility.
func NewFrameDecoder(r io.Reader) (*FrameDecoder, error) {
	fd := &FrameDecoder{}
	var err error
	fd.gzr, err = gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("frame decoding: gzip: %v", err)
	}
	fd.gbd = gob.NewDecoder(fd.gzr)
	return fd, nil
}

// Decode retrieves the next frame from the input stream. It returns io.EOF
// once the stream is exhausted.
func (fd *FrameDecoder) Decode(framep *Frame) error {
	if framep == nil {
		return errors.New("frame decoding: attempt to decode into nil pointer")
	}
	return fd.gbd.Decode(framep)
}

// Recorder gzip+gob encodes every frame handed to Record, so a run can be
// replayed later with NewReplayModel. It is meant to be attached to a
// Program with loopkit.WithAfterRender(rec.Record).
type Recorder struct {
	gzw *gzip.Writer
	gbe *gob.Encoder
}

// NewRecorder returns a Recorder writing its encoded stream to w.
func NewRecorder(w io.Writer) *Recorder {
	gzw := gzip.NewWriter(w)
	return &Recorder{gzw: gzw, gbe: gob.NewEncoder(gzw)}
}

// Record encodes the frame currently held by w, if w is a *Grid. It is
// intended for use as a loopkit.WithAfterRender hook, so it silently
// ignores writers that aren't grids rather than erroring the whole run over
// a recording concern.
func (r *Recorder) Record(w loopkit.Writer) {
	gd, ok := w.(*Grid)
	if !ok {
		return
	}
	_ = r.gbe.Encode(gd.Frame())
}

// Close finalizes the gzip stream. It must be called once the Program's run
// has ended.
func (r *Recorder) Close() error {
	return r.gzw.Close()
}
