// Package wsinput is a loopkit.EventSource that reads input events off a
// websocket connection, for driving a Program from a browser or another
// networked frontend instead of a local terminal. It is grounded on the
// read-loop/JSON-envelope shape of a gorilla/websocket client, adapted from
// a request/response API client into a one-directional event feed.
package wsinput

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/halvardm/loopkit/event"
)

// envelope is the wire format read off the socket. Kind selects which
// event field is populated.
type envelope struct {
	Kind  string         `json:"kind"`
	Key   *wireKeyDown   `json:"key,omitempty"`
	Mouse *wireMouseDown `json:"mouse,omitempty"`
	Move  *wireMouseMove `json:"move,omitempty"`
	Size  *wireResize    `json:"resize,omitempty"`
}

type wireKeyDown struct {
	Key string   `json:"key"`
	Mod event.Mod `json:"mod"`
}

type wireMouseDown struct {
	Button event.MouseButton `json:"button"`
	X      int               `json:"x"`
	Y      int               `json:"y"`
}

type wireMouseMove struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type wireResize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Source is a loopkit.EventSource backed by a websocket connection. Each
// text frame is decoded as an envelope and translated to the event package's
// vocabulary.
type Source struct {
	conn *websocket.Conn
}

// Dial connects to url and returns a Source reading events from it.
func Dial(ctx context.Context, url string) (*Source, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("wsinput: dial: %w", err)
	}
	return &Source{conn: conn}, nil
}

// NewSource wraps an already-established connection.
func NewSource(conn *websocket.Conn) *Source {
	return &Source{conn: conn}
}

// Close closes the underlying connection.
func (s *Source) Close() error {
	return s.conn.Close()
}

// Poll implements loopkit.EventSource. It blocks on the next frame; when ctx
// is cancelled it unblocks the read by setting a past deadline on the
// connection.
func (s *Source) Poll(ctx context.Context) (any, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	var env envelope
	if err := s.conn.ReadJSON(&env); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, ctx.Err()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		return nil, err
	}

	now := time.Now()
	switch env.Kind {
	case "key":
		if env.Key == nil {
			return nil, errors.New("wsinput: key envelope missing key field")
		}
		return event.KeyDown{Key: event.Key(env.Key.Key), Mod: env.Key.Mod, Time: now}, nil
	case "mouse":
		if env.Mouse == nil {
			return nil, errors.New("wsinput: mouse envelope missing mouse field")
		}
		return event.MouseDown{Button: env.Mouse.Button, X: env.Mouse.X, Y: env.Mouse.Y, Time: now}, nil
	case "move":
		if env.Move == nil {
			return nil, errors.New("wsinput: move envelope missing move field")
		}
		return event.MouseMove{X: env.Move.X, Y: env.Move.Y, Time: now}, nil
	case "resize":
		if env.Size == nil {
			return nil, errors.New("wsinput: resize envelope missing resize field")
		}
		return event.Resize{Width: env.Size.Width, Height: env.Size.Height, Time: now}, nil
	default:
		return nil, fmt.Errorf("wsinput: unknown envelope kind %q", env.Kind)
	}
}
