// Package event is the shared input-event vocabulary concrete backends use
// as the payload of a loopkit.MsgTermEvent. The core never imports this
// package: it only ever sees the opaque loopkit.MsgTermEvent.Event field.
// Backends and the application agree on a concrete event type by importing
// this package (or their own): MsgTermEvent's payload is opaque by design,
// the same way a Custom message's payload is.
package event

import "time"

// Key names a single key press, as a small closed vocabulary of named keys
// plus the literal rune for anything else.
type Key string

const (
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowUp    Key = "ArrowUp"
	KeyBackspace  Key = "Backspace"
	KeyDelete     Key = "Delete"
	KeyEnd        Key = "End"
	KeyEnter      Key = "Enter"
	KeyEscape     Key = "Escape"
	KeyHome       Key = "Home"
	KeyInsert     Key = "Insert"
	KeyPageDown   Key = "PageDown"
	KeyPageUp     Key = "PageUp"
	KeySpace      Key = " "
	KeyTab        Key = "Tab"
)

// Mod is a bitmask of modifier keys held during a key or mouse event.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// KeyDown is a key press event.
type KeyDown struct {
	Key  Key
	Mod  Mod
	Time time.Time
}

// MouseButton identifies which button a MouseDown event reports.
type MouseButton int

const (
	ButtonMain MouseButton = iota
	ButtonAuxiliary
	ButtonSecondary
	WheelUp
	WheelDown
)

// MouseDown is a mouse click or wheel event.
type MouseDown struct {
	Button MouseButton
	X, Y   int
	Time   time.Time
}

// MouseMove is a mouse motion event.
type MouseMove struct {
	X, Y int
	Time time.Time
}

// Resize is surfaced when the underlying terminal or window changes size.
type Resize struct {
	Width, Height int
	Time          time.Time
}
