// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/event.go
// Summary: Defines the closed set of input events the decoder produces.
// Usage: Consumed by applications through Session.PollEvent.

package input

// EventType distinguishes input event categories. The set is closed;
// consumers are expected to switch exhaustively.
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventResize
	EventPaste
)

// Event is a single decoded input event. Events are immutable once
// emitted; only the fields relevant to Type are populated.
type Event struct {
	Type EventType

	// EventKey
	Key  Key
	Rune rune
	Mod  Modifier

	// EventMouse (cell coordinates, 0-indexed)
	MouseX, MouseY int
	Button         MouseButton
	Action         MouseAction

	// EventResize
	Rows, Cols int

	// EventPaste
	Text string
}

// Key identifies a non-printable key. Printable input arrives as KeyRune
// with the character in Event.Rune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune

	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier flags held during a key or mouse event.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// MouseButton identifies which button a mouse event refers to.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// MouseAction describes what the button did.
type MouseAction uint8

const (
	ActionPress MouseAction = iota
	ActionRelease
	ActionDrag
	ActionMove
)
