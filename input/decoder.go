// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/decoder.go
// Summary: Implements the byte-stream state machine that turns raw terminal
//          input into events.
// Usage: Fed by the session's read loop; also usable standalone against any
//        byte source.

package input

import (
	"bytes"
	"log"
	"unicode/utf8"
)

type state uint8

const (
	stateGround state = iota
	stateEscape
	stateCSI
	stateSS3
	stateOSC
	stateUTF8
	statePaste
)

var pasteEnd = []byte("\x1b[201~")

// Decoder is an explicit finite-state machine advanced one byte at a
// time. It never returns an error: malformed or unrecognised sequences
// are consumed, optionally logged, and decoding resumes at ground state.
type Decoder struct {
	state state

	params   []int
	curParam int
	hasParam bool
	private  byte

	utf8Buf  [4]byte
	utf8Len  int
	utf8Need int

	pasteBuf []byte

	// Diag receives one line per dropped sequence when set.
	Diag *log.Logger
}

// NewDecoder returns a decoder in ground state.
func NewDecoder() *Decoder {
	return &Decoder{params: make([]int, 0, 8)}
}

// Pending reports whether bytes have been consumed that did not yet
// dispatch an event. The caller uses this to arm the escape timeout;
// a paste body counts so a lost terminator cannot wedge the stream.
func (d *Decoder) Pending() bool {
	return d.state != stateGround
}

// Decode advances the machine over data and appends any completed events
// to evs, returning the extended slice.
func (d *Decoder) Decode(data []byte, evs []Event) []Event {
	for _, b := range data {
		evs = d.step(b, evs)
	}
	return evs
}

// Expire resolves a stalled escape sequence after the timeout window. A
// lone escape byte becomes a discrete Escape key event; partially
// collected parameter bytes are dropped. A stalled paste flushes what
// arrived so a lost terminator cannot wedge the stream.
func (d *Decoder) Expire(evs []Event) []Event {
	switch d.state {
	case stateGround:
		return evs
	case stateEscape, stateCSI, stateSS3:
		evs = append(evs, Event{Type: EventKey, Key: KeyEscape})
	case stateOSC:
		d.drop("unterminated OSC")
	case stateUTF8:
		d.drop("incomplete UTF-8 sequence")
	case statePaste:
		evs = append(evs, Event{Type: EventPaste, Text: string(d.pasteBuf)})
	}
	d.reset()
	return evs
}

func (d *Decoder) reset() {
	d.state = stateGround
	d.params = d.params[:0]
	d.curParam = 0
	d.hasParam = false
	d.private = 0
	d.utf8Len = 0
	d.utf8Need = 0
	d.pasteBuf = nil
}

func (d *Decoder) drop(why string) {
	if d.Diag != nil {
		d.Diag.Printf("input: dropped %s", why)
	}
}

func (d *Decoder) step(b byte, evs []Event) []Event {
	switch d.state {
	case stateGround:
		return d.stepGround(b, evs)
	case stateEscape:
		return d.stepEscape(b, evs)
	case stateCSI:
		return d.stepCSI(b, evs)
	case stateSS3:
		d.reset()
		return append(evs, lookupSS3(b)...)
	case stateOSC:
		// Swallowed until BEL or ST; content is not meaningful as input.
		if b == 0x07 || (b == '\\' && d.private == 0x1b) {
			d.reset()
		} else {
			d.private = b
		}
		return evs
	case stateUTF8:
		return d.stepUTF8(b, evs)
	case statePaste:
		return d.stepPaste(b, evs)
	}
	return evs
}

func (d *Decoder) stepGround(b byte, evs []Event) []Event {
	switch {
	case b == 0x1b:
		d.state = stateEscape
	case b >= 0x20 && b < 0x7f:
		evs = append(evs, Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
	case b < 0x20:
		evs = append(evs, controlEvent(b, ModNone))
	case b == 0x7f:
		evs = append(evs, Event{Type: EventKey, Key: KeyBackspace})
	default:
		need := utf8SeqLen(b)
		if need == 0 {
			d.drop("invalid UTF-8 start byte")
			return evs
		}
		d.utf8Buf[0] = b
		d.utf8Len = 1
		d.utf8Need = need
		d.state = stateUTF8
	}
	return evs
}

func (d *Decoder) stepEscape(b byte, evs []Event) []Event {
	switch {
	case b == '[':
		d.state = stateCSI
		d.params = d.params[:0]
		d.curParam = 0
		d.hasParam = false
		d.private = 0
	case b == 'O':
		d.state = stateSS3
	case b == ']':
		d.state = stateOSC
		d.private = 0
	case b == 0x1b:
		// ESC ESC reports Escape with Alt held.
		evs = append(evs, Event{Type: EventKey, Key: KeyEscape, Mod: ModAlt})
		d.reset()
	case b < 0x20:
		ev := controlEvent(b, ModAlt)
		evs = append(evs, ev)
		d.reset()
	case b >= 0x20 && b < 0x7f:
		evs = append(evs, Event{Type: EventKey, Key: KeyRune, Rune: rune(b), Mod: ModAlt})
		d.reset()
	default:
		d.drop("unknown escape introducer")
		d.reset()
	}
	return evs
}

func (d *Decoder) stepCSI(b byte, evs []Event) []Event {
	switch {
	case b >= '0' && b <= '9':
		d.curParam = d.curParam*10 + int(b-'0')
		d.hasParam = true
	case b == ';':
		d.params = append(d.params, d.curParam)
		d.curParam = 0
		d.hasParam = true
	case b == '?' || b == '<' || b == '>':
		d.private = b
	case b >= 0x40 && b <= 0x7e:
		if d.hasParam {
			d.params = append(d.params, d.curParam)
		}
		evs = d.dispatchCSI(b, evs)
		if d.state == stateCSI {
			d.reset()
		}
		return evs
	default:
		d.drop("malformed CSI byte")
		d.reset()
	}
	return evs
}

func (d *Decoder) stepUTF8(b byte, evs []Event) []Event {
	if b&0xc0 != 0x80 {
		d.drop("truncated UTF-8 sequence")
		d.reset()
		// The byte itself restarts decoding from ground.
		return d.step(b, evs)
	}
	d.utf8Buf[d.utf8Len] = b
	d.utf8Len++
	if d.utf8Len < d.utf8Need {
		return evs
	}
	r, _ := utf8.DecodeRune(d.utf8Buf[:d.utf8Len])
	d.reset()
	if r == utf8.RuneError {
		d.drop("invalid UTF-8 sequence")
		return evs
	}
	return append(evs, Event{Type: EventKey, Key: KeyRune, Rune: r})
}

func (d *Decoder) stepPaste(b byte, evs []Event) []Event {
	d.pasteBuf = append(d.pasteBuf, b)
	if bytes.HasSuffix(d.pasteBuf, pasteEnd) {
		text := string(d.pasteBuf[:len(d.pasteBuf)-len(pasteEnd)])
		d.reset()
		return append(evs, Event{Type: EventPaste, Text: text})
	}
	return evs
}

// param returns the i-th CSI parameter or def when absent.
func (d *Decoder) param(i, def int) int {
	if i >= len(d.params) {
		return def
	}
	return d.params[i]
}

// csiModifier decodes the xterm modifier parameter (1 + bitmask).
func csiModifier(p int) Modifier {
	if p < 2 {
		return ModNone
	}
	bits := p - 1
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

func (d *Decoder) dispatchCSI(final byte, evs []Event) []Event {
	if d.private == '<' && (final == 'M' || final == 'm') {
		return d.dispatchMouse(final, evs)
	}
	if d.private != 0 {
		// Private-mode reports (DECRPM and friends) are terminal chatter,
		// not input.
		d.drop("private CSI report")
		return evs
	}

	mod := csiModifier(d.param(1, 1))
	key := KeyNone

	switch final {
	case 'A':
		key = KeyUp
	case 'B':
		key = KeyDown
	case 'C':
		key = KeyRight
	case 'D':
		key = KeyLeft
	case 'H':
		key = KeyHome
	case 'F':
		key = KeyEnd
	case 'Z':
		return append(evs, Event{Type: EventKey, Key: KeyBacktab, Mod: ModShift})
	case 'P', 'Q', 'R', 'S':
		key = KeyF1 + Key(final-'P')
	case '~':
		return d.dispatchTilde(evs)
	default:
		d.drop("unrecognised CSI final byte")
		return evs
	}
	return append(evs, Event{Type: EventKey, Key: key, Mod: mod})
}

// tildeKeys maps the first parameter of CSI ... ~ sequences to keys.
var tildeKeys = map[int]Key{
	1: KeyHome, 2: KeyInsert, 3: KeyDelete, 4: KeyEnd,
	5: KeyPageUp, 6: KeyPageDown, 7: KeyHome, 8: KeyEnd,
	11: KeyF1, 12: KeyF2, 13: KeyF3, 14: KeyF4, 15: KeyF5,
	17: KeyF6, 18: KeyF7, 19: KeyF8, 20: KeyF9, 21: KeyF10,
	23: KeyF11, 24: KeyF12,
}

func (d *Decoder) dispatchTilde(evs []Event) []Event {
	switch n := d.param(0, 0); n {
	case 200:
		d.reset()
		d.state = statePaste
		d.pasteBuf = d.pasteBuf[:0]
		return evs
	case 201:
		// End marker without a start; nothing to deliver.
		d.drop("stray paste terminator")
		return evs
	default:
		key, ok := tildeKeys[n]
		if !ok {
			d.drop("unrecognised tilde sequence")
			return evs
		}
		return append(evs, Event{Type: EventKey, Key: key, Mod: csiModifier(d.param(1, 1))})
	}
}

// dispatchMouse decodes SGR mouse reports: ESC [ < b ; x ; y M/m.
func (d *Decoder) dispatchMouse(final byte, evs []Event) []Event {
	btn := d.param(0, 0)
	x := d.param(1, 1) - 1
	y := d.param(2, 1) - 1
	if x < 0 || y < 0 {
		d.drop("mouse report out of range")
		return evs
	}

	ev := Event{Type: EventMouse, MouseX: x, MouseY: y}

	if btn&64 != 0 {
		if btn&0x03 == 0 {
			ev.Button = ButtonWheelUp
		} else {
			ev.Button = ButtonWheelDown
		}
		ev.Action = ActionPress
	} else {
		switch btn & 0x03 {
		case 0:
			ev.Button = ButtonLeft
		case 1:
			ev.Button = ButtonMiddle
		case 2:
			ev.Button = ButtonRight
		case 3:
			ev.Button = ButtonNone
		}
		switch {
		case final == 'm':
			ev.Action = ActionRelease
		case btn&32 != 0 && ev.Button == ButtonNone:
			ev.Action = ActionMove
		case btn&32 != 0:
			ev.Action = ActionDrag
		default:
			ev.Action = ActionPress
		}
	}

	if btn&4 != 0 {
		ev.Mod |= ModShift
	}
	if btn&8 != 0 {
		ev.Mod |= ModAlt
	}
	if btn&16 != 0 {
		ev.Mod |= ModCtrl
	}
	return append(evs, ev)
}

// lookupSS3 dispatches application-mode sequences: ESC O <byte>.
func lookupSS3(b byte) []Event {
	var key Key
	switch b {
	case 'A':
		key = KeyUp
	case 'B':
		key = KeyDown
	case 'C':
		key = KeyRight
	case 'D':
		key = KeyLeft
	case 'H':
		key = KeyHome
	case 'F':
		key = KeyEnd
	case 'M':
		key = KeyEnter
	case 'P', 'Q', 'R', 'S':
		key = KeyF1 + Key(b-'P')
	default:
		return nil
	}
	return []Event{{Type: EventKey, Key: key}}
}

// controlEvent maps C0 control bytes. Ctrl-letter combinations normalise
// to the lowercase letter with ModCtrl so applications match on one form.
func controlEvent(b byte, mod Modifier) Event {
	switch b {
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace, Mod: mod}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab, Mod: mod}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter, Mod: mod}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape, Mod: mod}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyRune, Rune: rune('a' + b - 1), Mod: mod | ModCtrl}
	}
	// NUL and the 0x1c-0x1f range map onto their caret notation.
	switch b {
	case 0x00:
		return Event{Type: EventKey, Key: KeyRune, Rune: ' ', Mod: mod | ModCtrl}
	case 0x1c:
		return Event{Type: EventKey, Key: KeyRune, Rune: '\\', Mod: mod | ModCtrl}
	case 0x1d:
		return Event{Type: EventKey, Key: KeyRune, Rune: ']', Mod: mod | ModCtrl}
	case 0x1e:
		return Event{Type: EventKey, Key: KeyRune, Rune: '^', Mod: mod | ModCtrl}
	case 0x1f:
		return Event{Type: EventKey, Key: KeyRune, Rune: '_', Mod: mod | ModCtrl}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	}
	return 0
}
