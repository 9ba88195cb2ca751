//go:build unix

// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/ansi.go
// Summary: Pre-built ANSI control fragments and allocation-free integer writing.
// Usage: Shared by the driver and the operation encoder.

package term

import "bufio"

var (
	seqCSI   = []byte("\x1b[")
	seqSGR0  = []byte("\x1b[0m")
	seqClear = []byte("\x1b[2J\x1b[H")
	seqRIS   = []byte("\x1bc")

	seqCursorHide = []byte("\x1b[?25l")
	seqCursorShow = []byte("\x1b[?25h")

	seqAltScreenEnter = []byte("\x1b[?1049h")
	seqAltScreenExit  = []byte("\x1b[?1049l")

	// DECAWM off keeps the cursor parked at the right edge so writing the
	// bottom-right cell cannot scroll the screen.
	seqAutoWrapOn  = []byte("\x1b[?7h")
	seqAutoWrapOff = []byte("\x1b[?7l")

	seqPasteOn  = []byte("\x1b[?2004h")
	seqPasteOff = []byte("\x1b[?2004l")

	seqMouseOn  = []byte("\x1b[?1000h\x1b[?1002h\x1b[?1006h")
	seqMouseOff = []byte("\x1b[?1006l\x1b[?1002l\x1b[?1000l")
)

// writeInt writes n in decimal without allocating. Terminal parameters
// rarely exceed three digits.
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorPos emits CUP for a 0-indexed position.
func writeCursorPos(w *bufio.Writer, row, col int) {
	w.Write(seqCSI)
	writeInt(w, row+1)
	w.WriteByte(';')
	writeInt(w, col+1)
	w.WriteByte('H')
}
