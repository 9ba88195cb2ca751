//go:build unix

// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/encoder.go
// Summary: Translates diff operations into escape sequences in a single
//          buffered, atomically flushed write.
// Usage: Called by Session.Draw with the diff engine's output.

package term

import (
	"github.com/tcurse/tcurse/cell"
	"github.com/tcurse/tcurse/diff"
)

// sgrState is the flattened style most recently emitted, used to skip
// redundant SGR sequences between commits.
type sgrState struct {
	style cell.Style
}

// Commit writes the operation sequence and the cursor state as one
// buffered write, flushed once at the end. The underlying file may
// fragment the flush; bufio retries short writes, so from the caller's
// side the commit is all-or-nothing.
func (d *Driver) Commit(ops []diff.Op, cur Cursor) error {
	if d.closed.Load() {
		return ErrSessionClosed
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, op := range ops {
		switch op.Kind {
		case diff.OpMove:
			writeCursorPos(d.w, op.Row, op.Col)
		case diff.OpSetStyle:
			d.writeStyle(op.Style)
		case diff.OpWrite:
			for _, c := range op.Cells {
				d.w.WriteString(c.Text)
			}
		}
	}

	if cur.Visible {
		writeCursorPos(d.w, cur.Row, cur.Col)
		d.w.Write(seqCursorShow)
	} else {
		d.w.Write(seqCursorHide)
	}
	return d.w.Flush()
}

// Clear wipes the terminal with the default style.
func (d *Driver) Clear() error {
	if d.closed.Load() {
		return ErrSessionClosed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.w.Write(seqSGR0)
	d.w.Write(seqClear)
	d.styleValid = false
	return d.w.Flush()
}

// writeStyle emits a full SGR for the style when it differs from the
// last one written. A single combined sequence beats separate attribute
// and color writes on every terminal we care about.
func (d *Driver) writeStyle(s cell.Style) {
	if d.styleValid && d.lastStyle.style == s {
		return
	}
	d.lastStyle.style = s
	d.styleValid = true

	w := d.w
	w.Write(seqCSI)
	w.WriteByte('0')
	attr := s.Attr
	if attr&cell.AttrBold != 0 {
		w.WriteString(";1")
	}
	if attr&cell.AttrDim != 0 {
		w.WriteString(";2")
	}
	if attr&cell.AttrItalic != 0 {
		w.WriteString(";3")
	}
	if attr&cell.AttrUnderline != 0 {
		w.WriteString(";4")
	}
	if attr&cell.AttrBlink != 0 {
		w.WriteString(";5")
	}
	if attr&cell.AttrReverse != 0 {
		w.WriteString(";7")
	}
	if d.colorMode != ColorModeMono {
		d.writeColor(s.Fg, false)
		d.writeColor(s.Bg, true)
	}
	w.WriteByte('m')
}

// writeColor appends the SGR parameters for one color, downsampling to
// the active color mode.
func (d *Driver) writeColor(c cell.Color, background bool) {
	w := d.w
	c = d.downsample(c)
	switch c.Mode {
	case cell.ColorModeDefault:
		// SGR 0 above already selected the defaults.
	case cell.ColorModeStandard:
		base := 30
		v := int(c.Value)
		if v >= 8 {
			base = 90
			v -= 8
		}
		if background {
			base += 10
		}
		w.WriteByte(';')
		writeInt(w, base+v)
	case cell.ColorMode256:
		if background {
			w.WriteString(";48;5;")
		} else {
			w.WriteString(";38;5;")
		}
		writeInt(w, int(c.Value))
	case cell.ColorModeRGB:
		if background {
			w.WriteString(";48;2;")
		} else {
			w.WriteString(";38;2;")
		}
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
	}
}

// downsample folds a color onto what the terminal can actually show.
func (d *Driver) downsample(c cell.Color) cell.Color {
	switch d.colorMode {
	case ColorModeTrueColor:
		return c
	case ColorMode256:
		if c.Mode == cell.ColorModeRGB {
			return cell.Color256(nearest256(c.R, c.G, c.B))
		}
		return c
	case ColorMode16:
		switch c.Mode {
		case cell.ColorModeRGB:
			return cell.Color{Mode: cell.ColorModeStandard, Value: nearest16(c.R, c.G, c.B)}
		case cell.ColorMode256:
			e := xterm256[c.Value]
			return cell.Color{Mode: cell.ColorModeStandard, Value: nearest16(e[0], e[1], e[2])}
		}
		return c
	default:
		return cell.ColorDefault
	}
}
