//go:build unix

// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tcurse-demo/main.go
// Summary: Interactive smoke test for the session, renderer and decoder.
// Usage: Run from a terminal; press q or Escape to leave.

package main

import (
	"fmt"
	"log"

	"github.com/tcurse/tcurse"
	"github.com/tcurse/tcurse/cell"
	"github.com/tcurse/tcurse/input"
)

func main() {
	sess, err := tcurse.EnterSession(tcurse.WithMouse(), tcurse.WithBracketedPaste())
	if err != nil {
		log.Fatalf("tcurse-demo: %v", err)
	}
	defer sess.Exit()

	rows, cols := sess.Size()
	frame := cell.NewGrid(rows, cols)

	status := "press keys, click around; q or Escape quits"
	mouseRow, mouseCol := -1, -1

	for {
		frame.Clear()
		title := cell.Style{Fg: cell.ColorCyan, Attr: cell.AttrBold}
		frame.SetContent(0, 0, fmt.Sprintf("tcurse demo %dx%d", rows, cols), title)
		frame.SetContent(2, 0, status, cell.StyleDefault)
		if mouseRow >= 0 {
			frame.Set(mouseRow, mouseCol, cell.New("▉", cell.Style{Fg: cell.ColorYellow}))
		}
		if err := sess.Draw(frame); err != nil {
			log.Fatalf("tcurse-demo: draw: %v", err)
		}

		ev, ok := sess.PollEvent(-1)
		if !ok {
			return
		}
		switch ev.Type {
		case input.EventKey:
			if ev.Key == input.KeyEscape || (ev.Key == input.KeyRune && ev.Rune == 'q') {
				return
			}
			if ev.Key == input.KeyRune && ev.Mod&input.ModCtrl != 0 && ev.Rune == 'c' {
				return
			}
			status = fmt.Sprintf("key: %v rune: %q mod: %03b", ev.Key, ev.Rune, ev.Mod)
		case input.EventMouse:
			mouseRow, mouseCol = ev.MouseY, ev.MouseX
			status = fmt.Sprintf("mouse: (%d,%d) button %d action %d", ev.MouseX, ev.MouseY, ev.Button, ev.Action)
		case input.EventPaste:
			status = fmt.Sprintf("pasted %d bytes", len(ev.Text))
		case input.EventResize:
			if rows, cols, err = sess.Resize(); err != nil {
				log.Fatalf("tcurse-demo: resize: %v", err)
			}
			frame.Resize(rows, cols)
			status = fmt.Sprintf("resized to %dx%d", rows, cols)
		}
	}
}
