// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: doc.go
// Summary: Package documentation for the tcurse terminal core.
// Usage: Documentation only.

// Package tcurse is a terminal user-interface core: a screen-buffer
// model, a diff-based renderer and a terminal input decoder.
//
// An application enters a session, draws full frames into a cell.Grid,
// and hands each frame to Session.Draw. The session diffs the frame
// against the last committed one and writes the minimal escape-sequence
// stream to the terminal in a single flush. Input is decoded
// concurrently into an ordered event queue drained with
// Session.PollEvent.
//
//	sess, err := tcurse.EnterSession()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sess.Exit()
//
//	rows, cols := sess.Size()
//	frame := cell.NewGrid(rows, cols)
//	frame.SetContent(0, 0, "hello", cell.StyleDefault)
//	sess.Draw(frame)
//
//	for {
//		ev, ok := sess.PollEvent(-1)
//		if !ok || (ev.Type == input.EventKey && ev.Key == input.KeyEscape) {
//			break
//		}
//	}
//
// Higher-level widget or layout frameworks are out of scope; tcurse
// stays at the buffer, diff and input layer.
package tcurse
