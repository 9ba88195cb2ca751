//go:build unix

// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/driver_test.go
// Summary: Exercises the crash-path terminal restoration against a real pty.
// Usage: Executed during `go test`; skipped where no pty is available.

package term

import (
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	xterm "golang.org/x/term"
)

func TestEmergencyRestoreResetsTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	var mu sync.Mutex
	var out strings.Builder
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				mu.Lock()
				out.Write(buf[:n])
				mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	captured := func() string {
		mu.Lock()
		defer mu.Unlock()
		return out.String()
	}

	fd := int(tty.Fd())
	before, err := xterm.GetState(fd)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}

	d, err := Open(Options{Input: tty, Output: tty, Mouse: true, BracketedPaste: true, Colors: ColorMode16})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	d.EmergencyRestore()

	after, err := xterm.GetState(fd)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("termios not restored: %#v vs %#v", before, after)
	}

	// The hard reset and alternate-screen exit must reach the terminal.
	deadline := time.Now().Add(2 * time.Second)
	for _, want := range []string{"\x1b[?1049l", "\x1bc"} {
		for !strings.Contains(captured(), want) {
			if time.Now().After(deadline) {
				t.Fatalf("output never contained %q: %q", want, captured())
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	// The singleton is released; a fresh session can open.
	d2, err := Open(Options{Input: tty, Output: tty, Colors: ColorMode16})
	if err != nil {
		t.Fatalf("reopen after emergency restore: %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
