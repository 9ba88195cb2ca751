//go:build unix

// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/encoder_test.go
// Summary: Verifies escape-sequence encoding without a real terminal.
// Usage: Executed during `go test` to guard against regressions.

package term

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/tcurse/tcurse/cell"
	"github.com/tcurse/tcurse/diff"
)

// testDriver builds a driver writing into buf, skipping Open.
func testDriver(buf *bytes.Buffer, mode ColorMode) *Driver {
	return &Driver{w: bufio.NewWriterSize(buf, 4096), colorMode: mode}
}

func opsFor(t *testing.T, prev, next *cell.Grid) []diff.Op {
	t.Helper()
	ops, err := diff.Diff(prev, next)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	return ops
}

func TestCommitEncodesMoveStyleWrite(t *testing.T) {
	var buf bytes.Buffer
	d := testDriver(&buf, ColorMode16)

	prev := cell.NewGrid(3, 10)
	next := cell.NewGrid(3, 10)
	next.SetContent(1, 2, "hi", cell.Style{Fg: cell.ColorRed, Attr: cell.AttrBold})

	if err := d.Commit(opsFor(t, prev, next), Cursor{}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "\x1b[2;3H") {
		t.Fatalf("missing cursor move in %q", out)
	}
	if !strings.Contains(out, "\x1b[0;1;31m") {
		t.Fatalf("missing SGR in %q", out)
	}
	if !strings.Contains(out, "hi") {
		t.Fatalf("missing text in %q", out)
	}
	// Hidden cursor is restated at the end of the commit.
	if !strings.HasSuffix(out, string(seqCursorHide)) {
		t.Fatalf("commit did not end with cursor state: %q", out)
	}
}

func TestCommitVisibleCursor(t *testing.T) {
	var buf bytes.Buffer
	d := testDriver(&buf, ColorMode16)
	if err := d.Commit(nil, Cursor{Row: 4, Col: 7, Visible: true}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[5;8H") || !strings.HasSuffix(out, string(seqCursorShow)) {
		t.Fatalf("cursor not positioned and shown: %q", out)
	}
}

func TestCommitSkipsRedundantStyle(t *testing.T) {
	var buf bytes.Buffer
	d := testDriver(&buf, ColorMode16)

	style := cell.Style{Fg: cell.ColorGreen}
	ops := []diff.Op{
		{Kind: diff.OpSetStyle, Style: style},
		{Kind: diff.OpWrite, Cells: []cell.Cell{cell.New("a", style)}},
		{Kind: diff.OpSetStyle, Style: style},
		{Kind: diff.OpWrite, Cells: []cell.Cell{cell.New("b", style)}},
	}
	if err := d.Commit(ops, Cursor{}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if n := strings.Count(buf.String(), "\x1b[0;32m"); n != 1 {
		t.Fatalf("expected 1 SGR write, found %d in %q", n, buf.String())
	}
}

func TestStyleEncodingPerMode(t *testing.T) {
	style := cell.Style{Fg: cell.ColorRGB(255, 0, 0), Bg: cell.Color256(28)}
	cases := []struct {
		mode ColorMode
		want []string
		ban  []string
	}{
		{ColorModeTrueColor, []string{"38;2;255;0;0", "48;5;28"}, nil},
		{ColorMode256, []string{"38;5;196", "48;5;28"}, []string{"38;2"}},
		{ColorModeMono, nil, []string{"38;", "48;", "3;"}},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		d := testDriver(&buf, tc.mode)
		d.Commit([]diff.Op{{Kind: diff.OpSetStyle, Style: style}}, Cursor{})
		out := buf.String()
		for _, w := range tc.want {
			if !strings.Contains(out, w) {
				t.Fatalf("mode %d: missing %q in %q", tc.mode, w, out)
			}
		}
		for _, b := range tc.ban {
			if strings.Contains(out, b) {
				t.Fatalf("mode %d: unexpected %q in %q", tc.mode, b, out)
			}
		}
	}
}

func TestCommitAfterCloseFails(t *testing.T) {
	var buf bytes.Buffer
	d := testDriver(&buf, ColorMode16)
	d.closed.Store(true)
	if err := d.Commit(nil, Cursor{}); err != ErrSessionClosed {
		t.Fatalf("got %v, want ErrSessionClosed", err)
	}
}

func TestWriteIntThroughMoves(t *testing.T) {
	var buf bytes.Buffer
	d := testDriver(&buf, ColorMode16)
	ops := []diff.Op{{Kind: diff.OpMove, Row: 122, Col: 6}}
	if err := d.Commit(ops, Cursor{}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[123;7H") {
		t.Fatalf("large coordinates mis-encoded: %q", buf.String())
	}
}

func TestWriteIntLargeValues(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{-3, "0"},
		{7, "7"},
		{42, "42"},
		{65535, "65535"},
		{12345678, "12345678"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		w := bufio.NewWriter(&buf)
		writeInt(w, tc.n)
		w.Flush()
		if buf.String() != tc.want {
			t.Fatalf("writeInt(%d) = %q, want %q", tc.n, buf.String(), tc.want)
		}
	}
}
