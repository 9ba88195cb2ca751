// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cell/grid_test.go
// Summary: Exercises grid bounds, wide-cell handling and content writes.
// Usage: Executed during `go test` to guard against regressions.

package cell

import (
	"errors"
	"testing"
)

func TestNewGridBlank(t *testing.T) {
	g := NewGrid(3, 4)
	if g.Rows() != 3 || g.Cols() != 4 {
		t.Fatalf("unexpected dimensions %dx%d", g.Rows(), g.Cols())
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			got, err := g.Get(r, c)
			if err != nil {
				t.Fatalf("get (%d,%d): %v", r, c, err)
			}
			if got != Blank() {
				t.Fatalf("cell (%d,%d) not blank: %#v", r, c, got)
			}
		}
	}
}

func TestNewGridClampsNegative(t *testing.T) {
	g := NewGrid(-1, -5)
	if g.Rows() != 0 || g.Cols() != 0 {
		t.Fatalf("negative dimensions not clamped: %dx%d", g.Rows(), g.Cols())
	}
}

func TestSetOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2)
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if err := g.Set(pos[0], pos[1], Blank()); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("set (%d,%d): got %v, want ErrOutOfBounds", pos[0], pos[1], err)
		}
	}
}

func TestSetWideAtLastColumn(t *testing.T) {
	g := NewGrid(1, 4)
	wide := New("世", StyleDefault)
	if wide.Width != 2 {
		t.Fatalf("expected width 2, got %d", wide.Width)
	}
	if err := g.Set(0, 3, wide); !errors.Is(err, ErrInsufficientWidth) {
		t.Fatalf("got %v, want ErrInsufficientWidth", err)
	}
	// The failed write must leave the grid untouched.
	for c := 0; c < 4; c++ {
		got, _ := g.Get(0, c)
		if got != Blank() {
			t.Fatalf("cell %d modified by failed write: %#v", c, got)
		}
	}
}

func TestSetWideLaysContinuation(t *testing.T) {
	g := NewGrid(1, 4)
	style := Style{Fg: ColorRed, Attr: AttrBold}
	if err := g.Set(0, 1, New("漢", style)); err != nil {
		t.Fatalf("set: %v", err)
	}
	lead, _ := g.Get(0, 1)
	cont, _ := g.Get(0, 2)
	if lead.Text != "漢" || lead.Width != 2 {
		t.Fatalf("bad lead: %#v", lead)
	}
	if !cont.IsContinuation() || cont.Style != style {
		t.Fatalf("bad continuation: %#v", cont)
	}
}

func TestSetClobbersWideNeighbours(t *testing.T) {
	g := NewGrid(1, 4)
	if err := g.Set(0, 0, New("世", StyleDefault)); err != nil {
		t.Fatalf("set wide: %v", err)
	}

	// Overwriting the continuation half blanks the lead.
	if err := g.Set(0, 1, New("x", StyleDefault)); err != nil {
		t.Fatalf("set over continuation: %v", err)
	}
	lead, _ := g.Get(0, 0)
	if lead.Text != " " || lead.Width != 1 {
		t.Fatalf("lead not blanked: %#v", lead)
	}

	// Overwriting a lead blanks its continuation.
	g.Clear()
	g.Set(0, 1, New("世", StyleDefault))
	g.Set(0, 1, New("y", StyleDefault))
	cont, _ := g.Get(0, 2)
	if cont.IsContinuation() {
		t.Fatalf("continuation orphaned: %#v", cont)
	}
}

func TestSetContent(t *testing.T) {
	g := NewGrid(1, 10)
	style := Style{Fg: ColorGreen}
	n, err := g.SetContent(0, 0, "a界b", style)
	if err != nil {
		t.Fatalf("set content: %v", err)
	}
	if n != 4 {
		t.Fatalf("wrote %d columns, want 4", n)
	}
	for i, want := range []struct {
		text  string
		width int
	}{{"a", 1}, {"界", 2}, {"", 0}, {"b", 1}} {
		got, _ := g.Get(0, i)
		if got.Text != want.text || got.Width != want.width {
			t.Fatalf("cell %d: got %q/%d, want %q/%d", i, got.Text, got.Width, want.text, want.width)
		}
	}
}

func TestSetContentStopsAtRowEnd(t *testing.T) {
	g := NewGrid(1, 3)
	n, err := g.SetContent(0, 0, "abcdef", StyleDefault)
	if err != nil {
		t.Fatalf("set content: %v", err)
	}
	if n != 3 {
		t.Fatalf("wrote %d columns, want 3", n)
	}
}

func TestSetContentWideDoesNotFit(t *testing.T) {
	g := NewGrid(1, 3)
	n, err := g.SetContent(0, 0, "ab界", StyleDefault)
	if !errors.Is(err, ErrInsufficientWidth) {
		t.Fatalf("got %v, want ErrInsufficientWidth", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d columns before failing, want 2", n)
	}
}

func TestSetContentCombiningMark(t *testing.T) {
	g := NewGrid(1, 4)
	// "e" followed by a combining acute accent forms one cluster.
	n, err := g.SetContent(0, 0, "éx", StyleDefault)
	if err != nil {
		t.Fatalf("set content: %v", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d columns, want 2", n)
	}
	got, _ := g.Get(0, 0)
	if got.Text != "é" {
		t.Fatalf("cluster split: %q", got.Text)
	}
}

func TestResizeClears(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, New("x", StyleDefault))
	g.Resize(3, 5)
	if g.Rows() != 3 || g.Cols() != 5 {
		t.Fatalf("resize to %dx%d failed", g.Rows(), g.Cols())
	}
	got, _ := g.Get(0, 0)
	if got != Blank() {
		t.Fatalf("resize preserved content: %#v", got)
	}
}

func TestCopyFrom(t *testing.T) {
	a := NewGrid(2, 3)
	a.SetContent(1, 0, "abc", StyleDefault)
	b := NewGrid(2, 3)
	b.CopyFrom(a)
	got, _ := b.Get(1, 1)
	if got.Text != "b" {
		t.Fatalf("copy missed content: %#v", got)
	}
	// Mutating the copy must not touch the source.
	b.Set(1, 1, New("z", StyleDefault))
	orig, _ := a.Get(1, 1)
	if orig.Text != "b" {
		t.Fatalf("copy aliases source: %#v", orig)
	}
}

func TestNewTruncatesToFirstCluster(t *testing.T) {
	c := New("abc", StyleDefault)
	if c.Text != "a" || c.Width != 1 {
		t.Fatalf("expected first cluster only, got %#v", c)
	}
	empty := New("", StyleDefault)
	if empty.Text != " " || empty.Width != 1 {
		t.Fatalf("empty text should produce a blank: %#v", empty)
	}
}
