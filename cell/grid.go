// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cell/grid.go
// Summary: Implements the fixed-size screen buffer the application draws into.
// Usage: One grid per frame on the draw side, one committed grid inside the session.

package cell

import (
	"errors"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

var (
	// ErrOutOfBounds reports a coordinate outside the grid dimensions.
	ErrOutOfBounds = errors.New("cell: coordinate out of bounds")
	// ErrInsufficientWidth reports a wide grapheme written where only one
	// column remains.
	ErrInsufficientWidth = errors.New("cell: insufficient width for wide grapheme")
)

// Grid is a fixed-size 2D buffer of cells. Dimensions change only through
// Resize. A grid has no locking of its own; it is owned by a single draw
// cycle at a time.
type Grid struct {
	rows, cols int
	cells      [][]Cell
}

// NewGrid creates a grid of the given dimensions, cleared to blank cells.
// Negative dimensions are clamped to zero.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{}
	g.Resize(rows, cols)
	return g
}

// Rows returns the grid height.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the grid width.
func (g *Grid) Cols() int { return g.cols }

// Resize reallocates the grid to the new dimensions and clears it to blank
// cells. No content is preserved; the caller must redraw.
func (g *Grid) Resize(rows, cols int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	g.rows, g.cols = rows, cols
	g.cells = make([][]Cell, rows)
	for r := range g.cells {
		row := make([]Cell, cols)
		for c := range row {
			row[c] = Blank()
		}
		g.cells[r] = row
	}
}

// Clear resets every cell to the blank default.
func (g *Grid) Clear() {
	g.Fill(Blank())
}

// Fill sets every cell to c. Wide cells are rejected by writing their
// leading half only when they fit; in practice Fill is used with
// single-width cells.
func (g *Grid) Fill(c Cell) {
	for r := range g.cells {
		for i := range g.cells[r] {
			g.cells[r][i] = c
		}
	}
}

// Get returns the cell at (row, col).
func (g *Grid) Get(row, col int) (Cell, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}, ErrOutOfBounds
	}
	return g.cells[row][col], nil
}

// Set writes a cell at (row, col). Writing a wide cell at the last column
// fails with ErrInsufficientWidth and leaves the grid unmodified. Writing
// over either half of an existing wide cell blanks the other half so no
// orphaned continuation survives.
func (g *Grid) Set(row, col int, c Cell) error {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return ErrOutOfBounds
	}
	if c.Width == 2 && col == g.cols-1 {
		return ErrInsufficientWidth
	}

	g.clobber(row, col)
	if c.Width == 2 {
		g.clobber(row, col+1)
		g.cells[row][col] = c
		g.cells[row][col+1] = Cell{Style: c.Style, Width: 0}
		return nil
	}
	g.cells[row][col] = c
	return nil
}

// clobber breaks up any wide cell overlapping (row, col) before a write.
func (g *Grid) clobber(row, col int) {
	cur := g.cells[row][col]
	if cur.IsContinuation() && col > 0 && g.cells[row][col-1].Width == 2 {
		lead := g.cells[row][col-1]
		g.cells[row][col-1] = Cell{Text: " ", Style: lead.Style, Width: 1}
	}
	if cur.Width == 2 && col+1 < g.cols {
		g.cells[row][col+1] = Cell{Text: " ", Style: cur.Style, Width: 1}
	}
}

// SetContent writes a string starting at (row, col), splitting it into
// grapheme clusters and laying continuation cells after wide clusters.
// Zero-width clusters attach to the preceding cell. It returns the number
// of columns written. Writing stops at the end of the row; a wide cluster
// that no longer fits stops the write with ErrInsufficientWidth.
func (g *Grid) SetContent(row, col int, text string, style Style) (int, error) {
	if row < 0 || row >= g.rows || col < 0 || col > g.cols {
		return 0, ErrOutOfBounds
	}
	written := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		w := runewidth.StringWidth(cluster)
		if w > 2 {
			w = 2
		}
		if w == 0 {
			// Combining mark without a base in this cluster; attach it
			// to the previous cell when there is one.
			at := col + written - 1
			if at >= 0 && at < g.cols && !g.cells[row][at].IsContinuation() {
				g.cells[row][at].Text += cluster
			}
			continue
		}
		if col+written >= g.cols {
			return written, nil
		}
		c := Cell{Text: cluster, Style: style, Width: w}
		if err := g.Set(row, col+written, c); err != nil {
			return written, err
		}
		written += w
	}
	return written, nil
}

// Row returns the backing slice for a row. Callers must not resize it.
func (g *Grid) Row(row int) []Cell {
	if row < 0 || row >= g.rows {
		return nil
	}
	return g.cells[row]
}

// CopyFrom replaces the contents of g with those of src. The grids must
// already share dimensions; mismatched sources are ignored.
func (g *Grid) CopyFrom(src *Grid) {
	if src == nil || src.rows != g.rows || src.cols != g.cols {
		return
	}
	for r := range g.cells {
		copy(g.cells[r], src.cells[r])
	}
}
