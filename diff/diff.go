// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: diff/diff.go
// Summary: Computes the minimal terminal operation stream between two screen buffers.
// Usage: Called by the session on every frame to turn a redraw into escape-sequence work.

package diff

import (
	"errors"
	"strings"

	"github.com/tcurse/tcurse/cell"
)

// ErrDimensionMismatch reports a diff between grids of different shapes.
// Callers must resize and redraw before diffing.
var ErrDimensionMismatch = errors.New("diff: grid dimensions differ")

// OpKind identifies one of the three terminal operations a diff produces.
type OpKind uint8

const (
	// OpMove positions the cursor at (Row, Col).
	OpMove OpKind = iota
	// OpSetStyle switches the active style for subsequent writes.
	OpSetStyle
	// OpWrite emits a run of cells sharing the active style at the cursor,
	// advancing it by the run's column width.
	OpWrite
)

// Op is a single terminal operation. The set is closed; consumers switch
// exhaustively on Kind.
type Op struct {
	Kind     OpKind
	Row, Col int         // OpMove
	Style    cell.Style  // OpSetStyle
	Cells    []cell.Cell // OpWrite: leading cells only, continuations implied
}

// Text returns the concatenated grapheme clusters of a write run.
func (o Op) Text() string {
	var b strings.Builder
	for _, c := range o.Cells {
		b.WriteString(c.Text)
	}
	return b.String()
}

// Columns returns the display width of a write run.
func (o Op) Columns() int {
	n := 0
	for _, c := range o.Cells {
		n += c.Width
	}
	return n
}

// Diff compares the previously committed grid against the newly drawn one
// and returns the ordered operations that transform a terminal showing
// prev into one showing next. The scan is row-major: unchanged spans are
// skipped with a single cursor move, and changed cells sharing a style
// coalesce into one write run. Within a contiguous changed span a style
// change emits OpSetStyle without repositioning, trading attribute
// sequences for cursor moves. Diff is pure; neither grid is modified.
func Diff(prev, next *cell.Grid) ([]Op, error) {
	if prev.Rows() != next.Rows() || prev.Cols() != next.Cols() {
		return nil, ErrDimensionMismatch
	}

	var ops []Op
	var style cell.Style
	styleValid := false
	curRow, curCol := -1, -1

	rows, cols := next.Rows(), next.Cols()
	dirty := make([]bool, cols)

	for row := 0; row < rows; row++ {
		p, n := prev.Row(row), next.Row(row)

		anyDirty := false
		for col := 0; col < cols; col++ {
			dirty[col] = p[col] != n[col]
			anyDirty = anyDirty || dirty[col]
		}
		if !anyDirty {
			continue
		}
		// A changed continuation redraws its leading wide cell, and a
		// changed lead covers its continuation.
		for col := 1; col < cols; col++ {
			if n[col].IsContinuation() && dirty[col] {
				dirty[col-1] = true
			}
		}

		col := 0
		for col < cols {
			if n[col].IsContinuation() || !dirty[col] {
				col++
				continue
			}

			if curRow != row || curCol != col {
				ops = append(ops, Op{Kind: OpMove, Row: row, Col: col})
				curRow, curCol = row, col
			}

			// Consume the contiguous dirty span, splitting into runs of
			// shared style.
			for col < cols && dirty[col] && !n[col].IsContinuation() {
				if !styleValid || n[col].Style != style {
					style = n[col].Style
					styleValid = true
					ops = append(ops, Op{Kind: OpSetStyle, Style: style})
				}
				run := Op{Kind: OpWrite}
				for col < cols && dirty[col] && !n[col].IsContinuation() && n[col].Style == style {
					run.Cells = append(run.Cells, n[col])
					w := n[col].Width
					if w < 1 {
						w = 1
					}
					col += w
					curCol += w
				}
				ops = append(ops, run)
			}
		}
	}
	return ops, nil
}
