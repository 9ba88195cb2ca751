// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: diff/replay.go
// Summary: Applies an operation stream to an in-memory terminal model.
// Usage: Backs the diff correctness tests; no terminal required.

package diff

import "github.com/tcurse/tcurse/cell"

// Terminal is a simulated terminal screen: a grid plus cursor and active
// style. Replaying a diff against the previous frame's content must yield
// the next frame exactly.
type Terminal struct {
	grid     *cell.Grid
	row, col int
	style    cell.Style
}

// NewTerminal builds a simulated terminal initialised with a copy of src.
func NewTerminal(src *cell.Grid) *Terminal {
	g := cell.NewGrid(src.Rows(), src.Cols())
	g.CopyFrom(src)
	return &Terminal{grid: g}
}

// Grid exposes the simulated screen content.
func (t *Terminal) Grid() *cell.Grid { return t.grid }

// Apply replays a single operation.
func (t *Terminal) Apply(op Op) error {
	switch op.Kind {
	case OpMove:
		t.row, t.col = op.Row, op.Col
	case OpSetStyle:
		t.style = op.Style
	case OpWrite:
		for _, c := range op.Cells {
			c.Style = t.style
			if err := t.grid.Set(t.row, t.col, c); err != nil {
				return err
			}
			w := c.Width
			if w < 1 {
				w = 1
			}
			t.col += w
		}
	}
	return nil
}

// Replay applies a whole operation stream in order.
func (t *Terminal) Replay(ops []Op) error {
	for _, op := range ops {
		if err := t.Apply(op); err != nil {
			return err
		}
	}
	return nil
}
