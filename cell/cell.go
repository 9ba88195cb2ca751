// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cell/cell.go
// Summary: Defines the cell, color and style types that make up screen buffers.
// Usage: Used by the grid, the diff engine and the renderer to describe screen content.

package cell

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ColorMode selects how a Color value is interpreted.
type ColorMode uint8

const (
	// ColorModeDefault leaves the terminal's default color in place.
	ColorModeDefault ColorMode = iota
	// ColorModeStandard is one of the 16 basic ANSI colors (Value 0-15).
	ColorModeStandard
	// ColorMode256 is an xterm 256-color palette index (Value 0-255).
	ColorMode256
	// ColorModeRGB is a 24-bit color (R, G, B).
	ColorModeRGB
)

// Color describes a foreground or background color.
type Color struct {
	Mode    ColorMode
	Value   uint8
	R, G, B uint8
}

// ColorDefault is the terminal's own default color.
var ColorDefault = Color{Mode: ColorModeDefault}

// Basic 8 ANSI colors plus their bright variants (Value 8-15).
var (
	ColorBlack   = Color{Mode: ColorModeStandard, Value: 0}
	ColorRed     = Color{Mode: ColorModeStandard, Value: 1}
	ColorGreen   = Color{Mode: ColorModeStandard, Value: 2}
	ColorYellow  = Color{Mode: ColorModeStandard, Value: 3}
	ColorBlue    = Color{Mode: ColorModeStandard, Value: 4}
	ColorMagenta = Color{Mode: ColorModeStandard, Value: 5}
	ColorCyan    = Color{Mode: ColorModeStandard, Value: 6}
	ColorWhite   = Color{Mode: ColorModeStandard, Value: 7}
)

// Color256 returns a color addressing the xterm 256-color palette.
func Color256(index uint8) Color {
	return Color{Mode: ColorMode256, Value: index}
}

// ColorRGB returns a 24-bit color.
func ColorRGB(r, g, b uint8) Color {
	return Color{Mode: ColorModeRGB, R: r, G: g, B: b}
}

// Attr defines a single text attribute as a bitmask.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
)

// Style bundles the colors and attributes applied to a cell.
type Style struct {
	Fg   Color
	Bg   Color
	Attr Attr
}

// StyleDefault renders with the terminal's default colors and no attributes.
var StyleDefault = Style{Fg: ColorDefault, Bg: ColorDefault}

// Cell represents a single character cell on the screen. Text holds one
// grapheme cluster; Width is its display width in columns. A wide cell
// (Width 2) occupies two grid slots, the second being a continuation
// cell with Width 0 and empty Text.
type Cell struct {
	Text  string
	Style Style
	Width int
}

// Blank returns the default empty cell used to clear buffers.
func Blank() Cell {
	return Cell{Text: " ", Style: StyleDefault, Width: 1}
}

// New builds a cell from the first grapheme cluster of text. Widths above
// two collapse to two since no terminal renders wider glyphs.
func New(text string, style Style) Cell {
	g := uniseg.NewGraphemes(text)
	if !g.Next() {
		return Cell{Text: " ", Style: style, Width: 1}
	}
	cluster := g.Str()
	w := runewidth.StringWidth(cluster)
	if w > 2 {
		w = 2
	}
	return Cell{Text: cluster, Style: style, Width: w}
}

// IsContinuation reports whether the cell is the trailing half of a wide cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Text == ""
}
