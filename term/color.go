// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/color.go
// Summary: Terminal color capability detection and palette downsampling.
// Usage: The encoder consults the detected mode before emitting SGR colors.

package term

import (
	"os"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorMode is the color depth the driver will emit.
type ColorMode uint8

const (
	// ColorModeAuto detects the depth from the environment at open time.
	ColorModeAuto ColorMode = iota
	// ColorModeMono emits no color sequences at all.
	ColorModeMono
	// ColorMode16 restricts output to the 16 basic ANSI colors.
	ColorMode16
	// ColorMode256 emits xterm 256-color palette indices.
	ColorMode256
	// ColorModeTrueColor emits 24-bit SGR sequences.
	ColorModeTrueColor
)

// DetectColorMode inspects TERM and COLORTERM the way the rest of the
// ecosystem does: COLORTERM=truecolor wins, "256color" in TERM selects
// the palette, a bare or dumb TERM drops to mono.
func DetectColorMode() ColorMode {
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}
	t := os.Getenv("TERM")
	switch {
	case t == "" || t == "dumb":
		return ColorModeMono
	case strings.Contains(t, "256color"):
		return ColorMode256
	case strings.Contains(t, "truecolor") || strings.Contains(t, "direct"):
		return ColorModeTrueColor
	}
	return ColorMode16
}

// xterm256 holds the reference palette used for downsampling: the 16
// standard colors, the 6x6x6 cube and the 24-step gray ramp.
var xterm256 = buildPalette()

func buildPalette() [256][3]uint8 {
	var p [256][3]uint8
	base := [16][3]uint8{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	copy(p[:16], base[:])
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[16+36*r+6*g+b] = [3]uint8{steps[r], steps[g], steps[b]}
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		p[232+i] = [3]uint8{v, v, v}
	}
	return p
}

var (
	nearestMu    sync.Mutex
	nearestCache = map[uint32]uint8{}
)

// nearest256 maps an RGB triple onto the closest xterm palette entry by
// perceptual distance. Results are memoised; a frame tends to reuse a
// handful of colors.
func nearest256(r, g, b uint8) uint8 {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	nearestMu.Lock()
	if idx, ok := nearestCache[key]; ok {
		nearestMu.Unlock()
		return idx
	}
	nearestMu.Unlock()

	want := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, bestDist := uint8(0), -1.0
	// Skip the first 16 entries: their actual rendering varies per
	// terminal theme, so matching against them distorts colors.
	for i := 16; i < 256; i++ {
		e := xterm256[i]
		have := colorful.Color{R: float64(e[0]) / 255, G: float64(e[1]) / 255, B: float64(e[2]) / 255}
		d := want.DistanceLab(have)
		if bestDist < 0 || d < bestDist {
			best, bestDist = uint8(i), d
		}
	}

	nearestMu.Lock()
	nearestCache[key] = best
	nearestMu.Unlock()
	return best
}

// nearest16 folds a palette index or RGB value down to the basic colors
// for 16-color terminals.
func nearest16(r, g, b uint8) uint8 {
	want := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, bestDist := uint8(0), -1.0
	for i := 0; i < 16; i++ {
		e := xterm256[i]
		have := colorful.Color{R: float64(e[0]) / 255, G: float64(e[1]) / 255, B: float64(e[2]) / 255}
		d := want.DistanceLab(have)
		if bestDist < 0 || d < bestDist {
			best, bestDist = uint8(i), d
		}
	}
	return best
}
