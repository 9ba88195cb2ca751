// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/color_test.go
// Summary: Verifies color capability detection and palette downsampling.
// Usage: Executed during `go test` to guard against regressions.

package term

import "testing"

func TestNearest256ExactEntries(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint8
	}{
		{255, 0, 0, 196},     // cube corner 5,0,0
		{0, 0, 0, 16},        // cube black
		{255, 255, 255, 231}, // cube white
		{128, 128, 128, 244}, // gray ramp entry 8+10*12
	}
	for _, tc := range cases {
		if got := nearest256(tc.r, tc.g, tc.b); got != tc.want {
			t.Fatalf("nearest256(%d,%d,%d) = %d, want %d", tc.r, tc.g, tc.b, got, tc.want)
		}
	}
	// The cache must return stable answers.
	if a, b := nearest256(10, 20, 30), nearest256(10, 20, 30); a != b {
		t.Fatalf("cache instability: %d vs %d", a, b)
	}
}

func TestNearest16(t *testing.T) {
	if got := nearest16(255, 0, 0); got != 9 {
		t.Fatalf("bright red mapped to %d, want 9", got)
	}
	if got := nearest16(0, 0, 0); got != 0 {
		t.Fatalf("black mapped to %d, want 0", got)
	}
}

func TestDetectColorMode(t *testing.T) {
	cases := []struct {
		term, colorterm string
		want            ColorMode
	}{
		{"xterm-256color", "", ColorMode256},
		{"xterm", "truecolor", ColorModeTrueColor},
		{"screen", "", ColorMode16},
		{"dumb", "", ColorModeMono},
		{"", "", ColorModeMono},
	}
	for _, tc := range cases {
		t.Setenv("TERM", tc.term)
		t.Setenv("COLORTERM", tc.colorterm)
		if got := DetectColorMode(); got != tc.want {
			t.Fatalf("TERM=%q COLORTERM=%q: got %d, want %d", tc.term, tc.colorterm, got, tc.want)
		}
	}
}
