// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: options.go
// Summary: Session configuration and its defaults.
// Usage: Passed to EnterSession as functional options.

package tcurse

import (
	"log"
	"os"
	"time"

	"github.com/tcurse/tcurse/term"
)

// Options holds the session configuration. Zero values are filled in
// from defaultOptions at enter time.
type Options struct {
	// Input and Output default to the process terminal.
	Input  *os.File
	Output *os.File

	// Mouse enables SGR mouse reporting.
	Mouse bool
	// BracketedPaste delivers pasted text as a single Paste event.
	BracketedPaste bool
	// Colors overrides color depth detection.
	Colors term.ColorMode

	// QueueSize bounds the event queue. When the queue is full the
	// newest events are dropped rather than blocking the decoder.
	QueueSize int
	// EscapeTimeout is how long a lone ESC may sit before it is
	// delivered as an Escape key press.
	EscapeTimeout time.Duration

	// HandleSignals restores the terminal on SIGINT/SIGTERM before the
	// process dies. On by default.
	HandleSignals bool

	// Diag receives decoder diagnostics for dropped byte sequences.
	Diag *log.Logger
}

func defaultOptions() Options {
	return Options{
		QueueSize:     256,
		EscapeTimeout: 50 * time.Millisecond,
		HandleSignals: true,
	}
}

// Option mutates the session configuration.
type Option func(*Options)

// WithTTY runs the session against the given endpoints instead of the
// process terminal. Used by tests to target a pty pair.
func WithTTY(in, out *os.File) Option {
	return func(o *Options) { o.Input, o.Output = in, out }
}

// WithMouse enables mouse reporting.
func WithMouse() Option {
	return func(o *Options) { o.Mouse = true }
}

// WithBracketedPaste enables bracketed paste.
func WithBracketedPaste() Option {
	return func(o *Options) { o.BracketedPaste = true }
}

// WithColors forces a color depth.
func WithColors(mode term.ColorMode) Option {
	return func(o *Options) { o.Colors = mode }
}

// WithQueueSize bounds the event queue capacity.
func WithQueueSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.QueueSize = n
		}
	}
}

// WithEscapeTimeout adjusts the lone-escape disambiguation window.
func WithEscapeTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.EscapeTimeout = d
		}
	}
}

// WithoutSignalHandler leaves SIGINT/SIGTERM alone; the embedding
// application takes over restore-on-crash responsibility.
func WithoutSignalHandler() Option {
	return func(o *Options) { o.HandleSignals = false }
}

// WithDiagnostics logs dropped input sequences to l.
func WithDiagnostics(l *log.Logger) Option {
	return func(o *Options) { o.Diag = l }
}
