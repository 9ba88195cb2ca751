//go:build unix

// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/driver.go
// Summary: Owns the terminal: raw mode transitions, buffered output and
//          restoration on every exit path.
// Usage: Opened once per process by the session; all terminal writes go
//        through it.

package term

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

var (
	// ErrNotTerminal reports that the configured input or output is not
	// an interactive terminal.
	ErrNotTerminal = errors.New("term: not an interactive terminal")
	// ErrSessionActive reports a second concurrent open; only one raw
	// mode session may exist per process.
	ErrSessionActive = errors.New("term: session already active")
	// ErrSessionClosed reports use of a driver after Close.
	ErrSessionClosed = errors.New("term: session closed")
)

// sessionActive guards the process-wide single-session invariant.
var sessionActive atomic.Bool

// Options configures the driver at open time.
type Options struct {
	// Input and Output default to the process's stdin and stdout.
	Input  *os.File
	Output *os.File
	// Mouse enables SGR mouse reporting.
	Mouse bool
	// BracketedPaste wraps pasted text in delimiters the decoder turns
	// into a single Paste event.
	BracketedPaste bool
	// Colors overrides detection; leave as ColorModeAuto to inspect the
	// environment.
	Colors ColorMode
}

// Cursor is the renderer-owned cursor state applied after each commit.
type Cursor struct {
	Row, Col int
	Visible  bool
}

// Driver owns the terminal session resource. All methods other than
// Close must not be called after Close.
type Driver struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int

	saved     *xterm.State
	colorMode ColorMode
	mouse     bool
	paste     bool

	mu sync.Mutex
	w  *bufio.Writer

	// Encoder style state, valid between commits until invalidated.
	lastStyle  sgrState
	styleValid bool

	closed    atomic.Bool
	closeOnce sync.Once

	winchStop chan struct{}
	winchDone chan struct{}
}

// Open switches the terminal to raw, non-canonical mode with local echo
// disabled, records the prior configuration, and applies the screen
// setup (alternate screen, hidden cursor, autowrap off). It fails with
// ErrNotTerminal when the endpoints are not a tty and ErrSessionActive
// when a session is already open in this process.
func Open(opts Options) (*Driver, error) {
	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	inFd, outFd := int(in.Fd()), int(out.Fd())

	if !isTTY(inFd) || !isTTY(outFd) {
		return nil, ErrNotTerminal
	}
	if !sessionActive.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}

	saved, err := xterm.MakeRaw(inFd)
	if err != nil {
		sessionActive.Store(false)
		return nil, err
	}

	mode := opts.Colors
	if mode == ColorModeAuto {
		mode = DetectColorMode()
	}

	d := &Driver{
		in:        in,
		out:       out,
		inFd:      inFd,
		outFd:     outFd,
		saved:     saved,
		colorMode: mode,
		mouse:     opts.Mouse,
		paste:     opts.BracketedPaste,
		w:         bufio.NewWriterSize(out, 1<<16),
	}

	d.w.Write(seqAltScreenEnter)
	d.w.Write(seqCursorHide)
	d.w.Write(seqAutoWrapOff)
	d.w.Write(seqClear)
	if d.mouse {
		d.w.Write(seqMouseOn)
	}
	if d.paste {
		d.w.Write(seqPasteOn)
	}
	d.w.Flush()
	return d, nil
}

func isTTY(fd int) bool {
	return isatty.IsTerminal(uintptr(fd)) || isatty.IsCygwinTerminal(uintptr(fd))
}

// ColorMode returns the depth the encoder emits at.
func (d *Driver) ColorMode() ColorMode { return d.colorMode }

// Size returns the terminal dimensions in character cells.
func (d *Driver) Size() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(d.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Row), int(ws.Col), nil
}

// Read polls for input with a bounded timeout so the caller can observe
// cancellation and escape timeouts within one decode step. A zero count
// with a nil error means the window elapsed without input.
func (d *Driver) Read(buf []byte, timeoutMs int) (int, error) {
	if d.closed.Load() {
		return 0, ErrSessionClosed
	}
	fds := []unix.PollFd{{Fd: int32(d.inFd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	rn, err := unix.Read(d.inFd, buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return 0, nil
		}
		return 0, err
	}
	if rn == 0 {
		return 0, io.EOF
	}
	return rn, nil
}

// WatchResize delivers terminal dimensions on SIGWINCH until Close.
func (d *Driver) WatchResize(fn func(rows, cols int)) {
	d.winchStop = make(chan struct{})
	d.winchDone = make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		defer close(d.winchDone)
		defer signal.Stop(sigCh)
		for {
			select {
			case <-d.winchStop:
				return
			case <-sigCh:
				if rows, cols, err := d.Size(); err == nil && rows > 0 && cols > 0 {
					fn(rows, cols)
				}
			}
		}
	}()
}

// Close restores the previous terminal configuration. It runs exactly
// once; later calls are no-ops. The restore sequence mirrors open in
// reverse so the outer terminal comes back intact.
func (d *Driver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		if d.winchStop != nil {
			close(d.winchStop)
			<-d.winchDone
		}

		d.mu.Lock()
		if d.paste {
			d.w.Write(seqPasteOff)
		}
		if d.mouse {
			d.w.Write(seqMouseOff)
		}
		d.w.Write(seqSGR0)
		d.w.Write(seqCursorShow)
		d.w.Write(seqAltScreenExit)
		d.w.Write(seqAutoWrapOn)
		d.w.Flush()
		d.mu.Unlock()

		err = xterm.Restore(d.inFd, d.saved)
		sessionActive.Store(false)
	})
	return err
}

// EmergencyRestore is the crash path: it writes the reset sequences
// directly and restores the saved termios, skipping the buffered writer
// in case its state is suspect. Safe to call from a signal or panic
// handler; errors are ignored.
func (d *Driver) EmergencyRestore() {
	if d.closed.Swap(true) {
		return
	}
	d.out.Write(seqMouseOff)
	d.out.Write(seqPasteOff)
	d.out.Write(seqSGR0)
	d.out.Write(seqCursorShow)
	d.out.Write(seqAltScreenExit)
	d.out.Write(seqAutoWrapOn)
	d.out.Write(seqRIS)
	if d.saved != nil {
		xterm.Restore(d.inFd, d.saved)
	}
	sessionActive.Store(false)
}
