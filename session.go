//go:build unix

// Copyright © 2025 Tcurse contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session.go
// Summary: The public session: frame drawing, event delivery and teardown.
// Usage: One active session per process; the embedding application's sole
//        entry point into the library.

package tcurse

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tcurse/tcurse/cell"
	"github.com/tcurse/tcurse/diff"
	"github.com/tcurse/tcurse/input"
	"github.com/tcurse/tcurse/term"
)

// Session owns the terminal for its lifetime. The draw side is
// single-threaded and caller-driven; input decoding runs on its own
// goroutine and feeds the ordered event queue.
type Session struct {
	drv *term.Driver
	dec *input.Decoder

	events chan input.Event
	stop   chan struct{}
	done   chan struct{}

	// Draw-cycle state, owned by the caller's frame loop.
	committed *cell.Grid
	cursor    term.Cursor

	escTimeout time.Duration

	sigCh     chan os.Signal
	closed    atomic.Bool
	closeOnce sync.Once
}

// EnterSession switches the terminal into raw mode and returns the
// active session. It fails with term.ErrNotTerminal when stdin or
// stdout is not an interactive terminal and term.ErrSessionActive when
// a session already exists in this process.
func EnterSession(opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	drv, err := term.Open(term.Options{
		Input:          o.Input,
		Output:         o.Output,
		Mouse:          o.Mouse,
		BracketedPaste: o.BracketedPaste,
		Colors:         o.Colors,
	})
	if err != nil {
		return nil, err
	}

	rows, cols, err := drv.Size()
	if err != nil {
		drv.Close()
		return nil, err
	}

	dec := input.NewDecoder()
	dec.Diag = o.Diag

	s := &Session{
		drv:        drv,
		dec:        dec,
		events:     make(chan input.Event, o.QueueSize),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		committed:  cell.NewGrid(rows, cols),
		escTimeout: o.EscapeTimeout,
	}

	drv.WatchResize(func(rows, cols int) {
		s.push(input.Event{Type: input.EventResize, Rows: rows, Cols: cols})
	})

	if o.HandleSignals {
		s.sigCh = make(chan os.Signal, 1)
		signal.Notify(s.sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig, ok := <-s.sigCh
			if !ok {
				return
			}
			// Best-effort restore, then die with the default disposition
			// so the exit status stays honest.
			s.drv.EmergencyRestore()
			signal.Reset(sig)
			if p, err := os.FindProcess(os.Getpid()); err == nil {
				p.Signal(sig)
			}
		}()
	}

	go s.readLoop()
	return s, nil
}

// Size returns the dimensions of the committed grid, which track the
// terminal size as of the last Resize call.
func (s *Session) Size() (rows, cols int) {
	return s.committed.Rows(), s.committed.Cols()
}

// Draw diffs the frame against the last committed grid, writes the
// resulting operations in one flush, and commits the frame. The frame
// must match the committed dimensions; after a resize event call Resize
// first and redraw.
func (s *Session) Draw(frame *cell.Grid) error {
	if s.closed.Load() {
		return term.ErrSessionClosed
	}
	ops, err := diff.Diff(s.committed, frame)
	if err != nil {
		return err
	}
	if err := s.drv.Commit(ops, s.cursor); err != nil {
		return err
	}
	s.committed.CopyFrom(frame)
	return nil
}

// SetCursor moves the terminal cursor and toggles its visibility. The
// position is applied immediately and re-applied after every draw.
func (s *Session) SetCursor(row, col int, visible bool) error {
	if s.closed.Load() {
		return term.ErrSessionClosed
	}
	s.cursor = term.Cursor{Row: row, Col: col, Visible: visible}
	return s.drv.Commit(nil, s.cursor)
}

// Resize re-reads the terminal dimensions, clears the screen and resets
// the committed grid to blank at the new size. The caller must redraw.
// It returns the new dimensions.
func (s *Session) Resize() (rows, cols int, err error) {
	if s.closed.Load() {
		return 0, 0, term.ErrSessionClosed
	}
	rows, cols, err = s.drv.Size()
	if err != nil {
		return 0, 0, err
	}
	if err := s.drv.Clear(); err != nil {
		return 0, 0, err
	}
	s.committed.Resize(rows, cols)
	return rows, cols, nil
}

// PollEvent returns the next input event in arrival order. A negative
// timeout blocks, zero polls, positive waits at most that long. ok is
// false when the timeout elapsed or the session ended.
func (s *Session) PollEvent(timeout time.Duration) (input.Event, bool) {
	if timeout < 0 {
		select {
		case ev := <-s.events:
			return ev, true
		case <-s.stop:
			return input.Event{}, false
		}
	}
	if timeout == 0 {
		select {
		case ev := <-s.events:
			return ev, true
		default:
			return input.Event{}, false
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case ev := <-s.events:
		return ev, true
	case <-s.stop:
		return input.Event{}, false
	case <-t.C:
		return input.Event{}, false
	}
}

// Exit stops the input flow, restores the terminal configuration and
// releases the session. It runs exactly once; later calls return nil.
func (s *Session) Exit() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stop)
		// The read loop observes the stop within one poll step.
		select {
		case <-s.done:
		case <-time.After(time.Second):
		}
		if s.sigCh != nil {
			signal.Stop(s.sigCh)
			close(s.sigCh)
		}
		err = s.drv.Close()
	})
	return err
}

// push enqueues an event, dropping it when the queue is full. Bounded
// staleness is preferred over blocking the decoder.
func (s *Session) push(ev input.Event) {
	select {
	case s.events <- ev:
	default:
	}
}

// readLoop pulls raw bytes from the terminal and feeds the decoder. The
// poll timeout doubles as the escape-disambiguation window.
func (s *Session) readLoop() {
	defer close(s.done)

	buf := make([]byte, 4096)
	evs := make([]input.Event, 0, 16)
	timeoutMs := int(s.escTimeout / time.Millisecond)
	if timeoutMs <= 0 {
		timeoutMs = 1
	}

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		n, err := s.drv.Read(buf, timeoutMs)
		if err != nil {
			return
		}

		evs = evs[:0]
		if n == 0 {
			// Window elapsed; resolve any pending escape state.
			if s.dec.Pending() {
				evs = s.dec.Expire(evs)
			}
		} else {
			evs = s.dec.Decode(buf[:n], evs)
		}
		for _, ev := range evs {
			s.push(ev)
		}
	}
}
