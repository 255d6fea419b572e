// Package session composes one PTY host, one ANSI parser, and one
// screen grid into the single terminal session the engine drives —
// the generalized, single-session form of the teacher's per-tab
// pairing, stripped of tab/pane management.
package session

import (
	"github.com/javanhut/raventerm/ansi"
	"github.com/javanhut/raventerm/ptyhost"
	"github.com/javanhut/raventerm/screen"
)

// Session owns a PTY-hosted shell, the parser consuming its output,
// and the grid the parser writes into.
type Session struct {
	Host   *ptyhost.Host
	Parser *ansi.Parser
	Grid   *screen.Grid
}

// New launches a shell under a PTY sized cols x rows and wires it
// through a fresh parser into a fresh grid.
func New(opts ptyhost.Options) (*Session, error) {
	host, err := ptyhost.New(opts)
	if err != nil {
		return nil, err
	}
	grid := screen.NewGrid(int(opts.Cols), int(opts.Rows))
	parser := ansi.New(grid)
	return &Session{Host: host, Parser: parser, Grid: grid}, nil
}

// Update drains available PTY output through the parser, services
// pending writes, and reports whether the child shell is still alive.
// It performs no blocking I/O and must be called once per frame.
func (s *Session) Update() (alive bool) {
	s.Host.Tick()
	data, eof := s.Host.ReadAvailable()
	if len(data) > 0 {
		s.Parser.Write(data)
	}
	if eof {
		return false
	}
	return s.Host.Alive()
}

// Write queues bytes (e.g. translated keyboard input) to be sent to
// the child shell.
func (s *Session) Write(data []byte) {
	s.Host.Write(data)
}

// Resize updates both the grid and the underlying PTY's window size.
func (s *Session) Resize(cols, rows int) error {
	s.Grid.Resize(cols, rows)
	return s.Host.SetSize(uint16(cols), uint16(rows))
}

// Close shuts down the PTY host.
func (s *Session) Close() {
	s.Host.Shutdown()
}
