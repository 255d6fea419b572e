// Package ansi implements the UTF-8 decoder and the ANSI/VT100 escape
// sequence parser: a six-state machine (Ground, Escape, CSI, OSC,
// SosPmApcString, and an intermediate Escape-Hash/Escape-Charset state
// for the two-byte sequences those introduce) that drives a
// screen.Capabilities implementation. The parser holds no terminal
// semantics of its own; every state change it causes is a method call
// on the Capabilities interface.
package ansi

import (
	"strconv"
	"strings"

	"github.com/javanhut/raventerm/screen"
	"github.com/javanhut/raventerm/termcolor"
)

// State is the parser's current position in the escape-sequence state
// machine.
type State int

const (
	StateGround State = iota
	StateEscape
	StateCSI
	StateOSC
	StateSosPmApc
	// stateEscapeIntermediate handles the single consumed byte that
	// follows ESC ( ) * + (charset designation) or ESC # (DEC private),
	// neither of which this parser acts on.
	stateEscapeIntermediate
)

// Parser drives a screen.Capabilities implementation from a byte
// stream. It is not safe for concurrent use; callers feed it bytes
// from a single reader goroutine/tick.
type Parser struct {
	caps screen.Capabilities

	state State
	utf8  utf8Decoder

	csiParams []byte
	private   bool

	oscBuf []byte

	current termcolor.Attributes
}

// New creates a parser that dispatches against caps.
func New(caps screen.Capabilities) *Parser {
	return &Parser{
		caps:    caps,
		state:   StateGround,
		current: caps.DefaultAttributes(),
	}
}

// Write feeds a chunk of PTY output through the parser.
func (p *Parser) Write(data []byte) {
	for _, b := range data {
		p.step(b)
	}
}

func (p *Parser) step(b byte) {
	switch p.state {
	case StateGround:
		p.stepGround(b)
	case StateEscape:
		p.stepEscape(b)
	case StateCSI:
		p.stepCSI(b)
	case StateOSC:
		p.stepOSC(b)
	case StateSosPmApc:
		p.stepSosPmApc(b)
	case stateEscapeIntermediate:
		p.state = StateGround
	}
}

func (p *Parser) stepGround(b byte) {
	// Control codes below 0x20 (and DEL) are never routed through the
	// UTF-8 decoder, matching the source's ground-state dispatch.
	switch b {
	case 0x1b: // ESC
		p.state = StateEscape
		return
	case 0x07: // BEL
		p.caps.SetCursorVisible(true)
		return
	case 0x08: // BS
		p.caps.Backspace()
		return
	case 0x09: // HT
		p.caps.Tab()
		return
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		p.caps.LineFeed(true)
		return
	case 0x0d: // CR
		p.caps.CarriageReturn()
		return
	}
	if b < 0x20 || b == 0x7f {
		return
	}

	if r, ok := p.utf8.feed(b); ok {
		p.caps.PutChar(r)
	}
}

func (p *Parser) stepEscape(b byte) {
	switch b {
	case '[':
		p.state = StateCSI
		p.csiParams = p.csiParams[:0]
		p.private = false
	case ']':
		p.state = StateOSC
		p.oscBuf = p.oscBuf[:0]
	case 'P', 'X', '^', '_': // DCS, SOS, PM, APC
		p.state = StateSosPmApc
	case '7':
		p.caps.SaveCursor()
		p.state = StateGround
	case '8':
		p.caps.RestoreCursor()
		p.state = StateGround
	case 'c':
		p.caps.Reset()
		p.current = p.caps.DefaultAttributes()
		p.state = StateGround
	case 'D':
		p.caps.LineFeed(true)
		p.state = StateGround
	case 'M':
		p.caps.CursorUp(1)
		p.state = StateGround
	case 'E':
		p.caps.CarriageReturn()
		p.caps.LineFeed(true)
		p.state = StateGround
	case '(', ')', '*', '+', '#':
		p.state = stateEscapeIntermediate
	default:
		p.state = StateGround
	}
}

func (p *Parser) stepCSI(b byte) {
	switch {
	case b == '?':
		p.private = true
	case b >= 0x30 && b <= 0x3f:
		p.csiParams = append(p.csiParams, b)
	case b >= 0x20 && b <= 0x2f:
		// intermediate byte; this parser's dispatch table has no
		// sequences that use one, so it is consumed and ignored
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCSI(b)
		p.state = StateGround
	default:
		p.state = StateGround
	}
}

// stepOSC accumulates an OSC payload until BEL, or until ESC, which
// hands the following byte (the '\' of an ST terminator) to
// stepEscape so it is consumed rather than printed.
func (p *Parser) stepOSC(b byte) {
	switch b {
	case 0x07:
		p.state = StateGround
		return
	case 0x1b:
		p.state = StateEscape
		return
	}
	p.oscBuf = append(p.oscBuf, b)
}

func (p *Parser) stepSosPmApc(b byte) {
	switch b {
	case 0x07:
		p.state = StateGround
	case 0x1b:
		p.state = StateEscape
	}
}

func (p *Parser) params() []int {
	s := string(p.csiParams)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

// param returns the parameter at index, or def when absent or the
// explicit value 0 — this preserves the behavior the terminal is
// grounded on, where a literal "0" parameter for a movement command is
// treated the same as an absent one.
func param(params []int, index, def int) int {
	if index < len(params) && params[index] > 0 {
		return params[index]
	}
	return def
}

func (p *Parser) dispatchCSI(final byte) {
	params := p.params()
	defer func() { p.private = false }()

	switch final {
	case 'A':
		p.caps.CursorUp(param(params, 0, 1))
	case 'B':
		p.caps.CursorDown(param(params, 0, 1))
	case 'C':
		p.caps.CursorForward(param(params, 0, 1))
	case 'D':
		p.caps.CursorBackward(param(params, 0, 1))
	case 'E':
		p.caps.CursorNextLine(param(params, 0, 1))
	case 'F':
		p.caps.CursorPrevLine(param(params, 0, 1))
	case 'G':
		p.caps.SetCursorColumn(param(params, 0, 1) - 1)
	case 'H', 'f':
		row := param(params, 0, 1) - 1
		col := param(params, 1, 1) - 1
		p.caps.SetCursorPosition(row, col)
	case 'J':
		p.caps.EraseInDisplay(param(params, 0, 0))
	case 'K':
		p.caps.EraseInLine(param(params, 0, 0))
	case 'L':
		p.caps.InsertLines(param(params, 0, 1))
	case 'M':
		p.caps.DeleteLines(param(params, 0, 1))
	case 'S':
		p.caps.ScrollUp(param(params, 0, 1))
	case 'T':
		p.caps.ScrollDown(param(params, 0, 1))
	case 'm':
		p.dispatchSGR(params)
	case 'h':
		p.dispatchMode(params, true)
	case 'l':
		p.dispatchMode(params, false)
	}
}

func (p *Parser) dispatchMode(params []int, set bool) {
	if !p.private {
		return
	}
	for _, n := range params {
		if n == 25 {
			p.caps.SetCursorVisible(set)
		}
	}
}

func (p *Parser) dispatchSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	a := p.caps.Attributes()
	for i := 0; i < len(params); i++ {
		n := params[i]
		switch {
		case n == 0:
			a = p.caps.DefaultAttributes()
		case n == 1:
			a.Bold = true
		case n == 22:
			a.Bold = false
		case n == 3:
			a.Italic = true
		case n == 23:
			a.Italic = false
		case n == 4:
			a.Underline = true
		case n == 24:
			a.Underline = false
		case n == 7:
			a.Inverse = true
		case n == 27:
			a.Inverse = false
		case n >= 30 && n <= 37:
			a.Foreground = termcolor.Indexed(uint8(n - 30))
		case n == 38:
			c, consumed := p.extendedColor(params[i+1:])
			a.Foreground = c
			i += consumed
		case n == 39:
			a.Foreground = termcolor.Default()
		case n >= 40 && n <= 47:
			a.Background = termcolor.Indexed(uint8(n - 40))
		case n == 48:
			c, consumed := p.extendedColor(params[i+1:])
			a.Background = c
			i += consumed
		case n == 49:
			a.Background = termcolor.Default()
		case n >= 90 && n <= 97:
			a.Foreground = termcolor.Indexed(uint8(n-90) + 8)
		case n >= 100 && n <= 107:
			a.Background = termcolor.Indexed(uint8(n-100) + 8)
		}
	}
	p.current = a
	p.caps.SetAttributes(a)
}

// extendedColor parses the tail of a 38/48 sequence (either "5;N" for
// an indexed color or "2;R;G;B" for truecolor) and returns the
// resolved color plus how many extra parameters it consumed.
func (p *Parser) extendedColor(rest []int) (termcolor.Color, int) {
	if len(rest) == 0 {
		return termcolor.Default(), 0
	}
	switch rest[0] {
	case 5:
		if len(rest) >= 2 {
			return termcolor.Indexed(uint8(rest[1])), 2
		}
	case 2:
		if len(rest) >= 4 {
			return termcolor.TrueColor(rest[1], rest[2], rest[3]), 4
		}
	}
	return termcolor.Default(), 0
}
