package ansi

import (
	"testing"

	"github.com/javanhut/raventerm/screen"
	"github.com/javanhut/raventerm/termcolor"
)

func newTestGrid() *screen.Grid {
	return screen.NewGrid(20, 10)
}

func TestScenarioHiCRLF(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("Hi\r\n"))

	if g.Cell(0, 0).Char != 'H' || g.Cell(0, 1).Char != 'i' {
		t.Fatalf("row0 = %c%c, want Hi", g.Cell(0, 0).Char, g.Cell(0, 1).Char)
	}
	if g.Cursor() != (screen.Cursor{Row: 1, Col: 0}) {
		t.Fatalf("cursor = %+v, want (1,0)", g.Cursor())
	}
}

func TestScenarioCursorBack(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("ABC\x1b[2D_"))

	want := []rune{'A', '_', 'C'}
	for i, w := range want {
		if g.Cell(0, i).Char != w {
			t.Fatalf("row0[%d] = %c, want %c", i, g.Cell(0, i).Char, w)
		}
	}
	if g.Cursor() != (screen.Cursor{Row: 0, Col: 2}) {
		t.Fatalf("cursor = %+v, want (0,2)", g.Cursor())
	}
}

func TestScenarioSGRColorReset(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("\x1b[31mX\x1b[0mY"))

	red := termcolor.Color{R: 0xAA, G: 0x00, B: 0x00, A: 0xFF}
	if g.Cell(0, 0).Fg != red {
		t.Fatalf("X fg = %+v, want red %+v", g.Cell(0, 0).Fg, red)
	}
	if g.Cell(0, 1).Fg != termcolor.Default() {
		t.Fatalf("Y fg = %+v, want default", g.Cell(0, 1).Fg)
	}
}

func TestScenarioHomeAndEraseLine(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("12345\x1b[H\x1b[0K"))

	for col := 0; col < 5; col++ {
		if g.Cell(0, col).Char != ' ' {
			t.Fatalf("row0 not erased at col %d", col)
		}
	}
	if g.Cursor() != (screen.Cursor{Row: 0, Col: 0}) {
		t.Fatalf("cursor = %+v, want (0,0)", g.Cursor())
	}
}

func TestScenarioDeleteLine(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	// A cooked-mode PTY applies ONLCR, translating each outgoing "\n"
	// to "\r\n" before the bytes ever reach the parser; the wire bytes
	// here reflect that translation rather than bare LF.
	p.Write([]byte("L1\r\nL2\r\nL3\x1b[2;1H\x1b[M"))

	row0 := string([]rune{g.Cell(0, 0).Char, g.Cell(0, 1).Char})
	row1 := string([]rune{g.Cell(1, 0).Char, g.Cell(1, 1).Char})
	if row0 != "L1" {
		t.Fatalf("row0 = %q, want L1", row0)
	}
	if row1 != "L3" {
		t.Fatalf("row1 = %q, want L3", row1)
	}
	for row := 2; row < 10; row++ {
		for col := 0; col < 20; col++ {
			if g.Cell(row, col).Char != ' ' {
				t.Fatalf("row %d not blank", row)
			}
		}
	}
	if g.Cursor() != (screen.Cursor{Row: 1, Col: 0}) {
		t.Fatalf("cursor = %+v, want (1,0)", g.Cursor())
	}
}

func TestScenarioWrapFillRow(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	for i := 0; i < 21; i++ {
		p.Write([]byte("."))
	}
	if g.Cell(1, 0).Char != '.' {
		t.Fatalf("wrapped char not at row1 col0")
	}
	if g.Cursor() != (screen.Cursor{Row: 1, Col: 1}) {
		t.Fatalf("cursor = %+v, want (1,1)", g.Cursor())
	}
}

func TestExplicitZeroParamDefaultsMovement(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("ABC\x1b[0D"))
	if g.Cursor() != (screen.Cursor{Row: 0, Col: 2}) {
		t.Fatalf("explicit 0 param for CUB should behave as default 1: cursor=%+v", g.Cursor())
	}
}

func Test256ColorCube(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("\x1b[38;5;196mX"))
	want := termcolor.Indexed(196)
	if g.Cell(0, 0).Fg != want {
		t.Fatalf("256-color fg = %+v, want %+v", g.Cell(0, 0).Fg, want)
	}
}

func TestTrueColorSGR(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("\x1b[38;2;10;20;30mX"))
	want := termcolor.TrueColor(10, 20, 30)
	if g.Cell(0, 0).Fg != want {
		t.Fatalf("truecolor fg = %+v, want %+v", g.Cell(0, 0).Fg, want)
	}
}

func TestInvalidUTF8ResetsSilently(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	// 0xC0 starts a 2-byte sequence; a following ASCII byte is not a
	// valid continuation, so the decoder resets and 'Z' is dropped as
	// the (invalid) continuation attempt, leaving the grid untouched
	// at that position but able to resume on the next write.
	p.Write([]byte{0xC0, 'Z'})
	p.Write([]byte("OK"))
	if g.Cell(0, 0).Char != 'O' {
		t.Fatalf("decoder did not recover after invalid sequence: got %c", g.Cell(0, 0).Char)
	}
}

func TestUnrecognizedEscapeReturnsToGround(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("\x1bZX"))
	if g.Cell(0, 0).Char != 'X' {
		t.Fatalf("unrecognized escape did not return to ground: got %c", g.Cell(0, 0).Char)
	}
}

func TestOSCPayloadDiscarded(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("\x1b]0;some title\x07X"))
	if g.Cell(0, 0).Char != 'X' {
		t.Fatalf("OSC did not return to ground correctly: got %c", g.Cell(0, 0).Char)
	}
}

func TestCursorVisibilityPrivateMode(t *testing.T) {
	g := newTestGrid()
	p := New(g)
	p.Write([]byte("\x1b[?25l"))
	if g.CursorVisible() {
		t.Fatalf("cursor should be hidden after CSI ?25l")
	}
	p.Write([]byte("\x1b[?25h"))
	if !g.CursorVisible() {
		t.Fatalf("cursor should be visible after CSI ?25h")
	}
}
