package screen

import "testing"

func TestNewGridInvariants(t *testing.T) {
	g := NewGrid(1, 1)
	if g.Columns() < 2 || g.Rows() < 2 {
		t.Fatalf("grid dimensions not clamped to minimum 2: %dx%d", g.Columns(), g.Rows())
	}
}

func TestPutCharAdvancesCursor(t *testing.T) {
	g := NewGrid(20, 10)
	g.PutChar('H')
	g.PutChar('i')
	c := g.Cursor()
	if c.Row != 0 || c.Col != 2 {
		t.Fatalf("cursor after Hi = %+v, want (0,2)", c)
	}
	if g.Cell(0, 0).Char != 'H' || g.Cell(0, 1).Char != 'i' {
		t.Fatalf("cells not written correctly")
	}
}

func TestLastColumnWrap(t *testing.T) {
	g := NewGrid(20, 10)
	for i := 0; i < 20; i++ {
		g.PutChar('.')
	}
	g.PutChar('!')
	c := g.Cursor()
	if c.Row != 1 || c.Col != 1 {
		t.Fatalf("cursor after wrap = %+v, want (1,1)", c)
	}
	if g.Cell(1, 0).Char != '!' {
		t.Fatalf("wrapped char not at row1 col0")
	}
}

func TestBackspaceNoWrapNoErase(t *testing.T) {
	g := NewGrid(20, 10)
	g.Backspace()
	if g.Cursor().Col != 0 {
		t.Fatalf("backspace at col 0 moved cursor")
	}
	g.PutChar('X')
	g.Backspace()
	if g.Cell(0, 0).Char != 'X' {
		t.Fatalf("backspace erased a cell")
	}
}

func TestTabClamp(t *testing.T) {
	g := NewGrid(20, 10)
	g.SetCursorColumn(19)
	g.Tab()
	if g.Cursor().Col != 19 {
		t.Fatalf("tab at col>=cols-8 = %d, want clamp to 19", g.Cursor().Col)
	}
}

func TestDoubleCarriageReturnIdempotent(t *testing.T) {
	g := NewGrid(20, 10)
	g.PutChar('x')
	g.CarriageReturn()
	c1 := g.Cursor()
	g.CarriageReturn()
	c2 := g.Cursor()
	if c1 != c2 || c1.Col != 0 {
		t.Fatalf("double carriage return not idempotent: %+v vs %+v", c1, c2)
	}
}

func TestDoubleEraseInDisplayIdempotent(t *testing.T) {
	g := NewGrid(20, 10)
	g.PutChar('x')
	g.EraseInDisplay(2)
	g.EraseInDisplay(2)
	if g.Cell(0, 0).Char != ' ' {
		t.Fatalf("EraseInDisplay(2) did not blank")
	}
}

func TestEraseInDisplayUnknownModeBlanksWholeGrid(t *testing.T) {
	g := NewGrid(20, 10)
	g.PutChar('x')
	g.SetCursorPosition(5, 5)
	g.EraseInDisplay(9)
	if g.Cell(0, 0).Char != ' ' || g.Cell(5, 5).Char != ' ' {
		t.Fatalf("EraseInDisplay(9) did not blank the whole grid")
	}
}

func TestEraseInLineUnknownModeBlanksWholeRow(t *testing.T) {
	g := NewGrid(20, 10)
	for _, r := range "hello" {
		g.PutChar(r)
	}
	g.SetCursorPosition(0, 2)
	g.EraseInLine(9)
	for col := 0; col < g.Columns(); col++ {
		if g.Cell(0, col).Char != ' ' {
			t.Fatalf("EraseInLine(9) left col %d = %c, want blank", col, g.Cell(0, col).Char)
		}
	}
}

func TestSaveRestoreCursorRoundTrip(t *testing.T) {
	g := NewGrid(20, 10)
	g.SetCursorPosition(3, 3)
	g.SaveCursor()
	g.CursorDown(2)
	g.CursorForward(2)
	g.RestoreCursor()
	if g.Cursor() != (Cursor{Row: 3, Col: 3}) {
		t.Fatalf("restore cursor = %+v, want (3,3)", g.Cursor())
	}
}

func TestScrollUpBeyondRowsBlanksGrid(t *testing.T) {
	g := NewGrid(20, 10)
	g.PutChar('x')
	g.ScrollUp(100)
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			if g.Cell(row, col).Char != ' ' {
				t.Fatalf("cell (%d,%d) not blank after ScrollUp(100)", row, col)
			}
		}
	}
}

func TestResizePreservesTopLeft(t *testing.T) {
	g := NewGrid(20, 10)
	g.PutChar('A')
	g.Resize(30, 15)
	if g.Cell(0, 0).Char != 'A' {
		t.Fatalf("resize did not preserve top-left subrect")
	}
}

func TestDeleteLines(t *testing.T) {
	g := NewGrid(5, 4)
	g.PutChar('1')
	g.CarriageReturn()
	g.LineFeed(true)
	g.PutChar('2')
	g.CarriageReturn()
	g.LineFeed(true)
	g.PutChar('3')
	g.SetCursorPosition(1, 0)
	g.DeleteLines(1)
	if g.Cell(0, 0).Char != '1' || g.Cell(1, 0).Char != '3' {
		t.Fatalf("DeleteLines(1) wrong result: row0=%c row1=%c", g.Cell(0, 0).Char, g.Cell(1, 0).Char)
	}
}

func TestEndToEndScenario1(t *testing.T) {
	g := NewGrid(20, 10)
	for _, r := range "Hi" {
		g.PutChar(r)
	}
	g.CarriageReturn()
	g.LineFeed(true)
	if g.Cell(0, 0).Char != 'H' || g.Cell(0, 1).Char != 'i' {
		t.Fatalf("scenario1 row0 wrong")
	}
	if g.Cursor() != (Cursor{Row: 1, Col: 0}) {
		t.Fatalf("scenario1 cursor = %+v, want (1,0)", g.Cursor())
	}
}

func TestEndToEndScenario5(t *testing.T) {
	g := NewGrid(20, 10)
	write := func(s string) {
		for _, r := range s {
			g.PutChar(r)
		}
	}
	write("L1")
	g.CarriageReturn()
	g.LineFeed(true)
	write("L2")
	g.CarriageReturn()
	g.LineFeed(true)
	write("L3")
	g.SetCursorPosition(1, 0)
	g.DeleteLines(1)

	if g.VisibleText() == "" {
		t.Fatalf("expected non-empty text")
	}
	row0 := string([]rune{g.Cell(0, 0).Char, g.Cell(0, 1).Char})
	row1 := string([]rune{g.Cell(1, 0).Char, g.Cell(1, 1).Char})
	if row0 != "L1" || row1 != "L3" {
		t.Fatalf("scenario5 rows = %q, %q, want L1, L3", row0, row1)
	}
	if g.Cursor() != (Cursor{Row: 1, Col: 0}) {
		t.Fatalf("scenario5 cursor = %+v, want (1,0)", g.Cursor())
	}
}
