// Package screen implements the terminal's cell grid: the cursor, the
// current/default/saved attribute sets, and the mutation primitives the
// ANSI parser drives (putChar, carriageReturn, lineFeed, erase, scroll,
// insert/delete, save/restore cursor). It has no notion of escape
// sequences; the ansi package drives the mutation primitives through
// the Capabilities interface.
package screen

import (
	"strings"
	"sync"

	"github.com/javanhut/raventerm/termcolor"
)

// Cell is a single grid position: a codepoint plus the attributes it
// was written with. Inverse video is resolved at write time by
// swapping foreground/background, so a Cell never stores an Inverse
// flag of its own.
type Cell struct {
	Char      rune
	Fg        termcolor.Color
	Bg        termcolor.Color
	Bold      bool
	Italic    bool
	Underline bool
}

// Blank returns the cell a freshly cleared position holds, using the
// given default attributes.
func Blank(def termcolor.Attributes) Cell {
	return Cell{
		Char:      ' ',
		Fg:        def.Foreground,
		Bg:        def.Background,
		Bold:      def.Bold,
		Italic:    def.Italic,
		Underline: def.Underline,
	}
}

// Cursor is a row/column position, both 0-based.
type Cursor struct {
	Row, Col int
}

// Capabilities is the capability set the ANSI parser depends on. A
// screen model satisfies it; the parser never reaches into a concrete
// Grid directly, so it can be swapped or faked in tests without
// touching the parser.
type Capabilities interface {
	PutChar(r rune)
	CarriageReturn()
	LineFeed(newLine bool)
	Backspace()
	Tab()

	CursorUp(n int)
	CursorDown(n int)
	CursorForward(n int)
	CursorBackward(n int)
	CursorNextLine(n int)
	CursorPrevLine(n int)
	SetCursorColumn(col int)
	SetCursorPosition(row, col int)

	EraseInDisplay(mode int)
	EraseInLine(mode int)
	InsertLines(n int)
	DeleteLines(n int)
	ScrollUp(n int)
	ScrollDown(n int)

	SetAttributes(a termcolor.Attributes)
	Attributes() termcolor.Attributes
	DefaultAttributes() termcolor.Attributes

	SaveCursor()
	RestoreCursor()
	SetCursorVisible(v bool)

	Reset()

	Columns() int
	Rows() int
}

// Grid is the terminal's screen model: a rows x columns array of
// Cells, a cursor, and the current/default/saved attribute sets.
type Grid struct {
	mu sync.RWMutex

	cols, rows int
	cells      []Cell

	cursor      Cursor
	savedCursor Cursor

	current  termcolor.Attributes
	def      termcolor.Attributes
	savedAtt termcolor.Attributes

	cursorVisible bool

	selectionActive   bool
	selStartRow       int
	selStartCol       int
	selEndRow         int
	selEndCol         int
}

// NewGrid creates a grid with the given dimensions. Columns and rows
// are each clamped to a minimum of 2, per the data model's invariant.
func NewGrid(cols, rows int) *Grid {
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}
	g := &Grid{
		cols:          cols,
		rows:          rows,
		def:           termcolor.DefaultAttributes(),
		current:       termcolor.DefaultAttributes(),
		cursorVisible: true,
	}
	g.cells = make([]Cell, cols*rows)
	g.fillBlank(g.cells)
	return g
}

func (g *Grid) fillBlank(cells []Cell) {
	blank := Blank(g.def)
	for i := range cells {
		cells[i] = blank
	}
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

// Columns returns the grid's column count.
func (g *Grid) Columns() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cols
}

// Rows returns the grid's row count.
func (g *Grid) Rows() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rows
}

// Cell returns a copy of the cell at (row, col); out-of-bounds
// positions return a blank cell.
func (g *Grid) Cell(row, col int) Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Blank(g.def)
	}
	return g.cells[g.index(row, col)]
}

// Cursor returns the current cursor position.
func (g *Grid) Cursor() Cursor {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cursor
}

// CursorVisible reports whether the cursor should currently be drawn.
func (g *Grid) CursorVisible() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cursorVisible
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (g *Grid) clampCursor() {
	g.cursor.Row = clamp(g.cursor.Row, 0, g.rows-1)
	g.cursor.Col = clamp(g.cursor.Col, 0, g.cols-1)
}

// PutChar writes a printable character at the cursor with the current
// attributes (inverse resolved at write time), then advances the
// cursor, wrapping to the next line (carriage return + line feed) when
// writing past the last column.
func (g *Grid) PutChar(r rune) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cursor.Col >= g.cols {
		g.carriageReturnLocked()
		g.lineFeedLocked(true)
	}

	fg, bg := g.current.Resolved()
	g.cells[g.index(g.cursor.Row, g.cursor.Col)] = Cell{
		Char:      r,
		Fg:        fg,
		Bg:        bg,
		Bold:      g.current.Bold,
		Italic:    g.current.Italic,
		Underline: g.current.Underline,
	}
	g.cursor.Col++
}

func (g *Grid) carriageReturnLocked() {
	g.cursor.Col = 0
}

// CarriageReturn moves the cursor to column 0 of the current row.
func (g *Grid) CarriageReturn() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.carriageReturnLocked()
}

func (g *Grid) lineFeedLocked(newLine bool) {
	if newLine {
		if g.cursor.Row == g.rows-1 {
			g.scrollUpLocked(1)
		} else {
			g.cursor.Row++
		}
	}
}

// LineFeed advances the cursor to the next line, scrolling the grid up
// by one when already on the last row. When newLine is false this is a
// no-op (kept for symmetry with control codes that share dispatch but
// do not always move the cursor).
func (g *Grid) LineFeed(newLine bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineFeedLocked(newLine)
}

// Backspace moves the cursor back one column, never wrapping to the
// previous line and never erasing.
func (g *Grid) Backspace() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cursor.Col > 0 {
		g.cursor.Col--
	}
}

// Tab advances the cursor to the next 8-column tab stop, clamped to
// the last column.
func (g *Grid) Tab() {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := ((g.cursor.Col / 8) + 1) * 8
	if next > g.cols-1 {
		next = g.cols - 1
	}
	g.cursor.Col = next
}

// CursorUp moves the cursor up n rows, clamped to the grid.
func (g *Grid) CursorUp(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Row -= n
	g.clampCursor()
}

// CursorDown moves the cursor down n rows, clamped to the grid.
func (g *Grid) CursorDown(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Row += n
	g.clampCursor()
}

// CursorForward moves the cursor right n columns, clamped to the grid.
func (g *Grid) CursorForward(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Col += n
	g.clampCursor()
}

// CursorBackward moves the cursor left n columns, clamped to the grid.
func (g *Grid) CursorBackward(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Col -= n
	g.clampCursor()
}

// CursorNextLine moves the cursor down n rows and to column 0.
func (g *Grid) CursorNextLine(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Row += n
	g.clampCursor()
	g.carriageReturnLocked()
}

// CursorPrevLine moves the cursor up n rows and to column 0.
func (g *Grid) CursorPrevLine(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Row -= n
	g.clampCursor()
	g.carriageReturnLocked()
}

// SetCursorColumn sets the cursor's column (1-based input is not used
// here; callers pass 0-based already-converted values), clamped.
func (g *Grid) SetCursorColumn(col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Col = clamp(col, 0, g.cols-1)
}

// SetCursorPosition sets the cursor's row and column, clamped.
func (g *Grid) SetCursorPosition(row, col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor.Row = row
	g.cursor.Col = col
	g.clampCursor()
}

// EraseInDisplay implements ED modes 0 (cursor to end), 1 (start to
// cursor), 2 and any other (entire display).
func (g *Grid) EraseInDisplay(mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	blank := Blank(g.def)
	switch mode {
	case 0:
		for col := g.cursor.Col; col < g.cols; col++ {
			g.cells[g.index(g.cursor.Row, col)] = blank
		}
		for row := g.cursor.Row + 1; row < g.rows; row++ {
			for col := 0; col < g.cols; col++ {
				g.cells[g.index(row, col)] = blank
			}
		}
	case 1:
		for row := 0; row < g.cursor.Row; row++ {
			for col := 0; col < g.cols; col++ {
				g.cells[g.index(row, col)] = blank
			}
		}
		for col := 0; col <= g.cursor.Col && col < g.cols; col++ {
			g.cells[g.index(g.cursor.Row, col)] = blank
		}
	default:
		g.fillBlank(g.cells)
	}
}

// EraseInLine implements EL modes 0 (cursor to end), 1 (start to
// cursor), 2 and any other (entire line).
func (g *Grid) EraseInLine(mode int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	blank := Blank(g.def)
	switch mode {
	case 0:
		for col := g.cursor.Col; col < g.cols; col++ {
			g.cells[g.index(g.cursor.Row, col)] = blank
		}
	case 1:
		for col := 0; col <= g.cursor.Col && col < g.cols; col++ {
			g.cells[g.index(g.cursor.Row, col)] = blank
		}
	default:
		for col := 0; col < g.cols; col++ {
			g.cells[g.index(g.cursor.Row, col)] = blank
		}
	}
}

// InsertLines inserts n blank lines at the cursor's row, shifting the
// rows below it down and dropping rows pushed off the bottom. n is
// clamped to the number of rows from the cursor to the bottom.
func (g *Grid) InsertLines(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.rows-g.cursor.Row {
		n = g.rows - g.cursor.Row
	}
	if n <= 0 {
		return
	}
	blank := Blank(g.def)
	for row := g.rows - 1; row >= g.cursor.Row+n; row-- {
		copy(g.cells[g.index(row, 0):g.index(row, 0)+g.cols], g.cells[g.index(row-n, 0):g.index(row-n, 0)+g.cols])
	}
	for row := g.cursor.Row; row < g.cursor.Row+n; row++ {
		for col := 0; col < g.cols; col++ {
			g.cells[g.index(row, col)] = blank
		}
	}
}

// DeleteLines deletes n lines at the cursor's row, shifting the rows
// below it up and blanking n rows at the bottom. n is clamped to the
// number of rows from the cursor to the bottom.
func (g *Grid) DeleteLines(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.rows-g.cursor.Row {
		n = g.rows - g.cursor.Row
	}
	if n <= 0 {
		return
	}
	blank := Blank(g.def)
	for row := g.cursor.Row; row < g.rows-n; row++ {
		copy(g.cells[g.index(row, 0):g.index(row, 0)+g.cols], g.cells[g.index(row+n, 0):g.index(row+n, 0)+g.cols])
	}
	for row := g.rows - n; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			g.cells[g.index(row, col)] = blank
		}
	}
}

func (g *Grid) scrollUpLocked(n int) {
	if n > g.rows {
		n = g.rows
	}
	if n <= 0 {
		return
	}
	blank := Blank(g.def)
	copy(g.cells, g.cells[n*g.cols:])
	for i := (g.rows - n) * g.cols; i < g.rows*g.cols; i++ {
		g.cells[i] = blank
	}
}

// ScrollUp scrolls the grid's contents up by n lines, clamped to
// [0, rows]. Scrolling by n >= rows fully blanks the grid.
func (g *Grid) ScrollUp(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollUpLocked(n)
}

// ScrollDown scrolls the grid's contents down by n lines, clamped to
// [0, rows].
func (g *Grid) ScrollDown(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.rows {
		n = g.rows
	}
	if n <= 0 {
		return
	}
	blank := Blank(g.def)
	copy(g.cells[n*g.cols:], g.cells[:len(g.cells)-n*g.cols])
	for i := 0; i < n*g.cols; i++ {
		g.cells[i] = blank
	}
}

// SaveCursor snapshots the cursor position and current attributes.
func (g *Grid) SaveCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.savedCursor = g.cursor
	g.savedAtt = g.current
}

// RestoreCursor restores the cursor position and attributes from the
// most recent SaveCursor call.
func (g *Grid) RestoreCursor() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor = g.savedCursor
	g.current = g.savedAtt
}

// SetCursorVisible sets whether the cursor should be drawn.
func (g *Grid) SetCursorVisible(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorVisible = v
}

// SetAttributes sets the attribute set new cells are written with.
func (g *Grid) SetAttributes(a termcolor.Attributes) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = a
}

// Attributes returns the current write attribute set.
func (g *Grid) Attributes() termcolor.Attributes {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// DefaultAttributes returns the terminal's default attribute set.
func (g *Grid) DefaultAttributes() termcolor.Attributes {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.def
}

// Reset restores the grid to its just-constructed state: current and
// saved attributes reset to default, cursor and saved cursor moved to
// (0,0), the entire grid blanked, and the cursor made visible.
func (g *Grid) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = termcolor.DefaultAttributes()
	g.savedAtt = termcolor.DefaultAttributes()
	g.cursor = Cursor{}
	g.savedCursor = Cursor{}
	g.fillBlank(g.cells)
	g.cursorVisible = true
	g.selectionActive = false
}

// Resize changes the grid's dimensions, preserving the top-left
// subrect shared between the old and new sizes and clamping the
// cursor to the new bounds.
func (g *Grid) Resize(cols, rows int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}

	newCells := make([]Cell, cols*rows)
	g.fillBlankInto(newCells)

	copyRows := rows
	if g.rows < copyRows {
		copyRows = g.rows
	}
	copyCols := cols
	if g.cols < copyCols {
		copyCols = g.cols
	}
	for row := 0; row < copyRows; row++ {
		for col := 0; col < copyCols; col++ {
			newCells[row*cols+col] = g.cells[g.index(row, col)]
		}
	}

	g.cells = newCells
	g.cols = cols
	g.rows = rows
	g.clampCursor()
}

func (g *Grid) fillBlankInto(cells []Cell) {
	blank := Blank(g.def)
	for i := range cells {
		cells[i] = blank
	}
}

// VisibleText returns the grid's contents as plain text, one line per
// row, trailing blanks trimmed from each line and from the result.
func (g *Grid) VisibleText() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	lines := make([]string, g.rows)
	for row := 0; row < g.rows; row++ {
		var b strings.Builder
		for col := 0; col < g.cols; col++ {
			ch := g.cells[g.index(row, col)].Char
			if ch == 0 {
				ch = ' '
			}
			b.WriteRune(ch)
		}
		lines[row] = strings.TrimRight(b.String(), " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// SetSelection marks a host-local text selection in grid coordinates;
// it does not affect terminal emulation semantics.
func (g *Grid) SetSelection(startRow, startCol, endRow, endCol int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selectionActive = true
	g.selStartRow = clamp(startRow, 0, g.rows-1)
	g.selStartCol = clamp(startCol, 0, g.cols-1)
	g.selEndRow = clamp(endRow, 0, g.rows-1)
	g.selEndCol = clamp(endCol, 0, g.cols-1)
}

// ClearSelection clears any active selection.
func (g *Grid) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selectionActive = false
}

// SelectedText returns the text within the current selection, or an
// empty string if there is none.
func (g *Grid) SelectedText() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.selectionActive {
		return ""
	}
	startRow, startCol := g.selStartRow, g.selStartCol
	endRow, endCol := g.selEndRow, g.selEndCol
	if endRow < startRow || (endRow == startRow && endCol < startCol) {
		startRow, endRow = endRow, startRow
		startCol, endCol = endCol, startCol
	}

	var lines []string
	for row := startRow; row <= endRow; row++ {
		colStart, colEnd := 0, g.cols-1
		if row == startRow {
			colStart = startCol
		}
		if row == endRow {
			colEnd = endCol
		}
		if colEnd < colStart {
			continue
		}
		var b strings.Builder
		for col := colStart; col <= colEnd; col++ {
			ch := g.cells[g.index(row, col)].Char
			if ch == 0 {
				ch = ' '
			}
			b.WriteRune(ch)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

var _ Capabilities = (*Grid)(nil)
