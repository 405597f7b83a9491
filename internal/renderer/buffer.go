// Package renderer implements the double-buffered terminal renderer: a
// diffing backend that compares two equally-sized cell grids and emits a
// minimal sequence of draw commands (cursor moves, style deltas, glyphs,
// clear-to-end) instead of repainting the whole screen every frame.
//
// Grounded on the teacher's terminal handling idiom (lipgloss/bubbletea
// rendering via charm.land/lipgloss/v2 and charmbracelet/x/ansi) and on the
// retrieval pack's charmbracelet/ultraviolet terminal writer, simplified to
// the diff algorithm spec §4.1 specifies exactly.
package renderer

import "github.com/quillterm/quillterm/internal/styledline"

// Cell is one terminal grid position.
type Cell struct {
	Rune  rune
	Width int // display width of the glyph (0 for a wide-glyph continuation cell)
	Style styledline.Style
	Skip  bool // true for continuation cells of a wide glyph; never diffed/emitted directly
}

// blankCell is the default cell: a single space with no style.
var blankCell = Cell{Rune: ' ', Width: 1}

// Buffer is a fixed-size grid of Cells.
type Buffer struct {
	Width, Height int
	cells         []Cell
}

// NewBuffer allocates a cleared buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{Width: width, Height: height}
	b.cells = make([]Cell, width*height)
	b.Clear()
	return b
}

// Resize reallocates the buffer if the size changed, clearing content.
func (b *Buffer) Resize(width, height int) {
	if width == b.Width && height == b.Height {
		return
	}
	b.Width, b.Height = width, height
	b.cells = make([]Cell, width*height)
	b.Clear()
}

// Clear resets every cell to blank.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = blankCell
	}
}

func (b *Buffer) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0, false
	}
	return y*b.Width + x, true
}

// At returns the cell at (x, y), or the zero Cell if out of bounds.
func (b *Buffer) At(x, y int) Cell {
	i, ok := b.index(x, y)
	if !ok {
		return Cell{}
	}
	return b.cells[i]
}

// Set writes a cell at (x, y); out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c Cell) {
	i, ok := b.index(x, y)
	if !ok {
		return
	}
	b.cells[i] = c
}

// SetString writes styled text starting at (x, y), advancing by each rune's
// display width and marking wide-glyph continuation cells with Skip.
func (b *Buffer) SetString(x, y int, text string, style styledline.Style) {
	col := x
	for _, r := range text {
		w := runeWidth(r)
		if w <= 0 {
			w = 1
		}
		b.Set(col, y, Cell{Rune: r, Width: w, Style: style})
		for k := 1; k < w; k++ {
			b.Set(col+k, y, Cell{Rune: 0, Width: 0, Style: style, Skip: true})
		}
		col += w
	}
}
