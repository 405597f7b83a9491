package renderer

import "github.com/quillterm/quillterm/internal/styledline"

// DrawCommand is one unit of the minimal diff output: a cursor move, a style
// change, a glyph put, or a clear-to-end-of-row.
type DrawCommand interface{ isDrawCommand() }

// MoveCmd repositions the emission cursor without touching content.
type MoveCmd struct{ X, Y int }

// PutCmd writes one glyph cell at the current emission position.
type PutCmd struct {
	X, Y int
	Cell Cell
}

// ClearToEndCmd clears from (X, Y) to the end of that row using Bg.
type ClearToEndCmd struct {
	X, Y int
	Bg   string
}

func (MoveCmd) isDrawCommand()        {}
func (PutCmd) isDrawCommand()         {}
func (ClearToEndCmd) isDrawCommand()  {}

// meaningfulRange locates, for one row, the rightmost column whose glyph is
// non-space OR whose background differs from the row's trailing background
// OR whose modifier set is non-empty. Wide glyphs extend the meaningful
// range by their display width. Returns -1 if the row is entirely blank in
// the trailing background with no modifiers.
func meaningfulRange(buf *Buffer, y int, trailingBg string) int {
	last := -1
	for x := 0; x < buf.Width; x++ {
		c := buf.At(x, y)
		if c.Skip {
			continue
		}
		nonSpace := c.Rune != ' ' && c.Rune != 0
		bgDiffers := c.Style.Bg != trailingBg
		hasMods := c.Style.Mod != 0
		if nonSpace || bgDiffers || hasMods {
			end := x + c.Width - 1
			if c.Width <= 0 {
				end = x
			}
			if end > last {
				last = end
			}
		}
	}
	return last
}

// Diff compares cur against prev (which may be nil, meaning "everything
// changed") and returns the ordered command sequence per spec §4.1.
func Diff(prev, cur *Buffer) []DrawCommand {
	var cmds []DrawCommand
	invalidated := make([]bool, cur.Width)

	for y := 0; y < cur.Height; y++ {
		for i := range invalidated {
			invalidated[i] = false
		}

		trailingBg := cur.At(cur.Width-1, y).Style.Bg
		last := meaningfulRange(cur, y, trailingBg)
		if last < cur.Width-1 {
			startX := last + 1
			if startX < 0 {
				startX = 0
			}
			cmds = append(cmds, ClearToEndCmd{X: startX, Y: y, Bg: trailingBg})
		}

		for x := 0; x < cur.Width; x++ {
			c := cur.At(x, y)
			if c.Skip {
				continue
			}
			var p Cell
			changed := true
			if prev != nil {
				p = prev.At(x, y)
				changed = !cellEqual(p, c) || invalidated[x]
			}
			if changed {
				cmds = append(cmds, PutCmd{X: x, Y: y, Cell: c})
			}
			if c.Width > 1 {
				for k := 1; k < c.Width && x+k < cur.Width; k++ {
					invalidated[x+k] = true
				}
			}
		}
	}
	return cmds
}

func cellEqual(a, b Cell) bool {
	return a.Rune == b.Rune && a.Width == b.Width && a.Style == b.Style
}

// modifierDelta returns the individual attribute Remove/Add transitions
// needed to move from `from` to `to`. Removing Bold or Dim requires "normal
// intensity" (which clears both), so whichever of the two should remain
// set is re-applied afterward (spec §4.1).
func modifierDelta(from, to styledline.Modifier) (remove, add []styledline.Modifier) {
	bits := []styledline.Modifier{
		styledline.Bold, styledline.Italic, styledline.Underline,
		styledline.Reverse, styledline.Dim, styledline.Blink, styledline.CrossedOut,
	}
	needsIntensityReset := (from.Has(styledline.Bold) && !to.Has(styledline.Bold)) ||
		(from.Has(styledline.Dim) && !to.Has(styledline.Dim))
	for _, bit := range bits {
		hadIt := from.Has(bit)
		wantIt := to.Has(bit)
		if hadIt && !wantIt {
			remove = append(remove, bit)
		}
	}
	for _, bit := range bits {
		hadIt := from.Has(bit)
		wantIt := to.Has(bit)
		if !hadIt && wantIt {
			add = append(add, bit)
		} else if (bit == styledline.Bold || bit == styledline.Dim) && needsIntensityReset && wantIt {
			// The intensity reset also cleared this bit; re-add it even
			// though it was already set in `from`.
			add = append(add, bit)
		}
	}
	return remove, add
}
