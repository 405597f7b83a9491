package renderer

import "github.com/clipperhouse/displaywidth"

// runeWidth returns the East-Asian-Width-aware display width of a single
// rune (0 for zero-width marks, 1 normally, 2 for wide glyphs).
func runeWidth(r rune) int {
	return displaywidth.Rune(r)
}
