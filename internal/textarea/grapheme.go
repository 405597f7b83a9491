package textarea

import "github.com/rivo/uniseg"

// graphemeBoundaries returns every grapheme cluster boundary byte offset in
// s, including 0 and len(s), in ascending order.
func graphemeBoundaries(s string) []int {
	bounds := []int{0}
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		_, to := gr.Positions()
		bounds = append(bounds, to)
	}
	return bounds
}

// nextGraphemeBoundary returns the first grapheme boundary strictly after
// pos, or len(s) if pos is already at or past the end.
func nextGraphemeBoundary(s string, pos int) int {
	if pos >= len(s) {
		return len(s)
	}
	rest := s[pos:]
	gr := uniseg.NewGraphemes(rest)
	if gr.Next() {
		_, to := gr.Positions()
		return pos + to
	}
	return len(s)
}

// prevGraphemeBoundary returns the last grapheme boundary strictly before
// pos, or 0 if pos is already at or before the start.
func prevGraphemeBoundary(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	bounds := graphemeBoundaries(s[:pos])
	if len(bounds) == 0 {
		return 0
	}
	// graphemeBoundaries(s[:pos]) always ends with len(s[:pos]) == pos;
	// the previous boundary is the one before that.
	if len(bounds) >= 2 {
		return bounds[len(bounds)-2]
	}
	return 0
}
