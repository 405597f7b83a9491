package textarea

import (
	"github.com/clipperhouse/displaywidth"
	"github.com/clipperhouse/uax29/v2/words"
)

// wrapCache holds the word-wrapped line decomposition computed for one
// width. It is invalidated whenever the buffer mutates or the width
// changes, matching spec §4.2's lazy, width-keyed cache.
type wrapCache struct {
	width int
	lines []Range // half-open byte ranges; includes trailing newline byte if any
	valid bool
}

func (c *wrapCache) invalidate() { c.valid = false }

// ensure recomputes the wrap cache for text at width if stale.
func (c *wrapCache) ensure(text string, width int) {
	if c.valid && c.width == width {
		return
	}
	c.width = width
	c.lines = wrapText(text, width)
	c.valid = true
}

// wrapText splits text into display-width-bounded lines, breaking at
// word boundaries found by github.com/clipperhouse/uax29/v2's segmenter
// where possible (first-fit greedy wrap), falling back to a hard break
// mid-word when a single word exceeds width.
func wrapText(text string, width int) []Range {
	if width <= 0 {
		width = 1
	}
	var out []Range
	lineStart := 0
	col := 0
	lastBreak := -1 // byte offset of last word-boundary seen on this line
	lastBreakCol := 0

	pos := 0
	flushHard := func(end int) {
		out = append(out, Range{lineStart, end})
		lineStart = end
		col = 0
		lastBreak = -1
		lastBreakCol = 0
	}

	for tok := range words.FromString(text) {
		tokStart := pos
		tokEnd := pos + len(tok)
		pos = tokEnd

		if tok == "\n" || tok == "\r\n" {
			out = append(out, Range{lineStart, tokEnd})
			lineStart = tokEnd
			col = 0
			lastBreak = -1
			lastBreakCol = 0
			continue
		}

		w := displaywidth.String(tok)
		isSpace := isAllSpace(tok)

		if col+w > width && col > 0 {
			if lastBreak > lineStart {
				out = append(out, Range{lineStart, lastBreak})
				lineStart = lastBreak
				col = col - lastBreakCol
			} else {
				flushHard(tokStart)
			}
		}

		// A single token wider than the whole line must be hard-split.
		for w > width {
			cut := cutAtWidth(text[tokStart:tokEnd], width)
			if cut == 0 {
				cut = 1
			}
			flushHard(tokStart + cut)
			tokStart += cut
			w = displaywidth.String(text[tokStart:tokEnd])
		}

		col += w
		if isSpace {
			lastBreak = tokEnd
			lastBreakCol = col
		}
	}
	if lineStart < len(text) || len(out) == 0 {
		out = append(out, Range{lineStart, len(text)})
	}
	return out
}

func isAllSpace(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return len(s) > 0
}

// cutAtWidth returns the byte offset within s at which accumulated display
// width first reaches or exceeds width.
func cutAtWidth(s string, width int) int {
	col := 0
	for i, r := range s {
		w := displaywidth.Rune(r)
		if col+w > width && col > 0 {
			return i
		}
		col += w
		if col >= width {
			// include this rune's bytes
			for j := i + 1; j <= len(s); j++ {
				if j == len(s) || utf8RuneStart(s[j]) {
					return j
				}
			}
		}
	}
	return len(s)
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
