// Package styledline holds the shared Styled Line data model used across the
// transcript, selection, multi-click, and clipboard packages: an ordered
// sequence of spans, each carrying text content and a style.
package styledline

import "github.com/clipperhouse/displaywidth"

// Modifier is a single text attribute bit.
type Modifier uint8

const (
	Bold Modifier = 1 << iota
	Italic
	Underline
	Reverse
	Dim
	Blink
	CrossedOut
)

// Has reports whether m includes the given bit.
func (m Modifier) Has(bit Modifier) bool { return m&bit != 0 }

// Style is a span or line-wide style: foreground/background color plus a
// modifier set. Colors are opaque strings (hex "#rrggbb" or ANSI name) so
// this package stays independent of any particular color library.
type Style struct {
	Fg  string
	Bg  string
	Mod Modifier
}

// IsCyanForeground reports whether the style's foreground is the stable
// "cyan" marker used to flag preformatted code runs (spec §4.6, §9 Open
// Question (b)). Kept alongside the explicit IsPreformatted escape hatch on
// Line so callers can migrate off color sniffing incrementally.
func (s Style) IsCyanForeground() bool {
	switch s.Fg {
	case "cyan", "#00ffff", "#00e5cc", "6", "14":
		return true
	default:
		return false
	}
}

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Line is an ordered sequence of spans with an optional line-wide style
// overlay (applied under/behind span styles, e.g. a full-row background).
type Line struct {
	Spans []Span

	// Overlay is a line-wide style; the zero value means "no overlay".
	Overlay      Style
	HasOverlay   bool
	IsPreformatted bool // explicit code-run flag; see spec §9 Open Question (b)
}

// Plain concatenates all span text with no styling.
func (l Line) Plain() string {
	out := make([]byte, 0, 64)
	for _, sp := range l.Spans {
		out = append(out, sp.Text...)
	}
	return string(out)
}

// DisplayWidth returns the total display width of the line in columns,
// using Unicode East Asian Width via displaywidth.
func (l Line) DisplayWidth() int {
	w := 0
	for _, sp := range l.Spans {
		w += displaywidth.String(sp.Text)
	}
	return w
}

// IsCodeRun reports whether this line should be treated as a preformatted
// code run for clipboard reconstruction: either explicitly flagged, or (the
// legacy heuristic spec §4.6 describes) the line-wide overlay/first span has
// a cyan foreground.
func (l Line) IsCodeRun() bool {
	if l.IsPreformatted {
		return true
	}
	if l.HasOverlay && l.Overlay.IsCyanForeground() {
		return true
	}
	if len(l.Spans) > 0 && l.Spans[0].Style.IsCyanForeground() {
		return true
	}
	return false
}

// RightmostNonSpaceColumn returns the 0-based display column one past the
// last non-space glyph, or 0 if the line is all whitespace/empty.
func (l Line) RightmostNonSpaceColumn() int {
	col := 0
	last := 0
	for _, sp := range l.Spans {
		for _, r := range sp.Text {
			w := displaywidth.String(string(r))
			col += w
			if r != ' ' {
				last = col
			}
		}
	}
	return last
}

// SliceByColumn returns a new Line containing only the content within the
// half-open display-column interval [startCol, endCol), splitting spans at
// the boundary and preserving each surviving span's style.
func (l Line) SliceByColumn(startCol, endCol int) Line {
	if startCol < 0 {
		startCol = 0
	}
	if endCol < startCol {
		endCol = startCol
	}
	out := Line{IsPreformatted: l.IsPreformatted, Overlay: l.Overlay, HasOverlay: l.HasOverlay}
	col := 0
	for _, sp := range l.Spans {
		var b []byte
		for _, r := range sp.Text {
			w := displaywidth.String(string(r))
			if col >= startCol && col < endCol {
				b = append(b, string(r)...)
			}
			col += w
		}
		if len(b) > 0 {
			out.Spans = append(out.Spans, Span{Text: string(b), Style: sp.Style})
		}
	}
	return out
}
