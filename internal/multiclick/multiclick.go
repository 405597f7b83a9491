// Package multiclick implements the transcript multi-click expander: it
// groups temporally-close clicks and expands the selection to word / line /
// paragraph / cell scope, recomputing wrapped lines and cell ownership on
// every click so expansion stays correct under reflow and streaming appends.
//
// Grounded on the teacher's tui/mouse.go click handling (handleConvClick,
// isClickableLine) generalized to the word/line/paragraph/cell ladder from
// spec §4.5. Word classification uses the fixed Token/Whitespace/Other
// classes spec §4.5 specifies directly, rather than full segmentation
// (github.com/clipperhouse/uax29/v2 backs the text area's word-wrap
// boundary search instead — see internal/textarea).
package multiclick

import (
	"time"

	"github.com/clipperhouse/displaywidth"
	"github.com/quillterm/quillterm/internal/tselect"
)

const (
	multiClickWindow = 650 * time.Millisecond
	jitterToleranceLow  = 4 // counts <= 1
	jitterToleranceMid  = 8 // count == 2
)

// WrappedView is the read-only view onto the current wrapped transcript the
// expander queries. Implementations recompute eagerly — the expander never
// caches beyond one call, so a reflow between clicks is automatically safe.
type WrappedView interface {
	LineCount() int
	// LineDisplayText returns the gutter-excluded content text of the
	// wrapped line, for column/word classification.
	LineDisplayText(line int) string
	// CellIndexForLine returns the originating history cell index for a
	// wrapped line, or -1 for a spacer line.
	CellIndexForLine(line int) int
	// IsSpacerLine reports whether the wrapped line is a blank spacer
	// inserted between non-continuation cells.
	IsSpacerLine(line int) bool
}

// click records one physical click for sequence tracking.
type click struct {
	point tselect.Point
	count int
	at    time.Time
}

// Model tracks the last click and resets the sequence on timeout, line
// change, or excess jitter.
type Model struct {
	last *click
}

// tolerance returns the column jitter allowance for continuing a sequence
// at the given previous click count (spec §4.5).
func tolerance(prevCount int) int {
	switch {
	case prevCount <= 1:
		return jitterToleranceLow
	case prevCount == 2:
		return jitterToleranceMid
	default:
		return -1 // unbounded
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// OnClick registers a new click at time t and point p, returning the
// resulting click count (1..) and the Selection to install, if any. view may
// be nil only when count resolves to 1 (no expansion needed).
func (m *Model) OnClick(t time.Time, p tselect.Point, view WrappedView) (count int, sel tselect.Selection) {
	count = 1
	if m.last != nil {
		tol := tolerance(m.last.count)
		withinTime := t.Sub(m.last.at) <= multiClickWindow
		sameLine := m.last.point.Line == p.Line
		withinCols := tol < 0 || abs(p.Col-m.last.point.Col) <= tol
		if withinTime && sameLine && withinCols {
			count = m.last.count + 1
		}
	}
	m.last = &click{point: p, count: count, at: t}

	switch {
	case count == 1:
		return count, tselect.Selection{Anchor: &p}
	case count == 2:
		return count, m.expandWord(p, view)
	case count == 3:
		return count, m.expandLine(p, view)
	case count == 4:
		return count, m.expandParagraph(p, view)
	default:
		return count, m.expandCell(p, view)
	}
}

// OnDrag resets the click sequence if the drag has moved far enough away
// (more than one wrapped line vertically, or more than 4 columns
// horizontally); smaller jitter does not reset it (spec §4.5).
func (m *Model) OnDrag(p tselect.Point) {
	if m.last == nil {
		return
	}
	if abs(p.Line-m.last.point.Line) > 1 || abs(p.Col-m.last.point.Col) > 4 {
		m.last = nil
	}
}

// Reset clears any tracked click sequence.
func (m *Model) Reset() { m.last = nil }

// charClass classifies runes for the word-expansion heuristic (spec §4.5):
// Whitespace; Token (alphanumeric plus a fixed punctuation set common in
// paths/URLs/identifiers); Other.
type charClass int

const (
	classWhitespace charClass = iota
	classToken
	classOther
)

const tokenExtra = "_-./\\:@#$%+=?&~*"

func classify(r rune) charClass {
	switch {
	case r == ' ' || r == '\t':
		return classWhitespace
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
		return classToken
	default:
		for _, t := range tokenExtra {
			if r == t {
				return classToken
			}
		}
		return classOther
	}
}

// expandWord finds the maximal same-class run of display columns around the
// click column on the wrapped line at p.Line.
func (m *Model) expandWord(p tselect.Point, view WrappedView) tselect.Selection {
	if view == nil || p.Line < 0 || p.Line >= view.LineCount() {
		return tselect.Selection{Anchor: &p, Head: &p}
	}
	text := view.LineDisplayText(p.Line)
	cols, classes := columnClasses(text)
	if len(cols) == 0 {
		return tselect.Selection{Anchor: &p, Head: &p}
	}
	idx := columnIndex(cols, p.Col)
	cls := classes[idx]

	start := idx
	for start > 0 && classes[start-1] == cls {
		start--
	}
	end := idx
	for end < len(classes)-1 && classes[end+1] == cls {
		end++
	}
	startCol := cols[start]
	endCol := cols[end] + 1
	a := tselect.Point{Line: p.Line, Col: startCol}
	h := tselect.Point{Line: p.Line, Col: endCol}
	return tselect.Selection{Anchor: &a, Head: &h}
}

// columnClasses returns, per display column, the rune class occupying that
// column (wide glyphs repeat their class across their occupied columns).
func columnClasses(text string) (cols []int, classes []charClass) {
	col := 0
	for _, r := range text {
		w := displaywidth.String(string(r))
		if w <= 0 {
			w = 1
		}
		cls := classify(r)
		for i := 0; i < w; i++ {
			cols = append(cols, col+i)
			classes = append(classes, cls)
		}
		col += w
	}
	return cols, classes
}

// columnIndex returns the index into cols of the entry matching col, or the
// closest preceding entry if col is past the end.
func columnIndex(cols []int, col int) int {
	for i, c := range cols {
		if c == col {
			return i
		}
	}
	if len(cols) == 0 {
		return 0
	}
	return len(cols) - 1
}

func (m *Model) expandLine(p tselect.Point, view WrappedView) tselect.Selection {
	if view == nil {
		return tselect.Selection{Anchor: &p, Head: &p}
	}
	a := tselect.Point{Line: p.Line, Col: 0}
	h := tselect.Point{Line: p.Line, Col: displaywidth.String(view.LineDisplayText(p.Line))}
	return tselect.Selection{Anchor: &a, Head: &h}
}

// expandParagraph selects the maximal run of contiguous non-spacer wrapped
// lines surrounding the click. If the click landed on a spacer line, it
// prefers the paragraph above, falling back to the paragraph below.
func (m *Model) expandParagraph(p tselect.Point, view WrappedView) tselect.Selection {
	if view == nil {
		return tselect.Selection{Anchor: &p, Head: &p}
	}
	line := p.Line
	if view.IsSpacerLine(line) {
		if line > 0 && !view.IsSpacerLine(line - 1) {
			line--
		} else if line+1 < view.LineCount() && !view.IsSpacerLine(line+1) {
			line++
		} else {
			a, h := p, p
			return tselect.Selection{Anchor: &a, Head: &h}
		}
	}
	start := line
	for start > 0 && !view.IsSpacerLine(start-1) {
		start--
	}
	end := line
	for end+1 < view.LineCount() && !view.IsSpacerLine(end+1) {
		end++
	}
	a := tselect.Point{Line: start, Col: 0}
	h := tselect.Point{Line: end, Col: displaywidth.String(view.LineDisplayText(end))}
	return tselect.Selection{Anchor: &a, Head: &h}
}

// expandCell selects every wrapped line originating from the same history
// cell as the click.
func (m *Model) expandCell(p tselect.Point, view WrappedView) tselect.Selection {
	if view == nil {
		return tselect.Selection{Anchor: &p, Head: &p}
	}
	cellIdx := view.CellIndexForLine(p.Line)
	if cellIdx < 0 {
		return m.expandParagraph(p, view)
	}
	start, end := -1, -1
	for i := 0; i < view.LineCount(); i++ {
		if view.CellIndexForLine(i) == cellIdx {
			if start == -1 {
				start = i
			}
			end = i
		}
	}
	if start == -1 {
		a, h := p, p
		return tselect.Selection{Anchor: &a, Head: &h}
	}
	a := tselect.Point{Line: start, Col: 0}
	h := tselect.Point{Line: end, Col: displaywidth.String(view.LineDisplayText(end))}
	return tselect.Selection{Anchor: &a, Head: &h}
}
