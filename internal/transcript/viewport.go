package transcript

import (
	"time"

	"github.com/clipperhouse/displaywidth"
	"github.com/clipperhouse/uax29/v2/words"
	"github.com/quillterm/quillterm/internal/clipcopy"
	"github.com/quillterm/quillterm/internal/multiclick"
	"github.com/quillterm/quillterm/internal/scrollnorm"
	"github.com/quillterm/quillterm/internal/styledline"
	"github.com/quillterm/quillterm/internal/tselect"
)

func displayWidthRune(r rune) int {
	w := displaywidth.Rune(r)
	if w <= 0 {
		w = 1
	}
	return w
}

// Scroll describes where the viewport's top edge sits relative to the
// flattened wrapped-line list.
type Scroll struct {
	ToBottom bool
	// CellIndex/LineInCell identify a specific wrapped line when not
	// pinned to the bottom, so that appending new cells below does not
	// move the user's place (content-stable scrolling).
	CellIndex  int
	LineInCell int
}

// wrappedLine is one flattened, wrapped row of a history cell, tagged with
// the cell/line-within-cell it came from for scroll and selection mapping.
type wrappedLine struct {
	cellIndex  int
	lineInCell int
	line       styledline.Line
	isSpacer   bool
	remainder  string  // full unwrapped tail, for clipboard reconstruction at the edge
	joiner     *string // non-nil iff this row is a soft-wrap continuation of the previous row
}

// Model is the Transcript Viewport Controller: it owns the cell log,
// flattens it into wrapped lines at the current width, and drives
// selection, multi-click expansion, and clipboard reconstruction.
type Model struct {
	cells []HistoryCell
	width int

	wrapped    []wrappedLine
	wrapWidth  int
	wrapStale  bool

	scroll Scroll
	sel    tselect.Model
	mc     multiclick.Model

	scrollState scrollnorm.State
}

// New returns an empty transcript viewport controller.
func New() *Model {
	return &Model{scroll: Scroll{ToBottom: true}, wrapStale: true}
}

// Append adds cells to the end of the log. If the viewport was pinned to
// the bottom it remains pinned; otherwise the user's scroll position is
// preserved in cell/line-in-cell terms, so new content below does not
// shift what they're looking at.
func (m *Model) Append(cells ...HistoryCell) {
	m.cells = append(m.cells, cells...)
	m.wrapStale = true
}

// SetWidth updates the wrap width, invalidating the flattened line cache.
func (m *Model) SetWidth(w int) {
	if w != m.width {
		m.width = w
		m.wrapStale = true
	}
}

func (m *Model) ensureWrapped() {
	if !m.wrapStale && m.wrapWidth == m.width {
		return
	}
	m.wrapWidth = m.width
	m.wrapStale = false

	var out []wrappedLine
	for ci, cell := range m.cells {
		if ci > 0 && !cell.IsStreamContinuation() {
			out = append(out, wrappedLine{cellIndex: ci, lineInCell: -1, isSpacer: true})
		}
		for li, line := range cell.DisplayLines() {
			chunks, joiners, remainders := wrapDisplayLine(line, m.width)
			for i, wl := range chunks {
				out = append(out, wrappedLine{
					cellIndex:  ci,
					lineInCell: li,
					line:       wl,
					joiner:     joiners[i],
					remainder:  remainders[i],
				})
			}
		}
	}
	m.wrapped = out
}

// wrapDisplayLine splits one logical display line into visual rows at
// width, per spec §4.7/§3: preformatted lines (code runs, diff hunks, tool
// output) are hard-wrapped at the display column — spec's capability set
// treats per-cell transcript_lines_with_joiners as "tagged variants over a
// closed cell catalog [are] equally valid" rather than requiring virtual
// dispatch per cell, so this dispatch lives centrally here, keyed on
// Line.IsPreformatted. Prose lines are word-wrapped, and joiners[i]
// carries the literal text (usually a single space) consumed at the break
// before row i, to be reinserted on copy in place of the hard newline
// (spec §3 "Joiner"). remainders[i] is the unwrapped tail of the logical
// line beyond row i, used only by clipboard reconstruction when a code-run
// selection reaches the viewport edge (spec §4.6 point 3).
func wrapDisplayLine(line styledline.Line, width int) (chunks []styledline.Line, joiners []*string, remainders []string) {
	if line.IsPreformatted {
		chunks = wrapPreformatted(line, width)
		joiners = make([]*string, len(chunks))
		remainders = make([]string, len(chunks))
		for i := range chunks {
			var tail string
			for _, c := range chunks[i+1:] {
				tail += c.Plain()
			}
			remainders[i] = tail
		}
		return chunks, joiners, remainders
	}
	chunks, joiners = wrapProse(line, width)
	remainders = make([]string, len(chunks))
	return chunks, joiners, remainders
}

// wrapPreformatted hard-wraps a styled line at display-column width,
// preserving per-span styling across the break (spec §4.7's reflow-stable
// wrapping for code/diff/tool-output lines).
func wrapPreformatted(line styledline.Line, width int) []styledline.Line {
	if width <= 0 {
		return []styledline.Line{line}
	}
	total := line.DisplayWidth()
	if total <= width {
		return []styledline.Line{line}
	}
	var out []styledline.Line
	col := 0
	for col < total {
		end := col + width
		if end > total {
			end = total
		}
		out = append(out, line.SliceByColumn(col, end))
		col = end
	}
	if len(out) == 0 {
		out = append(out, line)
	}
	return out
}

// wrapProse word-wraps a styled prose line at word boundaries found by
// github.com/clipperhouse/uax29/v2's segmenter, mirroring the greedy
// first-fit algorithm internal/textarea's wrapText uses for the composer,
// but excluding the break whitespace from either chunk and returning it
// instead as that row's joiner (spec §3). Falls back to a hard column
// split when a single word exceeds width, same as the composer.
func wrapProse(line styledline.Line, width int) ([]styledline.Line, []*string) {
	plain := line.Plain()
	if width <= 0 || displaywidth.String(plain) <= width {
		return []styledline.Line{line}, []*string{nil}
	}

	type byteRange struct{ start, end int }
	var ranges []byteRange
	var joinerTexts []string // joinerTexts[i] is the text consumed before ranges[i] (empty for i==0)

	lineStart := 0
	col := 0
	lastBreakStart, lastBreakEnd := -1, -1
	lastBreakCol := 0
	pendingJoiner := ""

	// flush closes out the chunk [lineStart, end), records joinerForNext as
	// the joiner for the chunk that will start at nextStart, and resets the
	// per-line accumulators.
	flush := func(end, nextStart int, joinerForNext string) {
		ranges = append(ranges, byteRange{lineStart, end})
		joinerTexts = append(joinerTexts, pendingJoiner)
		pendingJoiner = joinerForNext
		lineStart = nextStart
		col = 0
		lastBreakStart, lastBreakEnd = -1, -1
		lastBreakCol = 0
	}

	pos := 0
	for tok := range words.FromString(plain) {
		tokStart := pos
		tokEnd := pos + len(tok)
		pos = tokEnd

		w := displaywidth.String(tok)
		isSpace := isAllSpaceTok(tok)

		if col+w > width && col > 0 {
			if lastBreakEnd > lineStart {
				joiner := plain[lastBreakStart:lastBreakEnd]
				flush(lastBreakStart, lastBreakEnd, joiner)
				col = col - lastBreakCol
			} else {
				flush(tokStart, tokStart, "")
			}
		}

		for w > width {
			cut := cutAtDisplayWidth(plain[tokStart:tokEnd], width)
			if cut == 0 {
				cut = 1
			}
			flush(tokStart+cut, tokStart+cut, "")
			tokStart += cut
			w = displaywidth.String(plain[tokStart:tokEnd])
		}

		col += w
		if isSpace {
			lastBreakStart, lastBreakEnd = tokStart, tokEnd
			lastBreakCol = col
		}
	}
	if lineStart < len(plain) || len(ranges) == 0 {
		ranges = append(ranges, byteRange{lineStart, len(plain)})
		joinerTexts = append(joinerTexts, pendingJoiner)
	}

	chunks := make([]styledline.Line, len(ranges))
	joiners := make([]*string, len(ranges))
	for i, r := range ranges {
		colStart := displaywidth.String(plain[:r.start])
		colEnd := displaywidth.String(plain[:r.end])
		chunks[i] = line.SliceByColumn(colStart, colEnd)
		if i > 0 {
			j := joinerTexts[i]
			joiners[i] = &j
		}
	}
	return chunks, joiners
}

func isAllSpaceTok(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return len(s) > 0
}

// cutAtDisplayWidth returns the byte offset within s at which accumulated
// display width first reaches or exceeds width, landing on a rune boundary.
func cutAtDisplayWidth(s string, width int) int {
	col := 0
	for i, r := range s {
		w := displaywidth.Rune(r)
		if col+w > width && col > 0 {
			return i
		}
		col += w
		if col >= width {
			for j := i + utf8Len(r); j <= len(s); j++ {
				if j == len(s) || utf8RuneStart(s[j]) {
					return j
				}
			}
		}
	}
	return len(s)
}

func utf8Len(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

// VisibleLines returns the styled lines in view for a viewport of the given
// height, resolving the scroll position (possibly pinned to bottom) into a
// top-offset index into the flattened line list.
func (m *Model) VisibleLines(height int) []styledline.Line {
	m.ensureWrapped()
	top := m.topOffset(height)
	end := top + height
	if end > len(m.wrapped) {
		end = len(m.wrapped)
	}
	if top > end {
		top = end
	}
	out := make([]styledline.Line, 0, end-top)
	for i, wl := range m.wrapped[top:end] {
		out = append(out, m.withSelectionOverlay(wl, top+i))
	}
	return out
}

func (m *Model) topOffset(height int) int {
	if m.scroll.ToBottom {
		top := len(m.wrapped) - height
		if top < 0 {
			top = 0
		}
		return top
	}
	for i, wl := range m.wrapped {
		if wl.cellIndex == m.scroll.CellIndex && wl.lineInCell == m.scroll.LineInCell {
			return i
		}
	}
	return 0
}

// withSelectionOverlay applies the REVERSED modifier to the portion of wl
// covered by the active selection, if any.
func (m *Model) withSelectionOverlay(wl wrappedLine, rowIndex int) styledline.Line {
	sel := m.sel.Current()
	if !sel.Active() {
		return wl.line
	}
	start, end := tselect.OrderedEndpoints(*sel.Anchor, *sel.Head)
	if rowIndex < start.Line || rowIndex > end.Line {
		return wl.line
	}
	startCol, endCol := 0, wl.line.DisplayWidth()
	if rowIndex == start.Line {
		startCol = start.Col
	}
	if rowIndex == end.Line {
		endCol = end.Col
	}
	return applyReverseRange(wl.line, startCol, endCol)
}

// applyReverseRange returns a copy of line with the Reverse modifier added
// to every span byte falling within the half-open display-column interval
// [startCol, endCol), splitting spans at the boundary as needed.
func applyReverseRange(line styledline.Line, startCol, endCol int) styledline.Line {
	if startCol >= endCol {
		return line
	}
	out := line
	out.Spans = nil
	col := 0
	for _, sp := range line.Spans {
		var plain, selected []byte
		flush := func(buf []byte, style styledline.Style) {
			if len(buf) > 0 {
				out.Spans = append(out.Spans, styledline.Span{Text: string(buf), Style: style})
			}
		}
		for _, r := range sp.Text {
			inRange := col >= startCol && col < endCol
			if inRange {
				if len(plain) > 0 {
					flush(plain, sp.Style)
					plain = nil
				}
				selected = append(selected, string(r)...)
			} else {
				if len(selected) > 0 {
					rev := sp.Style
					rev.Mod |= styledline.Reverse
					flush(selected, rev)
					selected = nil
				}
				plain = append(plain, string(r)...)
			}
			col += displayWidthRune(r)
		}
		flush(plain, sp.Style)
		if len(selected) > 0 {
			rev := sp.Style
			rev.Mod |= styledline.Reverse
			flush(selected, rev)
		}
	}
	return out
}

// PageUp/PageDown/Home/End implement the viewport's scroll
// keybindings (spec §4.7).
func (m *Model) PageUp(height int) {
	m.ensureWrapped()
	top := m.topOffset(height)
	top -= height
	if top < 0 {
		top = 0
	}
	m.scrollTo(top)
}

func (m *Model) PageDown(height int) {
	m.ensureWrapped()
	top := m.topOffset(height)
	top += height
	if top >= len(m.wrapped)-height {
		m.scroll = Scroll{ToBottom: true}
		return
	}
	m.scrollTo(top)
}

func (m *Model) Home() {
	m.ensureWrapped()
	m.scrollTo(0)
}

func (m *Model) End() {
	m.scroll = Scroll{ToBottom: true}
}

func (m *Model) scrollTo(top int) {
	if top < 0 || top >= len(m.wrapped) {
		m.scroll = Scroll{ToBottom: top >= len(m.wrapped)}
		return
	}
	wl := m.wrapped[top]
	m.scroll = Scroll{CellIndex: wl.cellIndex, LineInCell: wl.lineInCell}
}

// CopySelection flattens the current selection back into clipboard text
// via internal/clipcopy, or returns ok=false if nothing is selected.
func (m *Model) CopySelection() (string, bool) {
	sel := m.sel.Current()
	if !sel.Active() {
		return "", false
	}
	start, end := tselect.OrderedEndpoints(*sel.Anchor, *sel.Head)
	m.ensureWrapped()
	lines := make([]clipcopy.WrappedLine, len(m.wrapped))
	for i, wl := range m.wrapped {
		lines[i] = clipcopy.WrappedLine{Line: wl.line, Joiner: wl.joiner, Remainder: wl.remainder}
	}
	return clipcopy.Reconstruct(lines, start, end, m.width)
}

// wrappedViewAdapter satisfies multiclick.WrappedView over the flattened
// line cache so multi-click expansion can reuse it without a direct
// dependency on transcript's internal layout.
type wrappedViewAdapter struct{ m *Model }

func (a wrappedViewAdapter) LineCount() int { return len(a.m.wrapped) }

func (a wrappedViewAdapter) LineDisplayText(line int) string {
	if line < 0 || line >= len(a.m.wrapped) {
		return ""
	}
	return a.m.wrapped[line].line.Plain()
}

func (a wrappedViewAdapter) CellIndexForLine(line int) int {
	if line < 0 || line >= len(a.m.wrapped) {
		return -1
	}
	wl := a.m.wrapped[line]
	if wl.isSpacer {
		return -1
	}
	return wl.cellIndex
}

func (a wrappedViewAdapter) IsSpacerLine(line int) bool {
	if line < 0 || line >= len(a.m.wrapped) {
		return false
	}
	return a.m.wrapped[line].isSpacer
}

// OnClick dispatches a transcript click through the multi-click expander
// and applies the resulting selection.
func (m *Model) OnClick(t time.Time, p tselect.Point) {
	m.ensureWrapped()
	view := wrappedViewAdapter{m}
	_, sel := m.mc.OnClick(t, p, view)
	if sel.Anchor != nil && sel.Head != nil {
		m.sel.SetSelection(*sel.Anchor, *sel.Head)
	} else if sel.Anchor != nil {
		m.sel.OnMouseDown(*sel.Anchor)
	}
}

// Cells exposes the underlying log for tests and diagnostics.
func (m *Model) Cells() []HistoryCell { return m.cells }

// OnWheel normalizes one raw mouse-wheel event via internal/scrollnorm and
// applies the resulting line delta, scrolling away from the bottom pin as
// soon as any upward delta arrives (spec §4.3/§4.7 interaction).
func (m *Model) OnWheel(t time.Time, dir scrollnorm.Direction, cfg scrollnorm.Config, height int) *time.Duration {
	res := m.scrollState.OnScrollEvent(t, dir, cfg)
	m.applyLineDelta(res.Lines, height)
	return res.NextTickIn
}

// OnScrollTick processes a scheduled scrollnorm follow-up tick.
func (m *Model) OnScrollTick(t time.Time, cfg scrollnorm.Config, height int) *time.Duration {
	res := m.scrollState.OnTick(t, cfg)
	m.applyLineDelta(res.Lines, height)
	return res.NextTickIn
}

func (m *Model) applyLineDelta(delta int32, height int) {
	if delta == 0 {
		return
	}
	m.ensureWrapped()
	top := m.topOffset(height)
	top += int(delta)
	if top >= len(m.wrapped)-height {
		m.scroll = Scroll{ToBottom: true}
		return
	}
	m.scrollTo(top)
}

// OnMouseDrag forwards a drag to the selection model, locking scroll to its
// current anchored position if the drag starts while streaming output is
// auto-scrolling the viewport to the bottom (spec §4.4).
func (m *Model) OnMouseDrag(p tselect.Point, streaming bool, height int) {
	scrollState := tselect.ScrollAnchored
	if m.scroll.ToBottom {
		scrollState = tselect.ScrollToBottom
	}
	res := m.sel.OnMouseDrag(scrollState, p, streaming)
	m.mc.OnDrag(p)
	if res.LockScroll {
		m.ensureWrapped()
		m.scrollTo(m.topOffset(height))
	}
}

// OnMouseUp finalizes a drag-selection gesture.
func (m *Model) OnMouseUp() { m.sel.OnMouseUp() }

// OnMouseDown anchors a new selection at p.
func (m *Model) OnMouseDown(p tselect.Point) { m.sel.OnMouseDown(p) }
