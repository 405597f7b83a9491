package textarea

import "github.com/clipperhouse/displaywidth"

// Model is the composer text area: a UTF-8 buffer with a byte-offset
// cursor constrained to grapheme and element boundaries.
type Model struct {
	text   string
	cursor int
	els    elements
	wrap   wrapCache

	preferredCol    int
	havePreferred   bool
	killBuffer      string
}

// New returns an empty text area.
func New() *Model {
	return &Model{}
}

// Text returns the full buffer contents.
func (m *Model) Text() string { return m.text }

// Cursor returns the current byte offset.
func (m *Model) Cursor() int { return m.cursor }

// SetText replaces the buffer wholesale, clearing elements and placing the
// cursor at the end of the new text.
func (m *Model) SetText(s string) {
	m.text = s
	m.cursor = len(s)
	m.els = elements{}
	m.wrap.invalidate()
	m.havePreferred = false
}

// SetCursor moves the cursor to pos, snapped to the nearest valid
// grapheme/element boundary.
func (m *Model) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.text) {
		pos = len(m.text)
	}
	m.cursor = m.snap(pos)
	m.havePreferred = false
}

func (m *Model) snap(pos int) int {
	pos = m.els.snapToEdge(pos)
	// Ensure we also land on a grapheme boundary (element edges are
	// always grapheme boundaries by construction, but raw input isn't).
	bounds := graphemeBoundaries(m.text)
	best := bounds[0]
	for _, b := range bounds {
		if b <= pos {
			best = b
		} else {
			break
		}
	}
	return best
}

// InsertStr inserts s at the cursor as plain (non-atomic) text.
func (m *Model) InsertStr(s string) {
	m.ReplaceRange(Range{m.cursor, m.cursor}, s)
}

// InsertElement inserts s at the cursor and marks it as one atomic element
// that cursor motion and deletion cannot partially enter.
func (m *Model) InsertElement(s string) {
	start := m.cursor
	m.ReplaceRange(Range{start, start}, s)
	if len(s) > 0 {
		m.els.add(Range{start, start + len(s)})
	}
}

// ReplaceRange implements spec §4.2's replace_range: the target range is
// first expanded to fully cover any atomic element it intersects, the text
// is substituted, elements are shifted/removed accordingly, and the cursor
// is repositioned to the end of the inserted text then snapped to a valid
// boundary.
func (m *Model) ReplaceRange(r Range, s string) {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	r = m.els.expandToCover(r)
	m.text = m.text[:r.Start] + s + m.text[r.End:]
	m.els.applyReplace(r, len(s))
	m.wrap.invalidate()
	m.cursor = m.snap(r.Start + len(s))
	m.havePreferred = false
}

// DeleteBackward removes one atomic step left of the cursor: the
// containing element if inside one, otherwise one grapheme cluster.
func (m *Model) DeleteBackward() {
	if m.cursor == 0 {
		return
	}
	if r, ok := m.els.containing(m.cursor); ok {
		m.ReplaceRange(r, "")
		return
	}
	start := prevGraphemeBoundary(m.text, m.cursor)
	m.ReplaceRange(Range{start, m.cursor}, "")
}

// DeleteForward removes one atomic step right of the cursor.
func (m *Model) DeleteForward() {
	if m.cursor >= len(m.text) {
		return
	}
	if r, ok := m.els.containing(m.cursor); ok {
		m.ReplaceRange(r, "")
		return
	}
	end := nextGraphemeBoundary(m.text, m.cursor)
	m.ReplaceRange(Range{m.cursor, end}, "")
}

// MoveLeft moves one atomic step left: out of an element to its start edge,
// otherwise back one grapheme cluster.
func (m *Model) MoveLeft() {
	if r, ok := m.els.containing(m.cursor); ok {
		m.cursor = r.Start
	} else {
		m.cursor = prevGraphemeBoundary(m.text, m.cursor)
		if r, ok := m.els.containing(m.cursor); ok {
			m.cursor = r.Start
		}
	}
	m.havePreferred = false
}

// MoveRight moves one atomic step right: out of an element to its end
// edge, otherwise forward one grapheme cluster.
func (m *Model) MoveRight() {
	if r, ok := m.els.containing(m.cursor); ok {
		m.cursor = r.End
	} else {
		m.cursor = nextGraphemeBoundary(m.text, m.cursor)
		if r, ok := m.els.containing(m.cursor); ok {
			m.cursor = r.End
		}
	}
	m.havePreferred = false
}

// MoveWordLeft moves the cursor to the start of the previous word/separator
// run, skipping intervening whitespace.
func (m *Model) MoveWordLeft() {
	m.cursor = m.snap(prevWordStart(m.text, m.cursor))
	m.havePreferred = false
}

// MoveWordRight moves the cursor to the end of the next word/separator
// run, skipping intervening whitespace.
func (m *Model) MoveWordRight() {
	m.cursor = m.snap(nextWordEnd(m.text, m.cursor))
	m.havePreferred = false
}

// DeleteWordBackward deletes from the start of the previous word run to
// the cursor.
func (m *Model) DeleteWordBackward() {
	start := prevWordStart(m.text, m.cursor)
	m.ReplaceRange(Range{start, m.cursor}, "")
}

// DeleteWordForward deletes from the cursor to the end of the next word
// run.
func (m *Model) DeleteWordForward() {
	end := nextWordEnd(m.text, m.cursor)
	m.ReplaceRange(Range{m.cursor, end}, "")
}

func (m *Model) lineBounds(pos int) (start, end int) {
	start = pos
	for start > 0 && m.text[start-1] != '\n' {
		start--
	}
	end = pos
	for end < len(m.text) && m.text[end] != '\n' {
		end++
	}
	return start, end
}

// Home moves to the beginning of the current logical line. In emacs mode,
// if already at the line start, it advances to the previous line's start
// instead of staying put.
func (m *Model) Home(emacs bool) {
	start, _ := m.lineBounds(m.cursor)
	if emacs && start == m.cursor && start > 0 {
		prevStart, _ := m.lineBounds(start - 1)
		start = prevStart
	}
	m.cursor = m.snap(start)
	m.havePreferred = false
}

// End moves to the end of the current logical line. In emacs mode, if
// already at the line end, it advances to the next line's end.
func (m *Model) End(emacs bool) {
	_, end := m.lineBounds(m.cursor)
	if emacs && end == m.cursor && end < len(m.text) {
		_, nextEnd := m.lineBounds(end + 1)
		end = nextEnd
	}
	m.cursor = m.snap(end)
	m.havePreferred = false
}

// KillToEndOfLine deletes from the cursor to the end of the logical line
// (not including the newline) and stores the removed text in the kill
// buffer, overwriting any previous contents. If the cursor is already at
// the line end, it instead removes the following newline, joining with
// the next line.
func (m *Model) KillToEndOfLine() {
	_, end := m.lineBounds(m.cursor)
	if end == m.cursor && end < len(m.text) {
		end++
	}
	m.killBuffer = m.text[m.cursor:end]
	m.ReplaceRange(Range{m.cursor, end}, "")
}

// KillToBeginningOfLine deletes from the start of the logical line to the
// cursor and stores the removed text in the kill buffer. If the cursor is
// already at the line start, it instead removes the preceding newline,
// joining with the previous line.
func (m *Model) KillToBeginningOfLine() {
	start, _ := m.lineBounds(m.cursor)
	if start == m.cursor && start > 0 {
		start--
	}
	m.killBuffer = m.text[start:m.cursor]
	m.ReplaceRange(Range{start, m.cursor}, "")
}

// Yank inserts the kill buffer's current contents at the cursor.
func (m *Model) Yank() {
	if m.killBuffer == "" {
		return
	}
	m.InsertStr(m.killBuffer)
}

// displayColumn returns the display width of text from the start of its
// logical line up to pos.
func (m *Model) displayColumn(pos int) int {
	start, _ := m.lineBounds(pos)
	return displaywidth.String(m.text[start:pos])
}

// MoveUp moves the cursor to the wrapped line above, preserving the
// preferred display column across a run of vertical moves.
func (m *Model) MoveUp(width int) {
	m.moveVertical(width, -1)
}

// MoveDown moves the cursor to the wrapped line below, preserving the
// preferred display column across a run of vertical moves.
func (m *Model) MoveDown(width int) {
	m.moveVertical(width, 1)
}

func (m *Model) moveVertical(width, dir int) {
	m.wrap.ensure(m.text, width)
	lines := m.wrap.lines
	cur := -1
	for i, l := range lines {
		if m.cursor >= l.Start && m.cursor <= l.End {
			cur = i
			break
		}
	}
	if cur == -1 {
		return
	}
	if !m.havePreferred {
		m.preferredCol = m.columnWithin(lines[cur], m.cursor)
		m.havePreferred = true
	}
	target := cur + dir
	if target < 0 || target >= len(lines) {
		return
	}
	m.cursor = m.snap(m.posAtColumn(lines[target], m.preferredCol))
}

func (m *Model) columnWithin(l Range, pos int) int {
	return displaywidth.String(m.text[l.Start:pos])
}

func (m *Model) posAtColumn(l Range, col int) int {
	text := m.text[l.Start:l.End]
	acc := 0
	for i, r := range text {
		if acc >= col {
			return l.Start + i
		}
		acc += displaywidth.Rune(r)
	}
	return l.End
}

// DesiredHeight returns the number of wrapped lines the buffer occupies at
// the given width.
func (m *Model) DesiredHeight(width int) int {
	m.wrap.ensure(m.text, width)
	return len(m.wrap.lines)
}
