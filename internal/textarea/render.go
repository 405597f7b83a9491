package textarea

// State carries the scroll offset across frames so the viewport can track
// the cursor without recomputing from scratch each draw.
type State struct {
	scrollLine int
}

// Lines returns the wrapped logical lines as plain strings at width,
// stripping any trailing newline byte.
func (m *Model) Lines(width int) []string {
	m.wrap.ensure(m.text, width)
	out := make([]string, len(m.wrap.lines))
	for i, l := range m.wrap.lines {
		s := m.text[l.Start:l.End]
		if n := len(s); n > 0 && s[n-1] == '\n' {
			s = s[:n-1]
		}
		out[i] = s
	}
	return out
}

// cursorLine returns the wrapped-line index and in-line display column of
// the cursor at width.
func (m *Model) cursorLine(width int) (line, col int) {
	m.wrap.ensure(m.text, width)
	for i, l := range m.wrap.lines {
		if m.cursor >= l.Start && m.cursor <= l.End {
			return i, m.columnWithin(l, m.cursor)
		}
	}
	last := len(m.wrap.lines) - 1
	if last < 0 {
		return 0, 0
	}
	return last, m.columnWithin(m.wrap.lines[last], m.cursor)
}

// CursorPosWithState returns the cursor's (x, y) position within a viewport
// of the given width and height, adjusting st.scrollLine so the cursor
// stays visible (scroll-to-keep-cursor-visible, spec §4.2).
func (m *Model) CursorPosWithState(st *State, width, height int) (x, y int) {
	line, col := m.cursorLine(width)
	if line < st.scrollLine {
		st.scrollLine = line
	}
	if height > 0 && line >= st.scrollLine+height {
		st.scrollLine = line - height + 1
	}
	if st.scrollLine < 0 {
		st.scrollLine = 0
	}
	return col, line - st.scrollLine
}

// VisibleLines returns the wrapped lines currently in view for a viewport
// of the given width and height, given the current scroll state.
func (m *Model) VisibleLines(st *State, width, height int) []string {
	lines := m.Lines(width)
	start := st.scrollLine
	if start < 0 {
		start = 0
	}
	if start > len(lines) {
		start = len(lines)
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}
