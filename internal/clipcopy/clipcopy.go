// Package clipcopy reconstructs clipboard text from a selection over
// wrapped, styled transcript lines: prose is flattened using soft-wrap
// joiners, and runs of preformatted "code" lines are fenced with triple
// backticks and inline-code spans are marked up with single backticks.
//
// Grounded on the teacher's tui/selection.go (selectedConvText), extended to
// the Markdown reconstruction and code-fencing rules of spec §4.6.
package clipcopy

import (
	"strings"

	"github.com/quillterm/quillterm/internal/styledline"
	"github.com/quillterm/quillterm/internal/tselect"
)

// WrappedLine is one flattened, wrapped transcript line plus the metadata
// the reconstructor needs beyond the raw styled content.
type WrappedLine struct {
	styledline.Line

	// Joiner, if non-nil, is the literal text to insert in place of the
	// newline when this line is a soft-wrap continuation of the previous
	// one (usually " ").
	Joiner *string

	// Remainder holds any logical-line text beyond this visual line's wrap
	// boundary, used only when a code-run selection reaches the viewport
	// edge (spec §4.6 point 3: "avoid truncating pasted code").
	Remainder string
}

const gutterWidth = 2

// Reconstruct builds clipboard text for the ordered selection [start, end]
// over lines, whose content columns already exclude the gutter. contentWidth
// is the usable column width of the viewport (post-gutter). Returns ("",
// false) when contentWidth <= 0 or the selection is empty, per spec §4.6.
func Reconstruct(lines []WrappedLine, start, end tselect.Point, contentWidth int) (string, bool) {
	if contentWidth <= 0 {
		return "", false
	}
	if start == end {
		return "", false
	}
	if start.Line > end.Line || (start.Line == end.Line && start.Col >= end.Col) {
		return "", false
	}

	var sb strings.Builder
	inCode := false
	wroteAny := false
	lastWrittenLine := -1

	for i := start.Line; i <= end.Line && i < len(lines); i++ {
		wl := lines[i]

		colStart := 0
		if i == start.Line {
			colStart = start.Col
		}
		colEnd := wl.DisplayWidth()
		if i == end.Line {
			colEnd = end.Col
		}

		isCode := wl.IsCodeRun()
		rightmost := wl.RightmostNonSpaceColumn()

		var sliced styledline.Line
		var trailing string
		if !isCode {
			if colEnd > rightmost {
				colEnd = rightmost
			}
			if colStart > colEnd {
				colStart = colEnd
			}
			sliced = wl.Line.SliceByColumn(colStart, colEnd)
		} else {
			if i == end.Line && end.Col >= contentWidth {
				// Selection reached the viewport edge: treat as "to end
				// of logical line" and append the unwrapped remainder.
				trailing = wl.Remainder
			}
			sliced = wl.Line.SliceByColumn(colStart, wl.DisplayWidth())
		}

		if isCode && !inCode {
			if wroteAny {
				sb.WriteByte('\n')
			}
			sb.WriteString("```\n")
			inCode = true
		} else if !isCode && inCode {
			sb.WriteString("\n```")
			inCode = false
		}

		if isCode {
			if wroteAny && lastWrittenLine >= 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(sliced.Plain())
			sb.WriteString(trailing)
		} else {
			joinedWithPrev := false
			if wroteAny && lastWrittenLine == i-1 && i < len(lines) && lines[i].Joiner != nil {
				sb.WriteString(*lines[i].Joiner)
				joinedWithPrev = true
			} else if wroteAny {
				sb.WriteByte('\n')
			}
			_ = joinedWithPrev
			sb.WriteString(markdownEncode(sliced))
		}

		wroteAny = true
		lastWrittenLine = i
	}

	if inCode {
		sb.WriteString("\n```")
	}

	return sb.String(), true
}

// markdownEncode renders a prose line's plain text, wrapping maximal runs of
// inline-code spans (cyan foreground, not underlined — underlined cyan is a
// link, per spec §4.6) in single backticks.
func markdownEncode(l styledline.Line) string {
	var sb strings.Builder
	inInline := false
	for _, sp := range l.Spans {
		isInline := sp.Style.IsCyanForeground() && !sp.Style.Mod.Has(styledline.Underline)
		if isInline && !inInline {
			sb.WriteByte('`')
			inInline = true
		} else if !isInline && inInline {
			sb.WriteByte('`')
			inInline = false
		}
		sb.WriteString(sp.Text)
	}
	if inInline {
		sb.WriteByte('`')
	}
	return sb.String()
}
