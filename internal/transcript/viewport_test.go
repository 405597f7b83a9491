package transcript

import (
	"testing"

	"github.com/quillterm/quillterm/internal/styledline"
)

func line(text string) styledline.Line {
	return styledline.Line{Spans: []styledline.Span{{Text: text}}}
}

func TestAppendAndVisibleLinesStaysAtBottom(t *testing.T) {
	m := New()
	m.SetWidth(80)
	m.Append(TextCell{Lines: []styledline.Line{line("one")}})
	m.Append(TextCell{Lines: []styledline.Line{line("two")}})
	vis := m.VisibleLines(1)
	if len(vis) != 1 || vis[0].Plain() != "two" {
		t.Fatalf("VisibleLines(1) = %+v, want last line 'two'", vis)
	}
}

func TestSpacerInsertedBetweenNonContinuationCells(t *testing.T) {
	m := New()
	m.SetWidth(80)
	m.Append(TextCell{Lines: []styledline.Line{line("a")}})
	m.Append(TextCell{Lines: []styledline.Line{line("b")}})
	vis := m.VisibleLines(10)
	if len(vis) != 3 {
		t.Fatalf("expected 3 lines (a, spacer, b), got %d: %+v", len(vis), vis)
	}
	if vis[1].Plain() != "" {
		t.Fatalf("expected spacer line to be blank, got %q", vis[1].Plain())
	}
}

func TestStreamContinuationSuppressesSpacer(t *testing.T) {
	m := New()
	m.SetWidth(80)
	m.Append(TextCell{Lines: []styledline.Line{line("a")}})
	m.Append(TextCell{Lines: []styledline.Line{line("b")}, Continuation: true})
	vis := m.VisibleLines(10)
	if len(vis) != 2 {
		t.Fatalf("expected 2 lines with no spacer, got %d: %+v", len(vis), vis)
	}
}

func TestToolResultCellCollapsesLongBody(t *testing.T) {
	body := make([]styledline.Line, 20)
	for i := range body {
		body[i] = line("line")
	}
	c := ToolResultCell{Header: "ran something", Body: body, MaxCollapsed: 5}
	out := c.DisplayLines()
	// header + 5 body lines + 1 "more lines" marker
	if len(out) != 7 {
		t.Fatalf("DisplayLines() len = %d, want 7", len(out))
	}
}

func TestCopySelectionReturnsFalseWhenInactive(t *testing.T) {
	m := New()
	m.SetWidth(80)
	m.Append(TextCell{Lines: []styledline.Line{line("hello world")}})
	if _, ok := m.CopySelection(); ok {
		t.Fatalf("CopySelection() ok=true with no selection")
	}
}
