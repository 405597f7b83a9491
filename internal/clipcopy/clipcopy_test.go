package clipcopy

import (
	"strings"
	"testing"

	"github.com/quillterm/quillterm/internal/styledline"
	"github.com/quillterm/quillterm/internal/tselect"
)

func plainLine(text string) styledline.Line {
	return styledline.Line{Spans: []styledline.Span{{Text: text}}}
}

func joinerOf(s string) *string { return &s }

func TestReconstructProseAcrossSoftWrapUsesJoinerNotNewline(t *testing.T) {
	lines := []WrappedLine{
		{Line: plainLine("hello")},
		{Line: plainLine("world"), Joiner: joinerOf(" ")},
	}
	got, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 0}, tselect.Point{Line: 1, Col: 5}, 80)
	if !ok {
		t.Fatalf("Reconstruct returned ok=false")
	}
	if got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestReconstructUnrelatedLinesUseHardNewline(t *testing.T) {
	lines := []WrappedLine{
		{Line: plainLine("first paragraph")},
		{Line: plainLine("second paragraph")}, // no Joiner: not a soft-wrap continuation
	}
	got, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 0}, tselect.Point{Line: 1, Col: 16}, 80)
	if !ok {
		t.Fatalf("Reconstruct returned ok=false")
	}
	if got != "first paragraph\nsecond paragraph" {
		t.Fatalf("got %q, want hard newline between unrelated lines", got)
	}
}

func TestReconstructCodeRunIsFenced(t *testing.T) {
	lines := []WrappedLine{
		{Line: styledline.Line{IsPreformatted: true, Spans: []styledline.Span{{Text: "fmt.Println()"}}}},
	}
	got, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 0}, tselect.Point{Line: 0, Col: 14}, 80)
	if !ok {
		t.Fatalf("Reconstruct returned ok=false")
	}
	want := "```\nfmt.Println()\n```"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReconstructCodeSelectionAtViewportEdgeAppendsRemainder(t *testing.T) {
	// A code line hard-wrapped into two visual chunks at width 10; the
	// selection ends exactly at the viewport's right edge on the first
	// chunk, so the unwrapped tail must be appended rather than truncated
	// (spec §4.6 point 3).
	lines := []WrappedLine{
		{
			Line:      styledline.Line{IsPreformatted: true, Spans: []styledline.Span{{Text: "0123456789"}}},
			Remainder: "abcdef",
		},
	}
	got, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 0}, tselect.Point{Line: 0, Col: 10}, 10)
	if !ok {
		t.Fatalf("Reconstruct returned ok=false")
	}
	want := "```\n0123456789abcdef\n```"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReconstructCodeSelectionNotAtEdgeOmitsRemainder(t *testing.T) {
	lines := []WrappedLine{
		{
			Line:      styledline.Line{IsPreformatted: true, Spans: []styledline.Span{{Text: "0123456789"}}},
			Remainder: "abcdef",
		},
	}
	// contentWidth is wider than the selection end column, so the
	// selection did not reach the viewport edge.
	got, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 0}, tselect.Point{Line: 0, Col: 10}, 80)
	if !ok {
		t.Fatalf("Reconstruct returned ok=false")
	}
	want := "```\n0123456789\n```"
	if got != want {
		t.Fatalf("got %q, want %q (remainder should not be appended)", got, want)
	}
}

func TestReconstructInlineCodeSpanGetsBackticked(t *testing.T) {
	lines := []WrappedLine{
		{Line: styledline.Line{Spans: []styledline.Span{
			{Text: "call "},
			{Text: "foo()", Style: styledline.Style{Fg: "cyan"}},
			{Text: " now"},
		}}},
	}
	got, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 0}, tselect.Point{Line: 0, Col: 14}, 80)
	if !ok {
		t.Fatalf("Reconstruct returned ok=false")
	}
	if !strings.Contains(got, "`foo()`") {
		t.Fatalf("got %q, want inline code backticked", got)
	}
}

func TestReconstructEmptySelectionReturnsFalse(t *testing.T) {
	lines := []WrappedLine{{Line: plainLine("hello")}}
	if _, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 2}, tselect.Point{Line: 0, Col: 2}, 80); ok {
		t.Fatalf("expected ok=false for a degenerate (empty) selection")
	}
}

func TestReconstructZeroWidthReturnsFalse(t *testing.T) {
	lines := []WrappedLine{{Line: plainLine("hello")}}
	if _, ok := Reconstruct(lines, tselect.Point{Line: 0, Col: 0}, tselect.Point{Line: 0, Col: 5}, 0); ok {
		t.Fatalf("expected ok=false when contentWidth <= 0")
	}
}
