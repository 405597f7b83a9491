// Package transcript implements the History Cell model and the Transcript
// Viewport Controller (spec §4.7): the scrollback log of a chat session,
// wrapped and rendered with content-stable selection, multi-click
// expansion, and clipboard reconstruction wired in from
// internal/tselect, internal/multiclick, and internal/clipcopy.
//
// Grounded on the teacher's internal/tui/conv.go (convEntry, appendConv,
// wrappedConvLines, visibleStartLine) generalized from a flat styled-string
// log to a typed HistoryCell capability interface.
package transcript

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/quillterm/quillterm/internal/constants"
	"github.com/quillterm/quillterm/internal/highlight"
	"github.com/quillterm/quillterm/internal/styledline"
)

// HistoryCell is one entry in the transcript: a user message, assistant
// message, diff, or tool result. Cells are treated as immutable once
// appended: the viewport re-reads DisplayLines only after Append or a width
// change, so streamed output arrives as further cells that report
// IsStreamContinuation.
type HistoryCell interface {
	// DisplayLines returns the cell's content as styled lines, not yet
	// wrapped to any particular width.
	DisplayLines() []styledline.Line

	// IsStreamContinuation reports whether this cell is a continuation of
	// the same logical message as the previous cell (suppresses the
	// separator/spacer line between them).
	IsStreamContinuation() bool
}

// TextCell is a plain user or assistant message.
type TextCell struct {
	Lines        []styledline.Line
	Continuation bool
}

func (c TextCell) DisplayLines() []styledline.Line { return c.Lines }
func (c TextCell) IsStreamContinuation() bool      { return c.Continuation }

// DiffCell renders a unified diff between two text revisions, computed via
// github.com/hexops/gotextdiff (myers). Each hunk line is syntax-highlighted
// by Path's detected language (internal/highlight), then tinted by sign.
type DiffCell struct {
	Path         string
	Before       string
	After        string
	Theme        string // Chroma theme; defaults to constants.SyntaxTheme
	Continuation bool
}

func (c DiffCell) IsStreamContinuation() bool { return c.Continuation }

// DisplayLines computes and styles the unified diff lazily on each call;
// callers that render every frame should cache the result themselves (the
// viewport controller keeps one wrapped-line cache for the whole log and
// rebuilds it, calling DisplayLines on every cell, after Append or a width
// change).
func (c DiffCell) DisplayLines() []styledline.Line {
	edits := myers.ComputeEdits(span.URIFromPath(c.Path), c.Before, c.After)
	unified := gotextdiff.ToUnified(c.Path, c.Path, c.Before, edits)

	theme := c.Theme
	if theme == "" {
		theme = constants.SyntaxTheme
	}
	lang := highlight.DetectLanguage(c.Path)

	var out []styledline.Line
	header := fmt.Sprintf("--- %s", c.Path)
	out = append(out, styledline.Line{Spans: []styledline.Span{{Text: header, Style: styledline.Style{Fg: "blue"}}}})
	for _, hunk := range unified.Hunks {
		out = append(out, styledline.Line{Spans: []styledline.Span{{
			Text:  fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.FromLine, len(hunk.Lines), hunk.ToLine, len(hunk.Lines)),
			Style: styledline.Style{Fg: "cyan"},
		}}})
		for _, ln := range hunk.Lines {
			prefix, bg := diffLinePrefix(ln.Kind)
			out = append(out, styledDiffLine(prefix, bg, ln.Content, lang, theme))
		}
	}
	return out
}

// styledDiffLine highlights a single hunk line's content in its source
// language, prepends the +/-/space sign, and applies a background tint so
// additions/deletions remain visible even when the token color would
// otherwise be neutral.
func styledDiffLine(prefix, bg, content, lang, theme string) styledline.Line {
	highlighted := highlight.ToStyledLines(content, lang, theme)
	line := styledline.Line{IsPreformatted: true}
	line.Spans = append(line.Spans, styledline.Span{Text: prefix, Style: styledline.Style{Bg: bg}})
	if len(highlighted) > 0 {
		for _, sp := range highlighted[0].Spans {
			if bg != "" {
				sp.Style.Bg = bg
			}
			line.Spans = append(line.Spans, sp)
		}
	}
	return line
}

func diffLinePrefix(kind gotextdiff.OpKind) (prefix, bg string) {
	switch kind {
	case gotextdiff.Insert:
		return "+", "#0a2e0a"
	case gotextdiff.Delete:
		return "-", "#3a0a0a"
	default:
		return " ", ""
	}
}

// ToolResultCell renders a collapsed or expanded tool invocation result:
// a header line plus a body that may be elided behind a "show more"
// affordance when it exceeds a line budget.
type ToolResultCell struct {
	Header       string
	Body         []styledline.Line
	Expanded     bool
	MaxCollapsed int
	Continuation bool
}

func (c ToolResultCell) IsStreamContinuation() bool { return c.Continuation }

func (c ToolResultCell) DisplayLines() []styledline.Line {
	header := styledline.Line{Spans: []styledline.Span{{Text: c.Header, Style: styledline.Style{Fg: "magenta", Mod: styledline.Bold}}}}
	out := []styledline.Line{header}
	body := c.Body
	max := c.MaxCollapsed
	if max <= 0 {
		max = 10
	}
	if !c.Expanded && len(body) > max {
		out = append(out, body[:max]...)
		remaining := len(body) - max
		out = append(out, styledline.Line{Spans: []styledline.Span{{
			Text:  fmt.Sprintf("… %d more lines", remaining),
			Style: styledline.Style{Fg: "", Mod: styledline.Dim},
		}}})
		return out
	}
	return append(out, body...)
}
