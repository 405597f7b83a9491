package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/quillterm/quillterm/internal/styledline"
)

// ToStyledLines tokenizes text with the given Chroma lexer/theme directly
// into internal/styledline.Line values (one span per token run), bypassing
// the ANSI round-trip Highlight does: the transcript viewport and composer
// text area want structured spans for selection/clipboard/wrap, not an
// escape-coded string.
func ToStyledLines(text, language, theme string) []styledline.Line {
	lex := lexers.Get(language)
	if lex == nil {
		return plainLines(text)
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(theme)
	if sty == nil {
		sty = styles.Fallback
	}
	it, err := lex.Tokenise(nil, text)
	if err != nil {
		return plainLines(text)
	}

	var lines []styledline.Line
	cur := styledline.Line{}
	for _, tok := range it.Tokens() {
		entry := sty.Get(tok.Type)
		sp := styledline.Span{Style: chromaStyleToSpan(entry)}
		segs := splitOnNewlines(tok.Value)
		for i, seg := range segs {
			if i > 0 {
				lines = append(lines, cur)
				cur = styledline.Line{}
			}
			if seg != "" {
				s := sp
				s.Text = seg
				cur.Spans = append(cur.Spans, s)
			}
		}
	}
	lines = append(lines, cur)
	return lines
}

func plainLines(text string) []styledline.Line {
	segs := splitOnNewlines(text)
	out := make([]styledline.Line, len(segs))
	for i, s := range segs {
		out[i] = styledline.Line{Spans: []styledline.Span{{Text: s}}}
	}
	return out
}

func splitOnNewlines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func chromaStyleToSpan(e chroma.StyleEntry) styledline.Style {
	var s styledline.Style
	if e.Colour.IsSet() {
		s.Fg = e.Colour.String()
	}
	if e.Background.IsSet() {
		s.Bg = e.Background.String()
	}
	if e.Bold == chroma.Yes {
		s.Mod |= styledline.Bold
	}
	if e.Italic == chroma.Yes {
		s.Mod |= styledline.Italic
	}
	if e.Underline == chroma.Yes {
		s.Mod |= styledline.Underline
	}
	return s
}
