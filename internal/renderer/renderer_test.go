package renderer

import (
	"testing"

	"github.com/quillterm/quillterm/internal/styledline"
)

func TestSetStringMarksWideGlyphContinuationCells(t *testing.T) {
	b := NewBuffer(10, 1)
	b.SetString(0, 0, "A中B", styledline.Style{}) // A, wide CJK char, B
	if b.At(0, 0).Rune != 'A' || b.At(0, 0).Width != 1 {
		t.Fatalf("At(0,0) = %+v, want 'A' width 1", b.At(0, 0))
	}
	wide := b.At(1, 0)
	if wide.Width != 2 || wide.Skip {
		t.Fatalf("At(1,0) = %+v, want the wide glyph cell itself (width 2, not Skip)", wide)
	}
	cont := b.At(2, 0)
	if !cont.Skip {
		t.Fatalf("At(2,0) = %+v, want a Skip continuation cell", cont)
	}
	if b.At(3, 0).Rune != 'B' {
		t.Fatalf("At(3,0) = %+v, want 'B' immediately after the wide glyph", b.At(3, 0))
	}
}

func TestResizeClearsBuffer(t *testing.T) {
	b := NewBuffer(5, 1)
	b.Set(0, 0, Cell{Rune: 'x', Width: 1})
	b.Resize(8, 2)
	if b.Width != 8 || b.Height != 2 {
		t.Fatalf("Resize did not update dimensions: %dx%d", b.Width, b.Height)
	}
	if b.At(0, 0).Rune != ' ' {
		t.Fatalf("expected Resize to clear content, got %+v", b.At(0, 0))
	}
}

func TestResizeNoopWhenSameDimensions(t *testing.T) {
	b := NewBuffer(5, 1)
	b.Set(0, 0, Cell{Rune: 'x', Width: 1})
	b.Resize(5, 1)
	if b.At(0, 0).Rune != 'x' {
		t.Fatalf("Resize with identical dimensions should not clear, got %+v", b.At(0, 0))
	}
}

func TestDiffAgainstNilPrevInvalidatesEverythingNonBlank(t *testing.T) {
	cur := NewBuffer(2, 1)
	cur.SetString(0, 0, "ab", styledline.Style{})
	cmds := Diff(nil, cur)

	var puts int
	for _, c := range cmds {
		if _, ok := c.(PutCmd); ok {
			puts++
		}
	}
	if puts != 2 {
		t.Fatalf("expected 2 PutCmds (a, b) against a nil prev, got %d: %+v", puts, cmds)
	}
}

func TestDiffOnlyEmitsChangedCells(t *testing.T) {
	prev := NewBuffer(5, 1)
	prev.SetString(0, 0, "abc", styledline.Style{})
	cur := NewBuffer(5, 1)
	cur.SetString(0, 0, "axc", styledline.Style{}) // only column 1 differs

	cmds := Diff(prev, cur)
	var puts []PutCmd
	for _, c := range cmds {
		if p, ok := c.(PutCmd); ok {
			puts = append(puts, p)
		}
	}
	if len(puts) != 1 || puts[0].X != 1 || puts[0].Cell.Rune != 'x' {
		t.Fatalf("expected exactly one PutCmd at column 1 ('x'), got %+v", puts)
	}
}

func TestDiffEmitsClearToEndForBlankTrailingRegion(t *testing.T) {
	prev := NewBuffer(5, 1)
	prev.SetString(0, 0, "abcde", styledline.Style{})
	cur := NewBuffer(5, 1)
	cur.SetString(0, 0, "ab", styledline.Style{}) // columns 2-4 revert to blank

	cmds := Diff(prev, cur)
	var sawClear bool
	for _, c := range cmds {
		if cc, ok := c.(ClearToEndCmd); ok {
			sawClear = true
			if cc.X != 2 {
				t.Fatalf("ClearToEndCmd.X = %d, want 2", cc.X)
			}
		}
	}
	if !sawClear {
		t.Fatalf("expected a ClearToEndCmd for the now-blank trailing region, got %+v", cmds)
	}
}

func TestDiffSkipsWideGlyphContinuationCells(t *testing.T) {
	cur := NewBuffer(3, 1)
	cur.SetString(0, 0, "中X", styledline.Style{})
	cmds := Diff(nil, cur)

	var puts []PutCmd
	for _, c := range cmds {
		if p, ok := c.(PutCmd); ok {
			puts = append(puts, p)
		}
	}
	// Exactly 2 puts: the wide glyph and 'X' — the continuation cell at
	// column 1 must never be individually diffed/emitted.
	if len(puts) != 2 {
		t.Fatalf("expected 2 PutCmds (wide glyph + X), got %d: %+v", len(puts), puts)
	}
}

func TestModifierDeltaAddsAndRemoves(t *testing.T) {
	remove, add := modifierDelta(styledline.Bold, styledline.Italic)
	if len(remove) != 1 || remove[0] != styledline.Bold {
		t.Fatalf("remove = %+v, want [Bold]", remove)
	}
	if len(add) != 1 || add[0] != styledline.Italic {
		t.Fatalf("add = %+v, want [Italic]", add)
	}
}

// TestModifierDeltaReappliesDimAfterBoldRemoval covers spec §4.1's note that
// clearing Bold (SGR 22) also clears Dim on most terminals, so Dim must be
// re-added if it should remain set.
func TestModifierDeltaReappliesDimAfterBoldRemoval(t *testing.T) {
	from := styledline.Bold | styledline.Dim
	to := styledline.Dim
	remove, add := modifierDelta(from, to)

	var removedBold bool
	for _, m := range remove {
		if m == styledline.Bold {
			removedBold = true
		}
	}
	if !removedBold {
		t.Fatalf("expected Bold to be removed, got %+v", remove)
	}
	var readdedDim bool
	for _, m := range add {
		if m == styledline.Dim {
			readdedDim = true
		}
	}
	if !readdedDim {
		t.Fatalf("expected Dim to be re-added after Bold removal cleared it, got %+v", add)
	}
}

func TestMeaningfulRangeReturnsNegativeOneForBlankRow(t *testing.T) {
	b := NewBuffer(5, 1)
	if got := meaningfulRange(b, 0, ""); got != -1 {
		t.Fatalf("meaningfulRange on a blank row = %d, want -1", got)
	}
}

func TestMeaningfulRangeFindsRightmostNonSpace(t *testing.T) {
	b := NewBuffer(5, 1)
	b.SetString(1, 0, "x", styledline.Style{})
	if got := meaningfulRange(b, 0, ""); got != 1 {
		t.Fatalf("meaningfulRange = %d, want 1", got)
	}
}
