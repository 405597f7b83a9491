package multiclick

import (
	"testing"
	"time"

	"github.com/quillterm/quillterm/internal/tselect"
)

// fakeView is a minimal WrappedView backed by a fixed set of lines, some of
// which may belong to a different history cell or be spacer lines.
type fakeView struct {
	lines    []string
	cellIdx  []int // -1 marks a spacer line
}

func (v fakeView) LineCount() int                  { return len(v.lines) }
func (v fakeView) LineDisplayText(line int) string { return v.lines[line] }
func (v fakeView) CellIndexForLine(line int) int   { return v.cellIdx[line] }
func (v fakeView) IsSpacerLine(line int) bool      { return v.cellIdx[line] < 0 }

func TestSingleClickAnchorsWithoutExpansion(t *testing.T) {
	var m Model
	count, sel := m.OnClick(time.Unix(0, 0), tselect.Point{Line: 0, Col: 3}, nil)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if sel.Head != nil {
		t.Fatalf("expected no head on a single click, got %+v", sel.Head)
	}
}

func TestDoubleClickExpandsToWord(t *testing.T) {
	var m Model
	view := fakeView{lines: []string{"hello world foo"}, cellIdx: []int{0}}
	p := tselect.Point{Line: 0, Col: 7} // inside "world"
	t0 := time.Unix(0, 0)

	m.OnClick(t0, p, view)
	count, sel := m.OnClick(t0.Add(100*time.Millisecond), p, view)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if sel.Anchor.Col != 6 || sel.Head.Col != 11 {
		t.Fatalf("word expansion = [%d,%d), want [6,11) (\"world\")", sel.Anchor.Col, sel.Head.Col)
	}
}

func TestTripleClickExpandsToLine(t *testing.T) {
	var m Model
	view := fakeView{lines: []string{"hello world"}, cellIdx: []int{0}}
	p := tselect.Point{Line: 0, Col: 2}
	t0 := time.Unix(0, 0)

	m.OnClick(t0, p, view)
	m.OnClick(t0.Add(100*time.Millisecond), p, view)
	count, sel := m.OnClick(t0.Add(200*time.Millisecond), p, view)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	if sel.Anchor.Col != 0 || sel.Head.Col != len("hello world") {
		t.Fatalf("line expansion = [%d,%d), want [0,%d)", sel.Anchor.Col, sel.Head.Col, len("hello world"))
	}
}

func TestQuadrupleClickExpandsToParagraph(t *testing.T) {
	var m Model
	view := fakeView{
		lines:   []string{"line a", "line b", "", "line c"},
		cellIdx: []int{0, 0, -1, 1},
	}
	p := tselect.Point{Line: 0, Col: 0}
	t0 := time.Unix(0, 0)

	for i := 0; i < 3; i++ {
		m.OnClick(t0.Add(time.Duration(i)*100*time.Millisecond), p, view)
	}
	count, sel := m.OnClick(t0.Add(300*time.Millisecond), p, view)
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}
	if sel.Anchor.Line != 0 || sel.Head.Line != 1 {
		t.Fatalf("paragraph expansion lines = [%d,%d], want [0,1] (stops at the spacer)", sel.Anchor.Line, sel.Head.Line)
	}
}

func TestQuintupleClickExpandsToCell(t *testing.T) {
	var m Model
	view := fakeView{
		lines:   []string{"line a", "line b", "", "line c"},
		cellIdx: []int{0, 0, -1, 1},
	}
	p := tselect.Point{Line: 0, Col: 0}
	t0 := time.Unix(0, 0)

	for i := 0; i < 4; i++ {
		m.OnClick(t0.Add(time.Duration(i)*100*time.Millisecond), p, view)
	}
	count, sel := m.OnClick(t0.Add(400*time.Millisecond), p, view)
	if count != 5 {
		t.Fatalf("count = %d, want 5", count)
	}
	if sel.Anchor.Line != 0 || sel.Head.Line != 1 {
		t.Fatalf("cell expansion lines = [%d,%d], want [0,1] (whole history cell)", sel.Anchor.Line, sel.Head.Line)
	}
}

func TestSequenceResetsAfterTimeout(t *testing.T) {
	var m Model
	p := tselect.Point{Line: 0, Col: 0}
	t0 := time.Unix(0, 0)
	m.OnClick(t0, p, nil)
	count, _ := m.OnClick(t0.Add(time.Second), p, nil) // past the 650ms window
	if count != 1 {
		t.Fatalf("count after timeout = %d, want 1 (sequence reset)", count)
	}
}

func TestSequenceResetsOnLineChange(t *testing.T) {
	var m Model
	t0 := time.Unix(0, 0)
	m.OnClick(t0, tselect.Point{Line: 0, Col: 0}, nil)
	count, _ := m.OnClick(t0.Add(100*time.Millisecond), tselect.Point{Line: 1, Col: 0}, nil)
	if count != 1 {
		t.Fatalf("count after line change = %d, want 1 (sequence reset)", count)
	}
}

func TestSequenceToleratesSmallJitterOnFirstDoubleClick(t *testing.T) {
	var m Model
	view := fakeView{lines: []string{"hello world"}, cellIdx: []int{0}}
	t0 := time.Unix(0, 0)
	m.OnClick(t0, tselect.Point{Line: 0, Col: 5}, view)
	count, _ := m.OnClick(t0.Add(100*time.Millisecond), tselect.Point{Line: 0, Col: 7}, view) // 2 cols of jitter, within tolerance
	if count != 2 {
		t.Fatalf("count = %d, want 2 (small jitter tolerated)", count)
	}
}

func TestSequenceResetsOnExcessiveJitter(t *testing.T) {
	var m Model
	view := fakeView{lines: []string{"hello world foo bar"}, cellIdx: []int{0}}
	t0 := time.Unix(0, 0)
	m.OnClick(t0, tselect.Point{Line: 0, Col: 0}, view)
	count, _ := m.OnClick(t0.Add(100*time.Millisecond), tselect.Point{Line: 0, Col: 19}, view) // way outside tolerance
	if count != 1 {
		t.Fatalf("count = %d, want 1 (excess jitter resets sequence)", count)
	}
}

func TestOnDragResetsSequenceWhenFarFromLastClick(t *testing.T) {
	var m Model
	t0 := time.Unix(0, 0)
	m.OnClick(t0, tselect.Point{Line: 0, Col: 0}, nil)
	m.OnDrag(tselect.Point{Line: 5, Col: 0}) // far vertically
	count, _ := m.OnClick(t0.Add(100*time.Millisecond), tselect.Point{Line: 0, Col: 0}, nil)
	if count != 1 {
		t.Fatalf("count after far drag = %d, want 1 (sequence reset)", count)
	}
}
