package tselect

import "testing"

func TestMouseDownClearsHeadAndReportsNoHighlight(t *testing.T) {
	var m Model
	m.OnMouseDown(Point{Line: 3, Col: 5})
	sel := m.Current()
	if sel.Anchor == nil || *sel.Anchor != (Point{3, 5}) {
		t.Fatalf("anchor not set: %+v", sel)
	}
	if sel.Head != nil {
		t.Fatalf("head should be nil until drag, got %+v", sel.Head)
	}
	if sel.Active() {
		t.Fatalf("selection should not be active before a drag moves the head")
	}
}

func TestDragActivatesSelection(t *testing.T) {
	var m Model
	m.OnMouseDown(Point{Line: 1, Col: 0})
	res := m.OnMouseDrag(ScrollToBottom, Point{Line: 1, Col: 4}, false)
	if !res.Changed {
		t.Fatalf("expected Changed=true on first drag update")
	}
	if !m.Current().Active() {
		t.Fatalf("selection should be active once head != anchor")
	}
}

func TestDragLocksScrollWhenStreamingPinnedAndMoved(t *testing.T) {
	var m Model
	m.OnMouseDown(Point{Line: 2, Col: 0})
	res := m.OnMouseDrag(ScrollToBottom, Point{Line: 2, Col: 1}, true)
	if !res.LockScroll {
		t.Fatalf("expected LockScroll when streaming + pinned to bottom + head moved off anchor")
	}
}

func TestDragDoesNotLockScrollWhenNotStreaming(t *testing.T) {
	var m Model
	m.OnMouseDown(Point{Line: 2, Col: 0})
	res := m.OnMouseDrag(ScrollToBottom, Point{Line: 2, Col: 1}, false)
	if res.LockScroll {
		t.Fatalf("did not expect LockScroll when not streaming")
	}
}

func TestMouseUpClearsDegenerateSelection(t *testing.T) {
	var m Model
	m.OnMouseDown(Point{Line: 0, Col: 0})
	m.OnMouseDrag(ScrollToBottom, Point{Line: 0, Col: 0}, false) // head == anchor
	m.OnMouseUp()
	if m.Current().Anchor != nil || m.Current().Head != nil {
		t.Fatalf("expected selection cleared when head equals anchor at mouse up")
	}
}

func TestMouseUpKeepsRealSelection(t *testing.T) {
	var m Model
	m.OnMouseDown(Point{Line: 0, Col: 0})
	m.OnMouseDrag(ScrollToBottom, Point{Line: 1, Col: 2}, false)
	m.OnMouseUp()
	if !m.Current().Active() {
		t.Fatalf("expected selection to survive mouse up when anchor != head")
	}
}

func TestOrderedEndpointsNormalizesByLineThenColumn(t *testing.T) {
	a := Point{Line: 5, Col: 2}
	b := Point{Line: 3, Col: 9}
	start, end := OrderedEndpoints(a, b)
	if start != b || end != a {
		t.Fatalf("OrderedEndpoints(%+v, %+v) = (%+v, %+v), want (%+v, %+v)", a, b, start, end, b, a)
	}

	// Same line: ordered by column.
	c := Point{Line: 1, Col: 9}
	d := Point{Line: 1, Col: 2}
	start, end = OrderedEndpoints(c, d)
	if start != d || end != c {
		t.Fatalf("OrderedEndpoints same-line = (%+v, %+v), want (%+v, %+v)", start, end, d, c)
	}
}

func TestSetSelectionInstallsBothEndpoints(t *testing.T) {
	var m Model
	m.SetSelection(Point{Line: 0, Col: 0}, Point{Line: 0, Col: 4})
	sel := m.Current()
	if !sel.Active() {
		t.Fatalf("expected active selection after SetSelection")
	}
	start, end := sel.Ordered()
	if start != (Point{0, 0}) || end != (Point{0, 4}) {
		t.Fatalf("Ordered() = (%+v, %+v), want ((0,0),(0,4))", start, end)
	}
}

func TestClearResetsSelection(t *testing.T) {
	var m Model
	m.SetSelection(Point{Line: 0, Col: 0}, Point{Line: 0, Col: 4})
	m.Clear()
	if m.Current().Active() {
		t.Fatalf("expected Clear to deactivate selection")
	}
}
