// Package textarea implements the composer text area: a grapheme- and
// width-aware editable UTF-8 buffer with wrapped navigation, atomic
// "elements" that cannot be split, and a single-entry kill/yank buffer.
//
// Grounded on the teacher's internal/tui/editor (Model, selection, wrap,
// cursor) generalized from a []rune/row-col model to the byte-offset,
// grapheme-cluster-aware model spec §4.2 requires, using
// github.com/rivo/uniseg for cluster boundaries and
// github.com/clipperhouse/displaywidth for column widths.
package textarea

import "sort"

// Range is a half-open byte interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns End - Start.
func (r Range) Len() int { return r.End - r.Start }

// containsStrict reports whether pos is strictly inside (Start, End) — i.e. not at
// either edge.
func (r Range) containsStrict(pos int) bool {
	return pos > r.Start && pos < r.End
}

func (r Range) overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// elements is the ordered, non-overlapping set of atomic element ranges.
type elements struct {
	ranges []Range
}

func (e *elements) add(r Range) {
	e.ranges = append(e.ranges, r)
	sort.Slice(e.ranges, func(i, j int) bool { return e.ranges[i].Start < e.ranges[j].Start })
}

// containing returns the element range strictly containing pos, if any.
func (e *elements) containing(pos int) (Range, bool) {
	for _, r := range e.ranges {
		if r.containsStrict(pos) {
			return r, true
		}
	}
	return Range{}, false
}

// expandToCover grows r so that it fully contains every element it
// intersects (spec §4.2 replace_range rule).
func (e *elements) expandToCover(r Range) Range {
	changed := true
	for changed {
		changed = false
		for _, el := range e.ranges {
			if el.overlaps(r) {
				if el.Start < r.Start {
					r.Start = el.Start
					changed = true
				}
				if el.End > r.End {
					r.End = el.End
					changed = true
				}
			}
		}
	}
	return r
}

// applyReplace updates element ranges after bytes [r.Start, r.End) were
// replaced by a string of length newLen: elements fully inside r are
// removed; elements strictly after shift by the length delta.
func (e *elements) applyReplace(r Range, newLen int) {
	delta := newLen - r.Len()
	out := e.ranges[:0]
	for _, el := range e.ranges {
		switch {
		case el.Start >= r.Start && el.End <= r.End:
			// Fully inside the replaced range: removed.
			continue
		case el.Start >= r.End:
			out = append(out, Range{el.Start + delta, el.End + delta})
		case el.End <= r.Start:
			out = append(out, el)
		default:
			// Partial overlap should not occur under the
			// expand-to-cover rule; degrade by snapping to the new
			// boundary rather than producing an invalid range.
			ns := el.Start
			ne := el.End
			if ns > r.Start {
				ns = r.Start + newLen
			}
			if ne > r.End {
				ne = ne + delta
			} else {
				ne = r.Start + newLen
			}
			if ne < ns {
				ne = ns
			}
			out = append(out, Range{ns, ne})
		}
	}
	e.ranges = out
}

// snapToEdge returns the nearest element edge to pos if pos lands strictly
// inside an element, else pos unchanged.
func (e *elements) snapToEdge(pos int) int {
	if r, ok := e.containing(pos); ok {
		if pos-r.Start <= r.End-pos {
			return r.Start
		}
		return r.End
	}
	return pos
}
