package renderer

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/quillterm/quillterm/internal/styledline"
	"github.com/rs/zerolog"
)

// SizeFunc reports the backend's current terminal size, used by Draw to
// autoresize the buffers before handing them to the render callback.
type SizeFunc func() (width, height int, err error)

// RenderFunc paints one frame into buf, constrained to viewport, and
// reports whether the cursor should be visible and where.
type RenderFunc func(buf *Buffer, viewport image.Rectangle) (cursor *image.Point, showCursor bool)

// Renderer is the double-buffered terminal renderer: draw swaps front/back
// buffers after diffing and flushing commands to the backend writer.
type Renderer struct {
	w        io.Writer
	size     SizeFunc
	front    *Buffer
	back     *Buffer
	viewport image.Rectangle
	log      zerolog.Logger

	lastX, lastY int
	haveLast     bool
	lastStyle    styledline.Style
	haveStyle    bool

	cursorVisible bool
}

// New constructs a Renderer writing to w. size may be nil; callers must then
// call Resize before the first Draw.
func New(w io.Writer, size SizeFunc, log zerolog.Logger) *Renderer {
	return &Renderer{w: w, size: size, log: log, cursorVisible: true}
}

// Resize reallocates both buffers to width x height.
func (r *Renderer) Resize(width, height int) {
	if r.front == nil {
		r.front = NewBuffer(width, height)
		r.back = NewBuffer(width, height)
		return
	}
	r.front.Resize(width, height)
	r.back.Resize(width, height)
}

// SetViewport restricts the region render callbacks may assume is theirs.
func (r *Renderer) SetViewport(rect image.Rectangle) { r.viewport = rect }

// ShowCursor / HideCursor toggle cursor visibility for the next flush.
func (r *Renderer) ShowCursor() { r.cursorVisible = true }
func (r *Renderer) HideCursor() { r.cursorVisible = false }

// Draw autoresizes (if a SizeFunc was provided), invokes fn to paint the
// back buffer, diffs against the front buffer, emits commands, positions
// the cursor, swaps buffers, and flushes. Any IO error aborts the frame and
// is returned.
func (r *Renderer) Draw(fn RenderFunc) error {
	if r.size != nil {
		w, h, err := r.size()
		if err != nil {
			return err
		}
		r.Resize(w, h)
	}
	if r.back == nil {
		return fmt.Errorf("renderer: Resize must be called before Draw")
	}

	r.back.Clear()
	cursor, showCursor := fn(r.back, r.viewport)

	cmds := Diff(r.front, r.back)
	if err := r.emit(cmds); err != nil {
		return err
	}

	if showCursor && r.cursorVisible && cursor != nil {
		if _, err := io.WriteString(r.w, ansi.CursorPosition(cursor.X+1, cursor.Y+1)); err != nil {
			return err
		}
		if _, err := io.WriteString(r.w, ansi.ShowCursor); err != nil {
			return err
		}
	} else {
		if _, err := io.WriteString(r.w, ansi.HideCursor); err != nil {
			return err
		}
	}

	r.front, r.back = r.back, r.front
	if f, ok := r.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Clear forces the backend to fully repaint on the next Draw by discarding
// front-buffer history.
func (r *Renderer) Clear() error {
	if r.front != nil {
		r.front.Clear()
		for i := range r.front.cells {
			r.front.cells[i] = Cell{Rune: 0}
		}
	}
	_, err := io.WriteString(r.w, ansi.EraseEntireScreen+ansi.CursorPosition(1, 1))
	r.haveLast = false
	r.haveStyle = false
	return err
}

// SetCursorPosition moves the physical cursor without painting content.
func (r *Renderer) SetCursorPosition(p image.Point) error {
	_, err := io.WriteString(r.w, ansi.CursorPosition(p.X+1, p.Y+1))
	return err
}

// Close restores cursor visibility best-effort; IO failures are logged, not
// propagated, matching spec §4.1's drop semantics.
func (r *Renderer) Close() {
	if _, err := io.WriteString(r.w, ansi.ShowCursor); err != nil {
		r.log.Warn().Err(err).Msg("renderer: failed to restore cursor on close")
	}
}

// emit renders the command sequence to ANSI, tracking last position/style
// to minimize move/color/attribute emission per spec §4.1.
func (r *Renderer) emit(cmds []DrawCommand) error {
	var buf strings.Builder
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case MoveCmd:
			r.writeMove(&buf, c.X, c.Y)
		case ClearToEndCmd:
			r.writeMove(&buf, c.X, c.Y)
			r.writeStyle(&buf, styledline.Style{Bg: c.Bg})
			buf.WriteString(ansi.EraseLineRight)
			r.haveLast = true
			r.lastX, r.lastY = c.X, c.Y
		case PutCmd:
			r.writeMove(&buf, c.X, c.Y)
			r.writeStyle(&buf, c.Cell.Style)
			if c.Cell.Rune != 0 {
				buf.WriteRune(c.Cell.Rune)
			} else {
				buf.WriteByte(' ')
			}
			r.haveLast = true
			r.lastX, r.lastY = c.X+c.Cell.Width, c.Y
		}
	}
	if r.haveStyle {
		buf.WriteString(ansi.ResetStyle)
		r.haveStyle = false
		r.lastStyle = styledline.Style{}
	}
	_, err := io.WriteString(r.w, buf.String())
	return err
}

func (r *Renderer) writeMove(buf *strings.Builder, x, y int) {
	if r.haveLast && y == r.lastY && x == r.lastX {
		return
	}
	buf.WriteString(ansi.CursorPosition(x+1, y+1))
}

// writeStyle emits only the color/attribute changes needed to move from the
// last-emitted style to want.
func (r *Renderer) writeStyle(buf *strings.Builder, want styledline.Style) {
	if r.haveStyle && want == r.lastStyle {
		return
	}
	var params []string
	if !r.haveStyle || want.Fg != r.lastStyle.Fg {
		if p := sgrFg(want.Fg); p != "" {
			params = append(params, p)
		} else if want.Fg == "" && r.haveStyle && r.lastStyle.Fg != "" {
			params = append(params, "39")
		}
	}
	if !r.haveStyle || want.Bg != r.lastStyle.Bg {
		if p := sgrBg(want.Bg); p != "" {
			params = append(params, p)
		} else if want.Bg == "" && r.haveStyle && r.lastStyle.Bg != "" {
			params = append(params, "49")
		}
	}

	from := styledline.Modifier(0)
	if r.haveStyle {
		from = r.lastStyle.Mod
	}
	remove, add := modifierDelta(from, want.Mod)
	for _, bit := range remove {
		params = append(params, removeSGR(bit)...)
	}
	for _, bit := range add {
		params = append(params, addSGR(bit))
	}

	if len(params) > 0 {
		buf.WriteString("\x1b[" + strings.Join(params, ";") + "m")
	}
	r.lastStyle = want
	r.haveStyle = true
}

func addSGR(m styledline.Modifier) string {
	switch m {
	case styledline.Bold:
		return "1"
	case styledline.Dim:
		return "2"
	case styledline.Italic:
		return "3"
	case styledline.Underline:
		return "4"
	case styledline.Blink:
		return "5"
	case styledline.Reverse:
		return "7"
	case styledline.CrossedOut:
		return "9"
	}
	return ""
}

// removeSGR returns the SGR params to clear one modifier. Removing Bold
// requires "normal intensity" (22), which also clears Dim.
func removeSGR(m styledline.Modifier) []string {
	switch m {
	case styledline.Bold, styledline.Dim:
		return []string{"22"}
	case styledline.Italic:
		return []string{"23"}
	case styledline.Underline:
		return []string{"24"}
	case styledline.Blink:
		return []string{"25"}
	case styledline.Reverse:
		return []string{"27"}
	case styledline.CrossedOut:
		return []string{"29"}
	}
	return nil
}
