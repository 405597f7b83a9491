package main

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/quillterm/quillterm/internal/config"
	"github.com/quillterm/quillterm/internal/constants"
	"github.com/quillterm/quillterm/internal/highlight"
	"github.com/quillterm/quillterm/internal/scrollnorm"
	"github.com/quillterm/quillterm/internal/skills"
	"github.com/quillterm/quillterm/internal/styledline"
	"github.com/quillterm/quillterm/internal/textarea"
	"github.com/quillterm/quillterm/internal/transcript"
	"github.com/quillterm/quillterm/internal/tselect"
)

// app is the root bubbletea model wiring the composer text area to the
// transcript viewport. Grounded on the teacher's tui.Model layout split
// (input pane + conversation pane), trimmed to the viewport-core scope.
type app struct {
	cfg *config.Config
	mgr *skills.Manager
	cwd string

	composer    *textarea.Model
	composerSt  textarea.State
	view        *transcript.Model
	scroll      scrollnorm.Config
	termName    string

	width, height int
	focusComposer bool

	skillsWarnings []string
}

func newApp(cfg *config.Config, mgr *skills.Manager, cwd, termName string) *app {
	scroll := scrollnorm.DefaultConfig()
	scroll.EventsPerTick = scrollnorm.TerminalEventsPerTick(termName)
	scroll.WheelTickDetectMax = scrollnorm.WheelTickDetectMax(termName)
	applyScrollOverrides(&scroll, cfg.Scroll)

	a := &app{
		cfg:           cfg,
		mgr:           mgr,
		cwd:           cwd,
		termName:      termName,
		composer:      textarea.New(),
		view:          transcript.New(),
		scroll:        scroll,
		focusComposer: true,
	}
	return a
}

func applyScrollOverrides(cfg *scrollnorm.Config, over config.ScrollConfig) {
	if over.EventsPerTick > 0 {
		cfg.EventsPerTick = over.EventsPerTick
	}
	if over.WheelLinesPerTick > 0 {
		cfg.WheelLinesPerTick = over.WheelLinesPerTick
	}
	if over.TrackpadLinesPerTick > 0 {
		cfg.TrackpadLinesPerTick = over.TrackpadLinesPerTick
	}
	if over.TrackpadAccelEvents > 0 {
		cfg.TrackpadAccelEvents = over.TrackpadAccelEvents
	}
	if over.TrackpadAccelMax > 0 {
		cfg.TrackpadAccelMax = over.TrackpadAccelMax
	}
	switch over.Mode {
	case "wheel":
		cfg.Mode = scrollnorm.ModeWheel
	case "trackpad":
		cfg.Mode = scrollnorm.ModeTrackpad
	}
	if over.WheelTickDetectMaxMs > 0 {
		cfg.WheelTickDetectMax = time.Duration(over.WheelTickDetectMaxMs) * time.Millisecond
	}
	if over.WheelLikeMaxDurationMs > 0 {
		cfg.WheelLikeMaxDuration = time.Duration(over.WheelLikeMaxDurationMs) * time.Millisecond
	}
	cfg.InvertDirection = over.InvertDirection
}

// skillsInjectedMsg carries the async skills-discovery result back onto
// the bubbletea update loop (spec §4.8 "async injection").
type skillsInjectedMsg struct {
	result skills.InjectionResult
}

func (a *app) Init() tea.Cmd {
	mgr := a.mgr
	cwd := a.cwd
	return func() tea.Msg {
		return skillsInjectedMsg{result: mgr.Inject(cwd)}
	}
}

func (a *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.view.SetWidth(a.width)
		return a, nil

	case skillsInjectedMsg:
		a.skillsWarnings = msg.result.Warnings
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKey(msg)

	case tea.MouseWheelMsg:
		dir := scrollnorm.DirDown
		if msg.Button == tea.MouseWheelUp {
			dir = scrollnorm.DirUp
		}
		next := a.view.OnWheel(time.Now(), dir, a.scroll, a.historyHeight())
		return a, a.scheduleTick(next)

	case scrollTickMsg:
		next := a.view.OnScrollTick(time.Now(), a.scroll, a.historyHeight())
		return a, a.scheduleTick(next)

	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			a.focusComposer = false
			a.view.OnClick(time.Now(), a.screenToContent(msg))
		}
		return a, nil

	case tea.MouseMotionMsg:
		a.view.OnMouseDrag(a.screenToContent(msg), a.isStreaming(), a.historyHeight())
		return a, nil

	case tea.MouseReleaseMsg:
		a.view.OnMouseUp()
		return a, nil
	}
	return a, nil
}

type scrollTickMsg struct{}

func (a *app) scheduleTick(d *time.Duration) tea.Cmd {
	if d == nil {
		return nil
	}
	return tea.Tick(*d, func(time.Time) tea.Msg { return scrollTickMsg{} })
}

func (a *app) historyHeight() int {
	h := a.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (a *app) isStreaming() bool { return false }

// screenToContent converts a mouse message's screen coordinates into a
// content-relative selection point within the transcript pane.
func (a *app) screenToContent(msg tea.MouseMsg) tselect.Point {
	m := msg.Mouse()
	return tselect.Point{Line: m.Y, Col: m.X}
}

func (a *app) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Keystroke() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+shift+c":
		if text, ok := a.view.CopySelection(); ok {
			return a, tea.SetClipboard(text)
		}
		return a, nil
	case "pgup":
		a.view.PageUp(a.historyHeight())
		return a, nil
	case "pgdown":
		a.view.PageDown(a.historyHeight())
		return a, nil
	case "home":
		a.view.Home()
		return a, nil
	case "end":
		a.view.End()
		return a, nil
	case "enter":
		a.focusComposer = true
		a.submit()
		return a, nil
	}
	a.focusComposer = true
	a.composer.Update(msg, a.width)
	return a, nil
}

func (a *app) submit() {
	text := a.composer.Text()
	if text == "" {
		return
	}
	theme := a.cfg.UI.SyntaxTheme
	if theme == "" {
		theme = constants.SyntaxTheme
	}
	lines := highlight.ToStyledLines(text, "markdown", theme)
	a.view.Append(transcript.TextCell{Lines: lines})
	a.view.End()
	a.composer.SetText("")
}

func (a *app) View() string {
	var out string
	for _, line := range a.view.VisibleLines(a.historyHeight()) {
		out += renderPlain(line) + "\n"
	}
	prompt := "> "
	if !a.focusComposer {
		prompt = "  "
	}
	out += prompt + firstLine(a.composer.Lines(a.width))
	return out
}

func renderPlain(l styledline.Line) string {
	return l.Plain()
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
