package textarea

import tea "charm.land/bubbletea/v2"

// Update applies one key event to the model. It mirrors the teacher's
// internal/tui/editor key dispatch, generalized to the atomic-element,
// byte-offset buffer and the wider keybinding table spec §4.2 lists
// (word motion, kill/yank, emacs-variant Home/End).
func (m *Model) Update(msg tea.KeyPressMsg, width int) {
	switch msg.Keystroke() {
	case "left":
		m.MoveLeft()
	case "right":
		m.MoveRight()
	case "up":
		m.MoveUp(width)
	case "down":
		m.MoveDown(width)
	case "alt+left", "ctrl+left":
		m.MoveWordLeft()
	case "alt+right", "ctrl+right":
		m.MoveWordRight()
	case "home", "ctrl+a":
		m.Home(true)
	case "end", "ctrl+e":
		m.End(true)
	case "backspace":
		m.DeleteBackward()
	case "delete", "ctrl+d":
		m.DeleteForward()
	case "alt+backspace", "ctrl+w":
		m.DeleteWordBackward()
	case "alt+delete", "alt+d":
		m.DeleteWordForward()
	case "ctrl+k":
		m.KillToEndOfLine()
	case "ctrl+u":
		m.KillToBeginningOfLine()
	case "ctrl+y":
		m.Yank()
	case "enter":
		m.InsertStr("\n")
	case "tab":
		m.InsertStr("\t")
	default:
		if text := msg.Text; text != "" {
			m.InsertStr(text)
		}
	}
}
