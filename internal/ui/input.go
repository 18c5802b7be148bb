package ui

import (
	"unicode"

	"github.com/atomicstack/editor-reset-control/internal/dispatcher"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	"github.com/atomicstack/editor-reset-control/internal/operation"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	events.UI.Key(key, m.Busy())
	if key == "ctrl+c" {
		return tea.Quit
	}
	switch m.mode {
	case ModePicker:
		return m.handlePickerKey(keyMsg)
	case ModeAbout:
		return m.handleAboutKey(key)
	default:
		return m.handleMainKey(key)
	}
}

func (m *Model) handleMainKey(key string) tea.Cmd {
	switch key {
	case "q":
		return tea.Quit
	case "esc":
		m.clearNotice()
		return nil
	case "1", "t":
		return m.runOperation(operation.Telemetry)
	case "2", "d":
		return m.runOperation(operation.Database)
	case "3", "w":
		return m.runOperation(operation.Workspace)
	case "4", "a":
		return m.dispatch(dispatcher.RunAllJob())
	case "s":
		return m.dispatch(dispatcher.DetectJob())
	case "e", "tab":
		return m.openPicker()
	case "r":
		if !m.gate.Ready() {
			m.setError("Bridge not connected, wait for the application to finish loading")
			return nil
		}
		return m.loadEditorState()
	case "?":
		return m.openAbout()
	}
	return nil
}

// runOperation dispatches k when the grid offers it.
func (m *Model) runOperation(k operation.Kind) tea.Cmd {
	if !m.offers(k) {
		m.setError(k.Label() + " is not supported for " + m.selection.Label())
		return nil
	}
	return m.dispatch(dispatcher.OperationJob(k))
}

func (m *Model) offers(k operation.Kind) bool {
	for _, a := range m.actions {
		if a.Kind == k {
			return true
		}
	}
	return false
}

func (m *Model) handleAboutKey(key string) tea.Cmd {
	switch key {
	case "esc", "?", "enter", "q":
		m.closeAbout()
		return nil
	case "g":
		return m.openLinkCmd(m.links.Repo)
	case "r":
		return m.openLinkCmd(m.links.Releases)
	case "i":
		return m.openLinkCmd(m.links.Issues)
	}
	return nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if m.picker == nil {
		m.mode = ModeMain
		return nil
	}
	switch msg.String() {
	case "esc":
		if m.picker.Filter != "" {
			m.clearPickerFilter()
			return nil
		}
		m.closePicker()
		return nil
	case "enter":
		return m.choosePickerEntry()
	case "up", "ctrl+p":
		m.picker.MoveCursorUp()
		m.syncPickerViewport()
		return nil
	case "down", "ctrl+n":
		m.picker.MoveCursorDown()
		m.syncPickerViewport()
		return nil
	case "home":
		m.picker.MoveCursorHome()
		m.syncPickerViewport()
		return nil
	case "end":
		m.picker.MoveCursorEnd()
		m.syncPickerViewport()
		return nil
	}
	m.handleTextInput(msg)
	return nil
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(before int) {
	if m.picker != nil && before != m.picker.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	l := m.picker
	before := l.FilterCursorPos()
	changed := false
	switch msg.String() {
	case "ctrl+u":
		return m.clearPickerFilter()
	case "ctrl+w":
		changed = l.DeleteFilterWordBackward()
	case "ctrl+a":
		changed = l.MoveFilterCursorStart()
	case "ctrl+e":
		changed = l.MoveFilterCursorEnd()
	default:
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyCtrlH:
			changed = l.DeleteFilterRuneBackward()
		case tea.KeyLeft:
			changed = l.MoveFilterCursor(-1)
		case tea.KeyRight:
			changed = l.MoveFilterCursor(1)
		case tea.KeySpace:
			changed = l.InsertFilterText(" ")
		case tea.KeyRunes:
			if msg.Alt || len(msg.Runes) == 0 {
				return false
			}
			for _, r := range msg.Runes {
				if unicode.IsControl(r) {
					return false
				}
			}
			changed = l.InsertFilterText(string(msg.Runes))
		}
	}
	if !changed {
		return false
	}
	m.noteFilterCursorChange(before)
	events.Filter.Update(l.ID, l.Filter, len(l.Items))
	m.syncPickerViewport()
	return true
}

func (m *Model) clearPickerFilter() bool {
	before := m.picker.FilterCursorPos()
	if !m.picker.ClearFilter() {
		return false
	}
	m.noteFilterCursorChange(before)
	events.Filter.Cleared(m.picker.ID)
	m.syncPickerViewport()
	return true
}

func (m *Model) filterPrompt() string {
	l := m.picker
	renderStyled := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := renderStyled(styles.FilterPrompt, "» ")
	if l == nil || l.Filter == "" {
		placeholder := []rune("(type to filter)")
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(string(placeholder[0]))
		return prompt + caret + renderStyled(styles.FilterPlaceholder, string(placeholder[1:]))
	}
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = renderStyled(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + renderStyled(styles.Filter, string(runes[:pos])) + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)
	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
