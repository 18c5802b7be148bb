package ui

import (
	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	"github.com/atomicstack/editor-reset-control/internal/selection"
	uistate "github.com/atomicstack/editor-reset-control/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	pickerID    = "editor"
	pickerTitle = "Select editor"
	panelAbout  = "about"
)

func pickerItems(targets []bridge.EditorTarget) []uistate.Item {
	items := make([]uistate.Item, 0, len(targets))
	for _, t := range targets {
		items = append(items, uistate.Item{ID: t.Name, Label: selection.OptionLabel(t), Detail: t.ConfigPath})
	}
	return items
}

func (m *Model) openPicker() tea.Cmd {
	m.picker = uistate.NewList(pickerID, pickerTitle, pickerItems(m.selection.Options()))
	m.picker.SetActive(m.selection.Active())
	m.syncPickerViewport()
	m.mode = ModePicker
	m.clearNotice()
	events.UI.Panel(pickerID, true)
	m.filterCursorDirty = true
	return m.filterCursor.Focus()
}

func (m *Model) closePicker() {
	m.picker = nil
	m.mode = ModeMain
	m.filterCursor.Blur()
	events.UI.Panel(pickerID, false)
}

// choosePickerEntry commits the highlighted entry. Choosing the active
// entry again only closes the picker.
func (m *Model) choosePickerEntry() tea.Cmd {
	item, ok := m.picker.Current()
	m.closePicker()
	if !ok || item.ID == m.selection.Active() {
		return nil
	}
	return m.commitCmd(m.selection.Select(item.ID))
}

func (m *Model) pickerRows() int {
	rows := 8
	if m.height > 0 {
		// status, editor, detect, title, prompt, footer
		if avail := m.height - 6; avail < rows {
			rows = avail
		}
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) syncPickerViewport() {
	if m.picker != nil {
		m.picker.EnsureCursorVisible(m.pickerRows())
	}
}

func (m *Model) openAbout() tea.Cmd {
	if m.mode == ModePicker {
		m.closePicker()
	}
	m.mode = ModeAbout
	events.UI.Panel(panelAbout, true)
	return m.versionCmd()
}

func (m *Model) closeAbout() {
	m.mode = ModeMain
	m.autoAbout = false
	events.UI.Panel(panelAbout, false)
}
