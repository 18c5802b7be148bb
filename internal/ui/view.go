package ui

import (
	"strings"

	"github.com/atomicstack/editor-reset-control/internal/format/table"
	"github.com/atomicstack/editor-reset-control/internal/render"
	"github.com/atomicstack/editor-reset-control/internal/selection"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const blockIndent = "  "

// View renders the bound regions.
func (m *Model) View() string {
	out := m.regions.Render(m.width)
	if m.height > 0 {
		out = limitHeight(out, m.height, m.width)
	}
	return out
}

// refresh writes the current state into the regions. Regions whose content
// did not change keep their cached rendering.
func (m *Model) refresh() {
	m.status.Set(styleRender(styles.Title, appTitle) + "  " + m.styledStatus())
	m.editor.Set(styleRender(styles.Label, "Editor: ") + styleRender(styles.Value, m.editorLabel()))
	m.detect.Set(styleRender(styles.Description, m.detectText))
	m.system.Set(fragmentView(m.systemInfo))
	m.grid.Set(m.actionsView())
	m.busyBar.Set(styleRender(styles.Busy, m.busy.Text()))
	m.results.Set(fragmentView(m.result))
	m.notice.Set(m.noticeView())
	switch m.mode {
	case ModePicker:
		m.panel.Set(m.pickerView())
	case ModeAbout:
		m.panel.Set(m.aboutView())
	default:
		m.panel.Clear()
	}
	m.footer.Set(m.footerView())

	overlay := m.mode != ModeMain
	m.system.SetHidden(overlay)
	m.grid.SetHidden(overlay)
	m.results.SetHidden(overlay)
	m.footer.SetHidden(!m.showFooter)
}

func (m *Model) styledStatus() string {
	text := m.statusText()
	switch m.readiness {
	case readinessReady:
		return styleRender(styles.StatusReady, text)
	case readinessWaiting:
		return styleRender(styles.StatusWaiting, text)
	default:
		return styleRender(styles.StatusError, text)
	}
}

func (m *Model) editorLabel() string {
	if m.selection.Active() == "" {
		return "(bridge default)"
	}
	name := m.selection.Active()
	for _, t := range m.selection.Options() {
		if t.Name == name && t.Icon != "" {
			return t.Icon + " " + m.selection.Label()
		}
	}
	return m.selection.Label()
}

func (m *Model) actionsView() string {
	disabled := m.Busy() || m.readiness != readinessReady
	rows := make([][]string, 0, len(m.actions)+1)
	for _, a := range m.actions {
		rows = append(rows, []string{actionKey(a.Kind.Shortcut(), disabled), actionButton(a.Button, disabled), actionDescription(a)})
	}
	rows = append(rows, []string{actionKey("a", disabled), actionButton("Run all operations", disabled), ""})
	lines := table.Format(rows, nil)
	return styleRender(styles.Header, "Operations") + "\n" + blockIndent + strings.Join(lines, "\n"+blockIndent)
}

func actionKey(key string, disabled bool) string {
	if disabled {
		return styleRender(styles.ButtonDisabled, key)
	}
	return styleRender(styles.ButtonKey, key)
}

func actionButton(text string, disabled bool) string {
	if disabled {
		return styleRender(styles.ButtonDisabled, text)
	}
	return styleRender(styles.Button, text)
}

func actionDescription(a selection.Action) string {
	text := a.Name
	if a.Icon != "" {
		text = a.Icon + " " + text
	}
	if a.Description != "" {
		text += ": " + a.Description
	}
	return styleRender(styles.Description, text)
}

func (m *Model) noticeView() string {
	if m.errMsg != "" {
		return styleRender(styles.Error, m.errMsg)
	}
	if m.infoMsg != "" {
		return styleRender(styles.Info, m.infoMsg)
	}
	return ""
}

func (m *Model) pickerView() string {
	l := m.picker
	if l == nil {
		return ""
	}
	lines := []string{styleRender(styles.Header, l.Title), m.filterPrompt()}
	visible := l.Visible(m.pickerRows())
	if len(visible) == 0 {
		lines = append(lines, styleRender(styles.Description, "No matching editors"))
	}
	for i, item := range visible {
		idx := l.ViewportOffset + i
		marker := "  "
		if l.IsActive(item.ID) {
			marker = "● "
		}
		text := marker + item.Label
		if item.Detail != "" {
			text += "  " + styleRender(styles.Description, item.Detail)
		}
		if idx == l.Cursor {
			lines = append(lines, styleRender(styles.SelectedIndicator, "▌")+styleRender(styles.SelectedItem, text))
		} else {
			lines = append(lines, styleRender(styles.ItemIndicator, " ")+styleRender(styles.Item, text))
		}
	}
	return styleRender(styles.Panel, strings.Join(lines, "\n"))
}

func (m *Model) aboutView() string {
	title := appTitle
	if m.version != "" {
		title += " " + m.version
	}
	lines := []string{
		styleRender(styles.Title, title),
		styleRender(styles.Description, "Resets editor telemetry identifiers and clears local caches through the bridge."),
		"",
		linkLine("g", "Repository", m.links.Repo),
		linkLine("r", "Releases", m.links.Releases),
		linkLine("i", "Issues", m.links.Issues),
	}
	if m.autoAbout {
		lines = append(lines, "", styleRender(styles.Description, "Shown once on first start. Press ? to open it again."))
	}
	return styleRender(styles.Panel, strings.Join(lines, "\n"))
}

func linkLine(key, label, url string) string {
	return styleRender(styles.ButtonKey, key) + " " + styleRender(styles.Label, label+": ") + styleRender(styles.Link, url)
}

func (m *Model) footerView() string {
	var help string
	switch m.mode {
	case ModePicker:
		help = "↑/↓ move  enter select  esc close  type to filter"
	case ModeAbout:
		help = "g repo  r releases  i issues  esc close"
	default:
		help = "t/d/w run  a all  s scan  e editor  r reload  ? about  q quit"
	}
	return styleRender(styles.Footer, help)
}

// fragmentView styles a rendered fragment for the terminal.
func fragmentView(f render.Fragment) string {
	if f.Empty() {
		return ""
	}
	var b strings.Builder
	for i, block := range f.Blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(styleRender(styles.Tone(block.Tone), block.Tone.Icon()+" "+block.Title))
		rows := render.Rows(block)
		for r := range rows {
			rows[r][0] = styleRender(styles.Label, rows[r][0])
		}
		for _, line := range table.Format(rows, nil) {
			b.WriteString("\n" + blockIndent + line)
		}
	}
	return b.String()
}

func styleRender(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func limitHeight(view string, height, width int) string {
	lines := strings.Split(view, "\n")
	if height <= 0 || len(lines) <= height {
		return view
	}
	ellipsis := "…"
	if width > 0 && lipgloss.Width(ellipsis) > width {
		ellipsis = truncate.String(ellipsis, uint(width))
	}
	if height == 1 {
		return ellipsis
	}
	return strings.Join(append(lines[:height-1], ellipsis), "\n")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.syncPickerViewport()
	return nil
}
