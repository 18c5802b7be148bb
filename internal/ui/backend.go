package ui

import (
	"fmt"

	"github.com/atomicstack/editor-reset-control/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

type readiness int

const (
	readinessWaiting readiness = iota
	readinessRetrying
	readinessReady
	readinessError
	readinessLost
	readinessFailed
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	switch evt.Kind {
	case backend.KindWaiting:
		m.readiness = readinessWaiting
	case backend.KindProbeFailed:
		m.readiness = readinessRetrying
		m.readinessDetail = fmt.Sprintf("retrying in %s", evt.Delay)
	case backend.KindGaveUp:
		m.readiness = readinessFailed
		m.readinessDetail = errText(evt.Err)
	case backend.KindLost:
		m.readiness = readinessLost
		m.readinessDetail = errText(evt.Err)
	case backend.KindReady:
		if !evt.Status.Success {
			m.readiness = readinessError
			m.readinessDetail = firstNonEmpty(evt.Status.Error, evt.Status.Message)
			return nil
		}
		m.readiness = readinessReady
		m.readinessDetail = ""
		if m.startedOnce {
			return m.loadEditorState()
		}
		m.startedOnce = true
		return m.startupCmd()
	}
	return nil
}

// statusText is the bridge status line.
func (m *Model) statusText() string {
	switch m.readiness {
	case readinessReady:
		return "✅ Ready"
	case readinessError:
		return withDetail("❌ Error", m.readinessDetail)
	case readinessRetrying:
		return withDetail("❌ Connection failed", m.readinessDetail)
	case readinessLost:
		return withDetail("❌ Connection lost", m.readinessDetail)
	case readinessFailed:
		return withDetail("❌ Connection failed", m.readinessDetail)
	default:
		return "⏳ Waiting for bridge..."
	}
}

func withDetail(text, detail string) string {
	if detail == "" {
		return text
	}
	return text + " (" + detail + ")"
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
