package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests.
// Delayed messages (ticks, status resets, the first-run panel) are held
// until Advance is called.
type Harness struct {
	model   *Model
	pending []pendingMsg
	quit    bool
}

type pendingMsg struct {
	delay time.Duration
	msg   tea.Msg
}

type deferredMsg struct {
	delay time.Duration
	msg   tea.Msg
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model}
	if model != nil {
		model.after = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
			return func() tea.Msg {
				return deferredMsg{delay: d, msg: fn(time.Now().Add(d))}
			}
		}
		model.filterCursor.SetMode(cursor.CursorStatic)
	}
	return h
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Key sends a key press given in tea.KeyMsg.String() form.
func (h *Harness) Key(key string) {
	h.Send(keyMsg(key))
}

// Type sends each rune of text as a separate key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Advance delivers held messages whose delay is at most d. Messages held
// by their handlers are delivered on the next call.
func (h *Harness) Advance(d time.Duration) {
	due := h.pending[:0:0]
	keep := h.pending[:0:0]
	for _, p := range h.pending {
		if p.delay <= d {
			due = append(due, p)
		} else {
			keep = append(keep, pendingMsg{delay: p.delay - d, msg: p.msg})
		}
	}
	h.pending = keep
	for _, p := range due {
		h.Send(p.msg)
	}
}

// Pending counts held messages.
func (h *Harness) Pending() int {
	return len(h.pending)
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range m {
			h.processCmd(c)
		}
		return
	case deferredMsg:
		h.pending = append(h.pending, pendingMsg(m))
		return
	case tea.QuitMsg:
		h.quit = true
		return
	}
	mdl, next := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(next)
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}
