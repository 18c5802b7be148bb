package theme

import (
	"github.com/atomicstack/editor-reset-control/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Title             *lipgloss.Style
	Header            *lipgloss.Style
	StatusReady       *lipgloss.Style
	StatusWaiting     *lipgloss.Style
	StatusError       *lipgloss.Style
	Busy              *lipgloss.Style
	Button            *lipgloss.Style
	ButtonKey         *lipgloss.Style
	ButtonDisabled    *lipgloss.Style
	Description       *lipgloss.Style
	Label             *lipgloss.Style
	Value             *lipgloss.Style
	Success           *lipgloss.Style
	Failure           *lipgloss.Style
	Transport         *lipgloss.Style
	Info              *lipgloss.Style
	Error             *lipgloss.Style
	Footer            *lipgloss.Style
	Panel             *lipgloss.Style
	Link              *lipgloss.Style
	Item              *lipgloss.Style
	ItemIndicator     *lipgloss.Style
	SelectedItem      *lipgloss.Style
	SelectedIndicator *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style
}

var defaultStyles = Styles{
	Title: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	StatusReady: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	StatusWaiting: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	StatusError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Busy: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Button: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 1),
	),
	ButtonKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	ButtonDisabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1),
	),
	Description: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Value: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Success: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Failure: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Transport: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Panel: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 1),
	),
	Link: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	SelectedIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Tone returns the title style for a result tone.
func (s *Styles) Tone(t render.Tone) *lipgloss.Style {
	switch t {
	case render.ToneSuccess:
		return s.Success
	case render.ToneFailure:
		return s.Failure
	case render.ToneTransport:
		return s.Transport
	default:
		return s.Info
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
