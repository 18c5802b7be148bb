package app

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/backend"
	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	"github.com/atomicstack/editor-reset-control/internal/opener"
	"github.com/atomicstack/editor-reset-control/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	BridgeURL     string
	Editor        string
	Timeout       time.Duration
	ProbeAttempts int
	Heartbeat     time.Duration
	Width         int
	Height        int
	ShowFooter    bool
	NoColor       bool
	ProjectURL    string
	// Command selects headless mode when non-empty.
	Command []string
}

// Headless reports whether cfg runs a command instead of the TUI.
func (cfg Config) Headless() bool {
	return len(cfg.Command) > 0
}

func (cfg Config) policy() bridge.RetryPolicy {
	return bridge.Readiness().WithMaxAttempts(cfg.ProbeAttempts)
}

// Run bootstraps and executes the Bubble Tea program, or the headless
// command when one was given.
func Run(cfg Config) error {
	gate := bridge.NewGate(bridge.WebSocketDialer(cfg.BridgeURL, cfg.Timeout))
	defer gate.Close()
	if cfg.Headless() {
		err := runHeadless(context.Background(), cfg, gate)
		events.App.Exit(err)
		return err
	}

	watcher := backend.NewWatcher(gate, cfg.policy(), cfg.Heartbeat)
	defer watcher.Stop()
	model := ui.NewModel(ui.Options{
		Gate:       gate,
		Watcher:    watcher,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Editor:     cfg.Editor,
		Links:      opener.ProjectLinks(cfg.ProjectURL),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	events.App.Exit(err)
	return err
}

func runHeadless(ctx context.Context, cfg Config, gate *bridge.Gate) error {
	cmd, err := ParseCommand(cfg.Command)
	if err != nil {
		return err
	}
	events.App.Headless(cmd.Name, cfg.Command[1:])
	r := &Runner{
		Gate:    gate,
		Policy:  cfg.policy(),
		Out:     os.Stdout,
		Status:  os.Stderr,
		Colored: !cfg.NoColor,
		Editor:  cfg.Editor,
	}
	return r.Run(ctx, cmd)
}
