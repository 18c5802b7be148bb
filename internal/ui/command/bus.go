package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/dispatcher"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Result is delivered once a dispatched job has finished. The receiver must
// hand it back to Settle.
type Result struct {
	Ticket  *dispatcher.Ticket
	Outcome dispatcher.Outcome
}

// Bus turns bridge work into Bubble Tea commands while emitting trace logs.
type Bus struct {
	ctx        context.Context
	dispatcher *dispatcher.Dispatcher
	gate       *bridge.Gate
}

// New initialises a command bus instance.
func New(ctx context.Context, d *dispatcher.Dispatcher, gate *bridge.Gate) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx, dispatcher: d, gate: gate}
}

// Dispatch takes the guard for job and returns the command that performs
// the call. When the guard cannot be taken no command is returned.
func (b *Bus) Dispatch(job dispatcher.Job) (tea.Cmd, error) {
	t, err := b.dispatcher.Start(job)
	if err != nil {
		return nil, err
	}
	events.Command.Queue(job.Name)
	return func() tea.Msg {
		out := b.dispatcher.Execute(b.ctx, t)
		events.Command.Result(job.Name, fmt.Sprintf("%T", out.Value))
		return Result{Ticket: t, Outcome: out}
	}, nil
}

// Settle releases the guard held by a finished dispatch.
func (b *Bus) Settle(r Result) {
	b.dispatcher.Settle(r.Ticket)
}

// Call wraps an unguarded bridge call. fn receives nil when the bridge is
// not connected.
func (b *Bus) Call(name string, fn func(ctx context.Context, c bridge.Client) tea.Msg) tea.Cmd {
	events.Command.Queue(name)
	return func() tea.Msg {
		c, _ := b.gate.Client()
		msg := fn(b.ctx, c)
		events.Command.Result(name, fmt.Sprintf("%T", msg))
		return msg
	}
}
