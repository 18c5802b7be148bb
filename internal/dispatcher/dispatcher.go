// Package dispatcher runs one bridge call per user action under the session
// guard. A dispatch is split in three steps so the UI can take the guard in
// Update, run the call inside a tea.Cmd and release it when the result comes
// back: Start, Execute and Settle. Run chains them for synchronous callers.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	"github.com/atomicstack/editor-reset-control/internal/state"
	"github.com/google/uuid"
)

var (
	// ErrBusy is returned when another operation or detection holds the guard.
	ErrBusy = errors.New("another operation is in progress")
	// ErrNotReady is returned while the bridge is not connected.
	ErrNotReady = errors.New("bridge is not ready")
)

// Indicator is the busy indicator shown while a call is in flight. Showing
// it also disables the action controls.
type Indicator interface {
	Show(message string)
	Hide()
}

// Job describes one dispatchable bridge call.
type Job struct {
	Name  string
	Label string
	Busy  string
	Hold  state.Hold
	Call  func(ctx context.Context, c bridge.Client) (any, error)
}

// Ticket is a started dispatch. It must be settled exactly once; extra
// Settle calls are ignored.
type Ticket struct {
	ID      string
	Job     Job
	client  bridge.Client
	started time.Time
	settled atomic.Bool
}

// Outcome is what a single dispatch produced. Err is always a transport
// failure; application failures live inside Value.
type Outcome struct {
	ID    string
	Job   string
	Label string
	Value any
	Err   error
}

// Failed reports whether the call failed on either axis.
func (o Outcome) Failed() bool {
	if o.Err != nil {
		return true
	}
	switch v := o.Value.(type) {
	case bridge.OperationResult:
		return !v.Success
	case bridge.BatchResponse:
		return !v.Success
	case bridge.DetectResult:
		return !v.Success
	}
	return false
}

type Dispatcher struct {
	gate      *bridge.Gate
	session   *state.Session
	indicator Indicator
}

// New creates a dispatcher. indicator may be nil.
func New(gate *bridge.Gate, session *state.Session, indicator Indicator) *Dispatcher {
	return &Dispatcher{gate: gate, session: session, indicator: indicator}
}

// Session exposes the guarded session.
func (d *Dispatcher) Session() *state.Session {
	return d.session
}

// Busy reports whether a dispatch is in flight.
func (d *Dispatcher) Busy() bool {
	return d.session.Busy()
}

// Start takes the guard for job and shows the busy indicator. No bridge call
// is made.
func (d *Dispatcher) Start(job Job) (*Ticket, error) {
	if job.Call == nil {
		return nil, fmt.Errorf("dispatch %s: no call", job.Name)
	}
	client, ok := d.gate.Client()
	if !ok {
		events.Dispatch.Skip(job.Name, "not-ready")
		return nil, ErrNotReady
	}
	hold := job.Hold
	if hold == state.HoldNone {
		hold = state.HoldOperation
		job.Hold = hold
	}
	if !d.session.TryEnter(hold) {
		events.Dispatch.Skip(job.Name, "busy")
		return nil, ErrBusy
	}
	t := &Ticket{ID: uuid.NewString(), Job: job, client: client, started: time.Now()}
	if d.indicator != nil {
		d.indicator.Show(job.Busy)
	}
	events.Dispatch.Queue(t.ID, job.Name, job.Label)
	return t, nil
}

// Execute performs the ticket's bridge call. A panic inside the call is
// reported as a transport failure so the ticket can still be settled.
func (d *Dispatcher) Execute(ctx context.Context, t *Ticket) (out Outcome) {
	out = Outcome{ID: t.ID, Job: t.Job.Name, Label: t.Job.Label}
	defer func() {
		if r := recover(); r != nil {
			out.Value = nil
			out.Err = &bridge.TransportError{Method: t.Job.Name, Err: fmt.Errorf("panic: %v", r)}
		}
		events.Dispatch.Result(out.ID, out.Job, outcomeName(out))
	}()
	out.Value, out.Err = t.Job.Call(ctx, t.client)
	return out
}

// Settle releases the guard and hides the indicator.
func (d *Dispatcher) Settle(t *Ticket) {
	if t == nil || t.settled.Swap(true) {
		return
	}
	d.session.Exit(t.Job.Hold)
	if d.indicator != nil {
		d.indicator.Hide()
	}
	events.Dispatch.Settle(t.ID, t.Job.Name, time.Since(t.started))
}

// Run starts, executes and settles job in one go.
func (d *Dispatcher) Run(ctx context.Context, job Job) (Outcome, error) {
	t, err := d.Start(job)
	if err != nil {
		return Outcome{Job: job.Name, Label: job.Label}, err
	}
	defer d.Settle(t)
	return d.Execute(ctx, t), nil
}

func outcomeName(o Outcome) string {
	switch {
	case o.Err != nil:
		return "transport-error"
	case o.Failed():
		return "failure"
	default:
		return "success"
	}
}
