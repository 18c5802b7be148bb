package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
)

// Kind represents the type of readiness event emitted by the watcher.
type Kind int

const (
	// KindWaiting is sent once before the first probe.
	KindWaiting Kind = iota
	// KindProbeFailed reports a failed probe; another follows after Delay.
	KindProbeFailed
	// KindReady reports that the bridge answered get_status. Status.Success
	// tells whether the bridge considers itself healthy.
	KindReady
	// KindLost reports that a heartbeat found the connection gone.
	KindLost
	// KindGaveUp reports that the retry policy ran out of attempts.
	KindGaveUp
)

func (k Kind) String() string {
	switch k {
	case KindWaiting:
		return "waiting"
	case KindProbeFailed:
		return "probe-failed"
	case KindReady:
		return "ready"
	case KindLost:
		return "lost"
	case KindGaveUp:
		return "gave-up"
	default:
		return "unknown"
	}
}

// Event conveys the result of a readiness probe.
type Event struct {
	Kind    Kind
	Attempt int
	Delay   time.Duration
	Status  bridge.Response[bridge.StatusInfo]
	Err     error
}

// Watcher probes the bridge until it answers, following a retry policy, and
// optionally keeps re-probing at a heartbeat interval afterwards.
type Watcher struct {
	gate      *bridge.Gate
	policy    bridge.RetryPolicy
	heartbeat time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts probing through gate. A zero heartbeat stops the watcher
// once the bridge is ready.
func NewWatcher(gate *bridge.Gate, policy bridge.RetryPolicy, heartbeat time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		gate:      gate,
		policy:    policy,
		heartbeat: heartbeat,
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.run()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of readiness events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The current probe finishes first; use Wait if a
// clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the probe goroutine has exited and the events channel is
// closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	if !w.emit(Event{Kind: KindWaiting}) {
		return
	}
	for {
		if !w.probeUntilReady() {
			return
		}
		if w.heartbeat <= 0 {
			return
		}
		if !w.watch() {
			return
		}
	}
}

// probeUntilReady returns false when the watcher should stop.
func (w *Watcher) probeUntilReady() bool {
	for attempt := 0; ; attempt++ {
		events.Probe.Attempt(attempt + 1)
		status, err := w.probe()
		if err == nil {
			events.Probe.Ready(attempt+1, status.Success)
			return w.emit(Event{Kind: KindReady, Attempt: attempt + 1, Status: status})
		}
		delay, ok := w.policy.Next(attempt)
		if !ok {
			events.Probe.GiveUp(attempt+1, err)
			w.emit(Event{Kind: KindGaveUp, Attempt: attempt + 1, Err: err})
			return false
		}
		events.Probe.Retry(attempt+1, delay, err)
		if !w.emit(Event{Kind: KindProbeFailed, Attempt: attempt + 1, Delay: delay, Err: err}) {
			return false
		}
		if bridge.Sleep(w.ctx, delay) != nil {
			return false
		}
	}
}

// watch re-probes at the heartbeat interval. It returns true when the
// connection was lost and probing should start over.
func (w *Watcher) watch() bool {
	throttle := newThrottle(250 * time.Millisecond)
	ticker := time.NewTicker(w.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return false
		case <-ticker.C:
			if !throttle.wait(w.ctx) {
				return false
			}
			client, ok := w.gate.Client()
			var err error
			if ok {
				_, err = client.Status(w.ctx)
			} else {
				err = &bridge.TransportError{Method: bridge.MethodStatus, Err: bridge.ErrClosed}
			}
			if err == nil {
				continue
			}
			_ = w.gate.Close()
			return w.emit(Event{Kind: KindLost, Err: err})
		}
	}
}

func (w *Watcher) probe() (bridge.Response[bridge.StatusInfo], error) {
	client, err := w.gate.Connect(w.ctx)
	if err != nil {
		return bridge.Response[bridge.StatusInfo]{}, err
	}
	status, err := client.Status(w.ctx)
	if err != nil {
		_ = w.gate.Close()
	}
	return status, err
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
