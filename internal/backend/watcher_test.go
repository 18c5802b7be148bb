package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/bridge/bridgetest"
)

func collect(t *testing.T, w *Watcher, n int) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case evt, ok := <-w.Events():
			if !ok {
				return out
			}
			out = append(out, evt)
		case <-timeout:
			t.Fatalf("timed out after %d events", len(out))
		}
	}
	return out
}

func kinds(evts []Event) []Kind {
	out := make([]Kind, len(evts))
	for i, e := range evts {
		out[i] = e.Kind
	}
	return out
}

func fastPolicy(max int) bridge.RetryPolicy {
	return bridge.RetryPolicy{Delays: []time.Duration{time.Millisecond, 2 * time.Millisecond}, MaxAttempts: max}
}

func TestWatcherReportsReadyAndStops(t *testing.T) {
	w := NewWatcher(bridge.Connected(&bridgetest.Stub{}), fastPolicy(0), 0)
	defer w.Stop()
	evts := collect(t, w, 3)
	if len(evts) != 2 || evts[0].Kind != KindWaiting || evts[1].Kind != KindReady {
		t.Fatalf("unexpected events %v", kinds(evts))
	}
	if !evts[1].Status.Success || evts[1].Attempt != 1 {
		t.Fatalf("unexpected ready event %+v", evts[1])
	}
}

func TestWatcherRetriesUntilBridgeAnswers(t *testing.T) {
	var dials atomic.Int32
	stub := &bridgetest.Stub{}
	gate := bridge.NewGate(func(context.Context) (bridge.Client, error) {
		if dials.Add(1) < 3 {
			return nil, &bridge.TransportError{Err: errors.New("connection refused")}
		}
		return stub, nil
	})
	w := NewWatcher(gate, fastPolicy(0), 0)
	defer w.Stop()
	evts := collect(t, w, 5)
	want := []Kind{KindWaiting, KindProbeFailed, KindProbeFailed, KindReady}
	if len(evts) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds(evts))
	}
	for i := range want {
		if evts[i].Kind != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds(evts))
		}
	}
	if evts[1].Delay != time.Millisecond || evts[2].Delay != 2*time.Millisecond {
		t.Fatalf("delays must follow the policy: %v %v", evts[1].Delay, evts[2].Delay)
	}
	if !gate.Ready() {
		t.Fatalf("gate must be ready after the probe succeeded")
	}
}

func TestWatcherGivesUpWhenAttemptsRunOut(t *testing.T) {
	gate := bridge.NewGate(func(context.Context) (bridge.Client, error) {
		return nil, &bridge.TransportError{Err: errors.New("refused")}
	})
	w := NewWatcher(gate, fastPolicy(2), 0)
	defer w.Stop()
	evts := collect(t, w, 4)
	if len(evts) != 3 || evts[2].Kind != KindGaveUp || evts[2].Attempt != 2 {
		t.Fatalf("unexpected events %v", kinds(evts))
	}
}

func TestWatcherHeartbeatDetectsLostBridge(t *testing.T) {
	var calls atomic.Int32
	stub := &bridgetest.Stub{
		StatusFn: func() (bridge.Response[bridge.StatusInfo], error) {
			if calls.Add(1) == 1 {
				return bridge.Response[bridge.StatusInfo]{Success: true}, nil
			}
			return bridge.Response[bridge.StatusInfo]{}, &bridge.TransportError{Method: bridge.MethodStatus, Err: bridge.ErrClosed}
		},
	}
	w := NewWatcher(bridge.Connected(stub), fastPolicy(1), 5*time.Millisecond)
	defer w.Stop()
	evts := collect(t, w, 4)
	want := []Kind{KindWaiting, KindReady, KindLost, KindGaveUp}
	if len(evts) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds(evts))
	}
	for i := range want {
		if evts[i].Kind != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds(evts))
		}
	}
}

func TestWatcherStopClosesEvents(t *testing.T) {
	gate := bridge.NewGate(func(context.Context) (bridge.Client, error) {
		return nil, &bridge.TransportError{Err: errors.New("refused")}
	})
	w := NewWatcher(gate, bridge.RetryPolicy{Delays: []time.Duration{time.Hour}}, 0)
	collect(t, w, 2)
	w.Stop()
	w.Wait()
	if _, ok := <-w.Events(); ok {
		t.Fatalf("expected closed events channel")
	}
}

func TestThrottleHonoursContext(t *testing.T) {
	th := newThrottle(time.Hour)
	if !th.wait(context.Background()) {
		t.Fatalf("first slot must be free")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if th.wait(ctx) {
		t.Fatalf("expected cancelled wait")
	}
}
