package dispatcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/bridge/bridgetest"
	"github.com/atomicstack/editor-reset-control/internal/operation"
	"github.com/atomicstack/editor-reset-control/internal/state"
)

type recordingIndicator struct {
	shown   []string
	hidden  int
	visible bool
}

func (r *recordingIndicator) Show(message string) {
	r.shown = append(r.shown, message)
	r.visible = true
}

func (r *recordingIndicator) Hide() {
	r.hidden++
	r.visible = false
}

func newDispatcher(stub *bridgetest.Stub) (*Dispatcher, *recordingIndicator) {
	ind := &recordingIndicator{}
	return New(bridge.Connected(stub), state.NewSession(), ind), ind
}

func TestStartWhileBusyMakesNoCall(t *testing.T) {
	stub := &bridgetest.Stub{}
	d, ind := newDispatcher(stub)

	ticket, err := d.Start(OperationJob(operation.Telemetry))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !ind.visible || ind.shown[0] != "Modifying telemetry IDs..." {
		t.Fatalf("expected busy indicator, got %+v", ind)
	}
	if _, err := d.Start(OperationJob(operation.Database)); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if _, err := d.Start(DetectJob()); !errors.Is(err, ErrBusy) {
		t.Fatalf("detection must share the guard, got %v", err)
	}
	if len(stub.Calls()) != 0 {
		t.Fatalf("no bridge call expected before Execute, got %v", stub.Calls())
	}

	out := d.Execute(context.Background(), ticket)
	d.Settle(ticket)
	if out.Err != nil || out.Failed() {
		t.Fatalf("unexpected failure: %+v", out)
	}
	if stub.Count(bridge.MethodModifyTelemetry) != 1 || len(stub.Calls()) != 1 {
		t.Fatalf("expected exactly one bridge call, got %v", stub.Calls())
	}
	if d.Busy() || ind.visible {
		t.Fatalf("expected idle after settle")
	}
}

func TestReleaseAfterRejectedCall(t *testing.T) {
	stub := &bridgetest.Stub{
		CleanDatabaseFn: func() (bridge.OperationResult, error) {
			return bridge.OperationResult{}, &bridge.TransportError{Method: bridge.MethodCleanDatabase, Err: bridge.ErrClosed}
		},
	}
	d, ind := newDispatcher(stub)

	out, err := d.Run(context.Background(), OperationJob(operation.Database))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bridge.IsTransport(out.Err) {
		t.Fatalf("expected transport error, got %v", out.Err)
	}
	if d.Busy() || ind.visible || ind.hidden != 1 {
		t.Fatalf("guard must be released after a rejected call: busy=%v indicator=%+v", d.Busy(), ind)
	}
	if _, err := d.Run(context.Background(), OperationJob(operation.Workspace)); err != nil {
		t.Fatalf("dispatcher must accept a new job after release: %v", err)
	}
}

func TestExecuteRecoversPanics(t *testing.T) {
	stub := &bridgetest.Stub{
		CleanWorkspaceFn: func() (bridge.OperationResult, error) {
			panic("decoder exploded")
		},
	}
	d, _ := newDispatcher(stub)
	out, err := d.Run(context.Background(), OperationJob(operation.Workspace))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bridge.IsTransport(out.Err) || !strings.Contains(out.Err.Error(), "decoder exploded") {
		t.Fatalf("expected recovered transport error, got %v", out.Err)
	}
	if d.Busy() {
		t.Fatalf("guard must be released after a panic")
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	d, ind := newDispatcher(&bridgetest.Stub{})
	first, err := d.Start(DetectJob())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !d.Session().DetectionInFlight() {
		t.Fatalf("expected detection hold")
	}
	d.Settle(first)
	second, err := d.Start(OperationJob(operation.Telemetry))
	if err != nil {
		t.Fatalf("start after settle: %v", err)
	}
	d.Settle(first)
	if !d.Session().OperationInFlight() {
		t.Fatalf("stale settle must not release another ticket's hold")
	}
	d.Settle(second)
	if ind.hidden != 2 {
		t.Fatalf("expected two hides, got %d", ind.hidden)
	}
}

func TestStartRequiresReadyGate(t *testing.T) {
	d := New(bridge.NewGate(nil), state.NewSession(), nil)
	if _, err := d.Start(RunAllJob()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if d.Busy() {
		t.Fatalf("guard must stay free when the bridge is not ready")
	}
}

func TestApplicationFailureIsNotTransport(t *testing.T) {
	stub := &bridgetest.Stub{
		RunAllOperationsFn: func() (bridge.BatchResponse, error) {
			return bridge.BatchResponse{Success: false, Message: "Some operations failed"}, nil
		},
	}
	d, _ := newDispatcher(stub)
	out, err := d.Run(context.Background(), RunAllJob())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Err != nil {
		t.Fatalf("application failure must not be a transport error: %v", out.Err)
	}
	if !out.Failed() {
		t.Fatalf("expected failed outcome")
	}
	if out.Label != operation.AllLabel {
		t.Fatalf("unexpected label %q", out.Label)
	}
}
