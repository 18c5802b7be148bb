package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/bridge/bridgetest"
	"github.com/atomicstack/editor-reset-control/internal/dispatcher"
	"github.com/atomicstack/editor-reset-control/internal/opener"
	"github.com/atomicstack/editor-reset-control/internal/operation"
)

func strPtr(s string) *string { return &s }

func newRunner(stub *bridgetest.Stub) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var out, status bytes.Buffer
	return &Runner{
		Gate:   bridge.Connected(stub),
		Policy: bridge.Readiness().WithMaxAttempts(1),
		Out:    &out,
		Status: &status,
	}, &out, &status
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand([]string{"run", "ALL"})
	if err != nil || !cmd.All {
		t.Fatalf("expected run all, got %+v (%v)", cmd, err)
	}
	cmd, err = ParseCommand([]string{"run", "database"})
	if err != nil || cmd.Kind != operation.Database {
		t.Fatalf("expected database, got %+v (%v)", cmd, err)
	}
	cmd, err = ParseCommand([]string{"open", "https://example.com"})
	if err != nil || cmd.URL != "https://example.com" {
		t.Fatalf("unexpected open command %+v (%v)", cmd, err)
	}
	bad := [][]string{nil, {"run"}, {"run", "cache"}, {"detect", "now"}, {"open"}, {"frobnicate"}}
	for _, args := range bad {
		if err := ValidateCommand(args); !errors.Is(err, ErrUsage) {
			t.Fatalf("expected usage error for %v, got %v", args, err)
		}
	}
	if _, err := ParseCommand([]string{"run", "cache"}); !errors.Is(err, operation.ErrUnknown) {
		t.Fatalf("unknown operation must wrap ErrUnknown, got %v", err)
	}
}

func TestRunnerRunsSingleOperation(t *testing.T) {
	stub := &bridgetest.Stub{
		ModifyTelemetryFn: func() (bridge.OperationResult, error) {
			return bridge.OperationResult{
				Success: true,
				Message: "Telemetry IDs modified",
				Data: &bridge.ResultData{
					OldMachineID: strPtr("0123456789abcdef0123"),
					NewMachineID: strPtr("fedcba9876543210fedc"),
				},
			}, nil
		},
	}
	r, out, status := newRunner(stub)
	if err := r.Run(context.Background(), Command{Name: CmdRun, Kind: operation.Telemetry}); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{"✅ Telemetry ID reset", "Telemetry IDs modified", "0123456789abcdef...", "fedcba9876543210..."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
	if !strings.Contains(status.String(), operation.Telemetry.BusyMessage()) {
		t.Fatalf("expected busy message on status writer, got %q", status.String())
	}
	if stub.Count(bridge.MethodSetEditorType) != 0 {
		t.Fatalf("no editor configured, selection must not be committed")
	}
}

func TestRunnerReportsFailure(t *testing.T) {
	stub := &bridgetest.Stub{
		CleanDatabaseFn: func() (bridge.OperationResult, error) {
			return bridge.OperationResult{Success: false, Message: "Database cleanup failed", Error: "locked"}, nil
		},
	}
	r, out, _ := newRunner(stub)
	err := r.Run(context.Background(), Command{Name: CmdRun, Kind: operation.Database})
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if !strings.Contains(out.String(), "locked") {
		t.Fatalf("expected error line, got %q", out.String())
	}
}

func TestRunnerCommitsPreferredEditorFirst(t *testing.T) {
	stub := &bridgetest.Stub{}
	r, _, _ := newRunner(stub)
	r.Editor = "Cursor"
	if err := r.Run(context.Background(), Command{Name: CmdRun, All: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	calls := stub.Calls()
	if len(calls) < 2 || calls[1] != bridge.MethodSetEditorType || calls[len(calls)-1] != bridge.MethodRunAllOperations {
		t.Fatalf("unexpected call order %v", calls)
	}
}

func TestRunnerStopsWhenEditorRejected(t *testing.T) {
	stub := &bridgetest.Stub{
		SetEditorTypeFn: func(name string, info *bridge.EditorTarget) (bridge.OperationResult, error) {
			return bridge.OperationResult{Success: false, Message: "Unknown editor", Error: name}, nil
		},
	}
	r, _, _ := newRunner(stub)
	r.Editor = "Notepad"
	if err := r.Run(context.Background(), Command{Name: CmdRun, Kind: operation.Workspace}); !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if stub.Count(bridge.MethodCleanWorkspace) != 0 {
		t.Fatalf("operation must not run after a rejected selection")
	}
}

func TestRunnerDetectFallsBackToDefaults(t *testing.T) {
	stub := &bridgetest.Stub{}
	r, out, _ := newRunner(stub)
	if err := r.Run(context.Background(), Command{Name: CmdDetect}); err != nil {
		t.Fatalf("detect: %v", err)
	}
	if stub.Count(bridge.MethodSetEditorType) != 1 {
		t.Fatalf("expected the fallback selection to be committed, calls %v", stub.Calls())
	}
	if !strings.Contains(out.String(), "Editor: VSCodium") {
		t.Fatalf("expected commit block for VSCodium, got:\n%s", out.String())
	}
}

func TestRunnerGivesUpWhenBridgeUnreachable(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{
		Gate: bridge.NewGate(func(context.Context) (bridge.Client, error) {
			return nil, &bridge.TransportError{Err: errors.New("connection refused")}
		}),
		Policy: bridge.Readiness().WithMaxAttempts(1),
		Out:    &out,
	}
	if err := r.Run(context.Background(), Command{Name: CmdStatus}); !errors.Is(err, dispatcher.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestRunnerOpenFallsBackToLocalOpener(t *testing.T) {
	stub := &bridgetest.Stub{
		OpenExternalLinkFn: func(string) (bridge.OperationResult, error) {
			return bridge.OperationResult{}, &bridge.TransportError{Method: bridge.MethodOpenExternalLink, Err: bridge.ErrClosed}
		},
	}
	var launched []string
	r, out, _ := newRunner(stub)
	r.Opener = opener.WithLauncher("linux", func(name string, args ...string) error {
		launched = append(append(launched, name), args...)
		return nil
	})
	if err := r.Run(context.Background(), Command{Name: CmdOpen, URL: "https://example.com"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if strings.Join(launched, " ") != "xdg-open https://example.com" {
		t.Fatalf("unexpected launch %v", launched)
	}
	if !strings.Contains(out.String(), "Opened via local") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunnerAgainstWebSocketBridge(t *testing.T) {
	srv := bridgetest.NewServer()
	defer srv.Close()
	srv.Reply(bridge.MethodStatus, map[string]interface{}{"success": true, "message": "API is ready", "data": map[string]string{"status": "ready"}})
	srv.Reply(bridge.MethodVersionInfo, map[string]interface{}{"success": true, "message": "", "data": map[string]string{"version": "1.4.0"}})

	gate := bridge.NewGate(bridge.WebSocketDialer(srv.URL(), 0))
	defer gate.Close()
	var out bytes.Buffer
	r := &Runner{Gate: gate, Policy: bridge.Readiness().WithMaxAttempts(1), Out: &out}
	if err := r.Run(context.Background(), Command{Name: CmdVersion}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "v1.4.0") {
		t.Fatalf("expected version in output, got %q", out.String())
	}
}
