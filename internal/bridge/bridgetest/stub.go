// Package bridgetest provides bridge doubles for tests: an in-memory Stub
// client and a WebSocket JSON-RPC server that exposes any bridge.Client.
package bridgetest

import (
	"context"
	"sync"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
)

// Stub is an in-memory bridge.Client. Unset hooks answer with a plain
// success envelope. Every call is recorded by wire name.
type Stub struct {
	StatusFn               func() (bridge.Response[bridge.StatusInfo], error)
	SystemInfoFn           func() (bridge.Response[bridge.SystemInfo], error)
	SetEditorTypeFn        func(name string, info *bridge.EditorTarget) (bridge.OperationResult, error)
	ModifyTelemetryFn      func() (bridge.OperationResult, error)
	CleanDatabaseFn        func() (bridge.OperationResult, error)
	CleanWorkspaceFn       func() (bridge.OperationResult, error)
	RunAllOperationsFn     func() (bridge.BatchResponse, error)
	DetectIDEsFn           func() (bridge.DetectResult, error)
	DefaultIDEsFn          func() (bridge.DetectResult, error)
	SupportedOperationsFn  func() (bridge.Response[bridge.OperationsPayload], error)
	IsFirstRunFn           func() (bridge.Response[bridge.FirstRun], error)
	MarkFirstRunCompleteFn func() (bridge.OperationResult, error)
	VersionInfoFn          func() (bridge.Response[bridge.VersionInfo], error)
	OpenExternalLinkFn     func(url string) (bridge.OperationResult, error)

	mu    sync.Mutex
	calls []string
}

// Calls returns the wire names of the calls made so far, in order.
func (s *Stub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Count returns how often method was called.
func (s *Stub) Count(method string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

func (s *Stub) record(method string) {
	s.mu.Lock()
	s.calls = append(s.calls, method)
	s.mu.Unlock()
}

func ok(message string) bridge.OperationResult {
	return bridge.OperationResult{Success: true, Message: message}
}

func (s *Stub) Status(ctx context.Context) (bridge.Response[bridge.StatusInfo], error) {
	s.record(bridge.MethodStatus)
	if s.StatusFn != nil {
		return s.StatusFn()
	}
	return bridge.Response[bridge.StatusInfo]{Success: true, Message: "API is ready", Data: &bridge.StatusInfo{Status: "ready"}}, nil
}

func (s *Stub) SystemInfo(ctx context.Context) (bridge.Response[bridge.SystemInfo], error) {
	s.record(bridge.MethodSystemInfo)
	if s.SystemInfoFn != nil {
		return s.SystemInfoFn()
	}
	return bridge.Response[bridge.SystemInfo]{Success: true, Data: &bridge.SystemInfo{EditorType: "VSCodium", IDEType: bridge.IDETypeVSCode}}, nil
}

func (s *Stub) SetEditorType(ctx context.Context, name string, info *bridge.EditorTarget) (bridge.OperationResult, error) {
	s.record(bridge.MethodSetEditorType)
	if s.SetEditorTypeFn != nil {
		return s.SetEditorTypeFn(name, info)
	}
	return ok("Editor type set to " + name), nil
}

func (s *Stub) ModifyTelemetry(ctx context.Context) (bridge.OperationResult, error) {
	s.record(bridge.MethodModifyTelemetry)
	if s.ModifyTelemetryFn != nil {
		return s.ModifyTelemetryFn()
	}
	return ok("Telemetry IDs modified"), nil
}

func (s *Stub) CleanDatabase(ctx context.Context) (bridge.OperationResult, error) {
	s.record(bridge.MethodCleanDatabase)
	if s.CleanDatabaseFn != nil {
		return s.CleanDatabaseFn()
	}
	return ok("Database cleaned"), nil
}

func (s *Stub) CleanWorkspace(ctx context.Context) (bridge.OperationResult, error) {
	s.record(bridge.MethodCleanWorkspace)
	if s.CleanWorkspaceFn != nil {
		return s.CleanWorkspaceFn()
	}
	return ok("Workspace cleaned"), nil
}

func (s *Stub) RunAllOperations(ctx context.Context) (bridge.BatchResponse, error) {
	s.record(bridge.MethodRunAllOperations)
	if s.RunAllOperationsFn != nil {
		return s.RunAllOperationsFn()
	}
	return bridge.BatchResponse{Success: true, Message: "All operations completed", Data: &bridge.BatchResult{}}, nil
}

func (s *Stub) DetectIDEs(ctx context.Context) (bridge.DetectResult, error) {
	s.record(bridge.MethodDetectIDEs)
	if s.DetectIDEsFn != nil {
		return s.DetectIDEsFn()
	}
	return bridge.DetectResult{Success: true}, nil
}

func (s *Stub) DefaultIDEs(ctx context.Context) (bridge.DetectResult, error) {
	s.record(bridge.MethodDefaultIDEs)
	if s.DefaultIDEsFn != nil {
		return s.DefaultIDEsFn()
	}
	return bridge.DetectResult{Success: true}, nil
}

func (s *Stub) SupportedOperations(ctx context.Context) (bridge.Response[bridge.OperationsPayload], error) {
	s.record(bridge.MethodSupportedOperations)
	if s.SupportedOperationsFn != nil {
		return s.SupportedOperationsFn()
	}
	return bridge.Response[bridge.OperationsPayload]{Success: true, Data: &bridge.OperationsPayload{IDEType: bridge.IDETypeVSCode}}, nil
}

func (s *Stub) IsFirstRun(ctx context.Context) (bridge.Response[bridge.FirstRun], error) {
	s.record(bridge.MethodIsFirstRun)
	if s.IsFirstRunFn != nil {
		return s.IsFirstRunFn()
	}
	return bridge.Response[bridge.FirstRun]{Success: true, Data: &bridge.FirstRun{}}, nil
}

func (s *Stub) MarkFirstRunComplete(ctx context.Context) (bridge.OperationResult, error) {
	s.record(bridge.MethodMarkFirstRunComplete)
	if s.MarkFirstRunCompleteFn != nil {
		return s.MarkFirstRunCompleteFn()
	}
	return ok("First run marked as complete"), nil
}

func (s *Stub) VersionInfo(ctx context.Context) (bridge.Response[bridge.VersionInfo], error) {
	s.record(bridge.MethodVersionInfo)
	if s.VersionInfoFn != nil {
		return s.VersionInfoFn()
	}
	return bridge.Response[bridge.VersionInfo]{Success: true, Data: &bridge.VersionInfo{Version: "0.1.0"}}, nil
}

func (s *Stub) OpenExternalLink(ctx context.Context, url string) (bridge.OperationResult, error) {
	s.record(bridge.MethodOpenExternalLink)
	if s.OpenExternalLinkFn != nil {
		return s.OpenExternalLinkFn(url)
	}
	return ok("Opened " + url), nil
}

var _ bridge.Client = (*Stub)(nil)
