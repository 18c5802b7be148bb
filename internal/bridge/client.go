package bridge

import (
	"context"
	"errors"
	"fmt"
)

// Wire names of the bridge methods.
const (
	MethodStatus               = "get_status"
	MethodSystemInfo           = "get_system_info"
	MethodSetEditorType        = "set_editor_type"
	MethodModifyTelemetry      = "modify_telemetry"
	MethodCleanDatabase        = "clean_database"
	MethodCleanWorkspace       = "clean_workspace"
	MethodRunAllOperations     = "run_all_operations"
	MethodDetectIDEs           = "detect_ides"
	MethodDefaultIDEs          = "get_default_ides"
	MethodSupportedOperations  = "get_supported_operations"
	MethodIsFirstRun           = "is_first_run"
	MethodMarkFirstRunComplete = "mark_first_run_complete"
	MethodVersionInfo          = "get_version_info"
	MethodOpenExternalLink     = "open_external_link"
)

// Client is the contract of the backend bridge. A non-nil error is always a
// transport failure; application failures are reported through the
// response's Success field.
type Client interface {
	Status(ctx context.Context) (Response[StatusInfo], error)
	SystemInfo(ctx context.Context) (Response[SystemInfo], error)
	SetEditorType(ctx context.Context, name string, info *EditorTarget) (OperationResult, error)
	ModifyTelemetry(ctx context.Context) (OperationResult, error)
	CleanDatabase(ctx context.Context) (OperationResult, error)
	CleanWorkspace(ctx context.Context) (OperationResult, error)
	RunAllOperations(ctx context.Context) (BatchResponse, error)
	DetectIDEs(ctx context.Context) (DetectResult, error)
	DefaultIDEs(ctx context.Context) (DetectResult, error)
	SupportedOperations(ctx context.Context) (Response[OperationsPayload], error)
	IsFirstRun(ctx context.Context) (Response[FirstRun], error)
	MarkFirstRunComplete(ctx context.Context) (OperationResult, error)
	VersionInfo(ctx context.Context) (Response[VersionInfo], error)
	OpenExternalLink(ctx context.Context, url string) (OperationResult, error)
}

// ErrClosed is reported for calls issued after the connection went away.
var ErrClosed = errors.New("bridge connection closed")

// TransportError reports that a bridge call did not produce a response
// envelope: the bridge was unreachable, the connection dropped, or the
// payload could not be decoded.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("bridge unavailable: %v", e.Err)
	}
	return fmt.Sprintf("bridge call %s failed: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// RPCError is a JSON-RPC error object returned instead of a result.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
