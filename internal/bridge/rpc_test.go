package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/bridge/bridgetest"
)

func dialTest(t *testing.T, srv *bridgetest.Server) *bridge.RPCClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := bridge.Dial(ctx, srv.URL(), 5*time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRPCClientDecodesTelemetryResult(t *testing.T) {
	srv := bridgetest.NewServer()
	defer srv.Close()
	srv.Reply(bridge.MethodModifyTelemetry, map[string]interface{}{
		"success": true,
		"message": "OK",
		"data": map[string]interface{}{
			"old_machine_id": "abc123abc123abc123",
			"new_machine_id": "def456def456def456",
		},
	})
	c := dialTest(t, srv)

	res, err := c.ModifyTelemetry(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Message != "OK" {
		t.Fatalf("unexpected envelope: %#v", res)
	}
	if res.Data == nil || res.Data.OldMachineID == nil || *res.Data.OldMachineID != "abc123abc123abc123" {
		t.Fatalf("expected old machine id, got %#v", res.Data)
	}
	if res.Data.DeletedRows != nil {
		t.Fatalf("expected deleted rows to stay absent")
	}
}

func TestRPCClientKeepsZeroCounts(t *testing.T) {
	srv := bridgetest.NewServer()
	defer srv.Close()
	srv.Reply(bridge.MethodCleanDatabase, map[string]interface{}{
		"success": true,
		"message": "done",
		"data":    map[string]interface{}{"deleted_rows": 0},
	})
	c := dialTest(t, srv)

	res, err := c.CleanDatabase(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Data == nil || res.Data.DeletedRows == nil || *res.Data.DeletedRows != 0 {
		t.Fatalf("expected deleted_rows=0 to be present, got %#v", res.Data)
	}
}

func TestRPCClientSendsPositionalParams(t *testing.T) {
	srv := bridgetest.NewServer()
	defer srv.Close()
	var gotName string
	var gotInfo bridge.EditorTarget
	srv.Handle(bridge.MethodSetEditorType, func(params []json.RawMessage) (interface{}, *bridge.RPCError) {
		if len(params) != 2 {
			return nil, &bridge.RPCError{Code: -32602, Message: "expected two params"}
		}
		_ = json.Unmarshal(params[0], &gotName)
		_ = json.Unmarshal(params[1], &gotInfo)
		return map[string]interface{}{"success": true, "message": "set"}, nil
	})
	c := dialTest(t, srv)

	info := &bridge.EditorTarget{Name: "Cursor", DisplayName: "Cursor", IDEType: "vscode"}
	res, err := c.SetEditorType(context.Background(), "Cursor", info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %#v", res)
	}
	if gotName != "Cursor" || gotInfo.IDEType != "vscode" {
		t.Fatalf("unexpected params %q %#v", gotName, gotInfo)
	}
}

func TestRPCClientDetectAcceptsNestedAndFlatLists(t *testing.T) {
	srv := bridgetest.NewServer()
	defer srv.Close()
	srv.Reply(bridge.MethodDetectIDEs, map[string]interface{}{
		"success": true,
		"message": "Detected 1 IDEs",
		"data": map[string]interface{}{
			"ides":  []map[string]interface{}{{"name": "Cursor", "display_name": "Cursor", "icon": "C"}},
			"count": 1,
		},
	})
	srv.Reply(bridge.MethodDefaultIDEs, map[string]interface{}{
		"success": true,
		"ides": []map[string]interface{}{
			{"name": "VSCodium", "display_name": "VSCodium"},
			{"name": "Code", "display_name": "VS Code"},
		},
	})
	c := dialTest(t, srv)

	detected, err := c.DetectIDEs(context.Background())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(detected.IDEs) != 1 || detected.IDEs[0].Name != "Cursor" || detected.Count != 1 {
		t.Fatalf("unexpected detection %#v", detected)
	}

	defaults, err := c.DefaultIDEs(context.Background())
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if len(defaults.IDEs) != 2 || defaults.Count != 2 {
		t.Fatalf("unexpected defaults %#v", defaults)
	}
}

func TestRPCClientErrorObjectIsTransportFailure(t *testing.T) {
	srv := bridgetest.NewServer()
	defer srv.Close()
	c := dialTest(t, srv)

	_, err := c.CleanWorkspace(context.Background())
	if err == nil {
		t.Fatalf("expected error for unknown method")
	}
	if !bridge.IsTransport(err) {
		t.Fatalf("expected transport error, got %T", err)
	}
	var rpcErr *bridge.RPCError
	if !errors.As(err, &rpcErr) || rpcErr.Code != -32601 {
		t.Fatalf("expected wrapped rpc error, got %v", err)
	}
}

func TestRPCClientFailsPendingCallsWhenConnectionDrops(t *testing.T) {
	srv := bridgetest.NewServer()
	defer srv.Close()
	release := make(chan struct{})
	srv.Handle(bridge.MethodRunAllOperations, func([]json.RawMessage) (interface{}, *bridge.RPCError) {
		<-release
		return map[string]interface{}{"success": true}, nil
	})
	defer close(release)
	c := dialTest(t, srv)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.RunAllOperations(context.Background())
		errCh <- err
	}()
	time.Sleep(50 * time.Millisecond)
	srv.DropConnections()

	select {
	case err := <-errCh:
		if !bridge.IsTransport(err) {
			t.Fatalf("expected transport error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("pending call was not released")
	}

	if _, err := c.Status(context.Background()); !errors.Is(err, bridge.ErrClosed) {
		t.Fatalf("expected ErrClosed after drop, got %v", err)
	}
}

func TestDialUnreachableIsTransportFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := bridge.Dial(ctx, "ws://127.0.0.1:1/rpc", time.Second)
	if err == nil {
		t.Fatalf("expected dial failure")
	}
	if !bridge.IsTransport(err) {
		t.Fatalf("expected transport error, got %T", err)
	}
}
