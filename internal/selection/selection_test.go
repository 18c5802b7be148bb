package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/bridge/bridgetest"
	"github.com/atomicstack/editor-reset-control/internal/operation"
	"github.com/atomicstack/editor-reset-control/internal/state"
)

func TestApplyDetectionEmptyFallsBackToDefaults(t *testing.T) {
	session := state.NewSession()
	c := New(session)
	r := c.ApplyDetection(nil)
	if !r.Fallback {
		t.Fatalf("expected fallback")
	}
	if len(r.Options) != 2 || r.Options[0].Name != "VSCodium" || r.Options[1].Name != "Code" {
		t.Fatalf("unexpected defaults %v", r.Options)
	}
	if r.Active != "VSCodium" || session.Active() != "VSCodium" {
		t.Fatalf("expected first default to be active, got %q", session.Active())
	}
	if r.Change.Info != nil {
		t.Fatalf("defaults carry no detected info")
	}
	if len(session.Targets()) != 0 {
		t.Fatalf("detected list must reflect the empty scan")
	}
}

func TestApplyDetectionSelectsFirstEntry(t *testing.T) {
	session := state.NewSession()
	c := New(session)
	c.ApplyDetection([]bridge.EditorTarget{{Name: "stale"}})
	targets := []bridge.EditorTarget{
		{Name: "Cursor", DisplayName: "Cursor", Icon: "🖱", IDEType: bridge.IDETypeVSCode},
		{Name: "IntelliJIdea", DisplayName: "IntelliJ IDEA", IDEType: bridge.IDETypeJetBrains},
	}
	r := c.ApplyDetection(targets)
	if r.Fallback || r.Active != "Cursor" {
		t.Fatalf("expected Cursor active, got %+v", r)
	}
	if r.Change.Info == nil || r.Change.Info.IDEType != bridge.IDETypeVSCode {
		t.Fatalf("expected detected info on the change, got %+v", r.Change)
	}
	if len(session.Targets()) != 2 {
		t.Fatalf("expected wholesale replacement, got %v", session.Targets())
	}
	if len(c.Options()) != 2 || c.Options()[1].Name != "IntelliJIdea" {
		t.Fatalf("unexpected picker options %v", c.Options())
	}
}

func TestDisplayNameRules(t *testing.T) {
	if got := DisplayName("Code", nil); got != "VS Code" {
		t.Fatalf("expected VS Code fallback, got %q", got)
	}
	if got := DisplayName("Windsurf", nil); got != "Windsurf" {
		t.Fatalf("expected raw name, got %q", got)
	}
	if got := DisplayName("Code", &bridge.EditorTarget{DisplayName: "Visual Studio Code"}); got != "Visual Studio Code" {
		t.Fatalf("display name must win, got %q", got)
	}
	if got := OptionLabel(bridge.EditorTarget{Name: "Code", Icon: "💙"}); got != "💙 VS Code" {
		t.Fatalf("unexpected option label %q", got)
	}
}

func TestSelectUsesLocalData(t *testing.T) {
	session := state.NewSession()
	c := New(session)
	session.SetTargets([]bridge.EditorTarget{{Name: "Cursor", DisplayName: "Cursor IDE"}})
	ch := c.Select("Cursor")
	if ch.Label != "Cursor IDE" || c.Label() != "Cursor IDE" {
		t.Fatalf("unexpected label %q", ch.Label)
	}
	ch = c.Select("Code")
	if ch.Info != nil || ch.Label != "VS Code" {
		t.Fatalf("unexpected change %+v", ch)
	}
}

func TestApplyReloadsOnlyAfterSuccessfulCommit(t *testing.T) {
	stub := &bridgetest.Stub{}
	ch := Change{Name: "VSCodium", Label: "VSCodium"}
	out := Apply(context.Background(), stub, ch)
	if !out.Committed() || out.Info == nil || out.Operations == nil {
		t.Fatalf("expected committed selection with reloads, got %+v", out)
	}
	if stub.Calls()[0] != bridge.MethodSetEditorType {
		t.Fatalf("set_editor_type must come first, got %v", stub.Calls())
	}

	rejecting := &bridgetest.Stub{
		SetEditorTypeFn: func(string, *bridge.EditorTarget) (bridge.OperationResult, error) {
			return bridge.OperationResult{Success: false, Message: "failed", Error: "unknown editor"}, nil
		},
	}
	out = Apply(context.Background(), rejecting, ch)
	if out.Committed() {
		t.Fatalf("expected rejected commit")
	}
	if rejecting.Count(bridge.MethodSystemInfo) != 0 || rejecting.Count(bridge.MethodSupportedOperations) != 0 {
		t.Fatalf("no reload expected after a failed commit, got %v", rejecting.Calls())
	}

	broken := &bridgetest.Stub{
		SetEditorTypeFn: func(string, *bridge.EditorTarget) (bridge.OperationResult, error) {
			return bridge.OperationResult{}, &bridge.TransportError{Err: bridge.ErrClosed}
		},
	}
	out = Apply(context.Background(), broken, ch)
	if out.Committed() || !errors.Is(out.Err, bridge.ErrClosed) {
		t.Fatalf("expected transport failure, got %+v", out)
	}
}

func TestActionsRejectUnknownIDs(t *testing.T) {
	ops := []bridge.SupportedOperation{
		{ID: "telemetry", Supported: true, Name: "Reset IDs"},
		{ID: "database", Supported: false},
		{ID: "cache", Supported: true},
		{ID: "workspace", Supported: true},
	}
	actions, rejected := Actions(ops)
	if len(actions) != 2 || actions[0].Kind != operation.Telemetry || actions[1].Kind != operation.Workspace {
		t.Fatalf("unexpected actions %+v", actions)
	}
	if actions[0].Name != "Reset IDs" || actions[1].Name != operation.Workspace.Label() {
		t.Fatalf("unexpected action names %+v", actions)
	}
	if len(rejected) != 1 || !errors.Is(rejected[0], operation.ErrUnknown) {
		t.Fatalf("expected one rejected id, got %v", rejected)
	}
	if len(DefaultActions()) != 3 {
		t.Fatalf("expected three default actions")
	}
}
