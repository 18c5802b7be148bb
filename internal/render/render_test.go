package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/testutil"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func labels(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Label
	}
	return out
}

func TestResultTelemetryExample(t *testing.T) {
	res := bridge.OperationResult{
		Success: true,
		Message: "OK",
		Data: &bridge.ResultData{
			OldMachineID: strPtr("abc1234567890abcdef00"),
			NewMachineID: strPtr("def4567890123456789ff"),
		},
	}
	f := Result("Telemetry ID reset", res)
	if len(f.Blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(f.Blocks))
	}
	b := f.Blocks[0]
	if b.Tone != ToneSuccess || b.Status != "OK" || b.Title != "Telemetry ID reset" {
		t.Fatalf("unexpected block header %+v", b)
	}
	if len(b.Lines) != 2 {
		t.Fatalf("expected two identifier lines, got %v", b.Lines)
	}
	if b.Lines[0].Value != "abc1234567890abc..." || b.Lines[1].Value != "def4567890123456..." {
		t.Fatalf("identifiers not truncated: %v", b.Lines)
	}
}

func TestResultFieldOrderAndSkipping(t *testing.T) {
	full := bridge.ResultData{
		OldMachineID:      strPtr("old"),
		NewMachineID:      strPtr("new"),
		DeletedRows:       intPtr(4),
		DeletedFilesCount: intPtr(9),
		StorageBackupPath: strPtr("/backup"),
	}
	cases := []struct {
		name string
		data bridge.ResultData
		want []string
	}{
		{"all", full, []string{labelOldID, labelNewID, labelDeletedRows, labelDeleted, labelBackup}},
		{"none", bridge.ResultData{}, nil},
		{"zero rows kept", bridge.ResultData{DeletedRows: intPtr(0)}, []string{labelDeletedRows}},
		{"only new id", bridge.ResultData{NewMachineID: strPtr("n")}, []string{labelNewID}},
		{"empty backup skipped", bridge.ResultData{DeletedFilesCount: intPtr(2), StorageBackupPath: strPtr("")}, []string{labelDeleted}},
	}
	for _, tc := range cases {
		data := tc.data
		f := Result("x", bridge.OperationResult{Success: true, Message: "m", Data: &data})
		got := labels(f.Blocks[0].Lines)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestResultFailureShowsError(t *testing.T) {
	f := Result("Database cleanup", bridge.OperationResult{
		Success: false,
		Message: "locked",
		Error:   "db busy",
		Data:    &bridge.ResultData{DeletedRows: intPtr(3)},
	})
	b := f.Blocks[0]
	if b.Tone != ToneFailure || b.Status != "locked" || b.Error != "db busy" {
		t.Fatalf("unexpected failure block %+v", b)
	}
	if len(b.Lines) != 0 {
		t.Fatalf("failure must not render data lines, got %v", b.Lines)
	}
}

func TestTransportIsDistinctFromFailure(t *testing.T) {
	err := &bridge.TransportError{Method: bridge.MethodCleanWorkspace, Err: errors.New("connection refused")}
	f := Transport("Workspace cleanup", err)
	b := f.Blocks[0]
	if b.Tone != ToneTransport || b.Tone.Icon() == ToneFailure.Icon() {
		t.Fatalf("transport failure must use its own tone, got %s", b.Tone)
	}
	if !strings.Contains(b.Error, "connection refused") {
		t.Fatalf("expected raw error text, got %q", b.Error)
	}
	if Outcome("Workspace cleanup", nil, err).Tone() != ToneTransport {
		t.Fatalf("Outcome must prefer the transport error")
	}
}

func TestBatchFixedOrderFromPayload(t *testing.T) {
	payload := `{"success":true,"message":"done","data":{
		"workspace":{"success":true,"message":"w"},
		"cache":{"success":true,"message":"ignored"},
		"telemetry":{"success":true,"message":"t"},
		"database":{"success":true,"message":"d"}}}`
	var res bridge.BatchResponse
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	f := Batch(res)
	var got []string
	for _, b := range f.Blocks {
		got = append(got, b.Status)
	}
	if strings.Join(got, ",") != "t,d,w" {
		t.Fatalf("expected fixed order t,d,w, got %v", got)
	}
}

func TestBatchDatabaseFailureExample(t *testing.T) {
	res := bridge.BatchResponse{Data: &bridge.BatchResult{
		"database": {Success: false, Message: "locked", Error: "db busy"},
	}}
	f := Batch(res)
	if len(f.Blocks) != 1 {
		t.Fatalf("expected one sub-block, got %d", len(f.Blocks))
	}
	b := f.Blocks[0]
	if b.Title != "Database cleanup" || b.Tone != ToneFailure {
		t.Fatalf("unexpected sub-block %+v", b)
	}
	text := Text(f)
	for _, want := range []string{"locked", "db busy"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
	for _, unwanted := range []string{"Telemetry", "Workspace"} {
		if strings.Contains(text, unwanted) {
			t.Fatalf("unexpected %q in %q", unwanted, text)
		}
	}
}

func TestBatchEnvelopeFailureWithoutData(t *testing.T) {
	f := Batch(bridge.BatchResponse{Success: false, Message: "Operation failed", Error: "backend crashed"})
	if len(f.Blocks) != 1 || f.Blocks[0].Error != "backend crashed" {
		t.Fatalf("expected envelope block, got %+v", f.Blocks)
	}
	if !Batch(bridge.BatchResponse{Success: true}).Empty() {
		t.Fatalf("successful batch without data renders nothing")
	}
}

func TestBatchTextGolden(t *testing.T) {
	res := bridge.BatchResponse{Success: false, Data: &bridge.BatchResult{
		"workspace": {Success: true, Message: "Workspace cleaned", Data: &bridge.ResultData{
			DeletedFilesCount: intPtr(3),
			StorageBackupPath: strPtr("/tmp/backup.json"),
		}},
		"database": {Success: false, Message: "locked", Error: "db busy"},
		"telemetry": {Success: true, Message: "Telemetry IDs modified", Data: &bridge.ResultData{
			OldMachineID: strPtr("0123456789abcdef0123456789abcdef"),
			NewMachineID: strPtr("fedcba9876543210fedcba9876543210"),
		}},
	}}
	testutil.AssertGolden(t, "batch.golden", Text(Batch(res)))
}

func TestSystemInfoBranchesOnIDEType(t *testing.T) {
	vscode := SystemInfo(bridge.Response[bridge.SystemInfo]{Success: true, Data: &bridge.SystemInfo{
		IDEType:     bridge.IDETypeVSCode,
		StoragePath: "/s",
		DBPath:      "/db",
	}})
	lines := vscode.Blocks[0].Lines
	if lines[0].Value != "VSCodium" {
		t.Fatalf("expected default editor, got %q", lines[0].Value)
	}
	if len(lines) != 5 || lines[2].Value != "/db" || lines[3].Value != notFound {
		t.Fatalf("unexpected vscode lines %v", lines)
	}

	jb := SystemInfo(bridge.Response[bridge.SystemInfo]{Success: true, Data: &bridge.SystemInfo{
		EditorType:          "IntelliJ IDEA",
		IDEType:             bridge.IDETypeJetBrains,
		JetBrainsConfigPath: "/jb",
		StoragePath:         "/ignored",
	}})
	lines = jb.Blocks[0].Lines
	if len(lines) != 4 || lines[1].Value != "/jb" || lines[2].Value != notFound {
		t.Fatalf("unexpected jetbrains lines %v", lines)
	}
	for _, l := range lines {
		if l.Value == "/ignored" {
			t.Fatalf("vscode field leaked into jetbrains view")
		}
	}

	failed := SystemInfo(bridge.Response[bridge.SystemInfo]{Success: false, Message: "no editor"})
	if failed.Tone() != ToneFailure {
		t.Fatalf("expected failure tone")
	}
}

func TestWriteColouredOutputKeepsText(t *testing.T) {
	var b strings.Builder
	f := Result("Telemetry ID reset", bridge.OperationResult{Success: true, Message: "OK"})
	if err := Write(&b, f, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(b.String(), "\x1b[") {
		t.Fatalf("expected ANSI colour codes, got %q", b.String())
	}
	if !strings.Contains(b.String(), "Telemetry ID reset") || !strings.Contains(b.String(), "OK") {
		t.Fatalf("missing text in %q", b.String())
	}
	if strings.Contains(Text(f), "\x1b[") {
		t.Fatalf("plain text must not contain colour codes")
	}
}

func TestDetectStatus(t *testing.T) {
	if DetectStatus(1) != "Found 1 editor" || DetectStatus(3) != "Found 3 editors" {
		t.Fatalf("unexpected detect status text")
	}
}

func TestStatusAndVersion(t *testing.T) {
	ready := Status(bridge.Response[bridge.StatusInfo]{Success: true, Message: "API is ready", Data: &bridge.StatusInfo{Status: "ready", EditorType: "Cursor"}})
	if ready.Tone() != ToneSuccess || len(ready.Blocks[0].Lines) != 2 {
		t.Fatalf("unexpected status fragment %+v", ready)
	}
	down := Status(bridge.Response[bridge.StatusInfo]{Success: false, Message: "not ready", Error: "init failed"})
	if down.Tone() != ToneFailure || down.Blocks[0].Error != "init failed" {
		t.Fatalf("unexpected failed status %+v", down)
	}

	v := Version(bridge.Response[bridge.VersionInfo]{Success: true, Data: &bridge.VersionInfo{Version: "2.1.0"}})
	if got := v.Blocks[0].Lines[0].Value; got != "v2.1.0" {
		t.Fatalf("expected v-prefixed version, got %q", got)
	}
	if VersionLabel("dev") != "dev" || VersionLabel("") != "unknown" {
		t.Fatalf("unexpected version labels")
	}
}
