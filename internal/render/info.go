package render

import (
	"fmt"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
)

const (
	SystemInfoTitle = "System information"
	defaultEditor   = "VSCodium"
)

// SystemInfo renders the path information of the selected editor. The
// field set follows ide_type.
func SystemInfo(res bridge.Response[bridge.SystemInfo]) Fragment {
	if !res.Success || res.Data == nil {
		msg := res.Message
		if msg == "" {
			msg = res.Error
		}
		return Fragment{Blocks: []Block{{Title: SystemInfoTitle, Tone: ToneFailure, Status: msg, Error: res.Error}}}
	}
	info := *res.Data
	editor := info.EditorType
	if editor == "" {
		editor = defaultEditor
	}
	lines := []Line{{Label: "Current editor", Value: editor}}
	if info.IsJetBrains() {
		lines = append(lines,
			Line{Label: "Config directory", Value: orNotFound(info.JetBrainsConfigPath)},
			Line{Label: "Device ID file", Value: orNotFound(info.PermanentDeviceIDPath)},
			Line{Label: "User ID file", Value: orNotFound(info.PermanentUserIDPath)},
		)
	} else {
		lines = append(lines,
			Line{Label: "Storage file", Value: orNotFound(info.StoragePath)},
			Line{Label: "Database file", Value: orNotFound(info.DBPath)},
			Line{Label: "Machine ID file", Value: orNotFound(info.MachineIDPath)},
			Line{Label: "Workspace storage", Value: orNotFound(info.WorkspaceStoragePath)},
		)
	}
	return Fragment{Blocks: []Block{{Title: SystemInfoTitle, Tone: ToneInfo, Lines: lines}}}
}

// Detection renders the outcome of an editor scan.
func Detection(res bridge.DetectResult) Fragment {
	if !res.Success {
		return Fragment{Blocks: []Block{{Title: "Editor detection", Tone: ToneFailure, Status: res.Message, Error: res.Error}}}
	}
	status := res.Message
	if status == "" {
		status = DetectStatus(res.Count)
	}
	b := Block{Title: "Editor detection", Tone: ToneSuccess, Status: status}
	for _, ide := range res.IDEs {
		label := ide.DisplayName
		if label == "" {
			label = ide.Name
		}
		if ide.Icon != "" {
			label = ide.Icon + " " + label
		}
		b.Lines = append(b.Lines, Line{Label: label, Value: orNotFound(ide.ConfigPath)})
	}
	return Fragment{Blocks: []Block{b}}
}

// DetectStatus is the short status text shown after a scan.
func DetectStatus(count int) string {
	switch count {
	case 0:
		return "No editors found, using defaults"
	case 1:
		return "Found 1 editor"
	default:
		return fmt.Sprintf("Found %d editors", count)
	}
}

// Operations renders the list of operations supported by the current editor.
func Operations(res bridge.Response[bridge.OperationsPayload]) Fragment {
	if !res.Success || res.Data == nil {
		return Fragment{Blocks: []Block{{Title: "Supported operations", Tone: ToneFailure, Status: res.Message, Error: res.Error}}}
	}
	b := Block{Title: "Supported operations", Tone: ToneInfo, Status: res.Data.IDEType}
	for _, op := range res.Data.Operations {
		state := "unsupported"
		if op.Supported {
			state = "supported"
		}
		name := op.Name
		if name == "" {
			name = op.ID
		}
		b.Lines = append(b.Lines, Line{Label: op.ID, Value: name + " (" + state + ")"})
	}
	return Fragment{Blocks: []Block{b}}
}

func orNotFound(v string) string {
	if v == "" {
		return notFound
	}
	return v
}

// Status renders the get_status answer.
func Status(res bridge.Response[bridge.StatusInfo]) Fragment {
	b := Block{Title: "Bridge status", Tone: ToneSuccess, Status: res.Message}
	if !res.Success {
		b.Tone = ToneFailure
		b.Error = res.Error
	}
	if res.Data != nil {
		if res.Data.Status != "" {
			b.Lines = append(b.Lines, Line{Label: "State", Value: res.Data.Status})
		}
		if res.Data.EditorType != "" {
			b.Lines = append(b.Lines, Line{Label: "Current editor", Value: res.Data.EditorType})
		}
	}
	return Fragment{Blocks: []Block{b}}
}

// Version renders get_version_info.
func Version(res bridge.Response[bridge.VersionInfo]) Fragment {
	if !res.Success || res.Data == nil {
		return Fragment{Blocks: []Block{{Title: "Version", Tone: ToneFailure, Status: res.Message, Error: res.Error}}}
	}
	b := Block{Title: "Version", Tone: ToneInfo, Lines: []Line{{Label: "Bridge", Value: VersionLabel(res.Data.Version)}}}
	if res.Data.PythonVersion != "" {
		b.Lines = append(b.Lines, Line{Label: "Runtime", Value: res.Data.PythonVersion})
	}
	return Fragment{Blocks: []Block{b}}
}

// VersionLabel prefixes a bare version number with "v".
func VersionLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	if v[0] >= '0' && v[0] <= '9' {
		return "v" + v
	}
	return v
}
