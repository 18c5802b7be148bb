// Package render turns bridge responses into display fragments. Every
// function here is pure; writers for plain and coloured text live in
// text.go and the TUI styles fragments itself.
package render

import (
	"strconv"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/operation"
)

// Tone classifies a block for styling.
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneFailure
	ToneTransport
)

// Icon is the glyph prefixed to a block title.
func (t Tone) Icon() string {
	switch t {
	case ToneSuccess:
		return "✅"
	case ToneFailure:
		return "❌"
	case ToneTransport:
		return "⚠"
	default:
		return "•"
	}
}

func (t Tone) String() string {
	switch t {
	case ToneSuccess:
		return "success"
	case ToneFailure:
		return "failure"
	case ToneTransport:
		return "transport"
	default:
		return "info"
	}
}

// Line is one labelled value inside a block.
type Line struct {
	Label string
	Value string
}

// Block is a titled group of lines. Status and Error are shown around the
// data lines when set.
type Block struct {
	Title  string
	Tone   Tone
	Status string
	Lines  []Line
	Error  string
}

// Fragment is what gets written into a display region.
type Fragment struct {
	Blocks []Block
}

// Empty reports whether the fragment renders nothing.
func (f Fragment) Empty() bool {
	return len(f.Blocks) == 0
}

// Tone is the worst tone across all blocks.
func (f Fragment) Tone() Tone {
	tone := ToneInfo
	for _, b := range f.Blocks {
		if b.Tone > tone {
			tone = b.Tone
		}
	}
	return tone
}

const (
	idPrefixLen = 16

	labelStatus      = "Status"
	labelError       = "Error"
	labelOldID       = "Old machine ID"
	labelNewID       = "New machine ID"
	labelDeletedRows = "Deleted rows"
	labelDeleted     = "Deleted files"
	labelBackup      = "Backup path"

	transportMessage = "Operation failed"
	notFound         = "Not found"
)

// Result renders a single operation result.
func Result(label string, res bridge.OperationResult) Fragment {
	return Fragment{Blocks: []Block{resultBlock(label, res)}}
}

// Transport renders a call that produced no envelope at all.
func Transport(label string, err error) Fragment {
	b := Block{Title: label, Tone: ToneTransport, Status: transportMessage}
	if err != nil {
		b.Error = err.Error()
	}
	return Fragment{Blocks: []Block{b}}
}

// Batch renders run_all_operations. Sub-blocks follow the fixed operation
// order regardless of the payload's key order; keys that are absent or
// unknown produce nothing. A failed envelope without usable sub-results is
// rendered as a single block so its error is not lost.
func Batch(res bridge.BatchResponse) Fragment {
	var f Fragment
	if res.Data != nil {
		for _, k := range operation.All() {
			sub, ok := (*res.Data)[k.ID()]
			if !ok {
				continue
			}
			f.Blocks = append(f.Blocks, resultBlock(k.Label(), sub))
		}
	}
	if len(f.Blocks) == 0 && !res.Success {
		return Result(operation.AllLabel, bridge.OperationResult{
			Success: false,
			Message: res.Message,
			Error:   res.Error,
		})
	}
	return f
}

// Outcome renders whatever a dispatch produced. err wins over value.
func Outcome(label string, value any, err error) Fragment {
	if err != nil {
		return Transport(label, err)
	}
	switch v := value.(type) {
	case bridge.OperationResult:
		return Result(label, v)
	case bridge.BatchResponse:
		return Batch(v)
	case bridge.DetectResult:
		return Detection(v)
	default:
		return Fragment{}
	}
}

func resultBlock(label string, res bridge.OperationResult) Block {
	b := Block{Title: label, Status: res.Message}
	if res.Success {
		b.Tone = ToneSuccess
		if res.Data != nil {
			b.Lines = dataLines(*res.Data)
		}
		return b
	}
	b.Tone = ToneFailure
	b.Error = res.Error
	return b
}

func dataLines(d bridge.ResultData) []Line {
	var lines []Line
	if d.OldMachineID != nil {
		lines = append(lines, Line{Label: labelOldID, Value: ShortID(*d.OldMachineID)})
	}
	if d.NewMachineID != nil {
		lines = append(lines, Line{Label: labelNewID, Value: ShortID(*d.NewMachineID)})
	}
	if d.DeletedRows != nil {
		lines = append(lines, Line{Label: labelDeletedRows, Value: strconv.Itoa(*d.DeletedRows)})
	}
	if d.DeletedFilesCount != nil {
		lines = append(lines, Line{Label: labelDeleted, Value: strconv.Itoa(*d.DeletedFilesCount)})
	}
	if d.StorageBackupPath != nil && *d.StorageBackupPath != "" {
		lines = append(lines, Line{Label: labelBackup, Value: *d.StorageBackupPath})
	}
	return lines
}

// ShortID keeps the first sixteen characters of an identifier and marks the
// cut with an ellipsis.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) > idPrefixLen {
		r = r[:idPrefixLen]
	}
	return string(r) + "..."
}
