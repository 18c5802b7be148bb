// Package operation enumerates the maintenance operations the bridge can run
// against an editor target.
package operation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
)

// Kind identifies one maintenance operation.
type Kind int

const (
	Telemetry Kind = iota + 1
	Database
	Workspace
)

// ErrUnknown is returned when an operation id is not one of the known kinds.
var ErrUnknown = errors.New("unknown operation")

// All lists the kinds in their fixed display order.
func All() []Kind {
	return []Kind{Telemetry, Database, Workspace}
}

// Parse maps a wire id onto a Kind. Unknown ids are rejected rather than
// aliased to another operation.
func Parse(id string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "telemetry":
		return Telemetry, nil
	case "database":
		return Database, nil
	case "workspace":
		return Workspace, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknown, id)
	}
}

// ID returns the wire id used by the bridge and as batch key.
func (k Kind) ID() string {
	switch k {
	case Telemetry:
		return "telemetry"
	case Database:
		return "database"
	case Workspace:
		return "workspace"
	default:
		return ""
	}
}

func (k Kind) String() string {
	if id := k.ID(); id != "" {
		return id
	}
	return fmt.Sprintf("operation(%d)", int(k))
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k.ID() != ""
}

// Label is the title used for result blocks.
func (k Kind) Label() string {
	switch k {
	case Telemetry:
		return "Telemetry ID reset"
	case Database:
		return "Database cleanup"
	case Workspace:
		return "Workspace cleanup"
	default:
		return ""
	}
}

// Button is the text of the action control.
func (k Kind) Button() string {
	switch k {
	case Telemetry:
		return "Reset machine code"
	case Database:
		return "Clean database"
	case Workspace:
		return "Clean workspace"
	default:
		return ""
	}
}

// BusyMessage is shown by the busy indicator while the operation runs.
func (k Kind) BusyMessage() string {
	switch k {
	case Telemetry:
		return "Modifying telemetry IDs..."
	case Database:
		return "Cleaning database..."
	case Workspace:
		return "Cleaning workspace..."
	default:
		return ""
	}
}

// Shortcut is the key bound to the operation.
func (k Kind) Shortcut() string {
	switch k {
	case Telemetry:
		return "t"
	case Database:
		return "d"
	case Workspace:
		return "w"
	default:
		return ""
	}
}

// Invoke issues the bridge call for k.
func (k Kind) Invoke(ctx context.Context, c bridge.Client) (bridge.OperationResult, error) {
	switch k {
	case Telemetry:
		return c.ModifyTelemetry(ctx)
	case Database:
		return c.CleanDatabase(ctx)
	case Workspace:
		return c.CleanWorkspace(ctx)
	default:
		return bridge.OperationResult{}, fmt.Errorf("%w: %s", ErrUnknown, k)
	}
}

// Batch labels.
const (
	AllLabel       = "All operations"
	AllBusyMessage = "Running all cleanup operations..."
)
