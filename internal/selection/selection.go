// Package selection keeps the active editor target in step with detection
// results and derives the operations that apply to it.
package selection

import (
	"context"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	"github.com/atomicstack/editor-reset-control/internal/operation"
	"github.com/atomicstack/editor-reset-control/internal/state"
)

// Defaults are offered when a scan finds no editor.
func Defaults() []bridge.EditorTarget {
	return []bridge.EditorTarget{
		{Name: "VSCodium", DisplayName: "VSCodium", Icon: "🔷"},
		{Name: "Code", DisplayName: "VS Code", Icon: "💙"},
	}
}

// DisplayName is the label shown for a target: the display name when one is
// known, else the raw name. The stock "Code" target reads "VS Code".
func DisplayName(name string, info *bridge.EditorTarget) string {
	if info != nil && info.DisplayName != "" {
		return info.DisplayName
	}
	if name == "Code" {
		return "VS Code"
	}
	return name
}

// OptionLabel is the text of one entry of the editor picker.
func OptionLabel(t bridge.EditorTarget) string {
	label := DisplayName(t.Name, &t)
	if t.Icon != "" {
		return t.Icon + " " + label
	}
	return label
}

// Change describes a new selection before it is committed.
type Change struct {
	Name  string
	Info  *bridge.EditorTarget
	Label string
}

// Reconciled is the picker state after a scan.
type Reconciled struct {
	Options  []bridge.EditorTarget
	Active   string
	Fallback bool
	Change   Change
}

// Commit is the result of committing a selection. Reloads only happen when
// set_editor_type succeeded; their responses or errors are reported
// separately.
type Commit struct {
	Change     Change
	Result     bridge.OperationResult
	Err        error
	Info       *bridge.Response[bridge.SystemInfo]
	InfoErr    error
	Operations *bridge.Response[bridge.OperationsPayload]
	OpsErr     error
}

// Committed reports whether the bridge accepted the selection.
func (c Commit) Committed() bool {
	return c.Err == nil && c.Result.Success
}

type Controller struct {
	session *state.Session
	options []bridge.EditorTarget
}

func New(session *state.Session) *Controller {
	return &Controller{session: session, options: Defaults()}
}

// Options lists the targets the picker currently offers.
func (c *Controller) Options() []bridge.EditorTarget {
	return append([]bridge.EditorTarget(nil), c.options...)
}

// Active is the name of the current selection.
func (c *Controller) Active() string {
	return c.session.Active()
}

// Label is the display label of the current selection.
func (c *Controller) Label() string {
	name := c.session.Active()
	if t, ok := c.session.Target(name); ok {
		return DisplayName(name, &t)
	}
	return DisplayName(name, nil)
}

// Select makes name the active selection and returns the change to commit.
// Labels are derived from local data only.
func (c *Controller) Select(name string) Change {
	ch := Change{Name: name}
	if t, ok := c.session.Target(name); ok {
		ch.Info = &t
	}
	ch.Label = DisplayName(name, ch.Info)
	c.session.SetActive(name)
	events.Selection.Change(ch.Name, ch.Label)
	return ch
}

// Adopt records name as active without producing a commit, as happens when
// system info reports the editor the bridge already uses.
func (c *Controller) Adopt(name string) {
	if name == "" {
		return
	}
	c.session.SetActive(name)
}

// ApplyDetection replaces the detected list and selects its first entry.
// An empty list falls back to the defaults and selects the first of those.
func (c *Controller) ApplyDetection(targets []bridge.EditorTarget) Reconciled {
	c.session.SetTargets(targets)
	r := Reconciled{Options: targets}
	if len(targets) == 0 {
		r.Options = Defaults()
		r.Fallback = true
	}
	c.options = append([]bridge.EditorTarget(nil), r.Options...)
	events.Selection.Detected(len(targets), r.Fallback)
	r.Change = c.Select(r.Options[0].Name)
	r.Active = r.Change.Name
	return r
}

// Apply sends the change to the bridge and, on success, reloads system
// info and supported operations.
func Apply(ctx context.Context, client bridge.Client, ch Change) Commit {
	out := Commit{Change: ch}
	out.Result, out.Err = client.SetEditorType(ctx, ch.Name, ch.Info)
	if !out.Committed() {
		msg := out.Result.Error
		if out.Err != nil {
			msg = out.Err.Error()
		}
		events.Selection.Commit(ch.Name, false, msg)
		return out
	}
	events.Selection.Commit(ch.Name, true, out.Result.Message)
	info, err := client.SystemInfo(ctx)
	if err != nil {
		out.InfoErr = err
	} else {
		out.Info = &info
	}
	ops, err := client.SupportedOperations(ctx)
	if err != nil {
		out.OpsErr = err
	} else {
		out.Operations = &ops
	}
	return out
}

// Action is one entry of the action grid.
type Action struct {
	Kind        operation.Kind
	Name        string
	Description string
	Icon        string
	Button      string
}

// Actions builds the action grid from the supported operations. Unsupported
// entries are left out and unknown ids are rejected.
func Actions(ops []bridge.SupportedOperation) ([]Action, []error) {
	var actions []Action
	var rejected []error
	for _, op := range ops {
		if !op.Supported {
			continue
		}
		k, err := operation.Parse(op.ID)
		if err != nil {
			events.Selection.Rejected(op.ID, err)
			rejected = append(rejected, err)
			continue
		}
		name := op.Name
		if name == "" {
			name = k.Label()
		}
		actions = append(actions, Action{
			Kind:        k,
			Name:        name,
			Description: op.Description,
			Icon:        op.Icon,
			Button:      k.Button(),
		})
	}
	return actions, rejected
}

// DefaultActions is the grid used before the bridge reported anything.
func DefaultActions() []Action {
	var actions []Action
	for _, k := range operation.All() {
		actions = append(actions, Action{Kind: k, Name: k.Label(), Button: k.Button()})
	}
	return actions
}
