package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atomicstack/editor-reset-control/internal/backend"
	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/dispatcher"
	"github.com/atomicstack/editor-reset-control/internal/opener"
	"github.com/atomicstack/editor-reset-control/internal/render"
	"github.com/atomicstack/editor-reset-control/internal/selection"
	"github.com/atomicstack/editor-reset-control/internal/state"
)

// ErrFailed is returned when a headless command printed a failure.
var ErrFailed = errors.New("command failed")

// Runner executes headless commands against a bridge and prints the
// rendered outcome.
type Runner struct {
	Gate    *bridge.Gate
	Policy  bridge.RetryPolicy
	Opener  *opener.Opener
	Out     io.Writer
	Status  io.Writer
	Colored bool
	Editor  string
}

// lineIndicator prints busy messages as plain lines.
type lineIndicator struct {
	w io.Writer
}

func (l lineIndicator) Show(message string) {
	if l.w != nil && message != "" {
		fmt.Fprintln(l.w, message)
	}
}

func (lineIndicator) Hide() {}

// Run waits for the bridge and executes cmd.
func (r *Runner) Run(ctx context.Context, cmd Command) error {
	if err := r.waitReady(ctx); err != nil {
		return err
	}
	client, ok := r.Gate.Client()
	if !ok {
		return dispatcher.ErrNotReady
	}
	session := state.NewSession()
	d := dispatcher.New(r.Gate, session, lineIndicator{w: r.Status})
	ctrl := selection.New(session)

	if cmd.needsEditor() && r.Editor != "" {
		commit := selection.Apply(ctx, client, ctrl.Select(r.Editor))
		if !commit.Committed() {
			return r.print(commitFragment(commit))
		}
	}

	switch cmd.Name {
	case CmdRun:
		job := dispatcher.OperationJob(cmd.Kind)
		if cmd.All {
			job = dispatcher.RunAllJob()
		}
		return r.dispatch(ctx, d, job)
	case CmdDetect:
		out, err := d.Run(ctx, dispatcher.DetectJob())
		if err != nil {
			return err
		}
		frag := render.Outcome(out.Label, out.Value, out.Err)
		if res, ok := out.Value.(bridge.DetectResult); ok && out.Err == nil && res.Success {
			rec := ctrl.ApplyDetection(res.IDEs)
			frag.Blocks = append(frag.Blocks, commitFragment(selection.Apply(ctx, client, rec.Change)).Blocks...)
		}
		return r.print(frag)
	case CmdInfo:
		res, err := client.SystemInfo(ctx)
		if err != nil {
			return r.print(render.Transport(render.SystemInfoTitle, err))
		}
		return r.print(render.SystemInfo(res))
	case CmdOps:
		res, err := client.SupportedOperations(ctx)
		if err != nil {
			return r.print(render.Transport("Supported operations", err))
		}
		return r.print(render.Operations(res))
	case CmdStatus:
		res, err := client.Status(ctx)
		if err != nil {
			return r.print(render.Transport("Bridge status", err))
		}
		return r.print(render.Status(res))
	case CmdVersion:
		res, err := client.VersionInfo(ctx)
		if err != nil {
			return r.print(render.Transport("Version", err))
		}
		return r.print(render.Version(res))
	case CmdOpen:
		o := r.Opener
		if o == nil {
			o = opener.New()
		}
		via, err := o.Open(ctx, client, cmd.URL)
		b := render.Block{Title: "Open link", Tone: render.ToneSuccess, Status: "Opened via " + via, Lines: []render.Line{{Label: "URL", Value: cmd.URL}}}
		if err != nil {
			b.Tone = render.ToneFailure
			b.Status = "Could not open link"
			b.Error = err.Error()
		}
		return r.print(render.Fragment{Blocks: []render.Block{b}})
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd.Name)
	}
}

func (r *Runner) dispatch(ctx context.Context, d *dispatcher.Dispatcher, job dispatcher.Job) error {
	out, err := d.Run(ctx, job)
	if err != nil {
		return err
	}
	return r.print(render.Outcome(out.Label, out.Value, out.Err))
}

// waitReady follows the retry policy until the bridge answers get_status.
func (r *Runner) waitReady(ctx context.Context) error {
	w := backend.NewWatcher(r.Gate, r.Policy, 0)
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-w.Events():
			if !ok {
				return dispatcher.ErrNotReady
			}
			switch evt.Kind {
			case backend.KindProbeFailed:
				if r.Status != nil {
					fmt.Fprintf(r.Status, "Waiting for bridge (attempt %d): %v\n", evt.Attempt, evt.Err)
				}
			case backend.KindReady:
				if !evt.Status.Success {
					_ = r.print(render.Status(evt.Status))
					return fmt.Errorf("%w: bridge not ready", ErrFailed)
				}
				return nil
			case backend.KindGaveUp:
				return fmt.Errorf("%w after %d attempts: %w", dispatcher.ErrNotReady, evt.Attempt, evt.Err)
			}
		}
	}
}

func (r *Runner) print(f render.Fragment) error {
	if err := render.Write(r.Out, f, r.Colored); err != nil {
		return err
	}
	if f.Tone() >= render.ToneFailure {
		return ErrFailed
	}
	return nil
}

// commitFragment renders the result of committing an editor selection.
func commitFragment(c selection.Commit) render.Fragment {
	title := "Editor: " + c.Change.Label
	if c.Err != nil {
		return render.Transport(title, c.Err)
	}
	return render.Result(title, c.Result)
}
