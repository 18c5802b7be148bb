package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/dispatcher"
	"github.com/atomicstack/editor-reset-control/internal/logging"
	"github.com/atomicstack/editor-reset-control/internal/render"
	"github.com/atomicstack/editor-reset-control/internal/selection"
	"github.com/atomicstack/editor-reset-control/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	detectIdleText    = "Press s to scan for installed editors"
	detectRunningText = "Detecting..."
	detectFailedText  = "❌ Detection failed"
)

type systemInfoMsg struct {
	res bridge.Response[bridge.SystemInfo]
	err error
}

type operationsMsg struct {
	res bridge.Response[bridge.OperationsPayload]
	err error
}

type commitMsg struct {
	commit selection.Commit
}

type firstRunMsg struct {
	res bridge.Response[bridge.FirstRun]
	err error
}

type showAboutMsg struct {
	auto bool
}

type markSeenMsg struct {
	res bridge.OperationResult
	err error
}

type versionMsg struct {
	res bridge.Response[bridge.VersionInfo]
	err error
}

type linkOpenedMsg struct {
	url string
	via string
	err error
}

type detectResetMsg struct {
	seq int
}

// startupCmd runs once the bridge first reports ready.
func (m *Model) startupCmd() tea.Cmd {
	cmds := []tea.Cmd{m.firstRunCmd()}
	if m.preferred != "" {
		cmds = append(cmds, m.commitCmd(m.selection.Select(m.preferred)))
	} else {
		cmds = append(cmds, m.loadEditorState())
	}
	return tea.Batch(cmds...)
}

// loadEditorState reloads system info and the supported operations.
func (m *Model) loadEditorState() tea.Cmd {
	return tea.Batch(m.systemInfoCmd(), m.operationsCmd())
}

func (m *Model) systemInfoCmd() tea.Cmd {
	return m.bus.Call(bridge.MethodSystemInfo, func(ctx context.Context, c bridge.Client) tea.Msg {
		if c == nil {
			return systemInfoMsg{err: dispatcher.ErrNotReady}
		}
		res, err := c.SystemInfo(ctx)
		return systemInfoMsg{res: res, err: err}
	})
}

func (m *Model) operationsCmd() tea.Cmd {
	return m.bus.Call(bridge.MethodSupportedOperations, func(ctx context.Context, c bridge.Client) tea.Msg {
		if c == nil {
			return operationsMsg{err: dispatcher.ErrNotReady}
		}
		res, err := c.SupportedOperations(ctx)
		return operationsMsg{res: res, err: err}
	})
}

func (m *Model) commitCmd(ch selection.Change) tea.Cmd {
	return m.bus.Call(bridge.MethodSetEditorType, func(ctx context.Context, c bridge.Client) tea.Msg {
		if c == nil {
			return commitMsg{commit: selection.Commit{Change: ch, Err: dispatcher.ErrNotReady}}
		}
		return commitMsg{commit: selection.Apply(ctx, c, ch)}
	})
}

func (m *Model) firstRunCmd() tea.Cmd {
	return m.bus.Call(bridge.MethodIsFirstRun, func(ctx context.Context, c bridge.Client) tea.Msg {
		if c == nil {
			return firstRunMsg{err: dispatcher.ErrNotReady}
		}
		res, err := c.IsFirstRun(ctx)
		return firstRunMsg{res: res, err: err}
	})
}

func (m *Model) markSeenCmd() tea.Cmd {
	return m.bus.Call(bridge.MethodMarkFirstRunComplete, func(ctx context.Context, c bridge.Client) tea.Msg {
		if c == nil {
			return markSeenMsg{err: dispatcher.ErrNotReady}
		}
		res, err := c.MarkFirstRunComplete(ctx)
		return markSeenMsg{res: res, err: err}
	})
}

func (m *Model) versionCmd() tea.Cmd {
	return m.bus.Call(bridge.MethodVersionInfo, func(ctx context.Context, c bridge.Client) tea.Msg {
		if c == nil {
			return versionMsg{err: dispatcher.ErrNotReady}
		}
		res, err := c.VersionInfo(ctx)
		return versionMsg{res: res, err: err}
	})
}

func (m *Model) openLinkCmd(url string) tea.Cmd {
	return m.bus.Call(bridge.MethodOpenExternalLink, func(ctx context.Context, c bridge.Client) tea.Msg {
		via, err := m.opener.Open(ctx, c, url)
		return linkOpenedMsg{url: url, via: via, err: err}
	})
}

// dispatch starts job and, when the guard was taken, the spinner.
func (m *Model) dispatch(job dispatcher.Job) tea.Cmd {
	cmd, err := m.bus.Dispatch(job)
	if err != nil {
		switch {
		case errors.Is(err, dispatcher.ErrBusy):
			m.setInfo("Another operation is in progress")
		case errors.Is(err, dispatcher.ErrNotReady):
			m.setError("Bridge not connected, wait for the application to finish loading")
		default:
			m.setError(err.Error())
		}
		return nil
	}
	m.clearNotice()
	if job.Name == dispatcher.JobDetect {
		m.detectSeq++
		m.detectText = detectRunningText
	}
	return tea.Batch(cmd, m.startBusyTicks())
}

func (m *Model) handleDispatchResult(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	m.bus.Settle(res)
	out := res.Outcome
	if out.Err != nil {
		logging.Error(fmt.Errorf("%s: %w", out.Job, out.Err))
	}
	if out.Job == dispatcher.JobDetect {
		return m.applyDetection(out)
	}
	m.result = render.Outcome(out.Label, out.Value, out.Err)
	return nil
}

// applyDetection updates the picker after a scan and commits the new
// selection. The status line resets after a delay.
func (m *Model) applyDetection(out dispatcher.Outcome) tea.Cmd {
	seq := m.detectSeq
	reset := m.after(detectResetDelay, func(time.Time) tea.Msg { return detectResetMsg{seq: seq} })
	if out.Err != nil {
		m.detectText = detectFailedText
		return reset
	}
	res, ok := out.Value.(bridge.DetectResult)
	if !ok {
		m.detectText = detectFailedText
		return reset
	}
	if !res.Success {
		m.detectText = "❌ " + firstNonEmpty(res.Message, res.Error, "Detection failed")
		return reset
	}
	m.detectText = "✅ " + render.DetectStatus(res.Count)
	rec := m.selection.ApplyDetection(res.IDEs)
	if m.picker != nil {
		m.picker.UpdateItems(pickerItems(rec.Options))
		m.picker.SetActive(rec.Active)
	}
	return tea.Batch(reset, m.commitCmd(rec.Change))
}

func (m *Model) handleDetectResetMsg(msg tea.Msg) tea.Cmd {
	reset, ok := msg.(detectResetMsg)
	if !ok || reset.seq != m.detectSeq || m.session.DetectionInFlight() {
		return nil
	}
	m.detectText = detectIdleText
	return nil
}

func (m *Model) handleSystemInfoMsg(msg tea.Msg) tea.Cmd {
	info, ok := msg.(systemInfoMsg)
	if !ok {
		return nil
	}
	if info.err != nil {
		m.systemInfo = render.Transport(render.SystemInfoTitle, info.err)
		return nil
	}
	m.systemInfo = render.SystemInfo(info.res)
	if info.res.Success && info.res.Data != nil && m.preferred == "" && len(m.session.Targets()) == 0 {
		m.selection.Adopt(info.res.Data.EditorType)
	}
	return nil
}

func (m *Model) handleOperationsMsg(msg tea.Msg) tea.Cmd {
	ops, ok := msg.(operationsMsg)
	if !ok {
		return nil
	}
	if ops.err != nil || !ops.res.Success || ops.res.Data == nil {
		// keep the previous grid
		return nil
	}
	actions, rejected := selection.Actions(ops.res.Data.Operations)
	if len(ops.res.Data.Operations) == 0 {
		actions = selection.DefaultActions()
	}
	m.actions = actions
	if len(rejected) > 0 {
		m.setError(fmt.Sprintf("Ignored %d unknown operation(s)", len(rejected)))
	}
	return nil
}

func (m *Model) handleCommitMsg(msg tea.Msg) tea.Cmd {
	cm, ok := msg.(commitMsg)
	if !ok {
		return nil
	}
	c := cm.commit
	if !c.Committed() {
		reason := c.Result.Error
		if c.Err != nil {
			reason = c.Err.Error()
		}
		m.setError(fmt.Sprintf("Failed to switch editor: %s", firstNonEmpty(reason, c.Result.Message, "unknown error")))
		return nil
	}
	if c.Info != nil {
		m.systemInfo = render.SystemInfo(*c.Info)
	} else if c.InfoErr != nil {
		m.systemInfo = render.Transport(render.SystemInfoTitle, c.InfoErr)
	}
	if c.Operations != nil {
		return m.handleOperationsMsg(operationsMsg{res: *c.Operations})
	}
	return nil
}

func (m *Model) handleFirstRunMsg(msg tea.Msg) tea.Cmd {
	fr, ok := msg.(firstRunMsg)
	if !ok {
		return nil
	}
	if fr.err != nil {
		logging.Error(fmt.Errorf("first run check: %w", fr.err))
		return nil
	}
	if !fr.res.Success || fr.res.Data == nil || !fr.res.Data.IsFirstRun {
		return nil
	}
	return m.after(aboutDelay, func(time.Time) tea.Msg { return showAboutMsg{auto: true} })
}

func (m *Model) handleShowAboutMsg(msg tea.Msg) tea.Cmd {
	show, ok := msg.(showAboutMsg)
	if !ok {
		return nil
	}
	cmds := []tea.Cmd{m.openAbout()}
	if show.auto {
		m.autoAbout = true
		cmds = append(cmds, m.markSeenCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleMarkSeenMsg(msg tea.Msg) tea.Cmd {
	seen, ok := msg.(markSeenMsg)
	if !ok {
		return nil
	}
	if seen.err != nil {
		logging.Error(fmt.Errorf("mark first run complete: %w", seen.err))
	} else if !seen.res.Success {
		logging.Error(fmt.Errorf("mark first run complete: %s", firstNonEmpty(seen.res.Error, seen.res.Message)))
	}
	return nil
}

func (m *Model) handleVersionMsg(msg tea.Msg) tea.Cmd {
	v, ok := msg.(versionMsg)
	if !ok {
		return nil
	}
	if v.err != nil || !v.res.Success || v.res.Data == nil {
		return nil
	}
	m.version = render.VersionLabel(v.res.Data.Version)
	return nil
}

func (m *Model) handleLinkOpenedMsg(msg tea.Msg) tea.Cmd {
	link, ok := msg.(linkOpenedMsg)
	if !ok {
		return nil
	}
	if link.err != nil {
		m.setError(fmt.Sprintf("Could not open %s: %v", link.url, link.err))
		return nil
	}
	m.setInfo(fmt.Sprintf("Opened %s", link.url))
	return nil
}

func (m *Model) startBusyTicks() tea.Cmd {
	if m.busy.ticking {
		return nil
	}
	m.busy.ticking = true
	return m.after(m.busy.interval(), func(time.Time) tea.Msg { return busyTickMsg{} })
}

func (m *Model) handleBusyTickMsg(msg tea.Msg) tea.Cmd {
	if !m.busy.Visible() {
		m.busy.ticking = false
		return nil
	}
	m.busy.advance()
	return m.after(m.busy.interval(), func(time.Time) tea.Msg { return busyTickMsg{} })
}
