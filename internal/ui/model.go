package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/backend"
	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/dispatcher"
	"github.com/atomicstack/editor-reset-control/internal/opener"
	"github.com/atomicstack/editor-reset-control/internal/render"
	"github.com/atomicstack/editor-reset-control/internal/selection"
	"github.com/atomicstack/editor-reset-control/internal/state"
	"github.com/atomicstack/editor-reset-control/internal/theme"
	"github.com/atomicstack/editor-reset-control/internal/ui/command"
	uistate "github.com/atomicstack/editor-reset-control/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeMain Mode = iota
	ModePicker
	ModeAbout
)

const (
	appTitle = "Editor Reset Control"

	detectResetDelay = 5 * time.Second
	aboutDelay       = 1500 * time.Millisecond
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// scheduler delivers fn's message after d. Tests replace it to control time.
type scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Options configures NewModel.
type Options struct {
	Gate       *bridge.Gate
	Watcher    *backend.Watcher
	Width      int
	Height     int
	ShowFooter bool
	// Editor is committed once the bridge is ready instead of adopting the
	// bridge's current editor.
	Editor  string
	Links   opener.Links
	Opener  *opener.Opener
	Context context.Context
}

// Model implements the Bubble Tea model for the reset utility.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	mode        Mode

	gate       *bridge.Gate
	backend    *backend.Watcher
	session    *state.Session
	dispatcher *dispatcher.Dispatcher
	selection  *selection.Controller
	bus        *command.Bus
	opener     *opener.Opener
	links      opener.Links
	preferred  string

	readiness       readiness
	readinessDetail string
	startedOnce     bool
	busy            *busyIndicator
	actions         []selection.Action
	result          render.Fragment
	systemInfo      render.Fragment
	detectText      string
	detectSeq       int
	version         string
	autoAbout       bool
	picker          *uistate.List
	errMsg          string
	infoMsg         string

	regions *Binder
	status  *Region
	editor  *Region
	detect  *Region
	system  *Region
	grid    *Region
	busyBar *Region
	results *Region
	notice  *Region
	panel   *Region
	footer  *Region

	filterCursor      cursor.Model
	filterCursorDirty bool

	after    scheduler
	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state.
func NewModel(opts Options) *Model {
	gate := opts.Gate
	if gate == nil {
		gate = bridge.NewGate(nil)
	}
	session := state.NewSession()
	busy := newBusyIndicator()
	d := dispatcher.New(gate, session, busy)
	o := opener.New()
	if opts.Opener != nil {
		o = opts.Opener
	}
	m := &Model{
		showFooter: opts.ShowFooter,
		gate:       gate,
		backend:    opts.Watcher,
		session:    session,
		dispatcher: d,
		selection:  selection.New(session),
		bus:        command.New(opts.Context, d, gate),
		opener:     o,
		links:      opts.Links,
		preferred:  opts.Editor,
		busy:       busy,
		actions:    selection.DefaultActions(),
		detectText: detectIdleText,
		after:      tea.Tick,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.bindRegions()
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	m.refresh()
	return m
}

// bindRegions resolves every display region once.
func (m *Model) bindRegions() {
	m.regions = NewBinder(
		regionStatus, regionEditor, regionDetect, regionSystem, regionActions,
		regionBusy, regionResult, regionNotice, regionPanel, regionFooter,
	)
	m.status = m.regions.Region(regionStatus)
	m.editor = m.regions.Region(regionEditor)
	m.detect = m.regions.Region(regionDetect)
	m.system = m.regions.Region(regionSystem)
	m.grid = m.regions.Region(regionActions)
	m.busyBar = m.regions.Region(regionBusy)
	m.results = m.regions.Region(regionResult)
	m.notice = m.regions.Region(regionNotice)
	m.panel = m.regions.Region(regionPanel)
	m.footer = m.regions.Region(regionFooter)
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if m.mode == ModePicker {
		if cmd := m.updateFilterCursorModel(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.refresh()
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(command.Result{}):    m.handleDispatchResult,
		reflect.TypeOf(systemInfoMsg{}):     m.handleSystemInfoMsg,
		reflect.TypeOf(operationsMsg{}):     m.handleOperationsMsg,
		reflect.TypeOf(commitMsg{}):         m.handleCommitMsg,
		reflect.TypeOf(firstRunMsg{}):       m.handleFirstRunMsg,
		reflect.TypeOf(showAboutMsg{}):      m.handleShowAboutMsg,
		reflect.TypeOf(markSeenMsg{}):       m.handleMarkSeenMsg,
		reflect.TypeOf(versionMsg{}):        m.handleVersionMsg,
		reflect.TypeOf(linkOpenedMsg{}):     m.handleLinkOpenedMsg,
		reflect.TypeOf(detectResetMsg{}):    m.handleDetectResetMsg,
		reflect.TypeOf(busyTickMsg{}):       m.handleBusyTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Busy reports whether a dispatch holds the guard.
func (m *Model) Busy() bool {
	return m.session.Busy()
}

// Mode returns the active screen.
func (m *Model) Mode() Mode {
	return m.mode
}

// Regions exposes the view binder.
func (m *Model) Regions() *Binder {
	return m.regions
}

func (m *Model) setError(message string) {
	m.errMsg = message
	m.infoMsg = ""
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.errMsg = ""
}

func (m *Model) clearNotice() {
	m.errMsg = ""
	m.infoMsg = ""
}
