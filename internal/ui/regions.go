package ui

import (
	"strings"

	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Region names used by the model.
const (
	regionStatus  = "status"
	regionEditor  = "editor"
	regionDetect  = "detect"
	regionSystem  = "system"
	regionActions = "actions"
	regionBusy    = "busy"
	regionResult  = "result"
	regionNotice  = "notice"
	regionPanel   = "panel"
	regionFooter  = "footer"
)

// Binder owns the named display regions. A region is created the first
// time it is asked for and the same instance is returned afterwards, so the
// model resolves its regions once and writes to them directly.
type Binder struct {
	regions map[string]*Region
	order   []string
}

// NewBinder registers names in display order.
func NewBinder(names ...string) *Binder {
	b := &Binder{regions: make(map[string]*Region, len(names))}
	for _, name := range names {
		b.Region(name)
	}
	return b
}

// Region returns the region called name.
func (b *Binder) Region(name string) *Region {
	if r, ok := b.regions[name]; ok {
		return r
	}
	r := &Region{name: name, cachedWidth: -1}
	b.regions[name] = r
	b.order = append(b.order, name)
	return r
}

// Names lists the regions in display order.
func (b *Binder) Names() []string {
	return append([]string(nil), b.order...)
}

// Render joins the visible regions in display order.
func (b *Binder) Render(width int) string {
	parts := make([]string, 0, len(b.order))
	for _, name := range b.order {
		r := b.regions[name]
		if !r.Visible() {
			continue
		}
		parts = append(parts, r.Render(width))
	}
	return strings.Join(parts, "\n")
}

// Region is one named block of the screen. Its rendered form is cached
// until the content or the width changes.
type Region struct {
	name    string
	content string
	version uint64
	hidden  bool

	cached      string
	cachedWidth int
	cachedVer   uint64
	renders     int
}

// Name returns the region name.
func (r *Region) Name() string {
	return r.name
}

// Set replaces the content. Setting the same content is a no-op.
func (r *Region) Set(content string) {
	if content == r.content {
		return
	}
	r.content = content
	r.version++
	events.UI.Region(r.name)
}

// Clear empties the region.
func (r *Region) Clear() {
	r.Set("")
}

// Content returns the unrendered content.
func (r *Region) Content() string {
	return r.content
}

// SetHidden hides the region without discarding its content.
func (r *Region) SetHidden(hidden bool) {
	r.hidden = hidden
}

// Visible reports whether the region contributes to the view.
func (r *Region) Visible() bool {
	return !r.hidden && r.content != ""
}

// Render fits the content to width. Zero width leaves lines untouched.
func (r *Region) Render(width int) string {
	if r.cachedWidth == width && r.cachedVer == r.version && r.renders > 0 {
		return r.cached
	}
	r.cached = fitWidth(r.content, width)
	r.cachedWidth = width
	r.cachedVer = r.version
	r.renders++
	return r.cached
}

// Renders counts how often the content was actually re-rendered.
func (r *Region) Renders() int {
	return r.renders
}

func fitWidth(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = truncate.StringWithTail(line, uint(width), "…")
		}
	}
	return strings.Join(lines, "\n")
}
