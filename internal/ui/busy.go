package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// busyIndicator is the dispatcher's indicator. Frames advance on
// busyTickMsg while it is visible.
type busyIndicator struct {
	spinner spinner.Spinner
	frame   int
	message string
	visible bool
	ticking bool
}

type busyTickMsg struct{}

func newBusyIndicator() *busyIndicator {
	return &busyIndicator{spinner: spinner.Dot}
}

func (b *busyIndicator) Show(message string) {
	b.visible = true
	b.message = message
	b.frame = 0
}

func (b *busyIndicator) Hide() {
	b.visible = false
	b.message = ""
}

func (b *busyIndicator) Visible() bool {
	return b.visible
}

func (b *busyIndicator) interval() time.Duration {
	if b.spinner.FPS <= 0 {
		return 100 * time.Millisecond
	}
	return b.spinner.FPS
}

func (b *busyIndicator) advance() {
	if len(b.spinner.Frames) == 0 {
		return
	}
	b.frame = (b.frame + 1) % len(b.spinner.Frames)
}

// Text is the indicator line without styling.
func (b *busyIndicator) Text() string {
	if !b.visible {
		return ""
	}
	glyph := ""
	if len(b.spinner.Frames) > 0 {
		glyph = b.spinner.Frames[b.frame%len(b.spinner.Frames)]
	}
	return glyph + " " + b.message
}
