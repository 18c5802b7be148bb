package render

import (
	"io"
	"strings"

	"github.com/atomicstack/editor-reset-control/internal/format/table"
	"github.com/fatih/color"
)

const indent = "   "

// Palette colours the parts of a block in text output.
type Palette struct {
	success   *color.Color
	failure   *color.Color
	transport *color.Color
	info      *color.Color
	label     *color.Color
}

// NewPalette returns the headless palette. Colours are forced on or off so
// output does not depend on the global terminal detection.
func NewPalette(enabled bool) Palette {
	p := Palette{
		success:   color.New(color.FgGreen, color.Bold),
		failure:   color.New(color.FgRed, color.Bold),
		transport: color.New(color.FgYellow, color.Bold),
		info:      color.New(color.FgCyan, color.Bold),
		label:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.success, p.failure, p.transport, p.info, p.label} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p Palette) tone(t Tone) *color.Color {
	switch t {
	case ToneSuccess:
		return p.success
	case ToneFailure:
		return p.failure
	case ToneTransport:
		return p.transport
	default:
		return p.info
	}
}

// Text renders f without colour.
func Text(f Fragment) string {
	return NewPalette(false).Text(f)
}

// Write renders f to w.
func Write(w io.Writer, f Fragment, colored bool) error {
	_, err := io.WriteString(w, NewPalette(colored).Text(f))
	return err
}

// Text renders f with the palette. Blocks are separated by an empty line and
// the output ends with a newline unless f is empty.
func (p Palette) Text(f Fragment) string {
	var b strings.Builder
	for i, block := range f.Blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, line := range p.blockLines(block) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (p Palette) blockLines(block Block) []string {
	tone := p.tone(block.Tone)
	lines := []string{tone.Sprint(block.Tone.Icon() + " " + block.Title)}
	rows := Rows(block)
	for i := range rows {
		rows[i][0] = p.label.Sprint(rows[i][0])
	}
	for _, row := range table.Format(rows, nil) {
		lines = append(lines, indent+row)
	}
	return lines
}

// Rows lists the labelled rows of a block in display order: status, data
// lines, then the error.
func Rows(block Block) [][]string {
	var rows [][]string
	if block.Status != "" {
		rows = append(rows, []string{labelStatus + ":", block.Status})
	}
	for _, l := range block.Lines {
		rows = append(rows, []string{l.Label + ":", l.Value})
	}
	if block.Error != "" {
		rows = append(rows, []string{labelError + ":", block.Error})
	}
	return rows
}
