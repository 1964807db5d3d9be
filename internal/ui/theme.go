package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/registry"
	"github.com/litescript/ls-orrery/internal/sim"
)

// palette is the set of styles for one display theme.
type palette struct {
	background lipgloss.TerminalColor
	text       lipgloss.Style
	dim        lipgloss.Style
	accent     lipgloss.Style
	header     lipgloss.Style
	star       lipgloss.Style
	ring       lipgloss.Style
	label      lipgloss.Style
	selected   lipgloss.Style
	warn       lipgloss.Style
	panel      lipgloss.Style
}

func newPalette(theme sim.Theme) palette {
	if theme == sim.ThemeLight {
		bg := lipgloss.Color("#F4F1EA")
		base := lipgloss.NewStyle().Background(bg)
		return palette{
			background: bg,
			text:       base.Foreground(lipgloss.Color("#1F1F1F")),
			dim:        base.Foreground(lipgloss.Color("#8A8A8A")),
			accent:     base.Foreground(lipgloss.Color("#6A1B9A")).Bold(true),
			header:     base.Foreground(lipgloss.Color("#4A148C")).Bold(true),
			star:       base.Foreground(lipgloss.Color("#B0B0B0")),
			ring:       base.Foreground(lipgloss.Color("#C8C8C8")),
			label:      base.Foreground(lipgloss.Color("#3A3A3A")),
			selected:   base.Foreground(lipgloss.Color("#D81B60")).Bold(true),
			warn:       base.Foreground(lipgloss.Color("#C62828")),
			panel: lipgloss.NewStyle().
				Background(bg).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#9E9E9E")).
				BorderBackground(bg).
				Padding(0, 1),
		}
	}

	return palette{
		text:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		star:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		ring:     lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1),
	}
}

// bodyStyle colors a body glyph with its catalog color.
func (p palette) bodyStyle(c registry.Color) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	if p.background != nil {
		s = s.Background(p.background)
	}
	return s
}

// render turns a raster into styled text. Runs of cells with the same
// style are rendered together.
func (p palette) render(r *raster) string {
	bodies := make(map[registry.Color]lipgloss.Style)
	blank := lipgloss.NewStyle()
	if p.background != nil {
		blank = blank.Background(p.background)
	}

	styleOf := func(c cell) lipgloss.Style {
		switch c.kind {
		case cellStar:
			return p.star
		case cellRing:
			return p.ring
		case cellLabel:
			return p.label
		case cellSelected:
			return p.selected
		case cellBody:
			s, ok := bodies[c.color]
			if !ok {
				s = p.bodyStyle(c.color)
				bodies[c.color] = s
			}
			return s
		default:
			return blank
		}
	}

	var b strings.Builder
	for y, row := range r.cells {
		var run strings.Builder
		var runKey cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styleOf(runKey).Render(run.String()))
			run.Reset()
		}
		for x, c := range row {
			key := cell{kind: c.kind, color: c.color}
			if x > 0 && key != runKey {
				flush()
			}
			runKey = key
			run.WriteRune(c.ch)
		}
		flush()
		if y < len(r.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
