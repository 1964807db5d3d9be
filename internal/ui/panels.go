package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/controls"
	"github.com/litescript/ls-orrery/internal/selection"
)

const (
	panelWidth = 36
	barWidth   = 10
	nameWidth  = 8
)

// renderSpeeds draws one slider row per body. The focused row is marked,
// and while editing it shows the text being typed.
func (m Model) renderSpeeds(p palette) string {
	var b strings.Builder
	b.WriteString(p.header.Render("Speeds (rad/tick)"))

	for i, sl := range m.surface.Sliders() {
		b.WriteString("\n")
		marker := "  "
		nameStyle := p.text
		if i == m.sliderIdx {
			marker = p.accent.Render("▸ ")
			nameStyle = p.accent
		}
		b.WriteString(marker)
		b.WriteString(nameStyle.Render(padRight(fmt.Sprintf("%d %s", i+1, sl.Name), nameWidth+2)))

		if m.editing && i == m.sliderIdx {
			b.WriteString(p.selected.Render(" " + m.editBuf + "▏"))
			continue
		}
		b.WriteString(" ")
		b.WriteString(renderBar(p, sl))
		b.WriteString(p.dim.Render(" " + controls.FormatSpeed(sl.Value)))
	}
	return b.String()
}

func renderBar(p palette, sl controls.Slider) string {
	filled := int(sl.Fraction()*barWidth + 0.5)
	return p.accent.Render(strings.Repeat("█", filled)) +
		p.dim.Render(strings.Repeat("░", barWidth-filled))
}

// renderInfo draws the info panel for the selected body. It is empty when
// nothing is selected.
func (m Model) renderInfo(p palette) string {
	sel := m.selection.Selection()
	if !sel.Selected() {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.header.Render("◆ " + sel.Name))
	b.WriteString("\n")
	b.WriteString(p.text.Render(sel.Details()))
	b.WriteString("\n")

	switch m.selection.Phase() {
	case selection.Transitioning:
		tr, _ := m.selection.Transition()
		b.WriteString(p.dim.Render(fmt.Sprintf("flying… %3.0f%%", tr.Progress()*100)))
	case selection.Settled:
		b.WriteString(p.dim.Render("camera settled"))
	}
	b.WriteString("\n")
	b.WriteString(p.dim.Render("[x] close  [c] stop camera"))
	return b.String()
}

// renderSide stacks the speed panel and, when a body is selected, the
// info panel.
func (m Model) renderSide(p palette, height int) string {
	width := panelWidth - 2 // Border
	parts := []string{p.panel.Width(width - 2).Render(m.renderSpeeds(p))}
	if info := m.renderInfo(p); info != "" {
		parts = append(parts, p.panel.Width(width-2).Render(info))
	}
	side := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.NewStyle().Width(panelWidth).MaxHeight(height).Render(side)
}

func padRight(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}
